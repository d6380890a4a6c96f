package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/tazhibayda/crm-service/internal/domain"
)

const customerNotFound = "Customer not found"

// ListCustomers godoc
// @Summary List customers
// @Tags customers
// @Security BearerAuth
// @Produce json
// @Param search query string false "case-insensitive substring over name/company/email"
// @Success 200 {array} domain.Customer
// @Router /api/customers [get]
func (h *Handler) ListCustomers(c *gin.Context) {
	au := currentUser(c)
	items, err := h.Store.ListCustomers(c.Request.Context(), au.ID)
	if err != nil {
		h.fail(c, "Failed to list customers", err)
		return
	}
	// free-text search stays in-process: the store only filters on equality
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		lower := strings.ToLower(search)
		filtered := make([]domain.Customer, 0, len(items))
		for _, cu := range items {
			if strings.Contains(strings.ToLower(cu.Name), lower) ||
				strings.Contains(strings.ToLower(cu.Company), lower) ||
				(cu.Email != "" && strings.Contains(strings.ToLower(cu.Email), lower)) {
				filtered = append(filtered, cu)
			}
		}
		items = filtered
	}
	c.JSON(http.StatusOK, items)
}

type createCustomerReq struct {
	Name     string   `json:"name"`
	Company  string   `json:"company"`
	Role     string   `json:"role"`
	Industry string   `json:"industry"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone"`
	Tags     []string `json:"tags"`
}

// CreateCustomer godoc
// @Summary Create a customer
// @Tags customers
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body createCustomerReq true "customer"
// @Success 201 {object} domain.Customer
// @Failure 400 {object} map[string]string
// @Router /api/customers [post]
func (h *Handler) CreateCustomer(c *gin.Context) {
	var in createCustomerReq
	if err := c.ShouldBindJSON(&in); err != nil || in.Name == "" || in.Company == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and company required"})
		return
	}
	au := currentUser(c)
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}
	created, err := h.Store.CreateCustomer(c.Request.Context(), &domain.Customer{
		OwnerID:  au.ID,
		Name:     in.Name,
		Company:  in.Company,
		Role:     in.Role,
		Industry: in.Industry,
		Email:    in.Email,
		Phone:    in.Phone,
		Tags:     tags,
	})
	if err != nil {
		h.fail(c, "Failed to create customer", err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) GetCustomer(c *gin.Context) {
	id, ok := parseID(c, customerNotFound)
	if !ok {
		return
	}
	au := currentUser(c)
	cu, err := h.Store.GetCustomer(c.Request.Context(), au.ID, id)
	if err != nil {
		h.replyErr(c, err, customerNotFound, "Failed to get customer")
		return
	}
	c.JSON(http.StatusOK, cu)
}

type patchCustomerReq struct {
	Name     *string   `json:"name"`
	Company  *string   `json:"company"`
	Role     *string   `json:"role"`
	Industry *string   `json:"industry"`
	Email    *string   `json:"email"`
	Phone    *string   `json:"phone"`
	Tags     *[]string `json:"tags"`
}

// PatchCustomer applies partial updates: nil pointer means untouched, a
// present empty value (e.g. tags: []) is applied.
func (h *Handler) PatchCustomer(c *gin.Context) {
	id, ok := parseID(c, customerNotFound)
	if !ok {
		return
	}
	var in patchCustomerReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	set := bson.M{}
	if in.Name != nil {
		set["name"] = *in.Name
	}
	if in.Company != nil {
		set["company"] = *in.Company
	}
	if in.Role != nil {
		set["role"] = *in.Role
	}
	if in.Industry != nil {
		set["industry"] = *in.Industry
	}
	if in.Email != nil {
		set["email"] = *in.Email
	}
	if in.Phone != nil {
		set["phone"] = *in.Phone
	}
	if in.Tags != nil {
		set["tags"] = *in.Tags
	}

	au := currentUser(c)
	cu, err := h.Store.PatchCustomer(c.Request.Context(), au.ID, id, set)
	if err != nil {
		h.replyErr(c, err, customerNotFound, "Failed to update customer")
		return
	}
	c.JSON(http.StatusOK, cu)
}

func (h *Handler) DeleteCustomer(c *gin.Context) {
	id, ok := parseID(c, customerNotFound)
	if !ok {
		return
	}
	au := currentUser(c)
	if err := h.Store.DeleteCustomer(c.Request.Context(), au.ID, id); err != nil {
		h.replyErr(c, err, customerNotFound, "Failed to delete customer")
		return
	}
	c.Status(http.StatusNoContent)
}
