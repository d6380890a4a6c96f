package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tazhibayda/crm-service/internal/domain"
	"github.com/tazhibayda/crm-service/internal/repo"
)

const coursePlanNotFound = "Course plan not found"

func (h *Handler) ListCoursePlans(c *gin.Context) {
	au := currentUser(c)
	items, err := h.Store.ListCoursePlans(c.Request.Context(), au.ID, c.Query("customerId"))
	if err != nil {
		h.fail(c, "Failed to list course plans", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

type createCoursePlanReq struct {
	CustomerID string                `json:"customerId"`
	Title      string                `json:"title"`
	Objective  string                `json:"objective"`
	Modules    []domain.CourseModule `json:"modules"`
	Resources  []string              `json:"resources"`
}

// CreateCoursePlan godoc
// @Summary Create a course plan for a customer
// @Tags course-plans
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body createCoursePlanReq true "course plan"
// @Success 201 {object} domain.CoursePlan
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/course-plans [post]
func (h *Handler) CreateCoursePlan(c *gin.Context) {
	var in createCoursePlanReq
	if err := c.ShouldBindJSON(&in); err != nil || in.CustomerID == "" || in.Title == "" || in.Objective == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "customerId, title, objective required"})
		return
	}
	au := currentUser(c)

	// the referenced customer must exist and belong to the caller; any
	// failure reads as the customer not existing
	cid, err := primitive.ObjectIDFromHex(in.CustomerID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": customerNotFound})
		return
	}
	if _, err := h.Store.GetCustomer(c.Request.Context(), au.ID, cid); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": customerNotFound})
			return
		}
		h.fail(c, "Failed to create course plan", err)
		return
	}

	modules := in.Modules
	if modules == nil {
		modules = []domain.CourseModule{}
	}
	resources := in.Resources
	if resources == nil {
		resources = []string{}
	}
	created, err := h.Store.CreateCoursePlan(c.Request.Context(), &domain.CoursePlan{
		OwnerID:    au.ID,
		CustomerID: in.CustomerID,
		Title:      in.Title,
		Objective:  in.Objective,
		Modules:    modules,
		Resources:  resources,
	})
	if err != nil {
		h.fail(c, "Failed to create course plan", err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) GetCoursePlan(c *gin.Context) {
	id, ok := parseID(c, coursePlanNotFound)
	if !ok {
		return
	}
	au := currentUser(c)
	cp, err := h.Store.GetCoursePlan(c.Request.Context(), au.ID, id)
	if err != nil {
		h.replyErr(c, err, coursePlanNotFound, "Failed to get course plan")
		return
	}
	c.JSON(http.StatusOK, cp)
}

func (h *Handler) DeleteCoursePlan(c *gin.Context) {
	id, ok := parseID(c, coursePlanNotFound)
	if !ok {
		return
	}
	au := currentUser(c)
	if err := h.Store.DeleteCoursePlan(c.Request.Context(), au.ID, id); err != nil {
		h.replyErr(c, err, coursePlanNotFound, "Failed to delete course plan")
		return
	}
	c.Status(http.StatusNoContent)
}
