package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
)

// Me godoc
// @Summary Current user profile
// @Tags users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} domain.User
// @Failure 401 {object} map[string]string
// @Router /api/users/me [get]
func (h *Handler) Me(c *gin.Context) {
	au := currentUser(c)
	u, err := h.Store.FindUserByID(c.Request.Context(), au.ID)
	if err != nil {
		h.fail(c, "Failed to get user", err)
		return
	}
	if u == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, u)
}

type updateMeReq struct {
	DisplayName *string `json:"displayName"`
	Avatar      *string `json:"avatar"`
	Language    *string `json:"language"`
	Theme       *string `json:"theme"`
}

// UpdateMe applies only the fields present in the request body; a field sent
// with an empty value is applied, a field left out is untouched.
func (h *Handler) UpdateMe(c *gin.Context) {
	var in updateMeReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	au := currentUser(c)

	set := bson.M{}
	if in.DisplayName != nil {
		set["display_name"] = *in.DisplayName
	}
	if in.Avatar != nil {
		set["avatar"] = *in.Avatar
	}
	if in.Language != nil {
		set["language"] = *in.Language
	}
	if in.Theme != nil {
		set["theme"] = *in.Theme
	}
	if err := h.Store.UpdateUser(c.Request.Context(), au.ID, set); err != nil {
		h.fail(c, "Failed to update user", err)
		return
	}

	u, err := h.Store.FindUserByID(c.Request.Context(), au.ID)
	if err != nil || u == nil {
		h.fail(c, "Failed to update user", err)
		return
	}
	c.JSON(http.StatusOK, u)
}
