package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tazhibayda/crm-service/internal/domain"
)

const interactionNotFound = "Interaction not found"

func (h *Handler) ListInteractions(c *gin.Context) {
	au := currentUser(c)
	items, err := h.Store.ListInteractions(c.Request.Context(), au.ID, c.Query("customerId"))
	if err != nil {
		h.fail(c, "Failed to list interactions", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

type createInteractionReq struct {
	CustomerID      string         `json:"customerId"`
	Date            string         `json:"date"`
	RawInput        string         `json:"rawInput"`
	CustomerProfile map[string]any `json:"customerProfile"`
	Intelligence    map[string]any `json:"intelligence"`
	Metrics         map[string]any `json:"metrics"`
	Suggestions     []string       `json:"suggestions"`
}

// CreateInteraction godoc
// @Summary Record an analyzed interaction
// @Tags interactions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body createInteractionReq true "interaction"
// @Success 201 {object} domain.Interaction
// @Failure 400 {object} map[string]string
// @Router /api/interactions [post]
func (h *Handler) CreateInteraction(c *gin.Context) {
	var in createInteractionReq
	if err := c.ShouldBindJSON(&in); err != nil ||
		in.CustomerProfile == nil || in.Intelligence == nil || in.Metrics == nil || in.Suggestions == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "customerProfile, intelligence, metrics, suggestions required"})
		return
	}
	au := currentUser(c)
	date := in.Date
	if date == "" {
		date = time.Now().UTC().Format(time.RFC3339)
	}
	created, err := h.Store.CreateInteraction(c.Request.Context(), &domain.Interaction{
		OwnerID:         au.ID,
		CustomerID:      in.CustomerID,
		Date:            date,
		RawInput:        in.RawInput,
		CustomerProfile: in.CustomerProfile,
		Intelligence:    in.Intelligence,
		Metrics:         in.Metrics,
		Suggestions:     in.Suggestions,
	})
	if err != nil {
		h.fail(c, "Failed to create interaction", err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) GetInteraction(c *gin.Context) {
	id, ok := parseID(c, interactionNotFound)
	if !ok {
		return
	}
	au := currentUser(c)
	it, err := h.Store.GetInteraction(c.Request.Context(), au.ID, id)
	if err != nil {
		h.replyErr(c, err, interactionNotFound, "Failed to get interaction")
		return
	}
	c.JSON(http.StatusOK, it)
}

func (h *Handler) DeleteInteraction(c *gin.Context) {
	id, ok := parseID(c, interactionNotFound)
	if !ok {
		return
	}
	au := currentUser(c)
	if err := h.Store.DeleteInteraction(c.Request.Context(), au.ID, id); err != nil {
		h.replyErr(c, err, interactionNotFound, "Failed to delete interaction")
		return
	}
	c.Status(http.StatusNoContent)
}
