package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/tazhibayda/crm-service/internal/domain"
)

const scheduleNotFound = "Schedule not found"

func (h *Handler) ListSchedules(c *gin.Context) {
	au := currentUser(c)
	items, err := h.Store.ListSchedules(c.Request.Context(), au.ID, c.Query("customerId"))
	if err != nil {
		h.fail(c, "Failed to list schedules", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

type createScheduleReq struct {
	CustomerID  string `json:"customerId"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

func (h *Handler) CreateSchedule(c *gin.Context) {
	var in createScheduleReq
	if err := c.ShouldBindJSON(&in); err != nil || in.Title == "" || in.Date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and date required"})
		return
	}
	au := currentUser(c)
	created, err := h.Store.CreateSchedule(c.Request.Context(), &domain.Schedule{
		OwnerID:     au.ID,
		CustomerID:  in.CustomerID,
		Title:       in.Title,
		Date:        in.Date,
		Time:        in.Time,
		Description: in.Description,
		Status:      domain.NormalizeScheduleStatus(in.Status),
	})
	if err != nil {
		h.fail(c, "Failed to create schedule", err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) GetSchedule(c *gin.Context) {
	id, ok := parseID(c, scheduleNotFound)
	if !ok {
		return
	}
	au := currentUser(c)
	sc, err := h.Store.GetSchedule(c.Request.Context(), au.ID, id)
	if err != nil {
		h.replyErr(c, err, scheduleNotFound, "Failed to get schedule")
		return
	}
	c.JSON(http.StatusOK, sc)
}

type patchScheduleReq struct {
	CustomerID  *string `json:"customerId"`
	Title       *string `json:"title"`
	Date        *string `json:"date"`
	Time        *string `json:"time"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

func (h *Handler) PatchSchedule(c *gin.Context) {
	id, ok := parseID(c, scheduleNotFound)
	if !ok {
		return
	}
	var in patchScheduleReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	set := bson.M{}
	if in.CustomerID != nil {
		set["customer_id"] = *in.CustomerID
	}
	if in.Title != nil {
		set["title"] = *in.Title
	}
	if in.Date != nil {
		set["date"] = *in.Date
	}
	if in.Time != nil {
		set["time"] = *in.Time
	}
	if in.Description != nil {
		set["description"] = *in.Description
	}
	if in.Status != nil {
		set["status"] = domain.NormalizeScheduleStatus(*in.Status)
	}

	au := currentUser(c)
	sc, err := h.Store.PatchSchedule(c.Request.Context(), au.ID, id, set)
	if err != nil {
		h.replyErr(c, err, scheduleNotFound, "Failed to update schedule")
		return
	}
	c.JSON(http.StatusOK, sc)
}

func (h *Handler) DeleteSchedule(c *gin.Context) {
	id, ok := parseID(c, scheduleNotFound)
	if !ok {
		return
	}
	au := currentUser(c)
	if err := h.Store.DeleteSchedule(c.Request.Context(), au.ID, id); err != nil {
		h.replyErr(c, err, scheduleNotFound, "Failed to delete schedule")
		return
	}
	c.Status(http.StatusNoContent)
}
