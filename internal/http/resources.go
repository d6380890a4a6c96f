package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tazhibayda/crm-service/internal/repo"
)

// parseID reads the :id path param. A malformed id answers the resource's
// not-found message: an id that cannot exist is indistinguishable from one
// that does not.
func parseID(c *gin.Context, notFoundMsg string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundMsg})
		return primitive.NilObjectID, false
	}
	return id, true
}

// replyErr maps repo.ErrNotFound to the resource's 404 and everything else
// to a logged 500.
func (h *Handler) replyErr(c *gin.Context, err error, notFoundMsg, failMsg string) {
	if errors.Is(err, repo.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundMsg})
		return
	}
	h.fail(c, failMsg, err)
}
