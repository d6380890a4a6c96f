package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AIProxy forwards authenticated requests to the generative-AI upstream.
// Without an upstream configured this is a server configuration error, not
// the caller's.
func (h *Handler) AIProxy(c *gin.Context) {
	if h.AI == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "AI service not configured"})
		return
	}
	h.AI.ServeHTTP(c.Writer, c.Request)
}
