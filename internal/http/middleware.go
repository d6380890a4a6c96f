package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/tazhibayda/crm-service/internal/log"
	"github.com/tazhibayda/crm-service/internal/metrics"
	"github.com/tazhibayda/crm-service/internal/security"
)

const (
	requestIDKey = "X-Request-ID"
	authUserKey  = "authUser"
)

// AuthUser is the identity the guard resolves and attaches to the request.
// Handlers read it, never mutate it.
type AuthUser struct {
	ID    primitive.ObjectID
	Email string
}

func currentUser(c *gin.Context) AuthUser {
	v, _ := c.Get(authUserKey)
	u, _ := v.(AuthUser)
	return u
}

func requestID(c *gin.Context) string { return c.GetString(requestIDKey) }

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDKey)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set(requestIDKey, id)
		c.Next()
	}
}

// Auth is the guard in front of every protected route. It verifies the
// bearer token, then re-fetches the user so a deleted account implicitly
// revokes all its outstanding tokens. Expired and malformed tokens collapse
// into the same 401; the distinction stays in the logs.
func Auth(h *Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		hdr := c.GetHeader("Authorization")
		if !strings.HasPrefix(hdr, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		claims, err := security.ParseAccess(h.JWTSecret, strings.TrimSpace(hdr[len("Bearer "):]))
		if err != nil {
			log.WithDD(c.Request.Context(), log.L).Debug("token rejected",
				zap.Bool("expired", errors.Is(err, jwt.ErrTokenExpired)),
				zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		uid, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		u, err := h.Store.FindUserByID(c.Request.Context(), uid)
		if err != nil {
			log.WithDD(c.Request.Context(), log.L).Error("auth user fetch failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to authenticate"})
			return
		}
		if u == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		}
		c.Set(authUserKey, AuthUser{ID: u.ID, Email: u.Email})
		c.Next()
	}
}

// RateLimit guards the auth endpoints with a per-IP fixed window in Redis.
// Without Redis configured it is a no-op; on Redis errors it fails open.
func RateLimit(h *Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.Redis == nil || h.RateLimitPerMin <= 0 {
			c.Next()
			return
		}
		key := "rl:auth:" + c.ClientIP()
		ok, err := h.Redis.Allow(c.Request.Context(), key, h.RateLimitPerMin, time.Minute)
		if err != nil {
			log.L.Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}
		c.Next()
	}
}

func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.InFlight.Inc()
		start := time.Now()

		c.Next()

		metrics.InFlight.Dec()
		metrics.ReqDuration.WithLabelValues(route, c.Request.Method).
			Observe(time.Since(start).Seconds())
		metrics.RequestsTotal.WithLabelValues(route, c.Request.Method,
			strconv.Itoa(c.Writer.Status())).Inc()
	}
}
