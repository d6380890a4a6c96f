package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tazhibayda/crm-service/internal/ai"
	"github.com/tazhibayda/crm-service/internal/domain"
	"github.com/tazhibayda/crm-service/internal/log"
	"github.com/tazhibayda/crm-service/internal/metrics"
	"github.com/tazhibayda/crm-service/internal/oauth"
	"github.com/tazhibayda/crm-service/internal/queue"
	"github.com/tazhibayda/crm-service/internal/repo"
	"github.com/tazhibayda/crm-service/internal/security"
)

type Handler struct {
	Store           *repo.Store
	JWTSecret       string
	Google          *oauth.Verifier
	Redis           *repo.Redis
	RateLimitPerMin int
	Events          queue.Publisher
	AI              *ai.Proxy
}

func NewHandler(store *repo.Store, jwtSecret string, google *oauth.Verifier, rds *repo.Redis, rlPerMin int, pub queue.Publisher, aiProxy *ai.Proxy) *Handler {
	return &Handler{
		Store:           store,
		JWTSecret:       jwtSecret,
		Google:          google,
		Redis:           rds,
		RateLimitPerMin: rlPerMin,
		Events:          pub,
		AI:              aiProxy,
	}
}

// fail logs the underlying cause server-side and answers with a generic 500.
func (h *Handler) fail(c *gin.Context, msg string, err error) {
	log.WithDD(c.Request.Context(), log.L).Error(msg, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

// publish emits an event off the request goroutine. The request context is
// detached from cancellation (trace linkage stays) so the broker round trip
// survives the handler returning; failures are logged and counted, never
// silently dropped.
func (h *Handler) publish(ctx context.Context, key string, event any, reqID string) {
	ctx = context.WithoutCancel(ctx)
	go func() {
		outcome := "ok"
		if err := h.Events.Publish(ctx, queue.Exchange, key, event, reqID); err != nil {
			outcome = "error"
			log.WithDD(ctx, log.L).Warn("event publish failed",
				zap.String("key", key), zap.Error(err))
		}
		metrics.EventsPublished.WithLabelValues(key, outcome).Inc()
	}()
}

type authResp struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

func (h *Handler) issueSession(c *gin.Context, u *domain.User, status int) {
	tok, err := security.MakeAccess(h.JWTSecret, u.ID.Hex(), u.Email, security.SessionTTL)
	if err != nil {
		h.fail(c, "Failed to issue token", err)
		return
	}
	c.JSON(status, authResp{User: u, Token: tok})
}

type registerReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register godoc
// @Summary Register with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body registerReq true "credentials"
// @Success 201 {object} authResp
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var in registerReq
	if err := c.ShouldBindJSON(&in); err != nil || in.Email == "" || in.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password required"})
		return
	}
	existing, err := h.Store.FindUserByEmail(c.Request.Context(), in.Email)
	if err != nil {
		h.fail(c, "Registration failed", err)
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}
	hash, err := security.HashPassword(in.Password)
	if err != nil {
		h.fail(c, "Registration failed", err)
		return
	}
	u := &domain.User{
		Email:        in.Email,
		PasswordHash: hash,
		Language:     domain.DefaultLanguage,
		Theme:        domain.DefaultTheme,
		Provider:     domain.ProviderEmail,
	}
	if err := h.Store.CreateUser(c.Request.Context(), u); err != nil {
		// unique index closes the check-then-insert race
		if repo.IsDup(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
			return
		}
		h.fail(c, "Registration failed", err)
		return
	}

	h.publish(c.Request.Context(), queue.KeyUserRegistered,
		queue.UserRegistered{UserID: u.ID.Hex(), Email: u.Email, Provider: u.Provider},
		requestID(c))

	h.issueSession(c, u, http.StatusCreated)
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login godoc
// @Summary Login with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body loginReq true "credentials"
// @Success 200 {object} authResp
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var in loginReq
	if err := c.ShouldBindJSON(&in); err != nil || in.Email == "" || in.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password required"})
		return
	}
	u, err := h.Store.FindUserByEmail(c.Request.Context(), in.Email)
	if err != nil {
		h.fail(c, "Login failed", err)
		return
	}
	// one message for unknown email and wrong password: no account enumeration
	if u == nil || !security.CheckPassword(u.PasswordHash, in.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	h.publish(c.Request.Context(), queue.KeyUserLoggedIn,
		queue.UserLoggedIn{UserID: u.ID.Hex(), Email: u.Email, Provider: u.Provider},
		requestID(c))

	h.issueSession(c, u, http.StatusOK)
}

type googleReq struct {
	IDToken string `json:"idToken"`
}

// GoogleLogin godoc
// @Summary Login or sign up with a Google ID token
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body googleReq true "Google ID token"
// @Success 200 {object} authResp
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/auth/google [post]
func (h *Handler) GoogleLogin(c *gin.Context) {
	var in googleReq
	if err := c.ShouldBindJSON(&in); err != nil || in.IDToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "idToken required"})
		return
	}
	p, err := h.Google.Verify(c.Request.Context(), in.IDToken)
	if err != nil {
		if errors.Is(err, oauth.ErrNotConfigured) {
			h.fail(c, "Google sign-in not configured", err)
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid Google token"})
		return
	}

	displayName := p.Name
	if displayName == "" {
		displayName = strings.SplitN(p.Email, "@", 2)[0]
	}

	u, err := h.Store.FindUserByEmail(c.Request.Context(), p.Email)
	if err != nil {
		h.fail(c, "Google login failed", err)
		return
	}
	createdNow := false
	if u == nil {
		nu := &domain.User{
			Email:       p.Email,
			DisplayName: displayName,
			Language:    domain.DefaultLanguage,
			Theme:       domain.DefaultTheme,
			Provider:    domain.ProviderGoogle,
		}
		if p.Picture != "" {
			pic := p.Picture
			nu.Avatar = &pic
		}
		switch err := h.Store.CreateUser(c.Request.Context(), nu); {
		case err == nil:
			u = nu
			createdNow = true
			h.publish(c.Request.Context(), queue.KeyUserRegistered,
				queue.UserRegistered{UserID: u.ID.Hex(), Email: u.Email, Provider: u.Provider},
				requestID(c))
		case repo.IsDup(err):
			// lost a concurrent first-login race; the account exists now
			u, err = h.Store.FindUserByEmail(c.Request.Context(), p.Email)
			if err != nil || u == nil {
				h.fail(c, "Google login failed", err)
				return
			}
		default:
			h.fail(c, "Google login failed", err)
			return
		}
	}
	if !createdNow {
		// refresh only fields the user never customized
		set := map[string]any{}
		if u.DisplayName == "" && displayName != "" {
			set["display_name"] = displayName
		}
		if (u.Avatar == nil || *u.Avatar == "") && p.Picture != "" {
			set["avatar"] = p.Picture
		}
		if err := h.Store.UpdateUser(c.Request.Context(), u.ID, set); err != nil {
			h.fail(c, "Google login failed", err)
			return
		}
	}

	// re-read so the response reflects store state, not transient input
	u, err = h.Store.FindUserByID(c.Request.Context(), u.ID)
	if err != nil || u == nil {
		h.fail(c, "Google login failed", err)
		return
	}

	h.publish(c.Request.Context(), queue.KeyUserLoggedIn,
		queue.UserLoggedIn{UserID: u.ID.Hex(), Email: u.Email, Provider: u.Provider},
		requestID(c))

	h.issueSession(c, u, http.StatusOK)
}

// Health godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} map[string]bool
// @Router /api/health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
