package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/spilno/spilno-backend/internal/config"
	"github.com/spilno/spilno-backend/internal/identity"
	"github.com/spilno/spilno-backend/internal/sessions"
	"github.com/spilno/spilno-backend/internal/tokens"
	"github.com/spilno/spilno-backend/internal/users"
	"github.com/spilno/spilno-backend/pkg/logger"
	"github.com/spilno/spilno-backend/pkg/metrics"
	"github.com/spilno/spilno-backend/pkg/middleware"
)

// CredentialsRequest is the body of both signup and login.
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthHandler holds dependencies
type AuthHandler struct {
	cfg         *config.Config
	identitySvc *identity.Service
	usersSvc    *users.Service
	sessionsSvc *sessions.Service
}

func NewAuthHandler(cfg *config.Config, id *identity.Service, u *users.Service, s *sessions.Service) *AuthHandler {
	return &AuthHandler{cfg: cfg, identitySvc: id, usersSvc: u, sessionsSvc: s}
}

// Register routes under /api. The token endpoint is the provider-side half of
// the custom-token exchange and is keyed by the web API key, not a bearer token.
func (h *AuthHandler) Register(rg *gin.RouterGroup, ver middleware.Verifier) {
	a := rg.Group("/api")
	a.POST("/signup", h.Signup)
	a.POST("/login", h.Login)
	a.POST("/token", h.ExchangeToken)
	a.POST("/refresh", h.Refresh)
	a.POST("/logout", middleware.AuthMiddleware(ver), h.Logout)
	a.GET("/user", middleware.AuthMiddleware(ver), h.CurrentUser)
}

// Signup creates an account and returns a fresh session token.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required fields"})
		return
	}
	res, err := h.identitySvc.Signup(c.Request.Context(), req.Email, req.Password)
	if err == identity.ErrEmailExists {
		c.JSON(http.StatusBadRequest, gin.H{"message": "An account with this email already exists"})
		return
	}
	if err != nil {
		logger.Errorf("signup error: %v", err)
		metrics.AuthFailures.WithLabelValues("signup").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error creating user"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "User successfully created",
		"token":   res.Token,
		"user":    gin.H{"uid": res.User.UID, "email": res.User.Email},
	})
}

// Login resolves the account and returns a session token. Every failure maps
// to the same 401 body so account existence is not leaked.
func (h *AuthHandler) Login(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required fields"})
		return
	}
	res, err := h.identitySvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		logger.Errorf("login error: %v", err)
		metrics.AuthFailures.WithLabelValues("login").Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   res.Token,
		"user":    gin.H{"uid": res.User.UID, "email": res.User.Email},
	})
}

// Logout revokes every outstanding token of the authenticated user.
func (h *AuthHandler) Logout(c *gin.Context) {
	uid := middleware.SubjectUID(c)
	if err := h.identitySvc.RevokeTokens(c.Request.Context(), uid); err != nil {
		logger.Errorf("logout error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error during logout"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}

// CurrentUser returns the provider record of the authenticated user.
func (h *AuthHandler) CurrentUser(c *gin.Context) {
	uid := middleware.SubjectUID(c)
	u, err := h.identitySvc.CurrentUser(c.Request.Context(), uid)
	if err != nil || u == nil {
		logger.Errorf("fetch user %s: %v", uid, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching user data"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": gin.H{"uid": u.UID, "email": u.Email}})
}

// Refresh swaps a valid refresh token for a fresh session token. The refresh
// session is rotated: the presented token dies, a new one comes back.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "refreshToken is required"})
		return
	}
	sess, err := h.sessionsSvc.ValidateRefresh(c.Request.Context(), req.RefreshToken)
	if err != nil || sess == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}
	u, err := h.usersSvc.GetByUID(c.Request.Context(), sess.UID)
	if err != nil || u == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unknown uid"})
		return
	}
	idToken, err := tokens.GenerateSessionToken(h.cfg, u, h.cfg.Identity.SessionTokenTTL)
	if err != nil {
		logger.Errorf("mint session token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session token"})
		return
	}
	if err := h.sessionsSvc.DeleteRefresh(c.Request.Context(), req.RefreshToken); err != nil {
		logger.Warnf("drop rotated refresh session: %v", err)
	}
	refresh, err := h.sessionsSvc.CreateSession(c.Request.Context(), sess.UID, 7*24*time.Hour)
	if err != nil {
		logger.Errorf("create refresh session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"idToken":      idToken,
		"refreshToken": refresh,
		"expiresIn":    int64(h.cfg.Identity.SessionTokenTTL.Seconds()),
	})
}

// ExchangeToken swaps a verified custom token for a session token plus a
// refresh session. This is the endpoint ExchangeCustomToken posts to.
func (h *AuthHandler) ExchangeToken(c *gin.Context) {
	if h.cfg.Identity.WebAPIKey == "" || c.Query("key") != h.cfg.Identity.WebAPIKey {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid API key"})
		return
	}
	var req struct {
		Token             string `json:"token"`
		ReturnSecureToken bool   `json:"returnSecureToken"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}
	uid, err := tokens.VerifyCustomToken(h.cfg, req.Token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid custom token"})
		return
	}
	u, err := h.usersSvc.GetByUID(c.Request.Context(), uid)
	if err != nil || u == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unknown uid"})
		return
	}
	idToken, err := tokens.GenerateSessionToken(h.cfg, u, h.cfg.Identity.SessionTokenTTL)
	if err != nil {
		logger.Errorf("mint session token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session token"})
		return
	}
	refresh, err := h.sessionsSvc.CreateSession(c.Request.Context(), uid, 7*24*time.Hour)
	if err != nil {
		logger.Errorf("create refresh session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"idToken":      idToken,
		"refreshToken": refresh,
		"expiresIn":    int64(h.cfg.Identity.SessionTokenTTL.Seconds()),
	})
}
