package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	mw "github.com/lcrommet/glpi-insight-backend/internal/adapters/primary/http/middleware"
	"github.com/lcrommet/glpi-insight-backend/internal/adapters/primary/validation"
	"github.com/lcrommet/glpi-insight-backend/internal/auth"
	"github.com/lcrommet/glpi-insight-backend/internal/core/domain"
	"github.com/lcrommet/glpi-insight-backend/internal/core/ports"
)

// AuthHandler handles login and token introspection.
type AuthHandler struct {
	authService  ports.AuthService
	tokenManager *auth.TokenManager
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

func NewAuthHandler(authService ports.AuthService, tokenManager *auth.TokenManager, errorHandler *ErrorHandler, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		tokenManager: tokenManager,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "auth"),
	}
}

// RegisterRoutes registers the public auth routes.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/login", h.HandleLogin)
	r.Get("/ldap-enabled", h.HandleLdapEnabled)
}

// RegisterProtectedRoutes registers routes requiring a valid token.
func (h *AuthHandler) RegisterProtectedRoutes(r chi.Router) {
	r.Get("/me", h.HandleMe)
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	v := validation.NewValidator()
	v.Required("username", r.Username).
		Required("password", r.Password)
	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// UserResponse is the account payload of login and /me.
type UserResponse struct {
	ID        int64      `json:"id"`
	Username  string     `json:"username"`
	Role      string     `json:"role"`
	AuthType  string     `json:"auth_type"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

func userResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role,
		AuthType:  u.AuthType,
		LastLogin: u.LastLogin,
	}
}

// HandleLogin handles POST /auth/login.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[LoginRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	result, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	token, err := h.tokenManager.GenerateToken(result.User)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, LoginResponse{
		Token: token,
		User:  userResponse(result.User),
	})
}

// HandleLdapEnabled handles GET /auth/ldap-enabled.
func (h *AuthHandler) HandleLdapEnabled(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]bool{
		"ldap_enabled": h.authService.LdapEnabled(r.Context()),
	})
}

// HandleMe handles GET /auth/me.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := mw.GetClaims(r.Context())
	if !ok {
		WriteJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error: "Not authorized",
			Code:  "UNAUTHORIZED",
		})
		return
	}

	user, err := h.authService.GetUser(r.Context(), claims.UserID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, userResponse(user))
}
