package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	mw "github.com/lcrommet/glpi-insight-backend/internal/adapters/primary/http/middleware"
	"github.com/lcrommet/glpi-insight-backend/internal/adapters/primary/validation"
	"github.com/lcrommet/glpi-insight-backend/internal/core/domain"
	apperrors "github.com/lcrommet/glpi-insight-backend/internal/core/errors"
	"github.com/lcrommet/glpi-insight-backend/internal/core/ports"
)

// AdminHandler manages application accounts. Mounted behind the
// admin-role middleware.
type AdminHandler struct {
	adminService ports.AdminService
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

func NewAdminHandler(adminService ports.AdminService, errorHandler *ErrorHandler, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "admin"),
	}
}

func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.HandleListUsers)
		r.Post("/", h.HandleCreateUser)
		r.Patch("/{userID}/role", h.HandleUpdateUserRole)
		r.Delete("/{userID}", h.HandleDeleteUser)
	})
}

// HandleListUsers handles GET /admin/users.
func (h *AdminHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.adminService.ListUsers(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, userResponse(u))
	}
	WriteList(w, responses)
}

type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (r *CreateUserRequest) Validate() error {
	v := validation.NewValidator()
	v.Required("username", r.Username).
		Required("password", r.Password).
		MinLength("password", r.Password, 8).
		Required("role", r.Role).
		OneOf("role", r.Role, []string{domain.RoleAdmin, domain.RoleViewer})
	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// HandleCreateUser handles POST /admin/users.
func (h *AdminHandler) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[CreateUserRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	user, err := h.adminService.CreateUser(r.Context(), ports.CreateUserParams{
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("user created", "username", user.Username, "role", user.Role)
	WriteCreated(w, userResponse(user))
}

type UpdateUserRoleRequest struct {
	Role string `json:"role"`
}

func (r *UpdateUserRoleRequest) Validate() error {
	v := validation.NewValidator()
	v.Required("role", r.Role).
		OneOf("role", r.Role, []string{domain.RoleAdmin, domain.RoleViewer})
	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// HandleUpdateUserRole handles PATCH /admin/users/{userID}/role.
func (h *AdminHandler) HandleUpdateUserRole(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userIDParam(w, r)
	if !ok {
		return
	}

	req, err := validation.DecodeAndValidate[UpdateUserRoleRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := h.adminService.UpdateUserRole(r.Context(), userID, req.Role); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	WriteNoContent(w)
}

// HandleDeleteUser handles DELETE /admin/users/{userID}. Admins cannot
// delete their own account.
func (h *AdminHandler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userIDParam(w, r)
	if !ok {
		return
	}

	if claims, ok := mw.GetClaims(r.Context()); ok && claims.UserID == userID {
		h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(nil, "You cannot delete your own account"))
		return
	}

	if err := h.adminService.DeleteUser(r.Context(), userID); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	WriteNoContent(w)
}

func (h *AdminHandler) userIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(err, "Invalid user id"))
		return 0, false
	}
	return userID, true
}
