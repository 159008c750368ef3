package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lcrommet/glpi-insight-backend/internal/adapters/primary/validation"
	"github.com/lcrommet/glpi-insight-backend/internal/core/ports"
)

// SetupHandler drives the first-run wizard. Its routes stay public:
// they are self-gating (admin creation refuses once an admin exists).
type SetupHandler struct {
	setupService ports.SetupService
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

func NewSetupHandler(setupService ports.SetupService, errorHandler *ErrorHandler, logger *slog.Logger) *SetupHandler {
	return &SetupHandler{
		setupService: setupService,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "setup"),
	}
}

func (h *SetupHandler) RegisterRoutes(r chi.Router) {
	r.Get("/status", h.HandleStatus)
	r.Post("/admin", h.HandleCreateAdmin)
	r.Post("/complete", h.HandleComplete)
}

// HandleStatus handles GET /setup/status.
func (h *SetupHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.setupService.Status(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, status)
}

type CreateAdminRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *CreateAdminRequest) Validate() error {
	v := validation.NewValidator()
	v.Required("username", r.Username).
		Required("password", r.Password).
		MinLength("password", r.Password, 8)
	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// HandleCreateAdmin handles POST /setup/admin.
func (h *SetupHandler) HandleCreateAdmin(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[CreateAdminRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	user, err := h.setupService.CreateInitialAdmin(r.Context(), req.Username, req.Password)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("initial admin created", "username", user.Username)
	WriteCreated(w, userResponse(user))
}

// HandleComplete handles POST /setup/complete.
func (h *SetupHandler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	if err := h.setupService.Complete(r.Context()); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, SuccessResponse{Message: "Setup completed"})
}
