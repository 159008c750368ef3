package services

import (
	"context"
	"encoding/json"

	"github.com/lcrommet/glpi-insight-backend/internal/core/domain"
	apperrors "github.com/lcrommet/glpi-insight-backend/internal/core/errors"
	"github.com/lcrommet/glpi-insight-backend/internal/core/ports"
)

// SetupService drives the first-run wizard: create the initial local
// administrator, then mark setup as completed.
type SetupService struct {
	users    ports.UserRepository
	store    ports.ConfigStore
	settings ports.SettingsService
}

var _ ports.SetupService = (*SetupService)(nil)

func NewSetupService(users ports.UserRepository, store ports.ConfigStore, settings ports.SettingsService) *SetupService {
	return &SetupService{users: users, store: store, settings: settings}
}

// Status reports wizard progress. Exposed without authentication so the
// frontend can route to the wizard on a fresh install.
func (s *SetupService) Status(ctx context.Context) (*ports.SetupStatus, error) {
	admins, err := s.users.CountLocalAdmins(ctx)
	if err != nil {
		return nil, err
	}
	return &ports.SetupStatus{
		Completed:     s.settings.SetupCompleted(ctx),
		HasLocalAdmin: admins > 0,
	}, nil
}

// CreateInitialAdmin creates the first local administrator. Refused as
// soon as one exists.
func (s *SetupService) CreateInitialAdmin(ctx context.Context, username, password string) (*domain.User, error) {
	admins, err := s.users.CountLocalAdmins(ctx)
	if err != nil {
		return nil, err
	}
	if admins > 0 {
		return nil, apperrors.ErrAdminExists
	}

	user, err := domain.NewLocalUser(username, password, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}
	return s.users.Create(ctx, user)
}

// Complete marks the wizard as finished. Requires the initial admin to
// exist; completing twice errors.
func (s *SetupService) Complete(ctx context.Context) error {
	if s.settings.SetupCompleted(ctx) {
		return apperrors.ErrSetupAlreadyDone
	}

	admins, err := s.users.CountLocalAdmins(ctx)
	if err != nil {
		return err
	}
	if admins == 0 {
		return apperrors.ErrSetupRequired
	}

	raw, err := json.Marshal(true)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, domain.ConfigKeySetupCompleted, raw)
}
