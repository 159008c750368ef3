package services

import (
	"context"
	"errors"

	"github.com/lcrommet/glpi-insight-backend/internal/core/domain"
	apperrors "github.com/lcrommet/glpi-insight-backend/internal/core/errors"
	"github.com/lcrommet/glpi-insight-backend/internal/core/ports"
)

// AdminService manages application accounts.
type AdminService struct {
	users ports.UserRepository
}

var _ ports.AdminService = (*AdminService)(nil)

func NewAdminService(users ports.UserRepository) *AdminService {
	return &AdminService{users: users}
}

func (s *AdminService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

// CreateUser creates a local account. LDAP accounts appear on their own
// at first directory login.
func (s *AdminService) CreateUser(ctx context.Context, params ports.CreateUserParams) (*domain.User, error) {
	_, err := s.users.GetByUsername(ctx, params.Username)
	if err == nil {
		return nil, apperrors.ErrUserExists
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, err
	}

	user, err := domain.NewLocalUser(params.Username, params.Password, params.Role)
	if err != nil {
		return nil, err
	}
	return s.users.Create(ctx, user)
}

func (s *AdminService) UpdateUserRole(ctx context.Context, id int64, role string) error {
	if !domain.ValidRole(role) {
		return apperrors.ErrInvalidRole
	}
	if _, err := s.users.GetByID(ctx, id); err != nil {
		return err
	}
	return s.users.UpdateRole(ctx, id, role)
}

func (s *AdminService) DeleteUser(ctx context.Context, id int64) error {
	if _, err := s.users.GetByID(ctx, id); err != nil {
		return err
	}
	return s.users.Delete(ctx, id)
}
