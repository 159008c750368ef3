package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/lcrommet/glpi-insight-backend/internal/core/domain"
	apperrors "github.com/lcrommet/glpi-insight-backend/internal/core/errors"
	"github.com/lcrommet/glpi-insight-backend/internal/core/ports"
)

// AuthService implements unified authentication: the directory is tried
// first when enabled, with automatic fallback to local accounts.
type AuthService struct {
	users     ports.UserRepository
	directory ports.DirectoryAuthenticator
	settings  ports.SettingsService
	logger    *slog.Logger
}

var _ ports.AuthService = (*AuthService)(nil)

func NewAuthService(
	users ports.UserRepository,
	directory ports.DirectoryAuthenticator,
	settings ports.SettingsService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{users: users, directory: directory, settings: settings, logger: logger}
}

// Login authenticates a user. Refused entirely until the first-run setup
// was completed.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.AuthResult, error) {
	if username == "" {
		return nil, apperrors.ErrUsernameRequired
	}
	if password == "" {
		return nil, apperrors.ErrPasswordRequired
	}

	if !s.settings.SetupCompleted(ctx) {
		return nil, apperrors.ErrSetupRequired
	}

	ldapSettings, err := s.settings.LdapSettings(ctx)
	if err != nil {
		return nil, err
	}

	if ldapSettings.Enabled {
		user, err := s.loginDirectory(ctx, ldapSettings, username, password)
		if err == nil {
			return &ports.AuthResult{User: user}, nil
		}
		if errors.Is(err, apperrors.ErrNoAuthorizedGroup) {
			// Groups explicitly refused access; do not fall back.
			return nil, err
		}
		s.logger.Warn("directory authentication failed, trying local account",
			"username", username,
			"error", err,
		)
	}

	user, err := s.loginLocal(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{User: user}, nil
}

func (s *AuthService) loginDirectory(ctx context.Context, settings domain.LdapSettings, username, password string) (*domain.User, error) {
	dirUser, err := s.directory.Authenticate(ctx, settings, username, password)
	if err != nil {
		return nil, err
	}

	role, ok := domain.ResolveRoleFromGroups(dirUser.Groups, settings)
	if !ok {
		return nil, apperrors.ErrNoAuthorizedGroup
	}

	// Role is recomputed from groups on every login.
	return s.users.UpsertLdapUser(ctx, username, dirUser.DN, role)
}

func (s *AuthService) loginLocal(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if user.AuthType != domain.AuthTypeLocal || !user.CheckPassword(password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := s.users.TouchLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn("could not record login time", "user_id", user.ID, "error", err)
	}
	return user, nil
}

// LdapEnabled reports whether directory auth is configured and on.
func (s *AuthService) LdapEnabled(ctx context.Context) bool {
	settings, err := s.settings.LdapSettings(ctx)
	if err != nil {
		return false
	}
	return settings.Enabled
}

// GetUser loads an account by id.
func (s *AuthService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}
