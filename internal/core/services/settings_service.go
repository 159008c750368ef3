package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/lcrommet/glpi-insight-backend/internal/core/domain"
	apperrors "github.com/lcrommet/glpi-insight-backend/internal/core/errors"
	"github.com/lcrommet/glpi-insight-backend/internal/core/ports"
)

// SettingsService reads runtime-tunable settings from the config store.
// Every read tolerates a missing key by falling back to defaults, so a
// fresh install works before any setting was ever saved.
type SettingsService struct {
	store  ports.ConfigStore
	logger *slog.Logger
}

var _ ports.SettingsService = (*SettingsService)(nil)

func NewSettingsService(store ports.ConfigStore, logger *slog.Logger) *SettingsService {
	return &SettingsService{store: store, logger: logger}
}

// LdapSettings returns the stored directory settings, zero-valued (and
// therefore disabled) when none were saved yet.
func (s *SettingsService) LdapSettings(ctx context.Context) (domain.LdapSettings, error) {
	var settings domain.LdapSettings

	raw, err := s.store.Get(ctx, domain.ConfigKeyLdap)
	if err != nil {
		if errors.Is(err, apperrors.ErrConfigKeyNotFound) {
			return settings, nil
		}
		return settings, err
	}

	if err := json.Unmarshal(raw, &settings); err != nil {
		s.logger.Warn("malformed ldap settings, treating directory auth as disabled", "error", err)
		return domain.LdapSettings{}, nil
	}
	return settings, nil
}

// PendingMatcher builds the status matcher, extended with any labels
// configured for the instance.
func (s *SettingsService) PendingMatcher(ctx context.Context) domain.PendingMatcher {
	raw, err := s.store.Get(ctx, domain.ConfigKeyPendingLabels)
	if err != nil {
		if !errors.Is(err, apperrors.ErrConfigKeyNotFound) {
			s.logger.Warn("could not read pending labels, using defaults", "error", err)
		}
		return domain.NewPendingMatcher()
	}

	var extra []string
	if err := json.Unmarshal(raw, &extra); err != nil {
		s.logger.Warn("malformed pending labels, using defaults", "error", err)
		return domain.NewPendingMatcher()
	}
	return domain.NewPendingMatcher(extra...)
}

// SetupCompleted reports whether the first-run wizard was finished.
func (s *SettingsService) SetupCompleted(ctx context.Context) bool {
	raw, err := s.store.Get(ctx, domain.ConfigKeySetupCompleted)
	if err != nil {
		return false
	}

	var completed bool
	if err := json.Unmarshal(raw, &completed); err != nil {
		return false
	}
	return completed
}
