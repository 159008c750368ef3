package services_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcrommet/glpi-insight-backend/internal/core/domain"
	apperrors "github.com/lcrommet/glpi-insight-backend/internal/core/errors"
	"github.com/lcrommet/glpi-insight-backend/internal/core/mocks"
	"github.com/lcrommet/glpi-insight-backend/internal/core/services"
)

func TestSettingsService_LdapSettings(t *testing.T) {
	ctx := context.Background()

	t.Run("missing key means disabled", func(t *testing.T) {
		mockStore := mocks.NewMockConfigStore()
		svc := services.NewSettingsService(mockStore, testLogger())

		mockStore.On("Get", ctx, domain.ConfigKeyLdap).Return(nil, apperrors.ErrConfigKeyNotFound)

		settings, err := svc.LdapSettings(ctx)
		require.NoError(t, err)
		assert.False(t, settings.Enabled)
	})

	t.Run("stored settings decode", func(t *testing.T) {
		mockStore := mocks.NewMockConfigStore()
		svc := services.NewSettingsService(mockStore, testLogger())

		raw := json.RawMessage(`{"enabled":true,"type":"ad","host":"dc01.corp.local","groups_enabled":true,"admin_groups":["cn=admins"]}`)
		mockStore.On("Get", ctx, domain.ConfigKeyLdap).Return(raw, nil)

		settings, err := svc.LdapSettings(ctx)
		require.NoError(t, err)
		assert.True(t, settings.Enabled)
		assert.Equal(t, "dc01.corp.local", settings.Host)
		assert.Equal(t, []string{"cn=admins"}, settings.AdminGroups)
	})
}

func TestSettingsService_PendingMatcher(t *testing.T) {
	ctx := context.Background()

	t.Run("extends defaults with configured labels", func(t *testing.T) {
		mockStore := mocks.NewMockConfigStore()
		svc := services.NewSettingsService(mockStore, testLogger())

		mockStore.On("Get", ctx, domain.ConfigKeyPendingLabels).Return(json.RawMessage(`["gelé"]`), nil)

		matcher := svc.PendingMatcher(ctx)
		assert.True(t, matcher.IsPending("Gelé"))
		assert.True(t, matcher.IsPending("en attente"))
	})

	t.Run("falls back to defaults on missing key", func(t *testing.T) {
		mockStore := mocks.NewMockConfigStore()
		svc := services.NewSettingsService(mockStore, testLogger())

		mockStore.On("Get", ctx, domain.ConfigKeyPendingLabels).Return(nil, apperrors.ErrConfigKeyNotFound)

		matcher := svc.PendingMatcher(ctx)
		assert.True(t, matcher.IsPending("pending"))
	})
}

func TestSettingsService_SetupCompleted(t *testing.T) {
	ctx := context.Background()

	mockStore := mocks.NewMockConfigStore()
	svc := services.NewSettingsService(mockStore, testLogger())

	mockStore.On("Get", ctx, domain.ConfigKeySetupCompleted).Return(json.RawMessage(`true`), nil)
	assert.True(t, svc.SetupCompleted(ctx))
}
