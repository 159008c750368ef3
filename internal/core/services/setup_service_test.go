package services_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lcrommet/glpi-insight-backend/internal/core/domain"
	apperrors "github.com/lcrommet/glpi-insight-backend/internal/core/errors"
	"github.com/lcrommet/glpi-insight-backend/internal/core/mocks"
	"github.com/lcrommet/glpi-insight-backend/internal/core/services"
)

func TestSetupService_Status(t *testing.T) {
	ctx := context.Background()

	mockUsers := mocks.NewMockUserRepository()
	mockStore := mocks.NewMockConfigStore()
	mockSettings := mocks.NewMockSettingsService()

	svc := services.NewSetupService(mockUsers, mockStore, mockSettings)

	mockUsers.On("CountLocalAdmins", ctx).Return(1, nil)
	mockSettings.On("SetupCompleted", ctx).Return(false)

	status, err := svc.Status(ctx)

	require.NoError(t, err)
	assert.False(t, status.Completed)
	assert.True(t, status.HasLocalAdmin)
}

func TestSetupService_CreateInitialAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the first admin", func(t *testing.T) {
		mockUsers := mocks.NewMockUserRepository()
		svc := services.NewSetupService(mockUsers, mocks.NewMockConfigStore(), mocks.NewMockSettingsService())

		mockUsers.On("CountLocalAdmins", ctx).Return(0, nil)
		mockUsers.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
			return u.Username == "admin" && u.Role == domain.RoleAdmin && u.AuthType == domain.AuthTypeLocal && u.PasswordHash != ""
		})).Return(&domain.User{ID: 1, Username: "admin", Role: domain.RoleAdmin}, nil)

		user, err := svc.CreateInitialAdmin(ctx, "admin", "s3cret")

		require.NoError(t, err)
		assert.Equal(t, int64(1), user.ID)
		mockUsers.AssertExpectations(t)
	})

	t.Run("refused once an admin exists", func(t *testing.T) {
		mockUsers := mocks.NewMockUserRepository()
		svc := services.NewSetupService(mockUsers, mocks.NewMockConfigStore(), mocks.NewMockSettingsService())

		mockUsers.On("CountLocalAdmins", ctx).Return(1, nil)

		_, err := svc.CreateInitialAdmin(ctx, "admin", "s3cret")

		assert.ErrorIs(t, err, apperrors.ErrAdminExists)
		mockUsers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestSetupService_Complete(t *testing.T) {
	ctx := context.Background()

	t.Run("persists the completion flag", func(t *testing.T) {
		mockUsers := mocks.NewMockUserRepository()
		mockStore := mocks.NewMockConfigStore()
		mockSettings := mocks.NewMockSettingsService()

		svc := services.NewSetupService(mockUsers, mockStore, mockSettings)

		mockSettings.On("SetupCompleted", ctx).Return(false)
		mockUsers.On("CountLocalAdmins", ctx).Return(1, nil)
		mockStore.On("Set", ctx, domain.ConfigKeySetupCompleted, json.RawMessage(`true`)).Return(nil)

		require.NoError(t, svc.Complete(ctx))
		mockStore.AssertExpectations(t)
	})

	t.Run("errors when already completed", func(t *testing.T) {
		mockSettings := mocks.NewMockSettingsService()
		svc := services.NewSetupService(mocks.NewMockUserRepository(), mocks.NewMockConfigStore(), mockSettings)

		mockSettings.On("SetupCompleted", ctx).Return(true)

		assert.ErrorIs(t, svc.Complete(ctx), apperrors.ErrSetupAlreadyDone)
	})

	t.Run("errors without an initial admin", func(t *testing.T) {
		mockUsers := mocks.NewMockUserRepository()
		mockSettings := mocks.NewMockSettingsService()
		svc := services.NewSetupService(mockUsers, mocks.NewMockConfigStore(), mockSettings)

		mockSettings.On("SetupCompleted", ctx).Return(false)
		mockUsers.On("CountLocalAdmins", ctx).Return(0, nil)

		assert.ErrorIs(t, svc.Complete(ctx), apperrors.ErrSetupRequired)
	})
}
