package mocks

import (
	"context"
	"encoding/json"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/lcrommet/glpi-insight-backend/internal/core/domain"
	"github.com/lcrommet/glpi-insight-backend/internal/core/ports"
)

// MockTicketSource is a mock implementation of ports.TicketSource
type MockTicketSource struct {
	mock.Mock
}

func NewMockTicketSource() *MockTicketSource {
	return &MockTicketSource{}
}

func (m *MockTicketSource) ListResolved(ctx context.Context, r domain.DateRange) ([]domain.Ticket, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Ticket), args.Error(1)
}

func (m *MockTicketSource) ListForSla(ctx context.Context, r domain.DateRange) ([]domain.Ticket, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Ticket), args.Error(1)
}

func (m *MockTicketSource) Summary(ctx context.Context, r domain.DateRange) (domain.TicketSummary, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(domain.TicketSummary), args.Error(1)
}

func (m *MockTicketSource) CountByStatus(ctx context.Context, r domain.DateRange) ([]domain.StatusBreakdown, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StatusBreakdown), args.Error(1)
}

func (m *MockTicketSource) CountByPriority(ctx context.Context, r domain.DateRange) ([]domain.PriorityCount, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PriorityCount), args.Error(1)
}

func (m *MockTicketSource) Evolution(ctx context.Context, r domain.DateRange, g domain.Granularity) ([]domain.VolumePoint, error) {
	args := m.Called(ctx, r, g)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.VolumePoint), args.Error(1)
}

// MockStatusLogSource is a mock implementation of ports.StatusLogSource
type MockStatusLogSource struct {
	mock.Mock
}

func NewMockStatusLogSource() *MockStatusLogSource {
	return &MockStatusLogSource{}
}

func (m *MockStatusLogSource) LoadStatusLogs(ctx context.Context, ticketIDs []int64) (map[int64][]domain.StatusChangeEvent, error) {
	args := m.Called(ctx, ticketIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64][]domain.StatusChangeEvent), args.Error(1)
}

// MockConfigStore is a mock implementation of ports.ConfigStore
type MockConfigStore struct {
	mock.Mock
}

func NewMockConfigStore() *MockConfigStore {
	return &MockConfigStore{}
}

func (m *MockConfigStore) Get(ctx context.Context, key string) (json.RawMessage, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockConfigStore) Set(ctx context.Context, key string, value json.RawMessage) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

// MockUserRepository is a mock implementation of ports.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateRole(ctx context.Context, id int64, role string) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) CountLocalAdmins(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockUserRepository) UpsertLdapUser(ctx context.Context, username, dn, role string) (*domain.User, error) {
	args := m.Called(ctx, username, dn, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) TouchLastLogin(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTechnicianSource is a mock implementation of ports.TechnicianSource
type MockTechnicianSource struct {
	mock.Mock
}

func NewMockTechnicianSource() *MockTechnicianSource {
	return &MockTechnicianSource{}
}

func (m *MockTechnicianSource) ListTechnicians(ctx context.Context, r domain.DateRange) ([]domain.Technician, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Technician), args.Error(1)
}

func (m *MockTechnicianSource) GetTechnician(ctx context.Context, id int64) (*domain.Technician, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Technician), args.Error(1)
}

func (m *MockTechnicianSource) TechnicianKPI(ctx context.Context, id int64, r domain.DateRange) (domain.TechnicianKPI, error) {
	args := m.Called(ctx, id, r)
	return args.Get(0).(domain.TechnicianKPI), args.Error(1)
}

func (m *MockTechnicianSource) TechnicianEvolution(ctx context.Context, id int64, r domain.DateRange, g domain.Granularity) ([]domain.TechnicianPeriodPoint, error) {
	args := m.Called(ctx, id, r, g)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TechnicianPeriodPoint), args.Error(1)
}

func (m *MockTechnicianSource) TechnicianByPriority(ctx context.Context, id int64, r domain.DateRange) ([]domain.PriorityBreakdown, error) {
	args := m.Called(ctx, id, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PriorityBreakdown), args.Error(1)
}

func (m *MockTechnicianSource) TechnicianByStatus(ctx context.Context, id int64, r domain.DateRange) ([]domain.StatusBreakdown, error) {
	args := m.Called(ctx, id, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StatusBreakdown), args.Error(1)
}

func (m *MockTechnicianSource) TechnicianCategories(ctx context.Context, id int64, r domain.DateRange, limit int) ([]domain.CategoryCount, error) {
	args := m.Called(ctx, id, r, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CategoryCount), args.Error(1)
}

func (m *MockTechnicianSource) TeamAverages(ctx context.Context, r domain.DateRange) (domain.TeamAverages, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(domain.TeamAverages), args.Error(1)
}

// MockReportCache is a mock implementation of ports.ReportCache
type MockReportCache struct {
	mock.Mock
}

func NewMockReportCache() *MockReportCache {
	return &MockReportCache{}
}

func (m *MockReportCache) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockReportCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, payload, ttl)
	return args.Error(0)
}

// MockDirectoryAuthenticator is a mock implementation of ports.DirectoryAuthenticator
type MockDirectoryAuthenticator struct {
	mock.Mock
}

func NewMockDirectoryAuthenticator() *MockDirectoryAuthenticator {
	return &MockDirectoryAuthenticator{}
}

func (m *MockDirectoryAuthenticator) Authenticate(ctx context.Context, settings domain.LdapSettings, username, password string) (*ports.DirectoryUser, error) {
	args := m.Called(ctx, settings, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.DirectoryUser), args.Error(1)
}

// MockSettingsService is a mock implementation of ports.SettingsService
type MockSettingsService struct {
	mock.Mock
}

func NewMockSettingsService() *MockSettingsService {
	return &MockSettingsService{}
}

func (m *MockSettingsService) LdapSettings(ctx context.Context) (domain.LdapSettings, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.LdapSettings), args.Error(1)
}

func (m *MockSettingsService) PendingMatcher(ctx context.Context) domain.PendingMatcher {
	args := m.Called(ctx)
	return args.Get(0).(domain.PendingMatcher)
}

func (m *MockSettingsService) SetupCompleted(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}
