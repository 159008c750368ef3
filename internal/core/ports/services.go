package ports

import (
	"context"

	"github.com/lcrommet/glpi-insight-backend/internal/core/domain"
)

// ResolutionReport is the /resolution/average payload.
type ResolutionReport struct {
	Stats domain.ActiveStats `json:"stats"`
	Range ReportRange        `json:"range"`
}

// ResolutionEvolution is one period bucket of resolution statistics.
type ResolutionEvolution struct {
	Period string             `json:"period"`
	Stats  domain.ActiveStats `json:"stats"`
}

// ResolutionByPriority is the per-priority resolution rollup.
type ResolutionByPriority struct {
	Priority int                `json:"priority"`
	Label    string             `json:"label"`
	Stats    domain.ActiveStats `json:"stats"`
}

// ReportRange echoes the effective reporting window back to the caller.
type ReportRange struct {
	From        string `json:"from"`
	To          string `json:"to"`
	Granularity string `json:"granularity,omitempty"`
}

// ResolutionService computes pause-excluded resolution time reports.
type ResolutionService interface {
	Average(ctx context.Context, r domain.DateRange) (*ResolutionReport, error)
	Evolution(ctx context.Context, r domain.DateRange) ([]ResolutionEvolution, error)
	ByPriority(ctx context.Context, r domain.DateRange) ([]ResolutionByPriority, error)
}

// SlaService evaluates SLA compliance and manages resolution targets.
type SlaService interface {
	Summary(ctx context.Context, r domain.DateRange) (*domain.SlaSummary, error)
	Targets(ctx context.Context) (domain.SlaTargets, error)
	UpdateTargets(ctx context.Context, targets map[int]float64) (domain.SlaTargets, error)
}

// TicketStatsService produces ticket volume reports.
type TicketStatsService interface {
	Summary(ctx context.Context, r domain.DateRange) (*domain.TicketSummary, error)
	ByStatus(ctx context.Context, r domain.DateRange) ([]domain.StatusBreakdown, error)
	ByPriority(ctx context.Context, r domain.DateRange) ([]domain.PriorityCount, error)
	Evolution(ctx context.Context, r domain.DateRange) ([]domain.VolumePoint, error)
}

// TechnicianService produces per-technician assignment reports.
type TechnicianService interface {
	List(ctx context.Context, r domain.DateRange) ([]domain.Technician, error)
	Report(ctx context.Context, technicianID int64, r domain.DateRange) (*domain.TechnicianReport, error)
}

// AuthResult is a successful authentication outcome.
type AuthResult struct {
	User *domain.User
}

// AuthService performs directory-first authentication with local fallback.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*AuthResult, error)
	LdapEnabled(ctx context.Context) bool
	GetUser(ctx context.Context, id int64) (*domain.User, error)
}

// SetupStatus describes first-run wizard progress.
type SetupStatus struct {
	Completed     bool `json:"completed"`
	HasLocalAdmin bool `json:"has_local_admin"`
}

// SetupService drives the first-run wizard.
type SetupService interface {
	Status(ctx context.Context) (*SetupStatus, error)
	CreateInitialAdmin(ctx context.Context, username, password string) (*domain.User, error)
	Complete(ctx context.Context) error
}

// CreateUserParams are the inputs of admin user creation.
type CreateUserParams struct {
	Username string
	Password string
	Role     string
}

// AdminService manages application accounts. Callers enforce the admin
// role at the transport layer.
type AdminService interface {
	ListUsers(ctx context.Context) ([]*domain.User, error)
	CreateUser(ctx context.Context, params CreateUserParams) (*domain.User, error)
	UpdateUserRole(ctx context.Context, id int64, role string) error
	DeleteUser(ctx context.Context, id int64) error
}

// SettingsService reads the runtime-tunable configuration.
type SettingsService interface {
	LdapSettings(ctx context.Context) (domain.LdapSettings, error)
	PendingMatcher(ctx context.Context) domain.PendingMatcher
	SetupCompleted(ctx context.Context) bool
}
