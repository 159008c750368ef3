package ports

import (
	"context"
	"encoding/json"
	"time"

	"github.com/lcrommet/glpi-insight-backend/internal/core/domain"
)

// TicketSource reads tickets from the GLPI mirror. All methods scope to
// non-deleted tickets created inside the range.
type TicketSource interface {
	// ListResolved returns tickets resolved with a positive duration:
	// status solved or closed, a solve date, and solvedate > date.
	ListResolved(ctx context.Context, r domain.DateRange) ([]domain.Ticket, error)
	// ListForSla returns the full SLA population: every ticket of the
	// window with its vendor SLA columns, resolved or not.
	ListForSla(ctx context.Context, r domain.DateRange) ([]domain.Ticket, error)
	// Summary counts tickets per status bucket.
	Summary(ctx context.Context, r domain.DateRange) (domain.TicketSummary, error)
	// CountByStatus returns per-status counts.
	CountByStatus(ctx context.Context, r domain.DateRange) ([]domain.StatusBreakdown, error)
	// CountByPriority returns per-priority counts.
	CountByPriority(ctx context.Context, r domain.DateRange) ([]domain.PriorityCount, error)
	// Evolution returns created and resolved counts per period bucket.
	Evolution(ctx context.Context, r domain.DateRange, g domain.Granularity) ([]domain.VolumePoint, error)
}

// StatusLogSource loads status transition journals for a batch of tickets.
// The returned map has no entry for tickets without journal rows. When the
// journal is unavailable altogether the source returns an empty map and no
// error: reports degrade to zero pause time rather than fail.
type StatusLogSource interface {
	LoadStatusLogs(ctx context.Context, ticketIDs []int64) (map[int64][]domain.StatusChangeEvent, error)
}

// TechnicianSource reads assignment statistics from the GLPI mirror.
type TechnicianSource interface {
	ListTechnicians(ctx context.Context, r domain.DateRange) ([]domain.Technician, error)
	GetTechnician(ctx context.Context, id int64) (*domain.Technician, error)
	TechnicianKPI(ctx context.Context, id int64, r domain.DateRange) (domain.TechnicianKPI, error)
	TechnicianEvolution(ctx context.Context, id int64, r domain.DateRange, g domain.Granularity) ([]domain.TechnicianPeriodPoint, error)
	TechnicianByPriority(ctx context.Context, id int64, r domain.DateRange) ([]domain.PriorityBreakdown, error)
	TechnicianByStatus(ctx context.Context, id int64, r domain.DateRange) ([]domain.StatusBreakdown, error)
	TechnicianCategories(ctx context.Context, id int64, r domain.DateRange, limit int) ([]domain.CategoryCount, error)
	TeamAverages(ctx context.Context, r domain.DateRange) (domain.TeamAverages, error)
}

// ConfigStore is the application-side JSON key-value store backing
// runtime-tunable settings (SLA targets, LDAP, pending labels, setup flag).
type ConfigStore interface {
	// Get returns the raw JSON value for key, or ErrConfigKeyNotFound.
	Get(ctx context.Context, key string) (json.RawMessage, error)
	Set(ctx context.Context, key string, value json.RawMessage) error
}

// UserRepository persists application accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	UpdateRole(ctx context.Context, id int64, role string) error
	Delete(ctx context.Context, id int64) error
	CountLocalAdmins(ctx context.Context) (int, error)
	// UpsertLdapUser records an LDAP login, recomputing the role every
	// time, and returns the stored account.
	UpsertLdapUser(ctx context.Context, username, dn, role string) (*domain.User, error)
	TouchLastLogin(ctx context.Context, id int64) error
}

// ReportCache caches rendered report payloads. Failures are advisory:
// callers treat any error as a cache miss.
type ReportCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
}

// DirectoryUser is the identity returned by a successful directory bind.
type DirectoryUser struct {
	Username string
	DN       string
	Groups   []string
}

// DirectoryAuthenticator authenticates a user against an external
// directory (LDAP or Active Directory).
type DirectoryAuthenticator interface {
	Authenticate(ctx context.Context, settings domain.LdapSettings, username, password string) (*DirectoryUser, error)
}
