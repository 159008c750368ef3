package domain

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/lcrommet/glpi-insight-backend/internal/core/errors"
)

// Application roles. Viewers read reports, admins additionally manage
// users and runtime settings.
const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
)

// Account auth types.
const (
	AuthTypeLocal = "local"
	AuthTypeLdap  = "ldap"
)

// User is an application account. GLPI users are never written to; LDAP
// logins are mirrored here with a recomputed role on every login.
type User struct {
	ID           int64
	Username     string
	PasswordHash string // empty for LDAP accounts
	Role         string
	AuthType     string
	LdapDN       string
	CreatedAt    time.Time
	LastLogin    *time.Time
}

// ValidRole reports whether role is one of the application roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleViewer
}

// NewLocalUser builds a local account with a bcrypt password hash.
func NewLocalUser(username, password, role string) (*User, error) {
	if username == "" {
		return nil, apperrors.ErrUsernameRequired
	}
	if password == "" {
		return nil, apperrors.ErrPasswordRequired
	}
	if !ValidRole(role) {
		return nil, apperrors.ErrInvalidRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		AuthType:     AuthTypeLocal,
	}, nil
}

// CheckPassword verifies a plaintext password against the stored hash.
func (u *User) CheckPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
