package directory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-ldap/ldap/v3"

	"github.com/lcrommet/glpi-insight-backend/internal/core/domain"
	apperrors "github.com/lcrommet/glpi-insight-backend/internal/core/errors"
	"github.com/lcrommet/glpi-insight-backend/internal/core/ports"
)

// LdapAuthenticator binds against an LDAP or Active Directory server
// using the settings stored in the application config.
type LdapAuthenticator struct {
	logger *slog.Logger
}

var _ ports.DirectoryAuthenticator = (*LdapAuthenticator)(nil)

func NewLdapAuthenticator(logger *slog.Logger) *LdapAuthenticator {
	return &LdapAuthenticator{logger: logger}
}

// Authenticate performs a service bind, locates the user entry by login
// attribute, then verifies the password with a bind as the user's DN.
func (a *LdapAuthenticator) Authenticate(ctx context.Context, settings domain.LdapSettings, username, password string) (*ports.DirectoryUser, error) {
	conn, err := a.dial(settings)
	if err != nil {
		return nil, fmt.Errorf("ldap dial: %w", err)
	}
	defer conn.Close()

	if settings.BindDN != "" {
		if err := conn.Bind(settings.BindDN, settings.BindPassword); err != nil {
			return nil, fmt.Errorf("ldap service bind: %w", err)
		}
	}

	entry, err := a.findUser(conn, settings, username)
	if err != nil {
		return nil, err
	}

	if err := conn.Bind(entry.DN, password); err != nil {
		if ldap.IsErrorWithCode(err, ldap.LDAPResultInvalidCredentials) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("ldap user bind: %w", err)
	}

	return &ports.DirectoryUser{
		Username: username,
		DN:       entry.DN,
		Groups:   entry.GetAttributeValues("memberOf"),
	}, nil
}

func (a *LdapAuthenticator) dial(settings domain.LdapSettings) (*ldap.Conn, error) {
	scheme := "ldap"
	if settings.SSL {
		scheme = "ldaps"
	}
	return ldap.DialURL(fmt.Sprintf("%s://%s:%d", scheme, settings.Host, settings.Port))
}

func (a *LdapAuthenticator) findUser(conn *ldap.Conn, settings domain.LdapSettings, username string) (*ldap.Entry, error) {
	filter := fmt.Sprintf("(%s=%s)", settings.EffectiveLoginAttribute(), ldap.EscapeFilter(username))
	req := ldap.NewSearchRequest(
		settings.BaseDN,
		ldap.ScopeWholeSubtree, ldap.NeverDerefAliases, 2, 0, false,
		filter,
		[]string{"dn", "memberOf"},
		nil,
	)

	res, err := conn.Search(req)
	if err != nil {
		return nil, fmt.Errorf("ldap search: %w", err)
	}
	switch len(res.Entries) {
	case 0:
		return nil, apperrors.ErrInvalidCredentials
	case 1:
		return res.Entries[0], nil
	default:
		a.logger.Warn("ldap search returned multiple entries",
			slog.String("username", username),
			slog.Int("entries", len(res.Entries)))
		return nil, apperrors.ErrInvalidCredentials
	}
}
