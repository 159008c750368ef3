package domain

import "strings"

// Keys of the application config store.
const (
	ConfigKeySlaTargets     = "sla_targets"
	ConfigKeyLdap           = "ldap"
	ConfigKeyPendingLabels  = "pending_labels"
	ConfigKeySetupCompleted = "setup_completed"
)

// LdapSettings is the directory configuration stored under the "ldap"
// config key. Field names mirror the stored JSON.
type LdapSettings struct {
	Enabled        bool     `json:"enabled"`
	Type           string   `json:"type"` // "ad" or "openldap"
	Host           string   `json:"host"`
	Port           int      `json:"port"`
	SSL            bool     `json:"ssl"`
	BindDN         string   `json:"bind_dn"`
	BindPassword   string   `json:"bind_password"`
	BaseDN         string   `json:"base_dn"`
	LoginAttribute string   `json:"login_attribute"`
	GroupsEnabled  bool     `json:"groups_enabled"`
	AdminGroups    []string `json:"admin_groups"`
	ViewerGroups   []string `json:"viewer_groups"`
	DenyIfNoGroup  bool     `json:"deny_if_no_group"`
}

// EffectiveLoginAttribute returns the attribute used to look users up,
// defaulting per directory type.
func (s LdapSettings) EffectiveLoginAttribute() string {
	if s.LoginAttribute != "" {
		return s.LoginAttribute
	}
	if s.Type == "ad" {
		return "sAMAccountName"
	}
	return "uid"
}

// ResolveRoleFromGroups maps directory group membership to an application
// role. The boolean is false when group gating is on, the user matches no
// authorized group, and the settings deny ungrouped accounts.
func ResolveRoleFromGroups(groups []string, s LdapSettings) (string, bool) {
	if !s.GroupsEnabled {
		return RoleViewer, true
	}

	member := make(map[string]struct{}, len(groups))
	for _, g := range groups {
		member[strings.ToLower(g)] = struct{}{}
	}

	for _, g := range s.AdminGroups {
		if _, ok := member[strings.ToLower(g)]; ok {
			return RoleAdmin, true
		}
	}
	for _, g := range s.ViewerGroups {
		if _, ok := member[strings.ToLower(g)]; ok {
			return RoleViewer, true
		}
	}

	if s.DenyIfNoGroup {
		return "", false
	}
	return RoleViewer, true
}
