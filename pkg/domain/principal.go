package domain

import "slices"

// Roles recognised by the role guard.
const (
	RoleClinician = "clinician"
	RoleAdmin     = "admin"
)

// Principal is an authenticated caller and its role claims.
type Principal struct {
	Subject string   `json:"sub"`
	Email   string   `json:"email,omitempty"`
	Roles   []string `json:"roles"`
}

// HasRole reports whether the principal holds role. Admins hold every role.
func (p *Principal) HasRole(role string) bool {
	if p == nil {
		return false
	}
	return slices.Contains(p.Roles, RoleAdmin) || slices.Contains(p.Roles, role)
}
