package domain

import (
	"slices"
	"strings"
)

const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

// bcryptMarker is the id prefix some password encoders write in front of the hash.
const bcryptMarker = "{bcrypt}"

// Account models a credential holder. Accounts are read-only for the API.
type Account struct {
	ID           int64    `json:"id"`
	Username     string   `json:"username"`
	Name         string   `json:"name"`
	PasswordHash string   `json:"-"`
	Authorities  []string `json:"authorities"`
}

// HasAuthority reports whether the account holds role.
func (a *Account) HasAuthority(role string) bool {
	return slices.Contains(a.Authorities, role)
}

// BcryptHash returns the stored hash without any encoder marker.
func (a *Account) BcryptHash() string {
	return strings.TrimPrefix(a.PasswordHash, bcryptMarker)
}

// ParseAuthorities splits a comma-joined authority list, dropping blanks and
// duplicates while keeping the stored order.
func ParseAuthorities(s string) []string {
	out := make([]string, 0, 2)
	for _, part := range strings.Split(s, ",") {
		role := strings.TrimSpace(part)
		if role == "" || slices.Contains(out, role) {
			continue
		}
		out = append(out, role)
	}
	return out
}

// JoinAuthorities is the storage form of an authority list.
func JoinAuthorities(roles []string) string {
	return strings.Join(roles, ",")
}

// NormalizeAuthorities guarantees the base role comes first and that ROLE_ADMIN
// is present when admin is true.
func NormalizeAuthorities(roles []string, admin bool) []string {
	out := []string{RoleUser}
	for _, r := range roles {
		r = strings.TrimSpace(r)
		if r == "" || slices.Contains(out, r) {
			continue
		}
		out = append(out, r)
	}
	if admin && !slices.Contains(out, RoleAdmin) {
		out = append(out, RoleAdmin)
	}
	return out
}
