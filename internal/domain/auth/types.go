package auth

// Package auth contains domain-level types for console sessions and role-based visibility.
// It is pure and free of framework/adapter concerns.

// Role represents a CRMS role as issued by the backend on login.
// The string form is the wire value and is persisted as-is.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleOfficer Role = "OFFICER"
	RoleAnalyst Role = "ANALYST"

	// RoleNone is the absent role of an anonymous context.
	RoleNone Role = ""
)

// KnownRoles returns every role the console understands, in display order.
func KnownRoles() []Role {
	return []Role{RoleAdmin, RoleOfficer, RoleAnalyst}
}

// ParseRole matches a role name exactly as the API spells it. Anything else,
// including a differently cased name, maps to RoleNone.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin
	case RoleOfficer:
		return RoleOfficer
	case RoleAnalyst:
		return RoleAnalyst
	default:
		return RoleNone
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return ParseRole(string(r)) == r && r != RoleNone
}

// Credentials is the login request payload.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the payload returned by POST /auth/login.
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Session is the authenticated identity and credential held for one browser context.
// A Session is either absent or complete: Token, Username and Role are set together.
type Session struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
	Token    string `json:"-"`
}

// Complete reports whether every field required for a usable session is set.
func (s Session) Complete() bool {
	return s.Token != "" && s.Username != "" && s.Role.Valid()
}

// RolePredicate decides whether a role satisfies some check.
type RolePredicate func(Role) bool

// IsAdmin matches ADMIN only.
func IsAdmin(r Role) bool { return r == RoleAdmin }

// IsAdminOrAnalyst matches the roles allowed to see analytics data.
func IsAdminOrAnalyst(r Role) bool { return r == RoleAdmin || r == RoleAnalyst }

// AnyOf builds a predicate matching any of the given roles.
func AnyOf(roles ...Role) RolePredicate {
	return func(r Role) bool {
		if r == RoleNone {
			return false
		}
		for _, candidate := range roles {
			if candidate == r {
				return true
			}
		}
		return false
	}
}
