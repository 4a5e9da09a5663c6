//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import "github.com/target/crms-console/internal/domain/auth"

// RoleRef is the role object embedded in a user payload.
type RoleRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// DepartmentRef is the department object embedded in a user payload.
type DepartmentRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// User is a CRMS account as returned by /users.
type User struct {
	ID         int64          `json:"id"`
	Username   string         `json:"username"`
	FullName   string         `json:"fullName"`
	Email      string         `json:"email"`
	Phone      string         `json:"phone,omitempty"`
	Role       *RoleRef       `json:"role,omitempty"`
	Department *DepartmentRef `json:"department,omitempty"`
	IsActive   bool           `json:"isActive"`
	CreatedAt  Timestamp      `json:"createdAt"`
}

// RoleName returns the user's role, or RoleNone when the payload carries none.
func (u User) RoleName() auth.Role {
	if u.Role == nil {
		return auth.RoleNone
	}
	return auth.ParseRole(u.Role.Name)
}

// DisplayName prefers the full name and falls back to the username.
func (u User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

// UserInput is the create/update payload for a user.
type UserInput struct {
	Username     string `json:"username"`
	Password     string `json:"password,omitempty"`
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
	RoleID       int64  `json:"roleId,omitempty"`
	DepartmentID int64  `json:"departmentId,omitempty"`
	IsActive     bool   `json:"isActive"`
}

// FindUserByUsername returns the user with the given username.
func FindUserByUsername(users []User, username string) (User, bool) {
	for _, u := range users {
		if u.Username == username {
			return u, true
		}
	}
	return User{}, false
}

// RoleIDs maps the backend's seeded role ids to role names, as offered by the user form.
func RoleIDs() map[int64]auth.Role {
	return map[int64]auth.Role{1: auth.RoleAdmin, 2: auth.RoleOfficer, 3: auth.RoleAnalyst}
}
