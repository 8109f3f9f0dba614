package models

import (
	"fmt"
	"time"
)

// Role is the capability tag attached to a user by the remote API.
type Role string

const (
	RoleAdministrator Role = "Administrator"
	RoleServer        Role = "Server"
	RoleReceptionist  Role = "Receptionist"
	RoleCashier       Role = "Cashier"
	RoleCustomer      Role = "Customer"
)

// Roles lists every role in display order.
var Roles = []Role{RoleAdministrator, RoleServer, RoleReceptionist, RoleCashier, RoleCustomer}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdministrator, RoleServer, RoleReceptionist, RoleCashier, RoleCustomer:
		return true
	}
	return false
}

// ParseRole converts s to a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// User is the profile of an authenticated principal.
type User struct {
	ID        int64      `json:"id"`
	FullName  string     `json:"fullName"`
	Email     string     `json:"email"`
	Role      Role       `json:"role"`
	Active    bool       `json:"active,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// LoginRequest is the body of POST /Auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the body returned by POST /Auth/login.
type LoginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Token   string `json:"token"`
	User    *User  `json:"user"`
}

// RegisterRequest is the body of POST /Auth/register.
type RegisterRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// RegisterResponse is the body returned by POST /Auth/register.
type RegisterResponse struct {
	Success           bool   `json:"success"`
	Message           string `json:"message,omitempty"`
	EmailNotification *struct {
		Sent bool `json:"sent"`
	} `json:"emailNotification,omitempty"`
}
