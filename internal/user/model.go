package user

import "time"

// Role is the closed set of account roles. Authorization checks switch on it
// exhaustively instead of comparing raw strings.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// Valid reports whether the role is a known member of the enumeration.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleAdmin:
		return true
	}
	return false
}

// User represents a registered shopper or administrator.
type User struct {
	ID           string
	Name         string
	Email        string
	Role         Role
	PasswordHash []byte
	CreatedAt    time.Time
}

// Public is the wire representation of a user. It never carries the password hash.
type Public struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Sanitize strips credentials from a user for responses and request context.
func (u User) Sanitize() Public {
	return Public{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// Credentials carries a signup or login submission.
type Credentials struct {
	Name     string
	Email    string
	Password string
}
