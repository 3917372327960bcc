// Package structs defines shared identity types and API shapes.
package structs

import "time"

// Role is a user's authorization role.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Identity is the authenticated identity extracted from a validated token.
// It is the only thing downstream collaborators consume.
type Identity struct {
	ID    string
	Email string
	Role  Role
}

// UserProfile is the public projection of a user record. It never carries the
// password hash.
type UserProfile struct {
	ID        string    `json:"_id"`
	FirstName string    `json:"firstName"`
	EmailID   string    `json:"emailId"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// RegisterRequest is the request body for registration.
type RegisterRequest struct {
	FirstName string `json:"firstName" binding:"required,min=2,max=64"`
	EmailID   string `json:"emailId" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
}

// LoginRequest is the request body for login. Shape errors collapse into the
// same generic credential failure as a wrong password, so fields carry only
// presence constraints here.
type LoginRequest struct {
	EmailID  string `json:"emailId" binding:"required"`
	Password string `json:"password" binding:"required"`
}
