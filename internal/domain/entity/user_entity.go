package entity

import "time"

// Role restricts what a user may do with listings: donors create them,
// receivers claim them.
type Role string

const (
	RoleDonor    Role = "donor"
	RoleReceiver Role = "receiver"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleDonor || r == RoleReceiver
}

// User is the aggregate root for identity.
// Password holds a bcrypt hash and is never serialized.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Password     string    `json:"-"`
	Role         Role      `json:"role"`
	Organization string    `json:"organization,omitempty"`
	Location     string    `json:"location,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
