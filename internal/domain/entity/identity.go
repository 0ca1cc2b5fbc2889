package entity

import "time"

// Identity is the immutable snapshot of the logged-in user carried by a session.
// It is passed by value so handlers cannot alter the stored session.
type Identity struct {
	UserID    int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// IsAdmin reports whether the identity holds the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// IsZero reports an absent identity.
func (i Identity) IsZero() bool {
	return i.UserID == 0
}
