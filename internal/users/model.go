package users

import "time"

// User is the public projection of an account. The password hash never
// leaves the auth package.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OwnerID lets ownership policies treat a user record as owned by itself.
func (u User) OwnerID() int64 { return u.ID }
