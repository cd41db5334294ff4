package reviews

import "time"

// Review is a user's rating of a book. One review per (book, user).
type Review struct {
	ID        int64     `json:"id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username,omitempty"`
	BookID    int64     `json:"book_id"`
	BookTitle string    `json:"book_title,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OwnerID satisfies the ownership policy.
func (r Review) OwnerID() int64 {
	return r.UserID
}
