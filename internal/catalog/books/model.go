package books

import "time"

// Book represents a catalog entry joined with its author and category names.
type Book struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	AuthorID        int64     `json:"author_id"`
	AuthorName      string    `json:"author_name,omitempty"`
	CategoryID      *int64    `json:"category_id,omitempty"`
	CategoryName    string    `json:"category_name,omitempty"`
	PublicationYear int       `json:"publication_year,omitempty"`
	CoverImageURL   string    `json:"cover_image_url,omitempty"`
	CoverImageKey   string    `json:"-"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
