package models

import "time"

// Comment is a reply embedded in an article document. IDs are unique only
// within the owning article: the first comment gets 1, each later one gets
// the running maximum plus one. The author is kept as the stable user id,
// unlike the article itself which stores a display name.
type Comment struct {
	ID        int64     `json:"id"`
	AuthorID  uint      `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"date"`
}
