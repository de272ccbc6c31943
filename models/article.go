package models

import (
	"encoding/json"
	"time"
)

// Article is a posted article. Comments live inside the row as a JSON
// document, so a comment mutation rewrites the whole article as one unit.
// Version backs the optimistic write check in the store.
type Article struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	SeqID     int64     `gorm:"uniqueIndex;not null" json:"id"`
	Author    string    `gorm:"size:64;index;not null" json:"author"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Image     string    `gorm:"size:512" json:"image,omitempty"`
	Comments  string    `gorm:"type:text" json:"-"` // JSON array of Comment
	Version   int64     `gorm:"not null;default:0" json:"-"`
	CreatedAt time.Time `json:"date"`
	UpdatedAt time.Time `json:"-"`
}

// CommentList decodes the embedded comment document.
func (a *Article) CommentList() ([]Comment, error) {
	if a.Comments == "" {
		return []Comment{}, nil
	}
	var comments []Comment
	if err := json.Unmarshal([]byte(a.Comments), &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// SetComments encodes the comment sequence back into the document column.
func (a *Article) SetComments(comments []Comment) error {
	b, err := json.Marshal(comments)
	if err != nil {
		return err
	}
	a.Comments = string(b)
	return nil
}
