package models

import "time"

// DefaultHeadline is assigned to freshly registered profiles.
const DefaultHeadline = "This is the default headline."

// Profile carries the presentation fields of a user: everything a viewer
// may read on a profile page. It is created together with the user row and
// addressed by username in the field getter endpoints.
type Profile struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"-"`
	Username  string    `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"size:255" json:"email"`
	DOB       string    `gorm:"size:32" json:"dob"`
	Phone     string    `gorm:"size:32" json:"phone"`
	Zipcode   string    `gorm:"size:16" json:"zipcode"`
	Headline  string    `gorm:"size:255" json:"headline"`
	AvatarURL string    `gorm:"size:512" json:"avatar"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
