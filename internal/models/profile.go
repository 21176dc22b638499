package models

import (
	"time"
)

// Social holds a profile's social platform links.
type Social struct {
	Youtube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Linkedin  string `json:"linkedin,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
}

// Profile is the one-to-one developer extension of a User. The unique index
// on UserID enforces at-most-one-profile-per-user at the store level.
type Profile struct {
	ID             uint     `gorm:"primaryKey" json:"id"`
	UserID         uint     `gorm:"uniqueIndex;not null" json:"user_id"`
	User           User     `gorm:"foreignKey:UserID" json:"user"`
	Company        string   `json:"company,omitempty"`
	Website        string   `json:"website,omitempty"`
	Location       string   `json:"location,omitempty"`
	Status         string   `gorm:"not null" json:"status"`
	Bio            string   `gorm:"type:text" json:"bio,omitempty"`
	GithubUsername string   `json:"githubusername,omitempty"`
	Skills         []string `gorm:"serializer:json" json:"skills"`
	Social         Social   `gorm:"embedded;embeddedPrefix:social_" json:"social"`
	// Experience and Education are returned newest-inserted-first to keep
	// the prepend ordering of the API contract.
	Experience []Experience `gorm:"foreignKey:ProfileID" json:"experience"`
	Education  []Education  `gorm:"foreignKey:ProfileID" json:"education"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// Experience is a work history entry owned by a Profile.
type Experience struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ProfileID   uint       `gorm:"not null;index" json:"-"`
	Title       string     `gorm:"not null" json:"title"`
	Company     string     `gorm:"not null" json:"company"`
	Location    string     `json:"location,omitempty"`
	From        time.Time  `gorm:"not null" json:"from"`
	To          *time.Time `json:"to,omitempty"`
	Current     bool       `json:"current"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time  `json:"-"`
}

// Education is a schooling entry owned by a Profile.
type Education struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	ProfileID    uint       `gorm:"not null;index" json:"-"`
	School       string     `gorm:"not null" json:"school"`
	Degree       string     `gorm:"not null" json:"degree"`
	FieldOfStudy string     `gorm:"not null" json:"fieldofstudy"`
	From         time.Time  `gorm:"not null" json:"from"`
	To           *time.Time `json:"to,omitempty"`
	Current      bool       `json:"current"`
	Description  string     `gorm:"type:text" json:"description,omitempty"`
	CreatedAt    time.Time  `json:"-"`
}
