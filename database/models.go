package database

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// IsAdmin reports whether the role grants moderation rights.
func (r Role) IsAdmin() bool {
	switch r {
	case RoleAdmin:
		return true
	case RoleUser:
		return false
	default:
		return false
	}
}

type User struct {
	gorm.Model
	Username     string `gorm:"uniqueIndex"`
	Email        string `gorm:"uniqueIndex"`
	PasswordHash string
	Role         Role `gorm:"default:user"`
	IsApproved   bool `gorm:"not null;default:false"`
	IsBanned     bool `gorm:"not null;default:false"`
	ApprovedAt   *time.Time
	ProfileImage string

	Posts []Post `gorm:"foreignKey:AuthorID"`
}

type Post struct {
	gorm.Model
	Title       string `gorm:"index"`
	Slug        string `gorm:"uniqueIndex"`
	Content     string `gorm:"type:text"`
	Excerpt     string
	CoverImage  string
	IsPublished bool `gorm:"default:false"`
	IsApproved  bool `gorm:"default:false"`
	Views       uint `gorm:"default:0"`
	Tags        datatypes.JSON
	AuthorID    uint `gorm:"index"`

	Author      User         `gorm:"foreignKey:AuthorID"`
	Comments    []Comment    `gorm:"foreignKey:PostID"`
	Attachments []Attachment `gorm:"foreignKey:PostID"`
}

type Comment struct {
	gorm.Model
	PostID   uint   `gorm:"index"`
	AuthorID uint   `gorm:"index"`
	Content  string `gorm:"type:text"`

	Author User `gorm:"foreignKey:AuthorID"`
}

type Attachment struct {
	gorm.Model
	PostID   uint `gorm:"index"`
	Filename string
	FileURL  string
	FileType string
	FileSize int64
}

type ContactMessage struct {
	gorm.Model
	Name    string
	Email   string
	Message string `gorm:"type:text"`
	IsRead  bool   `gorm:"default:false"`
}
