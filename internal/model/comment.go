package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Comment struct {
	ID       string  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	PostID   string  `gorm:"type:uuid;not null;index;references:posts(id)" json:"post_id"`
	ParentID *string `gorm:"type:uuid;index;references:comments(id)" json:"parent_id,omitempty"` // For nested comments/replies

	// Authorship: either AuthorID (registered) or AuthorName+AuthorEmail
	// (anonymous) is set, never both, never neither.
	AuthorID    *string `gorm:"type:uuid;index;references:users(id)" json:"author_id,omitempty"`
	AuthorName  *string `gorm:"type:varchar(50)" json:"author_name,omitempty"`
	AuthorEmail *string `gorm:"type:varchar(255)" json:"-"`
	AuthorURL   *string `gorm:"type:varchar(200)" json:"author_url,omitempty"`

	Content  string `gorm:"type:text;not null" json:"content"`
	Approved bool   `gorm:"default:false;index" json:"approved"`

	// Provenance, never exposed to public reads
	IPAddress *string `gorm:"type:varchar(45)" json:"-"`
	UserAgent *string `gorm:"type:varchar(512)" json:"-"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Post    Post       `gorm:"foreignKey:PostID;references:ID" json:"-"`
	Author  *User      `gorm:"foreignKey:AuthorID;references:ID" json:"author,omitempty"`
	Parent  *Comment   `gorm:"foreignKey:ParentID;references:ID" json:"-"`
	Replies []*Comment `gorm:"-" json:"replies,omitempty"` // Assembled by the thread assembler, not preloaded
}

// BeforeCreate hook to generate UUID
func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (Comment) TableName() string {
	return "comments"
}

// IsRegistered reports whether the comment was written by a registered user
func (c *Comment) IsRegistered() bool {
	return c.AuthorID != nil && *c.AuthorID != ""
}
