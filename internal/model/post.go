package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Post struct {
	ID        string         `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	AuthorID  string         `gorm:"type:uuid;not null;index;references:users(id)" json:"author_id"`
	Slug      string         `gorm:"type:varchar(255);not null;uniqueIndex" json:"slug"`
	Title     string         `gorm:"type:varchar(255);not null" json:"title"`
	Published bool           `gorm:"default:false;index" json:"published"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Author User `gorm:"foreignKey:AuthorID;references:ID" json:"author,omitempty"`
}

// BeforeCreate hook to generate UUID
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (Post) TableName() string {
	return "posts"
}
