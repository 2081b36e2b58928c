package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Audit actions recorded by the comment engine
const (
	AuditActionCommentCreate  = "comment.create"
	AuditActionCommentUpdate  = "comment.update"
	AuditActionCommentApprove = "comment.approve"
	AuditActionCommentReject  = "comment.reject"
	AuditActionCommentDelete  = "comment.delete"
)

type AuditLog struct {
	ID         string    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID     *string   `gorm:"type:uuid;index" json:"user_id,omitempty"` // Nil for anonymous actors
	Action     string    `gorm:"type:varchar(50);not null;index" json:"action"`
	Resource   string    `gorm:"type:varchar(50);not null" json:"resource"`
	ResourceID *string   `gorm:"type:uuid;index" json:"resource_id,omitempty"` // Nil for batch actions spanning many resources
	Detail     string    `gorm:"type:jsonb" json:"detail,omitempty"`           // Free-form detail map stored as JSON
	IPAddress  *string   `gorm:"type:varchar(45)" json:"-"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// BeforeCreate hook to generate UUID
func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (AuditLog) TableName() string {
	return "audit_logs"
}

// SetDetail sets Detail from a free-form map
func (a *AuditLog) SetDetail(detail map[string]interface{}) error {
	if len(detail) == 0 {
		a.Detail = "{}"
		return nil
	}
	bytes, err := json.Marshal(detail)
	if err != nil {
		return err
	}
	a.Detail = string(bytes)
	return nil
}

// GetDetail returns Detail as a map
func (a *AuditLog) GetDetail() map[string]interface{} {
	detail := map[string]interface{}{}
	if a.Detail == "" {
		return detail
	}
	if err := json.Unmarshal([]byte(a.Detail), &detail); err != nil {
		return map[string]interface{}{}
	}
	return detail
}
