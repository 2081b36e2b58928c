package repository

import (
	"github.com/argeoalecha/hayahai-web-sub001/internal/model"

	"gorm.io/gorm"
)

type AuditRepository interface {
	Create(entry *model.AuditLog) error
	FindByResourceID(resource, resourceID string, limit, offset int) ([]*model.AuditLog, error)
	FindRecent(limit, offset int) ([]*model.AuditLog, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

// Create persists an audit entry
func (r *auditRepository) Create(entry *model.AuditLog) error {
	return r.db.Create(entry).Error
}

// FindByResourceID returns the audit trail of a single resource, newest first
func (r *auditRepository) FindByResourceID(resource, resourceID string, limit, offset int) ([]*model.AuditLog, error) {
	var entries []*model.AuditLog
	err := r.db.Where("resource = ? AND resource_id = ?", resource, resourceID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// FindRecent returns the most recent audit entries
func (r *auditRepository) FindRecent(limit, offset int) ([]*model.AuditLog, error) {
	var entries []*model.AuditLog
	err := r.db.Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
