package repository

import (
	"go-dairy-ops/internal/model"

	"gorm.io/gorm"
)

type AuditRepository interface {
	Create(tx *gorm.DB, entry *model.AuditLog) error
	FindRecent(actionType string, limit int) ([]model.AuditLog, error)
}

type auditRepo struct {
	db *gorm.DB
}

func NewAuditRepo(db *gorm.DB) AuditRepository {
	return &auditRepo{db}
}

// Create appends inside the caller's transaction so the audit row commits
// or rolls back together with the operation it records
func (r *auditRepo) Create(tx *gorm.DB, entry *model.AuditLog) error {
	return tx.Create(entry).Error
}

func (r *auditRepo) FindRecent(actionType string, limit int) ([]model.AuditLog, error) {
	var entries []model.AuditLog
	query := r.db.Order("created_at DESC").Limit(limit)
	if actionType != "" {
		query = query.Where("action_type = ?", actionType)
	}
	err := query.Find(&entries).Error
	return entries, err
}
