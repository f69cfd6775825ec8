// File: internal/reconcile/repository.go
package reconcile

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Repository defines the ledger data operations.
type Repository interface {
	Create(ctx context.Context, entry *Entry) error
	FindPending(ctx context.Context, limit int) ([]Entry, error)
	Update(ctx context.Context, entry *Entry) error
	CountByStatus(ctx context.Context, status Status) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates the GORM ledger repository and migrates its table.
func NewGORMRepository(db *gorm.DB) (Repository, error) {
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate reconciliation ledger: %w", err)
	}
	return &gormRepository{db: db}, nil
}

// Create inserts a new ledger entry.
func (r *gormRepository) Create(ctx context.Context, entry *Entry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create reconciliation entry: %w", err)
	}
	return nil
}

// FindPending returns the oldest pending entries first.
func (r *gormRepository) FindPending(ctx context.Context, limit int) ([]Entry, error) {
	var entries []Entry
	err := r.db.WithContext(ctx).
		Where("status = ?", StatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find pending reconciliation entries: %w", err)
	}
	return entries, nil
}

// Update saves all fields of entry.
func (r *gormRepository) Update(ctx context.Context, entry *Entry) error {
	if err := r.db.WithContext(ctx).Save(entry).Error; err != nil {
		return fmt.Errorf("failed to update reconciliation entry %s: %w", entry.ID, err)
	}
	return nil
}

// CountByStatus counts entries in the given state.
func (r *gormRepository) CountByStatus(ctx context.Context, status Status) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Entry{}).Where("status = ?", status).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count reconciliation entries: %w", err)
	}
	return count, nil
}
