package repository

import (
	"context"
	"fmt"

	"github.com/contenthub/content-service/internal/models"
	"gorm.io/gorm"
)

// LoginHistoryRepository defines the append-only login audit store.
// There is deliberately no update or delete operation.
type LoginHistoryRepository interface {
	Create(ctx context.Context, entry *models.LoginHistory) error
	ListByUser(ctx context.Context, userID int64) ([]models.LoginHistory, error)
}

type loginHistoryRepository struct {
	db *gorm.DB
}

// NewLoginHistoryRepository creates a new LoginHistoryRepository instance.
func NewLoginHistoryRepository(db *gorm.DB) LoginHistoryRepository {
	return &loginHistoryRepository{db: db}
}

func (r *loginHistoryRepository) Create(ctx context.Context, entry *models.LoginHistory) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create login history entry for user %d: %w", entry.UserID, err)
	}
	return nil
}

// ListByUser returns the user's login history, newest first.
func (r *loginHistoryRepository) ListByUser(ctx context.Context, userID int64) ([]models.LoginHistory, error) {
	var entries []models.LoginHistory
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("login_datetime DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list login history for user %d: %w", userID, err)
	}
	return entries, nil
}
