package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/contenthub/content-service/internal/models"
	"gorm.io/gorm"
)

// DashboardRepository reads and writes the user/profile pair as one unit.
// SaveUserAndProfile is the single place in the system that needs an
// explicit transaction boundary: a dashboard edit touches two rows and must
// not half-apply under concurrent writers.
type DashboardRepository interface {
	GetUserWithProfile(ctx context.Context, userID int64) (*models.User, *models.Profile, error)
	SaveUserAndProfile(ctx context.Context, user *models.User, profile *models.Profile) error
}

type dashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository creates a new DashboardRepository instance.
func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

// GetUserWithProfile returns the user and its profile. The profile is nil
// when none exists yet; a missing user is an error.
func (r *dashboardRepository) GetUserWithProfile(ctx context.Context, userID int64) (*models.User, *models.Profile, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to find user by id %d: %w", userID, err)
	}

	var profile models.Profile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &user, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find profile for user %d: %w", userID, err)
	}
	return &user, &profile, nil
}

// SaveUserAndProfile persists both records in one transaction. A profile
// with a zero ID is inserted, which is how lazy profile creation happens.
func (r *dashboardRepository) SaveUserAndProfile(ctx context.Context, user *models.User, profile *models.Profile) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(user).Error; err != nil {
			return err
		}
		if profile != nil {
			if err := tx.Save(profile).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save dashboard for user %d: %w", user.ID, err)
	}
	return nil
}
