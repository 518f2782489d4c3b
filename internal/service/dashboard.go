package service

import (
	"context"
	"errors"
	"time"

	"github.com/contenthub/content-service/internal/models"
	"github.com/contenthub/content-service/internal/repository"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// ProfileData is the profile portion of the dashboard view.
type ProfileData struct {
	ID          int64   `json:"id"`
	Bio         string  `json:"bio"`
	Location    string  `json:"location"`
	DateOfBirth *string `json:"date_of_birth"`
}

// Dashboard is the combined user/profile read view. Profile is null until
// the user writes profile data for the first time.
type Dashboard struct {
	ID        int64        `json:"id"`
	Username  string       `json:"username"`
	FirstName string       `json:"first_name"`
	LastName  string       `json:"last_name"`
	Profile   *ProfileData `json:"profile"`
}

// ProfileUpdate is the nested partial update for profile fields.
type ProfileUpdate struct {
	Bio         *string `json:"bio"`
	Location    *string `json:"location"`
	DateOfBirth *string `json:"date_of_birth"`
}

// DashboardUpdate is a partial update; nil fields are left unchanged.
type DashboardUpdate struct {
	FirstName *string        `json:"first_name"`
	LastName  *string        `json:"last_name"`
	Profile   *ProfileUpdate `json:"profile"`
}

// DashboardService composes a user and its profile into one view and
// propagates partial updates to both in a single transaction.
type DashboardService interface {
	Get(ctx context.Context, userID int64) (*Dashboard, error)
	Update(ctx context.Context, userID int64, update DashboardUpdate) (*Dashboard, error)
}

type dashboardService struct {
	dashboardRepo repository.DashboardRepository
}

// NewDashboardService creates a new DashboardService instance.
func NewDashboardService(dashboardRepo repository.DashboardRepository) DashboardService {
	return &dashboardService{dashboardRepo: dashboardRepo}
}

func (s *dashboardService) Get(ctx context.Context, userID int64) (*Dashboard, error) {
	user, profile, err := s.dashboardRepo.GetUserWithProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toDashboard(user, profile), nil
}

// Update applies user-level fields and profile-level fields together. A
// profile row is created lazily the first time profile data is written.
func (s *dashboardService) Update(ctx context.Context, userID int64, update DashboardUpdate) (*Dashboard, error) {
	user, profile, err := s.dashboardRepo.GetUserWithProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if update.FirstName != nil {
		user.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		user.LastName = *update.LastName
	}

	if update.Profile != nil {
		if profile == nil {
			profile = &models.Profile{UserID: userID}
		}
		if update.Profile.Bio != nil {
			profile.Bio = *update.Profile.Bio
		}
		if update.Profile.Location != nil {
			profile.Location = *update.Profile.Location
		}
		if update.Profile.DateOfBirth != nil {
			dob, err := time.Parse(dateLayout, *update.Profile.DateOfBirth)
			if err != nil {
				return nil, ErrInvalidInput
			}
			profile.DateOfBirth = &dob
		}
	}

	if err := s.dashboardRepo.SaveUserAndProfile(ctx, user, profile); err != nil {
		return nil, err
	}
	return toDashboard(user, profile), nil
}

func toDashboard(user *models.User, profile *models.Profile) *Dashboard {
	d := &Dashboard{
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
	if profile != nil {
		data := &ProfileData{
			ID:       profile.ID,
			Bio:      profile.Bio,
			Location: profile.Location,
		}
		if profile.DateOfBirth != nil {
			formatted := profile.DateOfBirth.Format(dateLayout)
			data.DateOfBirth = &formatted
		}
		d.Profile = data
	}
	return d
}
