package service

import (
	"context"
	"errors"
	"testing"

	"github.com/contenthub/content-service/internal/models"
	"github.com/contenthub/content-service/internal/repository"
	"gorm.io/gorm"
)

func setupDashboardService(t *testing.T) (DashboardService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	return NewDashboardService(repository.NewDashboardRepository(db)), db
}

func strPtr(s string) *string { return &s }

// =============================================================================
// Get Tests
// =============================================================================

func TestDashboardGet_WithoutProfile(t *testing.T) {
	svc, db := setupDashboardService(t)
	user := seedAuthor(t, db, "testuser")

	dashboard, err := svc.Get(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if dashboard.Username != "testuser" {
		t.Errorf("dashboard.Username = %q, want testuser", dashboard.Username)
	}
	if dashboard.Profile != nil {
		t.Error("dashboard.Profile should be nil before any profile write")
	}
}

func TestDashboardGet_NotFound(t *testing.T) {
	svc, _ := setupDashboardService(t)

	if _, err := svc.Get(context.Background(), 42); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want %v", err, ErrNotFound)
	}
}

// =============================================================================
// Update Tests
// =============================================================================

func TestDashboardUpdate_UserFieldsOnly(t *testing.T) {
	svc, db := setupDashboardService(t)
	user := seedAuthor(t, db, "testuser")

	dashboard, err := svc.Update(context.Background(), user.ID, DashboardUpdate{
		FirstName: strPtr("Jane"),
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if dashboard.FirstName != "Jane" {
		t.Errorf("dashboard.FirstName = %q, want Jane", dashboard.FirstName)
	}
	// No profile fields were written, so none should spring into existence
	if dashboard.Profile != nil {
		t.Error("Update() without profile fields must not create a profile")
	}

	var reloaded models.User
	if err := db.First(&reloaded, user.ID).Error; err != nil {
		t.Fatalf("Failed to reload user: %v", err)
	}
	if reloaded.FirstName != "Jane" {
		t.Errorf("persisted FirstName = %q, want Jane", reloaded.FirstName)
	}
}

func TestDashboardUpdate_CreatesProfileLazily(t *testing.T) {
	svc, db := setupDashboardService(t)
	user := seedAuthor(t, db, "testuser")

	dashboard, err := svc.Update(context.Background(), user.ID, DashboardUpdate{
		Profile: &ProfileUpdate{Bio: strPtr("hello")},
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if dashboard.Profile == nil {
		t.Fatal("Update() with profile fields should create the profile")
	}
	if dashboard.Profile.Bio != "hello" {
		t.Errorf("Profile.Bio = %q, want hello", dashboard.Profile.Bio)
	}

	var count int64
	if err := db.Model(&models.Profile{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		t.Fatalf("Failed to count profiles: %v", err)
	}
	if count != 1 {
		t.Errorf("profile rows = %d, want 1", count)
	}
}

func TestDashboardUpdate_PartialProfile(t *testing.T) {
	svc, db := setupDashboardService(t)
	user := seedAuthor(t, db, "testuser")

	if _, err := svc.Update(context.Background(), user.ID, DashboardUpdate{
		Profile: &ProfileUpdate{Bio: strPtr("hello"), Location: strPtr("Riga")},
	}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	dashboard, err := svc.Update(context.Background(), user.ID, DashboardUpdate{
		Profile: &ProfileUpdate{Location: strPtr("Berlin")},
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if dashboard.Profile.Location != "Berlin" {
		t.Errorf("Profile.Location = %q, want Berlin", dashboard.Profile.Location)
	}
	if dashboard.Profile.Bio != "hello" {
		t.Errorf("Profile.Bio = %q, want unchanged hello", dashboard.Profile.Bio)
	}
}

func TestDashboardUpdate_DateOfBirth(t *testing.T) {
	svc, db := setupDashboardService(t)
	user := seedAuthor(t, db, "testuser")

	dashboard, err := svc.Update(context.Background(), user.ID, DashboardUpdate{
		Profile: &ProfileUpdate{DateOfBirth: strPtr("1990-05-04")},
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if dashboard.Profile == nil || dashboard.Profile.DateOfBirth == nil {
		t.Fatal("Update() should set the date of birth")
	}
	if *dashboard.Profile.DateOfBirth != "1990-05-04" {
		t.Errorf("DateOfBirth = %q, want 1990-05-04", *dashboard.Profile.DateOfBirth)
	}
}

func TestDashboardUpdate_InvalidDateOfBirth(t *testing.T) {
	svc, db := setupDashboardService(t)
	user := seedAuthor(t, db, "testuser")

	_, err := svc.Update(context.Background(), user.ID, DashboardUpdate{
		Profile: &ProfileUpdate{DateOfBirth: strPtr("04/05/1990")},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Update() error = %v, want %v", err, ErrInvalidInput)
	}
}

func TestDashboardUpdate_NotFound(t *testing.T) {
	svc, _ := setupDashboardService(t)

	_, err := svc.Update(context.Background(), 42, DashboardUpdate{FirstName: strPtr("X")})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Update() error = %v, want %v", err, ErrNotFound)
	}
}
