package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/contenthub/content-service/internal/models"
	"github.com/contenthub/content-service/internal/repository"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("username or email already registered")
)

// TokenPair is a freshly issued access/refresh token pair.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// RegisterInput carries validated registration fields. Password
// confirmation happens at the transport layer before this is built.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// UpdateUserInput is a partial update of the caller's account fields.
type UpdateUserInput struct {
	Email     *string
	FirstName *string
	LastName  *string
	Password  *string
}

// AuthService implements credential verification, token issuance and the
// login audit trail.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	RecordLogin(ctx context.Context, accessToken, ipAddress, userAgent string) error
	LoginHistory(ctx context.Context, userID int64) ([]models.LoginHistory, error)
	GetUser(ctx context.Context, userID int64) (*models.User, error)
	UpdateUser(ctx context.Context, userID int64, input UpdateUserInput) (*models.User, error)
}

type authService struct {
	userRepo         repository.UserRepository
	loginHistoryRepo repository.LoginHistoryRepository
	jwtService       JWTService
	redis            *redis.Client
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(
	userRepo repository.UserRepository,
	loginHistoryRepo repository.LoginHistoryRepository,
	jwtService JWTService,
	redisClient *redis.Client,
) AuthService {
	return &authService{
		userRepo:         userRepo,
		loginHistoryRepo: loginHistoryRepo,
		jwtService:       jwtService,
		redis:            redisClient,
	}
}

// Login verifies the credentials and issues a token pair. Unknown usernames
// and wrong passwords are indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user.ID, user.Username)
}

// Refresh validates the refresh token against the stored copy and rotates
// the pair.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return nil, err
	}

	stored, err := s.redis.Get(ctx, refreshTokenKey(claims.UserID)).Result()
	if err != nil || stored != refreshToken {
		return nil, ErrTokenInvalid
	}

	return s.issueTokens(ctx, claims.UserID, claims.Username)
}

func (s *authService) issueTokens(ctx context.Context, userID int64, username string) (*TokenPair, error) {
	accessToken, err := s.jwtService.GenerateAccessToken(userID, username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtService.GenerateRefreshToken(userID, username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	err = s.redis.Set(ctx, refreshTokenKey(userID), refreshToken, s.jwtService.RefreshExpiry()).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &TokenPair{Access: accessToken, Refresh: refreshToken}, nil
}

// Register creates a new account with a bcrypt-hashed password.
func (s *authService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	if _, err := s.userRepo.FindByUsername(ctx, input.Username); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if _, err := s.userRepo.FindByEmail(ctx, input.Email); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// RecordLogin appends a login history entry keyed off the just-issued
// access token's subject claim. The store assigns the timestamp.
func (s *authService) RecordLogin(ctx context.Context, accessToken, ipAddress, userAgent string) error {
	claims, err := s.jwtService.ValidateToken(accessToken)
	if err != nil {
		return fmt.Errorf("failed to decode access token for audit: %w", err)
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return fmt.Errorf("failed to resolve audit subject: %w", err)
	}

	return s.loginHistoryRepo.Create(ctx, &models.LoginHistory{
		UserID:    user.ID,
		IPAddress: ipAddress,
		UserAgent: userAgent,
	})
}

// LoginHistory returns the user's own entries, newest first.
func (s *authService) LoginHistory(ctx context.Context, userID int64) ([]models.LoginHistory, error) {
	return s.loginHistoryRepo.ListByUser(ctx, userID)
}

func (s *authService) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateUser applies the provided account fields and leaves the rest alone.
func (s *authService) UpdateUser(ctx context.Context, userID int64, input UpdateUserInput) (*models.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func refreshTokenKey(userID int64) string {
	return fmt.Sprintf("refresh_token:%d", userID)
}
