package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"secondhand/internal/auth"
	"secondhand/internal/errors"
	"secondhand/internal/logger"
	"secondhand/internal/model"
	"secondhand/internal/repository"
)

// RegisterInput carries the fields accepted on sign-up.
type RegisterInput struct {
	Username string
	Password string
	Email    string
	Phone    string
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         *model.User
}

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	Login(ctx context.Context, credential, password string) (*LoginResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (accessToken string, err error)
	// Logout drops the refresh token and blacklists the access token
	// identified by accessTokenID until accessExpiry.
	Logout(ctx context.Context, refreshToken, accessTokenID string, accessExpiry time.Time) error
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		tokenStore: tokenStore,
	}
}

func identityOf(u *model.User) auth.Identity {
	return auth.Identity{UserID: u.ID, Username: u.Username, IsAdmin: u.IsAdmin}
}

// Register creates an active, non-admin user with a hashed password.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || in.Password == "" {
		return nil, errors.Validation("username and password are required")
	}

	existing, err := s.userRepo.FindByUsername(ctx, in.Username)
	if err == nil && existing != nil {
		return nil, errors.ErrUsernameTaken
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check username: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     in.Username,
		PasswordHash: string(hashed),
		Email:        in.Email,
		Phone:        in.Phone,
		Status:       true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	logger.FromContext(ctx).Info("user registered", zap.Uint("user_id", user.ID))
	return user, nil
}

// findByCredential treats a credential containing "@" as an email and
// anything else as a phone number, falling back to the username.
func (s *authService) findByCredential(ctx context.Context, credential string) (*model.User, error) {
	if strings.Contains(credential, "@") {
		return s.userRepo.FindByEmail(ctx, credential)
	}
	user, err := s.userRepo.FindByPhone(ctx, credential)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.userRepo.FindByUsername(ctx, credential)
	}
	return user, err
}

// Login authenticates a user and returns access and refresh tokens.
func (s *authService) Login(ctx context.Context, credential, password string) (*LoginResult, error) {
	user, err := s.findByCredential(ctx, strings.TrimSpace(credential))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errors.ErrInvalidCredentials
	}
	if !user.Status {
		return nil, errors.ErrUserBanned
	}

	_, accessToken, err := s.jwtService.GenerateAccessToken(identityOf(user))
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	tokenID, refreshToken, err := s.jwtService.GenerateRefreshToken(identityOf(user))
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}
	if err := s.tokenStore.StoreRefreshToken(ctx, tokenID, user.ID, auth.RefreshTokenExpiry); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &LoginResult{AccessToken: accessToken, RefreshToken: refreshToken, User: user}, nil
}

// RefreshToken validates a refresh token and returns a new access token
// minted from the user's current role and status.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwtService.ParseRefreshToken(refreshToken)
	if err != nil {
		return "", errors.ErrInvalidRefreshToken
	}

	storedUserID, err := s.tokenStore.GetRefreshToken(ctx, claims.ID)
	if err != nil || storedUserID != claims.UserID {
		return "", errors.ErrInvalidRefreshToken
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return "", errors.ErrInvalidRefreshToken
	}
	if !user.Status {
		return "", errors.ErrUserBanned
	}

	_, accessToken, err := s.jwtService.GenerateAccessToken(identityOf(user))
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return accessToken, nil
}

func (s *authService) Logout(ctx context.Context, refreshToken, accessTokenID string, accessExpiry time.Time) error {
	claims, err := s.jwtService.ParseRefreshToken(refreshToken)
	if err != nil {
		return errors.ErrInvalidRefreshToken
	}
	if err := s.tokenStore.DeleteRefreshToken(ctx, claims.ID); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	if accessTokenID != "" {
		if err := s.tokenStore.BlacklistAccessToken(ctx, accessTokenID, time.Until(accessExpiry)); err != nil {
			return fmt.Errorf("blacklist access token: %w", err)
		}
	}
	return nil
}
