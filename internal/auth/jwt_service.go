package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	// AccessTokenExpiry is the duration for which access tokens are valid.
	AccessTokenExpiry = 24 * time.Hour
	// RefreshTokenExpiry is the duration for which refresh tokens are valid.
	RefreshTokenExpiry = 7 * 24 * time.Hour
)

// Claims represents JWT claims.
type Claims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
	Refresh  bool   `json:"refresh,omitempty"`
	jwt.RegisteredClaims
}

// Identity is the subset of a user a token is minted for.
type Identity struct {
	UserID   uint
	Username string
	IsAdmin  bool
}

// JWTService handles JWT token generation and validation.
type JWTService struct {
	secret []byte
	now    func() time.Time
}

// NewJWTService creates a new JWT service with the given secret.
func NewJWTService(secret string) *JWTService {
	return &JWTService{
		secret: []byte(secret),
		now:    time.Now,
	}
}

func (s *JWTService) sign(id Identity, tokenID string, refresh bool, ttl time.Duration) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID:   id.UserID,
		Username: id.Username,
		IsAdmin:  id.IsAdmin,
		Refresh:  refresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Subject:   strconv.FormatUint(uint64(id.UserID), 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// GenerateAccessToken generates a new access token. The token ID lets
// logout blacklist it before it expires.
func (s *JWTService) GenerateAccessToken(id Identity) (tokenID string, token string, err error) {
	tokenID = generateTokenID()
	token, err = s.sign(id, tokenID, false, AccessTokenExpiry)
	return tokenID, token, err
}

// GenerateRefreshToken generates a new refresh token for the user.
// The refresh token ID is returned separately for storage in Redis.
func (s *JWTService) GenerateRefreshToken(id Identity) (tokenID string, token string, err error) {
	tokenID = generateTokenID()
	token, err = s.sign(id, tokenID, true, RefreshTokenExpiry)
	return tokenID, token, err
}

// ValidateToken validates a JWT token and returns the claims.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// ParseRefreshToken validates a token and requires it to be a refresh token.
func (s *JWTService) ParseRefreshToken(tokenString string) (*Claims, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if !claims.Refresh || claims.ID == "" {
		return nil, errors.New("not a refresh token")
	}
	return claims, nil
}

// SigningKey exposes the HMAC key for the echo-jwt middleware.
func (s *JWTService) SigningKey() []byte {
	return s.secret
}

func generateTokenID() string {
	return uuid.New().String()
}
