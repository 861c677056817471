package service

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"tswtrack/internal/model"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// Token subjects. Both token kinds are signed with the same secret, so the
// subject is what keeps a read-only share token out of owner endpoints.
const (
	subjectOwner  = "owner"
	subjectViewer = "viewer"
)

// AuthService handles owner and viewer authentication
type AuthService struct {
	ownerUsername string
	ownerPassword string
	jwtSecret     []byte
}

// NewAuthService creates a new auth service
func NewAuthService() *AuthService {
	username := os.Getenv("OWNER_USERNAME")
	if username == "" {
		username = "admin"
	}
	password := os.Getenv("OWNER_PASSWORD")
	if password == "" {
		password = "password123"
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "super-secret-key-change-in-production"
	}

	return &AuthService{
		ownerUsername: username,
		ownerPassword: password,
		jwtSecret:     []byte(secret),
	}
}

// Login validates credentials and returns an owner token. The user ID is
// derived from the username so the same account always maps to the same
// check-in history across logins.
func (s *AuthService) Login(username, password string) (*model.LoginResponse, error) {
	if username != s.ownerUsername || password != s.ownerPassword {
		return nil, ErrInvalidCredentials
	}

	userID := "usr_" + username

	claims := &model.OwnerClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  subjectOwner,
			IssuedAt: jwt.NewNumericDate(time.Now()),
			// No expiry for MVP - permanent token
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{
		Token:  tokenString,
		UserID: userID,
	}, nil
}

// ValidateOwnerToken validates an owner JWT and returns claims
func (s *AuthService) ValidateOwnerToken(tokenString string) (*model.OwnerClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.OwnerClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.OwnerClaims)
	if !ok || !token.Valid || claims.Subject != subjectOwner {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// GenerateShareToken creates a read-only token scoped to one user's
// insights, e.g. for sharing with a clinician
func (s *AuthService) GenerateShareToken(userID string) (string, error) {
	claims := &model.ViewerClaims{
		UserID:   userID,
		ReadOnly: true,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectViewer,
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(7 * 24 * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateShareToken validates a viewer JWT and returns claims
func (s *AuthService) ValidateShareToken(tokenString string) (*model.ViewerClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.ViewerClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.ViewerClaims)
	if !ok || !token.Valid || claims.Subject != subjectViewer || !claims.ReadOnly {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
