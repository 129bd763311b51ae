package service

//go:generate mockgen -destination=../../mocks/mock_token_generator.go -package=mocks github.com/Testing-de-software-2025/JWT/internal/auth/service TokenGenerator

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Testing-de-software-2025/JWT/internal/auth/dto"
	apperrors "github.com/Testing-de-software-2025/JWT/internal/errors"
)

// TokenClass selects which secret and lifetime a token is issued and
// verified with. A token signed for one class never verifies under the
// other class's secret.
type TokenClass string

const (
	TokenClassAccess  TokenClass = "access"
	TokenClassRefresh TokenClass = "refresh"
)

type TokenGenerator interface {
	Issue(email string, class TokenClass) (string, error)
	Verify(tokenString string, class TokenClass) (*Claims, error)
	Rotate(refreshToken string) (*dto.TokenResponse, error)
}

type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type TokenService struct {
	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	RotateThreshold    time.Duration
}

func NewTokenService(accessSecret, refreshSecret string, accessMinutes, refreshMinutes, rotateThresholdMinutes int) *TokenService {
	return &TokenService{
		AccessTokenSecret:  accessSecret,
		RefreshTokenSecret: refreshSecret,
		AccessTokenExpiry:  time.Duration(accessMinutes) * time.Minute,
		RefreshTokenExpiry: time.Duration(refreshMinutes) * time.Minute,
		RotateThreshold:    time.Duration(rotateThresholdMinutes) * time.Minute,
	}
}

func (ts *TokenService) secret(class TokenClass) []byte {
	if class == TokenClassRefresh {
		return []byte(ts.RefreshTokenSecret)
	}
	return []byte(ts.AccessTokenSecret)
}

func (ts *TokenService) lifetime(class TokenClass) time.Duration {
	if class == TokenClassRefresh {
		return ts.RefreshTokenExpiry
	}
	return ts.AccessTokenExpiry
}

func (ts *TokenService) Issue(email string, class TokenClass) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.lifetime(class))),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ts.secret(class))
}

// Verify parses and validates tokenString against the given class's secret.
// It returns ErrTokenExpired for a well-signed but expired token and
// ErrInvalidToken for anything else that fails validation.
func (ts *TokenService) Verify(tokenString string, class TokenClass) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Ensure the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return ts.secret(class), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrInvalidToken
	}

	if !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}

	return claims, nil
}

// Rotate verifies a refresh token and issues a fresh access token. The
// refresh token itself is re-issued only when its remaining lifetime is below
// RotateThreshold; otherwise the presented token is returned unchanged.
func (ts *TokenService) Rotate(refreshToken string) (*dto.TokenResponse, error) {
	claims, err := ts.Verify(refreshToken, TokenClassRefresh)
	if err != nil {
		return nil, apperrors.ErrUnauthenticated
	}

	accessToken, err := ts.Issue(claims.Email, TokenClassAccess)
	if err != nil {
		return nil, err
	}

	newRefreshToken := refreshToken
	if time.Until(claims.ExpiresAt.Time) < ts.RotateThreshold {
		newRefreshToken, err = ts.Issue(claims.Email, TokenClassRefresh)
		if err != nil {
			return nil, err
		}
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}
