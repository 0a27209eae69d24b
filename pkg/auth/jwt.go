package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/GoCleeny/service-booking/pkg/domain"
)

// Role is a staff role carried in access tokens.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// TokenType distinguishes access and refresh tokens.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims are the JWT claims issued to staff members.
type Claims struct {
	UserID    uuid.UUID `json:"uid"`
	Role      Role      `json:"role"`
	TokenType TokenType `json:"typ"`
	jwt.RegisteredClaims
}

// JWTManager issues and validates HMAC-signed tokens.
type JWTManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewJWTManager creates a JWTManager.
func NewJWTManager(secret string, accessTTL, refreshTTL time.Duration) *JWTManager {
	return &JWTManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// GenerateAccessToken issues a short-lived access token.
func (m *JWTManager) GenerateAccessToken(userID uuid.UUID, role Role) (string, error) {
	return m.generate(userID, role, TokenTypeAccess, m.accessTTL)
}

// GenerateRefreshToken issues a long-lived refresh token.
func (m *JWTManager) GenerateRefreshToken(userID uuid.UUID, role Role) (string, error) {
	return m.generate(userID, role, TokenTypeRefresh, m.refreshTTL)
}

func (m *JWTManager) generate(userID uuid.UUID, role Role, typ TokenType, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		UserID:    userID,
		Role:      role,
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateAccessToken parses and verifies an access token.
func (m *JWTManager) ValidateAccessToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, domain.NewUnauthorizedError("invalid token: " + err.Error())
	}
	if claims.TokenType != TokenTypeAccess {
		return nil, domain.NewUnauthorizedError("invalid token: not an access token")
	}
	return claims, nil
}
