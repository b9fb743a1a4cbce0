package service

import (
	"fmt"
	"time"

	"github.com/fundascope/sme-funding-bfa-go/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthService issues and validates service tokens for the protected
// routes, and checks the admin key for catalog administration. There
// are no end-user accounts: callers are trusted frontends and internal
// services holding a shared-secret-signed JWT.
type AuthService struct {
	jwtSecret    []byte
	adminKeyHash []byte
	accessTTL    time.Duration
	logger       *zap.Logger
}

// NewAuthService creates the auth service. adminKeyHash is the bcrypt
// hash of the admin key; an empty hash disables admin routes.
func NewAuthService(jwtSecret, adminKeyHash string, accessTTL time.Duration, logger *zap.Logger) *AuthService {
	return &AuthService{
		jwtSecret:    []byte(jwtSecret),
		adminKeyHash: []byte(adminKeyHash),
		accessTTL:    accessTTL,
		logger:       logger,
	}
}

// JWTClaims represents the custom claims in service tokens.
type JWTClaims struct {
	Sub  string `json:"sub"`
	Type string `json:"type"`
	jwt.RegisteredClaims
}

// SignServiceToken issues a short-lived token for a calling service.
func (s *AuthService) SignServiceToken(subject string) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		Sub:  subject,
		Type: "service",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateAccessToken parses and verifies a bearer token.
func (s *AuthService) ValidateAccessToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, &domain.ErrUnauthorized{Message: "invalid or expired token"}
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, &domain.ErrUnauthorized{Message: "invalid token"}
	}

	if claims.Type != "service" {
		return nil, &domain.ErrUnauthorized{Message: "invalid token type"}
	}

	return claims, nil
}

// VerifyAdminKey compares the presented admin key against the stored
// bcrypt hash.
func (s *AuthService) VerifyAdminKey(key string) error {
	if len(s.adminKeyHash) == 0 {
		return &domain.ErrForbidden{Action: "admin routes are disabled"}
	}
	if err := bcrypt.CompareHashAndPassword(s.adminKeyHash, []byte(key)); err != nil {
		s.logger.Warn("admin key rejected")
		return &domain.ErrForbidden{Action: "catalog administration"}
	}
	return nil
}
