package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTService issues and validates admin tokens for the management
// endpoints. Admin auth is optional: with no secret configured, the
// endpoints are disabled entirely.
type JWTService struct {
	secret          []byte
	expirationHours int
}

// NewJWTService creates a token service. An empty secret yields a disabled
// service.
func NewJWTService(secret string, expirationHours int) *JWTService {
	if secret == "" {
		return &JWTService{}
	}
	if expirationHours <= 0 {
		expirationHours = 24
	}
	return &JWTService{secret: []byte(secret), expirationHours: expirationHours}
}

// Enabled reports whether a signing secret is configured.
func (s *JWTService) Enabled() bool { return len(s.secret) > 0 }

// adminClaims are the claims carried by admin tokens.
type adminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken mints an admin token.
func (s *JWTService) GenerateToken() (string, error) {
	if !s.Enabled() {
		return "", fmt.Errorf("JWT secret is not configured")
	}

	now := time.Now()
	claims := adminClaims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "portfolio-assistant",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.expirationHours) * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies an admin token.
func (s *JWTService) ValidateToken(tokenString string) error {
	if !s.Enabled() {
		return fmt.Errorf("JWT secret is not configured")
	}

	token, err := jwt.ParseWithClaims(tokenString, &adminClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*adminClaims)
	if !ok || !token.Valid {
		return fmt.Errorf("invalid token claims")
	}
	if claims.Role != "admin" {
		return fmt.Errorf("insufficient role: %s", claims.Role)
	}
	return nil
}

// bearerToken extracts the token from an Authorization header.
func bearerToken(header string) string {
	const prefix = "Bearer "
	if strings.HasPrefix(header, prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
