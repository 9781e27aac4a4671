// Package services provides external service integrations and technical concerns like notifications and tokens
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token validation errors
var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("token is invalid")
)

// TokenService validates bearer tokens issued by the identity provider and
// generates tokens for service-to-service use
type TokenService interface {
	GenerateTokens(customerID uint, role string) (accessToken, refreshToken string, err error)
	ValidateToken(token string) (*TokenClaims, error)
	RefreshToken(refreshToken string) (newAccessToken, newRefreshToken string, err error)
}

// TokenClaims holds the validated claims of a bearer token
type TokenClaims struct {
	CustomerID uint      `json:"customer_id"`
	Role       string    `json:"role"`
	TokenType  string    `json:"token_type"` // "access" or "refresh"
	IssuedAt   time.Time `json:"issued_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// TokenServiceImpl implements TokenService with HMAC signing
type TokenServiceImpl struct {
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
	issuer          string
	audience        string
	secretKey       []byte
}

// NewTokenService creates a new token service
func NewTokenService(accessTokenTTL, refreshTokenTTL time.Duration, issuer, audience, secretKey string) (TokenService, error) {
	if secretKey == "" {
		return nil, fmt.Errorf("secret key is required")
	}
	return &TokenServiceImpl{
		accessTokenTTL:  accessTokenTTL,
		refreshTokenTTL: refreshTokenTTL,
		issuer:          issuer,
		audience:        audience,
		secretKey:       []byte(secretKey),
	}, nil
}

// GenerateTokens creates a new access and refresh token pair for a customer
func (s *TokenServiceImpl) GenerateTokens(customerID uint, role string) (string, string, error) {
	now := time.Now().UTC()

	accessToken, err := s.generateToken(jwt.MapClaims{
		"iss":         s.issuer,
		"aud":         s.audience,
		"customer_id": customerID,
		"role":        role,
		"token_type":  "access",
		"iat":         now.Unix(),
		"exp":         now.Add(s.accessTokenTTL).Unix(),
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.generateToken(jwt.MapClaims{
		"iss":         s.issuer,
		"aud":         s.audience,
		"customer_id": customerID,
		"role":        role,
		"token_type":  "refresh",
		"iat":         now.Unix(),
		"exp":         now.Add(s.refreshTokenTTL).Unix(),
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return accessToken, refreshToken, nil
}

// ValidateToken parses and validates a token string, returning its claims
func (s *TokenServiceImpl) ValidateToken(token string) (*TokenClaims, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secretKey, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithAudience(s.audience))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenInvalid
	}

	return mapClaims(claims)
}

// RefreshToken exchanges a valid refresh token for a new token pair
func (s *TokenServiceImpl) RefreshToken(refreshToken string) (string, string, error) {
	claims, err := s.ValidateToken(refreshToken)
	if err != nil {
		return "", "", err
	}
	if claims.TokenType != "refresh" {
		return "", "", fmt.Errorf("token is not a refresh token")
	}
	return s.GenerateTokens(claims.CustomerID, claims.Role)
}

func (s *TokenServiceImpl) generateToken(claims jwt.MapClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

func mapClaims(claims jwt.MapClaims) (*TokenClaims, error) {
	customerID, ok := claims["customer_id"].(float64)
	if !ok {
		return nil, fmt.Errorf("missing customer_id claim")
	}
	tokenType, ok := claims["token_type"].(string)
	if !ok {
		return nil, fmt.Errorf("missing token_type claim")
	}
	role, _ := claims["role"].(string)

	out := &TokenClaims{
		CustomerID: uint(customerID),
		Role:       role,
		TokenType:  tokenType,
	}
	if iat, ok := claims["iat"].(float64); ok {
		out.IssuedAt = time.Unix(int64(iat), 0).UTC()
	}
	if exp, ok := claims["exp"].(float64); ok {
		out.ExpiresAt = time.Unix(int64(exp), 0).UTC()
	}
	return out, nil
}
