// Package middleware contains HTTP middleware functions for request processing
package middleware

import (
	"errors"
	"strings"

	"github.com/andinotravel/reservas/app/dto"
	"github.com/andinotravel/reservas/app/services"
	"github.com/andinotravel/reservas/models"
	"github.com/gofiber/fiber/v3"
)

// AuthMiddleware handles JWT token validation for protected endpoints
type AuthMiddleware struct {
	tokenService services.TokenService
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(tokenService services.TokenService) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService: tokenService,
	}
}

// Authenticate is the middleware function that validates JWT tokens
func (m *AuthMiddleware) Authenticate() fiber.Handler {
	return func(c fiber.Ctx) error {
		claims, ok, err := m.validateRequest(c)
		if !ok {
			return err
		}

		c.Locals("customer_id", claims.CustomerID)
		c.Locals("role", claims.Role)
		c.Locals("token_claims", claims)

		if requestID := c.Get("X-Request-ID"); requestID != "" {
			c.Locals("request_id", requestID)
		}

		return c.Next()
	}
}

// RequireRole validates the token and additionally checks the caller's role.
// Admins pass every role check.
func (m *AuthMiddleware) RequireRole(roles ...models.CustomerRole) fiber.Handler {
	return func(c fiber.Ctx) error {
		claims, ok, err := m.validateRequest(c)
		if !ok {
			return err
		}

		allowed := claims.Role == string(models.RoleAdmin)
		for _, r := range roles {
			if claims.Role == string(r) {
				allowed = true
				break
			}
		}
		if !allowed {
			return c.Status(fiber.StatusForbidden).JSON(dto.APIResponse{
				Success: false,
				Message: "Insufficient role for this endpoint",
				Error:   dto.ErrorDetail{Code: "FORBIDDEN_ROLE"},
			})
		}

		c.Locals("customer_id", claims.CustomerID)
		c.Locals("role", claims.Role)
		c.Locals("token_claims", claims)

		if requestID := c.Get("X-Request-ID"); requestID != "" {
			c.Locals("request_id", requestID)
		}

		return c.Next()
	}
}

// OptionalAuth validates JWT tokens if present, but doesn't require them
func (m *AuthMiddleware) OptionalAuth() fiber.Handler {
	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Next()
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == "" {
			return c.Next()
		}

		claims, err := m.tokenService.ValidateToken(token)
		if err != nil {
			return c.Next()
		}

		c.Locals("customer_id", claims.CustomerID)
		c.Locals("role", claims.Role)
		c.Locals("token_claims", claims)

		if requestID := c.Get("X-Request-ID"); requestID != "" {
			c.Locals("request_id", requestID)
		}

		return c.Next()
	}
}

func (m *AuthMiddleware) validateRequest(c fiber.Ctx) (*services.TokenClaims, bool, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, false, c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
			Success: false,
			Message: "Authorization header is required",
			Error:   dto.ErrorDetail{Code: "MISSING_AUTHORIZATION_HEADER"},
		})
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, false, c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
			Success: false,
			Message: "Invalid authorization header format. Expected 'Bearer <token>'",
			Error:   dto.ErrorDetail{Code: "INVALID_AUTHORIZATION_FORMAT"},
		})
	}

	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return nil, false, c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
			Success: false,
			Message: "Access token is required",
			Error:   dto.ErrorDetail{Code: "MISSING_ACCESS_TOKEN"},
		})
	}

	claims, err := m.tokenService.ValidateToken(token)
	if err != nil {
		var errorCode string
		var message string

		if errors.Is(err, services.ErrTokenExpired) {
			errorCode = "TOKEN_EXPIRED"
			message = "Access token has expired"
		} else if errors.Is(err, services.ErrTokenInvalid) {
			errorCode = "TOKEN_INVALID"
			message = "Invalid access token"
		} else {
			errorCode = "TOKEN_VALIDATION_FAILED"
			message = "Token validation failed"
		}

		return nil, false, c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
			Success: false,
			Message: message,
			Error:   dto.ErrorDetail{Code: errorCode},
		})
	}

	return claims, true, nil
}

// GetCustomerIDFromContext extracts customer ID from the request context
func GetCustomerIDFromContext(c fiber.Ctx) (uint, bool) {
	customerID, ok := c.Locals("customer_id").(uint)
	return customerID, ok
}

// GetTokenClaimsFromContext extracts token claims from the request context
func GetTokenClaimsFromContext(c fiber.Ctx) (*services.TokenClaims, bool) {
	claims, ok := c.Locals("token_claims").(*services.TokenClaims)
	return claims, ok
}
