package driven

import "github.com/custodia-labs/stockmirror/internal/core/domain"

// AuthAdapter issues and validates the bearer tokens guarding the
// operational API.
type AuthAdapter interface {
	// GenerateToken creates a signed token from claims.
	GenerateToken(claims *domain.TokenClaims) (string, error)

	// ParseToken validates a token and extracts its claims.
	// Returns domain.ErrTokenExpired or domain.ErrTokenInvalid on failure.
	ParseToken(tokenString string) (*domain.TokenClaims, error)
}
