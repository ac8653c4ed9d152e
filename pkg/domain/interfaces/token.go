package interfaces

import (
	"context"

	"github.com/aadee-inc/steward/pkg/domain/model/auth"
)

// TokenStore keeps issued session tokens until they expire or are revoked.
type TokenStore interface {
	PutToken(ctx context.Context, token *auth.Token) error
	// GetToken returns ErrNotFound for an unknown, revoked or expired token.
	GetToken(ctx context.Context, id auth.TokenID) (*auth.Token, error)
	DeleteToken(ctx context.Context, id auth.TokenID) error
}
