package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// TokenID identifies an issued session token. It is the JWT "jti" claim.
type TokenID string

func (id TokenID) String() string {
	return string(id)
}

// Validate checks that id is a UUID.
func (id TokenID) Validate() error {
	if _, err := uuid.Parse(string(id)); err != nil {
		return goerr.Wrap(err, "invalid token ID", goerr.V("token_id", string(id)))
	}
	return nil
}

// NewTokenID returns a random TokenID.
func NewTokenID() TokenID {
	return TokenID(uuid.NewString())
}

// Token is an authenticated operator session.
type Token struct {
	ID        TokenID
	Sub       string
	Name      string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// AnonymousUserID is the subject used when authentication is disabled.
const AnonymousUserID = "anonymous"

// NewToken issues a Token for sub valid for ttl.
func NewToken(sub, name string, now time.Time, ttl time.Duration) *Token {
	return &Token{
		ID:        NewTokenID(),
		Sub:       sub,
		Name:      name,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// NewAnonymousUser returns the token used in no-auth mode.
func NewAnonymousUser() *Token {
	return &Token{
		ID:   TokenID(uuid.Nil.String()),
		Sub:  AnonymousUserID,
		Name: AnonymousUserID,
	}
}

// Validate checks required fields.
func (t *Token) Validate() error {
	if err := t.ID.Validate(); err != nil {
		return err
	}
	if t.Sub == "" {
		return goerr.New("token subject is required", goerr.V("token_id", t.ID))
	}
	return nil
}

// IsExpired reports whether the token is expired at now. A zero ExpiresAt
// never expires.
func (t *Token) IsExpired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && !now.Before(t.ExpiresAt)
}

type tokenContextKey struct{}

// ContextWithToken embeds token in ctx.
func ContextWithToken(ctx context.Context, token *Token) context.Context {
	return context.WithValue(ctx, tokenContextKey{}, token)
}

// TokenFromContext returns the token embedded by ContextWithToken.
func TokenFromContext(ctx context.Context) (*Token, error) {
	token, ok := ctx.Value(tokenContextKey{}).(*Token)
	if !ok || token == nil {
		return nil, goerr.New("token not found in context")
	}
	return token, nil
}
