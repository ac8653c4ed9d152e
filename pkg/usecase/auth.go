package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/aadee-inc/steward/pkg/domain/interfaces"
	"github.com/aadee-inc/steward/pkg/domain/model/auth"
	"github.com/aadee-inc/steward/pkg/utils/logging"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/goerr/v2"
)

// DefaultTokenTTL is the lifetime of an issued bearer token.
const DefaultTokenTTL = 12 * time.Hour

const (
	tokenIssuer = "steward"
	nameClaim   = "name"
)

// Authenticator resolves bearer tokens into operator identities.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, *auth.Token, error)
	ValidateToken(ctx context.Context, raw string) (*auth.Token, error)
	Logout(ctx context.Context, raw string) error
	IsNoAuthn() bool
}

var (
	_ Authenticator = (*AuthUseCase)(nil)
	_ Authenticator = (*NoAuthnUseCase)(nil)
)

// AuthUseCase issues HS256 signed bearer tokens. A token is valid while its
// signature and expiry check out and its jti is still in the TokenStore.
type AuthUseCase struct {
	store    interfaces.TokenStore
	secret   []byte
	password string
	ttl      time.Duration
	now      func() time.Time
}

// AuthOption is a functional option for AuthUseCase
type AuthOption func(*AuthUseCase)

// WithTokenTTL sets the lifetime of issued tokens
func WithTokenTTL(ttl time.Duration) AuthOption {
	return func(uc *AuthUseCase) {
		uc.ttl = ttl
	}
}

// WithAuthClock replaces the clock used to issue and check tokens
func WithAuthClock(now func() time.Time) AuthOption {
	return func(uc *AuthUseCase) {
		uc.now = now
	}
}

// NewAuthUseCase returns an AuthUseCase signing with secret. Every operator
// logs in with the shared password.
func NewAuthUseCase(store interfaces.TokenStore, secret []byte, password string, options ...AuthOption) *AuthUseCase {
	uc := &AuthUseCase{
		store:    store,
		secret:   secret,
		password: password,
		ttl:      DefaultTokenTTL,
		now:      time.Now,
	}
	for _, opt := range options {
		opt(uc)
	}
	return uc
}

// IsNoAuthn returns false for regular AuthUseCase
func (uc *AuthUseCase) IsNoAuthn() bool {
	return false
}

// Login checks the password and returns a signed token for username.
func (uc *AuthUseCase) Login(ctx context.Context, username, password string) (string, *auth.Token, error) {
	if username == "" {
		return "", nil, goerr.Wrap(ErrValidation, "username is required")
	}
	if password == "" {
		return "", nil, goerr.Wrap(ErrValidation, "password is required")
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(uc.password)) != 1 {
		return "", nil, goerr.Wrap(ErrUnauthorized, "invalid credentials", goerr.V("username", username))
	}

	now := uc.now().UTC().Truncate(time.Second)
	token := auth.NewToken(username, username, now, uc.ttl)

	jwtToken, err := jwt.NewBuilder().
		JwtID(token.ID.String()).
		Issuer(tokenIssuer).
		Subject(token.Sub).
		IssuedAt(token.CreatedAt).
		Expiration(token.ExpiresAt).
		Claim(nameClaim, token.Name).
		Build()
	if err != nil {
		return "", nil, goerr.Wrap(err, "failed to build token")
	}

	signed, err := jwt.Sign(jwtToken, jwt.WithKey(jwa.HS256, uc.secret))
	if err != nil {
		return "", nil, goerr.Wrap(err, "failed to sign token")
	}

	if err := uc.store.PutToken(ctx, token); err != nil {
		return "", nil, goerr.Wrap(err, "failed to store token", goerr.V("token_id", token.ID))
	}

	logging.From(ctx).Info("operator logged in", "user", username, "token_id", token.ID)
	return string(signed), token, nil
}

// ValidateToken verifies raw and returns the stored token. Any failure is
// reported as ErrUnauthorized.
func (uc *AuthUseCase) ValidateToken(ctx context.Context, raw string) (*auth.Token, error) {
	parsed, err := uc.parse(raw)
	if err != nil {
		return nil, err
	}

	id := auth.TokenID(parsed.JwtID())
	if err := id.Validate(); err != nil {
		return nil, goerr.Wrap(ErrUnauthorized, "invalid token id")
	}

	token, err := uc.store.GetToken(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(ErrUnauthorized, "token is revoked or expired",
			goerr.V("token_id", id), goerr.V("cause", err.Error()))
	}
	if token.Sub != parsed.Subject() || token.IsExpired(uc.now()) {
		return nil, goerr.Wrap(ErrUnauthorized, "token does not match session", goerr.V("token_id", id))
	}
	return token, nil
}

// Logout revokes raw. Revoking an unknown token is not an error.
func (uc *AuthUseCase) Logout(ctx context.Context, raw string) error {
	parsed, err := uc.parse(raw)
	if err != nil {
		return err
	}

	id := auth.TokenID(parsed.JwtID())
	if err := uc.store.DeleteToken(ctx, id); err != nil && !errors.Is(err, interfaces.ErrNotFound) {
		return goerr.Wrap(err, "failed to revoke token", goerr.V("token_id", id))
	}
	logging.From(ctx).Info("operator logged out", "user", parsed.Subject(), "token_id", id)
	return nil
}

func (uc *AuthUseCase) parse(raw string) (jwt.Token, error) {
	if raw == "" {
		return nil, goerr.Wrap(ErrUnauthorized, "missing bearer token")
	}
	parsed, err := jwt.Parse([]byte(raw),
		jwt.WithKey(jwa.HS256, uc.secret),
		jwt.WithValidate(true),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithClock(jwt.ClockFunc(uc.now)),
	)
	if err != nil {
		return nil, goerr.Wrap(ErrUnauthorized, "invalid bearer token", goerr.V("cause", err.Error()))
	}
	return parsed, nil
}

// NoAuthnUseCase accepts every request as one fixed user (for development/testing)
type NoAuthnUseCase struct {
	user string
}

// NewNoAuthnUseCase returns a NoAuthnUseCase acting as user. An empty user
// is the anonymous user.
func NewNoAuthnUseCase(user string) *NoAuthnUseCase {
	if user == "" {
		user = auth.AnonymousUserID
	}
	return &NoAuthnUseCase{user: user}
}

func (uc *NoAuthnUseCase) token() *auth.Token {
	t := auth.NewAnonymousUser()
	t.Sub = uc.user
	t.Name = uc.user
	return t
}

// Login returns the fixed user without a signed token.
func (uc *NoAuthnUseCase) Login(ctx context.Context, username, password string) (string, *auth.Token, error) {
	return "", uc.token(), nil
}

// ValidateToken always returns the fixed user
func (uc *NoAuthnUseCase) ValidateToken(ctx context.Context, raw string) (*auth.Token, error) {
	return uc.token(), nil
}

// Logout does nothing in no-auth mode
func (uc *NoAuthnUseCase) Logout(ctx context.Context, raw string) error {
	return nil
}

// IsNoAuthn returns true for NoAuthnUseCase
func (uc *NoAuthnUseCase) IsNoAuthn() bool {
	return true
}
