package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/aadee-inc/steward/pkg/domain/model/auth"
	"github.com/aadee-inc/steward/pkg/repository/memory"
	"github.com/aadee-inc/steward/pkg/usecase"
	"github.com/m-mizutani/gt"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestAuthUseCase_LoginAndValidate(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewAuthUseCase(memory.New().Token(), testSecret, "letmein")

	signed, token, err := uc.Login(ctx, "alice", "letmein")
	gt.NoError(t, err)
	gt.String(t, signed).NotEqual("")
	gt.Value(t, token.Sub).Equal("alice")

	validated, err := uc.ValidateToken(ctx, signed)
	gt.NoError(t, err)
	gt.Value(t, validated.ID).Equal(token.ID)
	gt.Value(t, validated.Sub).Equal("alice")
	gt.Bool(t, uc.IsNoAuthn()).False()
}

func TestAuthUseCase_RejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewAuthUseCase(memory.New().Token(), testSecret, "letmein")

	_, _, err := uc.Login(ctx, "alice", "guess")
	gt.Error(t, err).Is(usecase.ErrUnauthorized)

	_, _, err = uc.Login(ctx, "", "letmein")
	gt.Error(t, err).Is(usecase.ErrValidation)

	_, err = uc.ValidateToken(ctx, "")
	gt.Error(t, err).Is(usecase.ErrUnauthorized)

	_, err = uc.ValidateToken(ctx, "not-a-jwt")
	gt.Error(t, err).Is(usecase.ErrUnauthorized)
}

func TestAuthUseCase_Logout(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewAuthUseCase(memory.New().Token(), testSecret, "letmein")

	signed, _, err := uc.Login(ctx, "alice", "letmein")
	gt.NoError(t, err)

	gt.NoError(t, uc.Logout(ctx, signed))

	_, err = uc.ValidateToken(ctx, signed)
	gt.Error(t, err).Is(usecase.ErrUnauthorized)
}

func TestAuthUseCase_ForeignSignature(t *testing.T) {
	ctx := context.Background()
	store := memory.New().Token()
	issuer := usecase.NewAuthUseCase(store, []byte("another-secret-another-secret-00"), "letmein")
	verifier := usecase.NewAuthUseCase(store, testSecret, "letmein")

	signed, _, err := issuer.Login(ctx, "alice", "letmein")
	gt.NoError(t, err)

	_, err = verifier.ValidateToken(ctx, signed)
	gt.Error(t, err).Is(usecase.ErrUnauthorized)
}

func TestAuthUseCase_Expired(t *testing.T) {
	ctx := context.Background()
	store := memory.New().Token()
	past := time.Now().Add(-48 * time.Hour)
	issuer := usecase.NewAuthUseCase(store, testSecret, "letmein",
		usecase.WithAuthClock(func() time.Time { return past }),
		usecase.WithTokenTTL(time.Hour),
	)
	verifier := usecase.NewAuthUseCase(store, testSecret, "letmein")

	signed, _, err := issuer.Login(ctx, "alice", "letmein")
	gt.NoError(t, err)

	_, err = verifier.ValidateToken(ctx, signed)
	gt.Error(t, err).Is(usecase.ErrUnauthorized)
}

func TestNoAuthnUseCase(t *testing.T) {
	ctx := context.Background()

	uc := usecase.NewNoAuthnUseCase("dev")
	token, err := uc.ValidateToken(ctx, "")
	gt.NoError(t, err)
	gt.Value(t, token.Sub).Equal("dev")
	gt.Bool(t, uc.IsNoAuthn()).True()
	gt.NoError(t, uc.Logout(ctx, "anything"))

	anon, err := usecase.NewNoAuthnUseCase("").ValidateToken(ctx, "")
	gt.NoError(t, err)
	gt.Value(t, anon.Sub).Equal(auth.AnonymousUserID)
}

func TestAuthUseCase_LogoutTwice(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewAuthUseCase(memory.New().Token(), testSecret, "letmein")

	signed, _, err := uc.Login(ctx, "alice", "letmein")
	gt.NoError(t, err)
	gt.NoError(t, uc.Logout(ctx, signed))
	gt.NoError(t, uc.Logout(ctx, signed))
}
