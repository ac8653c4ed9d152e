package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/aadee-inc/steward/pkg/domain/interfaces"
	"github.com/aadee-inc/steward/pkg/domain/model/auth"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// TokensCollection is the unprefixed collection name of session tokens.
const TokensCollection = "tokens"

type tokenStore struct {
	client           *firestore.Client
	collectionPrefix string
}

func newTokenStore(client *firestore.Client) *tokenStore {
	return &tokenStore{client: client}
}

func (s *tokenStore) collection() *firestore.CollectionRef {
	return s.client.Collection(collectionName(s.collectionPrefix, TokensCollection))
}

func (s *tokenStore) PutToken(ctx context.Context, token *auth.Token) error {
	if err := token.Validate(); err != nil {
		return goerr.Wrap(err, "invalid token")
	}

	if _, err := s.collection().Doc(token.ID.String()).Set(ctx, token); err != nil {
		return goerr.Wrap(err, "failed to put token to firestore")
	}
	return nil
}

func (s *tokenStore) GetToken(ctx context.Context, tokenID auth.TokenID) (*auth.Token, error) {
	if err := tokenID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid token ID")
	}

	doc, err := s.collection().Doc(tokenID.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "token not found", goerr.V("token_id", tokenID))
		}
		return nil, goerr.Wrap(err, "failed to get token from firestore")
	}

	var token auth.Token
	if err := doc.DataTo(&token); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal token")
	}
	if token.IsExpired(time.Now()) {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "token expired", goerr.V("token_id", tokenID))
	}

	return &token, nil
}

func (s *tokenStore) DeleteToken(ctx context.Context, tokenID auth.TokenID) error {
	if err := tokenID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid token ID")
	}

	ref := s.collection().Doc(tokenID.String())
	if _, err := ref.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(interfaces.ErrNotFound, "token not found", goerr.V("token_id", tokenID))
		}
		return goerr.Wrap(err, "failed to get token from firestore")
	}

	if _, err := ref.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete token from firestore")
	}
	return nil
}
