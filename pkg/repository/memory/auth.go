package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aadee-inc/steward/pkg/domain/interfaces"
	"github.com/aadee-inc/steward/pkg/domain/model/auth"
	"github.com/m-mizutani/goerr/v2"
)

type tokenStore struct {
	mu     sync.RWMutex
	tokens map[auth.TokenID]*auth.Token
	now    func() time.Time
}

func newTokenStore() *tokenStore {
	return &tokenStore{
		tokens: make(map[auth.TokenID]*auth.Token),
		now:    time.Now,
	}
}

func (s *tokenStore) PutToken(ctx context.Context, token *auth.Token) error {
	if err := token.Validate(); err != nil {
		return goerr.Wrap(err, "invalid token")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := *token
	s.tokens[token.ID] = &t
	return nil
}

func (s *tokenStore) GetToken(ctx context.Context, tokenID auth.TokenID) (*auth.Token, error) {
	if err := tokenID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid token ID")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok := s.tokens[tokenID]
	if !ok {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "token not found", goerr.V("token_id", tokenID))
	}
	if token.IsExpired(s.now()) {
		delete(s.tokens, tokenID)
		return nil, goerr.Wrap(interfaces.ErrNotFound, "token expired", goerr.V("token_id", tokenID))
	}

	t := *token
	return &t, nil
}

func (s *tokenStore) DeleteToken(ctx context.Context, tokenID auth.TokenID) error {
	if err := tokenID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid token ID")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tokens[tokenID]; !ok {
		return goerr.Wrap(interfaces.ErrNotFound, "token not found", goerr.V("token_id", tokenID))
	}
	delete(s.tokens, tokenID)
	return nil
}
