package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/aadee-inc/steward/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
)

type Firestore struct {
	client     *firestore.Client
	action     *actionRepository
	suggestion *suggestionRepository
	chat       *chatRepository
	calendar   *calendarCredentialRepository
	tokens     *tokenStore
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix prefixes every collection name, e.g. to isolate tests.
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.action.collectionPrefix = prefix
		f.suggestion.collectionPrefix = prefix
		f.chat.collectionPrefix = prefix
		f.calendar.collectionPrefix = prefix
		f.tokens.collectionPrefix = prefix
	}
}

// New connects to Firestore. An empty databaseID selects the default database.
func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID), goerr.V("databaseID", databaseID))
	}

	f := &Firestore{
		client:     client,
		action:     newActionRepository(client),
		suggestion: newSuggestionRepository(client),
		chat:       newChatRepository(client),
		calendar:   newCalendarCredentialRepository(client),
		tokens:     newTokenStore(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Action() interfaces.ActionRepository {
	return f.action
}

func (f *Firestore) Suggestion() interfaces.SuggestionRepository {
	return f.suggestion
}

func (f *Firestore) Chat() interfaces.ChatRepository {
	return f.chat
}

func (f *Firestore) CalendarCredential() interfaces.CalendarCredentialRepository {
	return f.calendar
}

func (f *Firestore) Token() interfaces.TokenStore {
	return f.tokens
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

func collectionName(prefix, name string) string {
	if prefix != "" {
		return prefix + "_" + name
	}
	return name
}
