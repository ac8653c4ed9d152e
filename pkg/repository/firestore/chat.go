package firestore

import (
	"context"
	"slices"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/aadee-inc/steward/pkg/domain/model"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
)

// ChatMessagesCollection is the unprefixed collection name of chat messages.
const ChatMessagesCollection = "chat_messages"

type chatRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newChatRepository(client *firestore.Client) *chatRepository {
	return &chatRepository{client: client}
}

func (r *chatRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(collectionName(r.collectionPrefix, ChatMessagesCollection))
}

func (r *chatRepository) AppendMessage(ctx context.Context, msg *model.ChatMessage) (*model.ChatMessage, error) {
	stored := *msg
	if stored.ID == "" {
		stored.ID = uuid.Must(uuid.NewV7()).String()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	if _, err := r.collection().Doc(stored.ID).Set(ctx, &stored); err != nil {
		return nil, goerr.Wrap(err, "failed to append chat message",
			goerr.V("session_id", stored.SessionID))
	}
	return &stored, nil
}

func (r *chatRepository) ListMessages(ctx context.Context, sessionID string, limit int) ([]*model.ChatMessage, error) {
	query := r.collection().Where("SessionID", "==", sessionID).OrderBy("CreatedAt", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	messages := make([]*model.ChatMessage, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate chat messages", goerr.V("session_id", sessionID))
		}

		var m model.ChatMessage
		if err := doc.DataTo(&m); err != nil {
			return nil, goerr.Wrap(err, "failed to decode chat message", goerr.V("doc_id", doc.Ref.ID))
		}
		messages = append(messages, &m)
	}

	slices.Reverse(messages)
	return messages, nil
}
