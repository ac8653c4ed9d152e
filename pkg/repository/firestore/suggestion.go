package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/aadee-inc/steward/pkg/domain/interfaces"
	"github.com/aadee-inc/steward/pkg/domain/model"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// SuggestionsCollection is the unprefixed collection name of suggestions.
const SuggestionsCollection = "suggestions"

type suggestionRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newSuggestionRepository(client *firestore.Client) *suggestionRepository {
	return &suggestionRepository{client: client}
}

func (r *suggestionRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(collectionName(r.collectionPrefix, SuggestionsCollection))
}

func (r *suggestionRepository) Create(ctx context.Context, s *model.Suggestion) (*model.Suggestion, error) {
	created := s.Copy()
	if created.ID == "" {
		created.ID = model.SuggestionID(uuid.Must(uuid.NewV7()).String())
	}
	now := time.Now().UTC()
	if created.CreatedAt.IsZero() {
		created.CreatedAt = now
	}
	if created.UpdatedAt.IsZero() {
		created.UpdatedAt = created.CreatedAt
	}

	if _, err := r.collection().Doc(created.ID.String()).Create(ctx, created); err != nil {
		return nil, goerr.Wrap(err, "failed to create suggestion", goerr.V("id", created.ID))
	}
	return created, nil
}

func (r *suggestionRepository) Get(ctx context.Context, id model.SuggestionID) (*model.Suggestion, error) {
	doc, err := r.collection().Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "suggestion not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get suggestion", goerr.V("id", id))
	}

	var s model.Suggestion
	if err := doc.DataTo(&s); err != nil {
		return nil, goerr.Wrap(err, "failed to decode suggestion", goerr.V("id", id))
	}
	return &s, nil
}

func (r *suggestionRepository) List(ctx context.Context, q interfaces.SuggestionQuery) ([]*model.Suggestion, error) {
	query := r.collection().Where("OrgID", "==", q.OrgID)
	if q.Status != "" {
		query = query.Where("Status", "==", q.Status)
	}
	if q.Priority != "" {
		query = query.Where("Priority", "==", q.Priority)
	}
	query = query.OrderBy("CreatedAt", firestore.Desc)
	if q.Offset > 0 {
		query = query.Offset(q.Offset)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	suggestions := make([]*model.Suggestion, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate suggestions")
		}

		var s model.Suggestion
		if err := doc.DataTo(&s); err != nil {
			return nil, goerr.Wrap(err, "failed to decode suggestion", goerr.V("doc_id", doc.Ref.ID))
		}
		suggestions = append(suggestions, &s)
	}
	return suggestions, nil
}

func (r *suggestionRepository) Update(ctx context.Context, s *model.Suggestion) (*model.Suggestion, error) {
	ref := r.collection().Doc(s.ID.String())
	updated := s.Copy()
	updated.UpdatedAt = time.Now().UTC()

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(interfaces.ErrNotFound, "suggestion not found", goerr.V("id", s.ID))
			}
			return goerr.Wrap(err, "failed to get suggestion", goerr.V("id", s.ID))
		}
		return tx.Set(ref, updated)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
