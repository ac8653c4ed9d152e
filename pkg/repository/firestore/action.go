package firestore

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/aadee-inc/steward/pkg/domain/interfaces"
	"github.com/aadee-inc/steward/pkg/domain/model"
	"github.com/aadee-inc/steward/pkg/domain/types"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ActionsCollection is the unprefixed collection name of actions.
const ActionsCollection = "actions"

type actionRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newActionRepository(client *firestore.Client) *actionRepository {
	return &actionRepository{client: client}
}

func (r *actionRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(collectionName(r.collectionPrefix, ActionsCollection))
}

func (r *actionRepository) Create(ctx context.Context, action *model.Action) (*model.Action, error) {
	created := action.Copy()
	if created.ID == "" {
		created.ID = model.ActionID(uuid.Must(uuid.NewV7()).String())
	}
	now := time.Now().UTC()
	if created.CreatedAt.IsZero() {
		created.CreatedAt = now
	}
	if created.UpdatedAt.IsZero() {
		created.UpdatedAt = created.CreatedAt
	}

	if _, err := r.collection().Doc(created.ID.String()).Create(ctx, created); err != nil {
		return nil, goerr.Wrap(err, "failed to create action", goerr.V("id", created.ID))
	}
	return created, nil
}

func (r *actionRepository) Get(ctx context.Context, id model.ActionID) (*model.Action, error) {
	doc, err := r.collection().Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "action not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get action", goerr.V("id", id))
	}

	var a model.Action
	if err := doc.DataTo(&a); err != nil {
		return nil, goerr.Wrap(err, "failed to decode action", goerr.V("id", id))
	}
	return &a, nil
}

func (r *actionRepository) List(ctx context.Context, q interfaces.ActionQuery) ([]*model.Action, error) {
	query := r.collection().Where("OrgID", "==", q.OrgID)
	if q.Status != "" {
		query = query.Where("Status", "==", q.Status)
	}
	query = query.OrderBy("CreatedAt", firestore.Desc)
	if q.Offset > 0 {
		query = query.Offset(q.Offset)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	return r.collect(ctx, query.Documents(ctx))
}

func (r *actionRepository) ListByStatus(ctx context.Context, st types.ActionStatus, limit int) ([]*model.Action, error) {
	query := r.collection().Where("Status", "==", st).OrderBy("CreatedAt", firestore.Asc)
	if limit > 0 {
		query = query.Limit(limit)
	}
	return r.collect(ctx, query.Documents(ctx))
}

func (r *actionRepository) collect(ctx context.Context, iter *firestore.DocumentIterator) ([]*model.Action, error) {
	defer iter.Stop()

	actions := make([]*model.Action, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate actions")
		}

		var a model.Action
		if err := doc.DataTo(&a); err != nil {
			return nil, goerr.Wrap(err, "failed to decode action", goerr.V("doc_id", doc.Ref.ID))
		}
		actions = append(actions, &a)
	}
	return actions, nil
}

// Transition reads, checks and writes the action inside one transaction.
// A concurrent writer makes Firestore abort and retry the transaction, and
// the retry then observes the new status and fails the precondition.
func (r *actionRepository) Transition(ctx context.Context, id model.ActionID, tr model.ActionTransition) (*model.Action, error) {
	ref := r.collection().Doc(id.String())

	var next model.Action
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(interfaces.ErrNotFound, "action not found", goerr.V("id", id))
			}
			return goerr.Wrap(err, "failed to get action", goerr.V("id", id))
		}

		var current model.Action
		if err := doc.DataTo(&current); err != nil {
			return goerr.Wrap(err, "failed to decode action", goerr.V("id", id))
		}

		if err := tr.Apply(&current); err != nil {
			return err
		}
		next = current
		return tx.Set(ref, &current)
	})
	if err != nil {
		if errors.Is(err, model.ErrStatusMismatch) || errors.Is(err, interfaces.ErrNotFound) || errors.Is(err, model.ErrInvalidTransition) {
			return nil, err
		}
		return nil, goerr.Wrap(err, "failed to transition action", goerr.V("id", id), goerr.V("to", tr.To))
	}

	return &next, nil
}
