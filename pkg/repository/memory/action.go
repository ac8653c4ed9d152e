package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/aadee-inc/steward/pkg/domain/interfaces"
	"github.com/aadee-inc/steward/pkg/domain/model"
	"github.com/aadee-inc/steward/pkg/domain/types"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

type actionRepository struct {
	mu      sync.RWMutex
	actions map[model.ActionID]*model.Action
}

func newActionRepository() *actionRepository {
	return &actionRepository{
		actions: make(map[model.ActionID]*model.Action),
	}
}

func (r *actionRepository) Create(ctx context.Context, action *model.Action) (*model.Action, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := action.Copy()
	if created.ID == "" {
		created.ID = model.ActionID(uuid.Must(uuid.NewV7()).String())
	}
	if _, exists := r.actions[created.ID]; exists {
		return nil, goerr.New("action already exists", goerr.V("id", created.ID))
	}

	now := time.Now().UTC()
	if created.CreatedAt.IsZero() {
		created.CreatedAt = now
	}
	if created.UpdatedAt.IsZero() {
		created.UpdatedAt = created.CreatedAt
	}

	r.actions[created.ID] = created
	return created.Copy(), nil
}

func (r *actionRepository) Get(ctx context.Context, id model.ActionID) (*model.Action, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	action, exists := r.actions[id]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "action not found", goerr.V("id", id))
	}
	return action.Copy(), nil
}

func (r *actionRepository) List(ctx context.Context, q interfaces.ActionQuery) ([]*model.Action, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*model.Action
	for _, a := range r.actions {
		if a.OrgID != q.OrgID {
			continue
		}
		if q.Status != "" && a.Status != q.Status {
			continue
		}
		matched = append(matched, a)
	}

	sort.Slice(matched, func(i, j int) bool {
		return newerFirst(matched[i].CreatedAt, string(matched[i].ID), matched[j].CreatedAt, string(matched[j].ID))
	})

	return copyActions(paginate(matched, q.Limit, q.Offset)), nil
}

func (r *actionRepository) ListByStatus(ctx context.Context, status types.ActionStatus, limit int) ([]*model.Action, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*model.Action
	for _, a := range r.actions {
		if a.Status == status {
			matched = append(matched, a)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return newerFirst(matched[j].CreatedAt, string(matched[j].ID), matched[i].CreatedAt, string(matched[i].ID))
	})

	return copyActions(paginate(matched, limit, 0)), nil
}

func (r *actionRepository) Transition(ctx context.Context, id model.ActionID, tr model.ActionTransition) (*model.Action, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.actions[id]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "action not found", goerr.V("id", id))
	}

	next := stored.Copy()
	if err := tr.Apply(next); err != nil {
		return nil, err
	}

	r.actions[id] = next
	return next.Copy(), nil
}

func copyActions(src []*model.Action) []*model.Action {
	out := make([]*model.Action, len(src))
	for i, a := range src {
		out[i] = a.Copy()
	}
	return out
}

// newerFirst orders by creation time descending, then by id descending.
func newerFirst(ta time.Time, ida string, tb time.Time, idb string) bool {
	if !ta.Equal(tb) {
		return ta.After(tb)
	}
	return ida > idb
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
