package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/aadee-inc/steward/pkg/domain/interfaces"
	"github.com/aadee-inc/steward/pkg/domain/model"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

type suggestionRepository struct {
	mu          sync.RWMutex
	suggestions map[model.SuggestionID]*model.Suggestion
}

func newSuggestionRepository() *suggestionRepository {
	return &suggestionRepository{
		suggestions: make(map[model.SuggestionID]*model.Suggestion),
	}
}

func (r *suggestionRepository) Create(ctx context.Context, s *model.Suggestion) (*model.Suggestion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

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

	r.suggestions[created.ID] = created
	return created.Copy(), nil
}

func (r *suggestionRepository) Get(ctx context.Context, id model.SuggestionID) (*model.Suggestion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, exists := r.suggestions[id]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "suggestion not found", goerr.V("id", id))
	}
	return s.Copy(), nil
}

func (r *suggestionRepository) List(ctx context.Context, q interfaces.SuggestionQuery) ([]*model.Suggestion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*model.Suggestion
	for _, s := range r.suggestions {
		if s.OrgID != q.OrgID {
			continue
		}
		if q.Status != "" && s.Status != q.Status {
			continue
		}
		if q.Priority != "" && s.Priority != q.Priority {
			continue
		}
		matched = append(matched, s)
	}

	sort.Slice(matched, func(i, j int) bool {
		return newerFirst(matched[i].CreatedAt, string(matched[i].ID), matched[j].CreatedAt, string(matched[j].ID))
	})

	page := paginate(matched, q.Limit, q.Offset)
	out := make([]*model.Suggestion, len(page))
	for i, s := range page {
		out[i] = s.Copy()
	}
	return out, nil
}

func (r *suggestionRepository) Update(ctx context.Context, s *model.Suggestion) (*model.Suggestion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.suggestions[s.ID]; !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "suggestion not found", goerr.V("id", s.ID))
	}

	updated := s.Copy()
	updated.UpdatedAt = time.Now().UTC()
	r.suggestions[s.ID] = updated
	return updated.Copy(), nil
}
