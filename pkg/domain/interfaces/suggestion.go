package interfaces

import (
	"context"

	"github.com/aadee-inc/steward/pkg/domain/model"
	"github.com/aadee-inc/steward/pkg/domain/types"
)

// SuggestionQuery filters List. Empty Status and Priority match anything.
type SuggestionQuery struct {
	OrgID    string
	Status   types.SuggestionStatus
	Priority types.SuggestionPriority
	Limit    int
	Offset   int
}

// SuggestionRepository defines the interface for Suggestion data access
type SuggestionRepository interface {
	Create(ctx context.Context, s *model.Suggestion) (*model.Suggestion, error)
	Get(ctx context.Context, id model.SuggestionID) (*model.Suggestion, error)
	// List returns matching suggestions newest first.
	List(ctx context.Context, q SuggestionQuery) ([]*model.Suggestion, error)
	Update(ctx context.Context, s *model.Suggestion) (*model.Suggestion, error)
}
