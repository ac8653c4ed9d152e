package interfaces

import (
	"context"

	"github.com/aadee-inc/steward/pkg/domain/model"
	"github.com/aadee-inc/steward/pkg/domain/types"
)

// ActionQuery filters List. An empty Status matches every status.
type ActionQuery struct {
	OrgID  string
	Status types.ActionStatus
	Limit  int
	Offset int
}

// ActionRepository defines the interface for Action data access
type ActionRepository interface {
	// Create stores a new action. An empty ID is assigned by the repository.
	Create(ctx context.Context, action *model.Action) (*model.Action, error)

	// Get returns ErrNotFound for an unknown id.
	Get(ctx context.Context, id model.ActionID) (*model.Action, error)

	// List returns actions of one organization, newest first.
	List(ctx context.Context, q ActionQuery) ([]*model.Action, error)

	// ListByStatus returns actions of every organization in one status,
	// oldest first. A non-positive limit means no limit.
	ListByStatus(ctx context.Context, status types.ActionStatus, limit int) ([]*model.Action, error)

	// Transition applies tr atomically. It fails with model.ErrStatusMismatch
	// and writes nothing when the stored status is not tr.From at write time.
	Transition(ctx context.Context, id model.ActionID, tr model.ActionTransition) (*model.Action, error)
}
