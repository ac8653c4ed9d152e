package interfaces

import (
	"context"

	"github.com/aadee-inc/steward/pkg/domain/model"
	"github.com/aadee-inc/steward/pkg/domain/types"
)

// ActionObserver is told about every persisted lifecycle change. previous
// is empty for a newly created action. Implementations must not modify the
// action.
type ActionObserver interface {
	ActionChanged(ctx context.Context, action *model.Action, previous types.ActionStatus) error
}
