package repository_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aadee-inc/steward/pkg/domain/interfaces"
	"github.com/aadee-inc/steward/pkg/domain/model"
	"github.com/aadee-inc/steward/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func newPendingAction(orgID string, createdAt time.Time) *model.Action {
	return &model.Action{
		OrgID:       orgID,
		SessionID:   "sess-1",
		Type:        types.ActionTypeUpdateBusinessHours,
		Status:      types.ActionStatusPending,
		Params:      map[string]any{"hours": map[string]any{"friday": "09:00-15:00"}},
		Description: "Update business hours",
		CreatedBy:   "assistant",
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

func approve(t *testing.T, repo interfaces.Repository, id model.ActionID) *model.Action {
	t.Helper()
	a, err := repo.Action().Transition(context.Background(), id, model.ActionTransition{
		From:  types.ActionStatusPending,
		To:    types.ActionStatusApproved,
		At:    time.Now(),
		Actor: "operator",
	})
	gt.NoError(t, err).Required()
	return a
}

func runActionRepositoryTest(t *testing.T, newRepo repoFactory) {
	t.Helper()

	t.Run("Create assigns id and keeps params", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		orgID := newOrgID()

		created, err := repo.Action().Create(ctx, newPendingAction(orgID, time.Now().UTC()))
		gt.NoError(t, err).Required()
		gt.Value(t, created.ID).NotEqual(model.ActionID(""))

		got, err := repo.Action().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.OrgID).Equal(orgID)
		gt.Value(t, got.Status).Equal(types.ActionStatusPending)
		gt.Value(t, got.Params["hours"].(map[string]any)["friday"]).Equal("09:00-15:00")
		gt.Value(t, got.ApprovedAt).Nil()
	})

	t.Run("Get unknown id returns ErrNotFound", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Action().Get(context.Background(), "01900000-0000-7000-8000-000000000000")
		gt.Error(t, err).Is(interfaces.ErrNotFound)
	})

	t.Run("List is newest first with pagination and status filter", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		orgID := newOrgID()
		base := time.Now().UTC().Truncate(time.Second)

		var ids []model.ActionID
		for i := 0; i < 5; i++ {
			a, err := repo.Action().Create(ctx, newPendingAction(orgID, base.Add(time.Duration(i)*time.Minute)))
			gt.NoError(t, err).Required()
			ids = append(ids, a.ID)
		}
		_, err := repo.Action().Create(ctx, newPendingAction(newOrgID(), base))
		gt.NoError(t, err).Required()
		approve(t, repo, ids[1])

		all, err := repo.Action().List(ctx, interfaces.ActionQuery{OrgID: orgID, Limit: 100})
		gt.NoError(t, err).Required()
		gt.Array(t, all).Length(5)
		gt.Value(t, all[0].ID).Equal(ids[4])
		gt.Value(t, all[4].ID).Equal(ids[0])

		page, err := repo.Action().List(ctx, interfaces.ActionQuery{OrgID: orgID, Limit: 2, Offset: 1})
		gt.NoError(t, err).Required()
		gt.Array(t, page).Length(2)
		gt.Value(t, page[0].ID).Equal(ids[3])
		gt.Value(t, page[1].ID).Equal(ids[2])

		approved, err := repo.Action().List(ctx, interfaces.ActionQuery{
			OrgID:  orgID,
			Status: types.ActionStatusApproved,
			Limit:  100,
		})
		gt.NoError(t, err).Required()
		gt.Array(t, approved).Length(1)
		gt.Value(t, approved[0].ID).Equal(ids[1])

		beyond, err := repo.Action().List(ctx, interfaces.ActionQuery{OrgID: orgID, Limit: 10, Offset: 10})
		gt.NoError(t, err).Required()
		gt.Array(t, beyond).Length(0)
	})

	t.Run("ListByStatus returns approved actions oldest first", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		orgID := newOrgID()
		base := time.Now().UTC().Truncate(time.Second)

		first, err := repo.Action().Create(ctx, newPendingAction(orgID, base))
		gt.NoError(t, err).Required()
		second, err := repo.Action().Create(ctx, newPendingAction(orgID, base.Add(time.Minute)))
		gt.NoError(t, err).Required()
		approve(t, repo, second.ID)
		approve(t, repo, first.ID)

		approved, err := repo.Action().ListByStatus(ctx, types.ActionStatusApproved, 0)
		gt.NoError(t, err).Required()

		var mine []model.ActionID
		for _, a := range approved {
			if a.OrgID == orgID {
				mine = append(mine, a.ID)
			}
		}
		gt.Value(t, mine).Equal([]model.ActionID{first.ID, second.ID})
	})

	t.Run("Transition from wrong status fails without mutation", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Action().Create(ctx, newPendingAction(newOrgID(), time.Now().UTC()))
		gt.NoError(t, err).Required()

		_, err = repo.Action().Transition(ctx, created.ID, model.ActionTransition{
			From:  types.ActionStatusPending,
			To:    types.ActionStatusRejected,
			At:    time.Now(),
			Actor: "operator",
			Note:  "not now",
		})
		gt.NoError(t, err).Required()

		_, err = repo.Action().Transition(ctx, created.ID, model.ActionTransition{
			From:  types.ActionStatusPending,
			To:    types.ActionStatusApproved,
			At:    time.Now(),
			Actor: "operator",
		})
		gt.Error(t, err).Is(model.ErrStatusMismatch)

		got, err := repo.Action().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Status).Equal(types.ActionStatusRejected)
		gt.Value(t, got.ReviewNote).Equal("not now")
	})

	t.Run("Transition of unknown action returns ErrNotFound", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Action().Transition(context.Background(), "01900000-0000-7000-8000-000000000001", model.ActionTransition{
			From:  types.ActionStatusPending,
			To:    types.ActionStatusApproved,
			At:    time.Now(),
			Actor: "operator",
		})
		gt.Error(t, err).Is(interfaces.ErrNotFound)
	})

	t.Run("Full lifecycle persists result once", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Action().Create(ctx, newPendingAction(newOrgID(), time.Now().UTC()))
		gt.NoError(t, err).Required()
		approve(t, repo, created.ID)

		_, err = repo.Action().Transition(ctx, created.ID, model.ActionTransition{
			From:  types.ActionStatusApproved,
			To:    types.ActionStatusExecuting,
			At:    time.Now(),
			Actor: "action_worker",
		})
		gt.NoError(t, err).Required()

		done, err := repo.Action().Transition(ctx, created.ID, model.ActionTransition{
			From:   types.ActionStatusExecuting,
			To:     types.ActionStatusCompleted,
			At:     time.Now(),
			Result: map[string]any{"success": true, "message": "ok"},
		})
		gt.NoError(t, err).Required()
		gt.Value(t, done.Status).Equal(types.ActionStatusCompleted)

		got, err := repo.Action().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Result["success"]).Equal(true)
		gt.Value(t, got.ErrorMessage).Equal("")
		gt.Value(t, got.ExecutedBy).Equal("action_worker")
		gt.Value(t, got.ExecutedAt).NotNil()

		_, err = repo.Action().Transition(ctx, created.ID, model.ActionTransition{
			From:  types.ActionStatusCompleted,
			To:    types.ActionStatusExecuting,
			At:    time.Now(),
			Actor: "action_worker",
		})
		gt.Error(t, err).Is(model.ErrInvalidTransition)
	})

	t.Run("Concurrent claims have exactly one winner", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Action().Create(ctx, newPendingAction(newOrgID(), time.Now().UTC()))
		gt.NoError(t, err).Required()
		approve(t, repo, created.ID)

		const claimers = 8
		var (
			wg         sync.WaitGroup
			mu         sync.Mutex
			wins       int
			mismatches int
		)
		start := make(chan struct{})
		for i := 0; i < claimers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				_, err := repo.Action().Transition(ctx, created.ID, model.ActionTransition{
					From:  types.ActionStatusApproved,
					To:    types.ActionStatusExecuting,
					At:    time.Now(),
					Actor: "worker",
				})
				mu.Lock()
				defer mu.Unlock()
				if err == nil {
					wins++
				} else if errors.Is(err, model.ErrStatusMismatch) {
					mismatches++
				}
			}()
		}
		close(start)
		wg.Wait()

		gt.Value(t, wins).Equal(1)
		gt.Value(t, mismatches).Equal(claimers - 1)
	})
}

func TestActionRepository(t *testing.T) {
	runAllBackends(t, runActionRepositoryTest)
}
