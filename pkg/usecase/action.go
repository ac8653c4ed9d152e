package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aadee-inc/steward/pkg/domain/interfaces"
	"github.com/aadee-inc/steward/pkg/domain/model"
	"github.com/aadee-inc/steward/pkg/domain/model/config"
	"github.com/aadee-inc/steward/pkg/domain/types"
	"github.com/aadee-inc/steward/pkg/utils/async"
	"github.com/aadee-inc/steward/pkg/utils/errutil"
	"github.com/aadee-inc/steward/pkg/utils/logging"
	"github.com/aadee-inc/steward/pkg/utils/tracing"
	"github.com/m-mizutani/goerr/v2"
)

// Pagination bounds of action and suggestion listings.
const (
	DefaultListLimit = 20
	MaxListLimit     = 100

	// DefaultWorkerID is recorded as executor by the periodic scan.
	DefaultWorkerID = "action_worker"

	// scanBatchSize bounds how many approved actions one scan picks up.
	scanBatchSize = 100

	// recordTimeout bounds the write of an action's terminal status.
	recordTimeout = 30 * time.Second
)

type ActionUseCase struct {
	repo       interfaces.Repository
	dispatcher interfaces.Dispatcher
	business   *config.Business
	observers  []interfaces.ActionObserver
	now        func() time.Time
}

func NewActionUseCase(repo interfaces.Repository, dispatcher interfaces.Dispatcher, business *config.Business, observers ...interfaces.ActionObserver) *ActionUseCase {
	return &ActionUseCase{
		repo:       repo,
		dispatcher: dispatcher,
		business:   business,
		observers:  observers,
		now:        time.Now,
	}
}

// CreateActionInput is the request to propose a change.
type CreateActionInput struct {
	OrgID       string
	SessionID   string
	Type        types.ActionType
	Params      map[string]any
	Description string
	CreatedBy   string
}

// CreateAction stores a new PENDING action.
func (uc *ActionUseCase) CreateAction(ctx context.Context, in CreateActionInput) (*model.Action, error) {
	if in.OrgID == "" {
		return nil, goerr.Wrap(ErrValidation, "org_id is required")
	}
	if !in.Type.IsValid() {
		return nil, goerr.Wrap(ErrValidation, "unknown action type", goerr.V("type", in.Type))
	}
	if err := model.ValidateActionParams(in.Type, in.Params); err != nil {
		return nil, goerr.Wrap(ErrValidation, "invalid action params",
			goerr.V("type", in.Type), goerr.V("cause", err.Error()))
	}

	description := in.Description
	if description == "" {
		description = describeAction(in.Type, in.Params)
	}

	action := &model.Action{
		OrgID:       in.OrgID,
		SessionID:   in.SessionID,
		Type:        in.Type,
		Status:      types.ActionStatusPending,
		Params:      in.Params,
		Description: description,
		CreatedBy:   in.CreatedBy,
	}

	created, err := uc.repo.Action().Create(ctx, action)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create action", goerr.V(OrgIDKey, in.OrgID))
	}

	logging.From(ctx).Info("action created",
		"action_id", created.ID,
		"type", created.Type,
		"org_id", created.OrgID,
	)
	uc.notify(ctx, created, "")
	return created, nil
}

func describeAction(t types.ActionType, params map[string]any) string {
	switch t {
	case types.ActionTypeUpdateBusinessHours:
		if hours, ok := params["hours"].(map[string]any); ok {
			parts := make([]string, 0, len(hours))
			for _, d := range types.AllWeekdays() {
				if v, ok := hours[d.String()]; ok {
					parts = append(parts, fmt.Sprintf("%s %v", d, v))
				}
			}
			return "Update business hours: " + strings.Join(parts, ", ")
		}
		return "Update business hours"
	case types.ActionTypeDraftSocialPost:
		if p, ok := params["platform"].(string); ok && p != "" {
			return "Draft social post for " + p
		}
		return "Draft social post"
	case types.ActionTypeUpdateGoogleBusinessProfile:
		return "Update Google Business Profile listing"
	case types.ActionTypeUpdateYelpListing:
		return "Update Yelp listing"
	default:
		return strings.ReplaceAll(t.String(), "_", " ")
	}
}

// GetAction returns ErrActionNotFound for an unknown id.
func (uc *ActionUseCase) GetAction(ctx context.Context, id model.ActionID) (*model.Action, error) {
	action, err := uc.repo.Action().Get(ctx, id)
	if err != nil {
		return nil, uc.repoError(err, "failed to get action", id)
	}
	return action, nil
}

// ListActionsInput filters ListActions. Limit zero means DefaultListLimit.
type ListActionsInput struct {
	OrgID  string
	Status string
	Limit  int
	Offset int
}

// ListActions returns the actions of an organization newest first.
func (uc *ActionUseCase) ListActions(ctx context.Context, in ListActionsInput) ([]*model.Action, error) {
	if in.OrgID == "" {
		return nil, goerr.Wrap(ErrValidation, "org_id is required")
	}
	limit, err := pageLimit(in.Limit, in.Offset)
	if err != nil {
		return nil, err
	}

	q := interfaces.ActionQuery{OrgID: in.OrgID, Limit: limit, Offset: in.Offset}
	if in.Status != "" && in.Status != "all" {
		status, err := types.ParseActionStatus(in.Status)
		if err != nil {
			return nil, goerr.Wrap(ErrValidation, "invalid status", goerr.V(StatusKey, in.Status))
		}
		q.Status = status
	}

	actions, err := uc.repo.Action().List(ctx, q)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list actions", goerr.V(OrgIDKey, in.OrgID))
	}
	return actions, nil
}

func pageLimit(limit, offset int) (int, error) {
	if limit == 0 {
		limit = DefaultListLimit
	}
	if limit < 0 || limit > MaxListLimit {
		return 0, goerr.Wrap(ErrValidation, "limit must be between 1 and 100", goerr.V("limit", limit))
	}
	if offset < 0 {
		return 0, goerr.Wrap(ErrValidation, "offset must not be negative", goerr.V("offset", offset))
	}
	return limit, nil
}

// ReviewAction approves or rejects a PENDING action on behalf of reviewer.
func (uc *ActionUseCase) ReviewAction(ctx context.Context, id model.ActionID, approve bool, note, reviewer string) (*model.Action, error) {
	if id == "" {
		return nil, goerr.Wrap(ErrValidation, "action_id is required")
	}
	if reviewer == "" {
		return nil, goerr.Wrap(ErrValidation, "reviewer is required", goerr.V(ActionIDKey, id))
	}

	to := types.ActionStatusRejected
	if approve {
		to = types.ActionStatusApproved
	}

	updated, err := uc.transition(ctx, id, model.ActionTransition{
		From:  types.ActionStatusPending,
		To:    to,
		At:    uc.now(),
		Actor: reviewer,
		Note:  note,
	})
	if err != nil {
		return nil, err
	}

	logging.From(ctx).Info("action reviewed",
		"action_id", id,
		"status", updated.Status,
		"reviewer", reviewer,
	)
	return updated, nil
}

// transition applies tr and tells observers. A lost compare-and-swap or a
// disallowed edge becomes ErrConflict.
func (uc *ActionUseCase) transition(ctx context.Context, id model.ActionID, tr model.ActionTransition) (*model.Action, error) {
	updated, err := uc.repo.Action().Transition(ctx, id, tr)
	if err != nil {
		switch {
		case errors.Is(err, interfaces.ErrNotFound):
			return nil, goerr.Wrap(ErrActionNotFound, "action not found", goerr.V(ActionIDKey, id))
		case errors.Is(err, model.ErrStatusMismatch), errors.Is(err, model.ErrInvalidTransition):
			return nil, goerr.Wrap(ErrConflict, "action is not in a state that allows this transition",
				goerr.V(ActionIDKey, id),
				goerr.V("from", tr.From),
				goerr.V("to", tr.To),
				goerr.V("cause", err.Error()),
			)
		default:
			return nil, goerr.Wrap(err, "failed to transition action", goerr.V(ActionIDKey, id))
		}
	}

	uc.notify(ctx, updated, tr.From)
	return updated, nil
}

func (uc *ActionUseCase) repoError(err error, msg string, id model.ActionID) error {
	if errors.Is(err, interfaces.ErrNotFound) {
		return goerr.Wrap(ErrActionNotFound, "action not found", goerr.V(ActionIDKey, id))
	}
	return goerr.Wrap(err, msg, goerr.V(ActionIDKey, id))
}

// notify hands the change to every observer in the background. Observer
// failures are logged and never affect the action.
func (uc *ActionUseCase) notify(ctx context.Context, action *model.Action, previous types.ActionStatus) {
	for _, o := range uc.observers {
		snapshot := action.Copy()
		async.Dispatch(ctx, "action_observer", func(ctx context.Context) error {
			return o.ActionChanged(ctx, snapshot, previous)
		})
	}
}

// ExecutionOutcome reports one execution attempt.
type ExecutionOutcome struct {
	ActionID model.ActionID   `json:"action_id"`
	Type     types.ActionType `json:"type"`
	Success  bool             `json:"success"`
	Skipped  bool             `json:"skipped,omitempty"`
	Result   map[string]any   `json:"result,omitempty"`
	Error    string           `json:"error,omitempty"`

	Action *model.Action `json:"-"`
}

// ScanSummary aggregates one worker scan. Processed counts every action the
// scan looked at, including the ones another worker claimed first.
type ScanSummary struct {
	Processed  int                `json:"processed"`
	Successful int                `json:"successful"`
	Failed     int                `json:"failed"`
	Skipped    int                `json:"skipped"`
	Results    []ExecutionOutcome `json:"results"`
}

// ExecuteAction runs one APPROVED action now on behalf of executor. Any
// other status, or losing the claim to a concurrent worker, is ErrConflict.
func (uc *ActionUseCase) ExecuteAction(ctx context.Context, id model.ActionID, executor string) (*ExecutionOutcome, error) {
	action, err := uc.GetAction(ctx, id)
	if err != nil {
		return nil, err
	}
	if action.Status != types.ActionStatusApproved {
		return nil, goerr.Wrap(ErrConflict, "action is not approved",
			goerr.V(ActionIDKey, id), goerr.V(StatusKey, action.Status))
	}

	claimed, err := uc.claim(ctx, action, executor)
	if err != nil {
		return nil, err
	}
	outcome := uc.run(ctx, claimed, executor)
	return &outcome, nil
}

// ProcessApproved claims and executes every APPROVED action, one at a time.
// A failure of one action never stops the scan.
func (uc *ActionUseCase) ProcessApproved(ctx context.Context, workerID string) (*ScanSummary, error) {
	if workerID == "" {
		workerID = DefaultWorkerID
	}

	actions, err := uc.repo.Action().ListByStatus(ctx, types.ActionStatusApproved, scanBatchSize)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list approved actions")
	}

	summary := &ScanSummary{Results: []ExecutionOutcome{}}
	for _, action := range actions {
		if ctx.Err() != nil {
			break
		}
		summary.Processed++

		claimed, err := uc.claim(ctx, action, workerID)
		if err != nil {
			if errors.Is(err, ErrConflict) || errors.Is(err, ErrActionNotFound) {
				summary.Skipped++
				summary.Results = append(summary.Results, ExecutionOutcome{
					ActionID: action.ID,
					Type:     action.Type,
					Skipped:  true,
				})
				continue
			}
			errutil.Handle(ctx, err, "failed to claim action")
			summary.Failed++
			summary.Results = append(summary.Results, ExecutionOutcome{
				ActionID: action.ID,
				Type:     action.Type,
				Error:    err.Error(),
			})
			continue
		}

		outcome := uc.run(ctx, claimed, workerID)
		if outcome.Success {
			summary.Successful++
		} else {
			summary.Failed++
		}
		summary.Results = append(summary.Results, outcome)
	}

	if summary.Processed > 0 {
		logging.From(ctx).Info("approved actions processed",
			"worker", workerID,
			"processed", summary.Processed,
			"successful", summary.Successful,
			"failed", summary.Failed,
			"skipped", summary.Skipped,
		)
	}
	return summary, nil
}

// claim moves action from APPROVED to EXECUTING with compare-and-swap.
func (uc *ActionUseCase) claim(ctx context.Context, action *model.Action, executor string) (*model.Action, error) {
	claimed, err := uc.transition(ctx, action.ID, model.ActionTransition{
		From:  types.ActionStatusApproved,
		To:    types.ActionStatusExecuting,
		At:    uc.now(),
		Actor: executor,
	})
	if err != nil {
		if errors.Is(err, ErrConflict) {
			logging.From(ctx).Debug("action already claimed", "action_id", action.ID)
		}
		return nil, err
	}
	return claimed, nil
}

// run dispatches a claimed action and records COMPLETED or FAILED. A panic
// during dispatch is recorded as FAILED.
//
// A claimed action is never abandoned: run ignores cancellation of ctx, so
// shutdown or a dropped HTTP request cannot leave it in EXECUTING. Dispatch
// stays bounded by the per-call timeouts of the retry policy and the final
// write by recordTimeout.
func (uc *ActionUseCase) run(ctx context.Context, action *model.Action, executor string) (outcome ExecutionOutcome) {
	ctx = context.WithoutCancel(ctx)
	ctx, span := tracing.Start(ctx, "action.execute",
		tracing.ActionIDKey.String(action.ID.String()),
		tracing.ActionTypeKey.String(action.Type.String()),
	)

	outcome = ExecutionOutcome{ActionID: action.ID, Type: action.Type}

	var (
		result   map[string]any
		dispatch error
	)
	func() {
		defer func() {
			if r := recover(); r != nil {
				dispatch = fail(ErrIntegration, fmt.Sprintf("Unexpected error executing action %s: %v", action.ID, r))
			}
		}()
		result, dispatch = uc.dispatch(ctx, action)
	}()
	tracing.End(span, dispatch)

	tr := model.ActionTransition{
		From:  types.ActionStatusExecuting,
		To:    types.ActionStatusCompleted,
		At:    uc.now(),
		Actor: executor,
	}
	if dispatch != nil {
		tr.To = types.ActionStatusFailed
		tr.ErrorMessage = dispatch.Error()
		outcome.Error = dispatch.Error()
	} else {
		tr.Result = result
		outcome.Result = result
		outcome.Success = true
	}

	recordCtx, cancel := context.WithTimeout(ctx, recordTimeout)
	defer cancel()
	finished, err := uc.transition(recordCtx, action.ID, tr)
	if err != nil {
		errutil.Handle(ctx, err, "failed to record action outcome")
		outcome.Success = false
		outcome.Result = nil
		outcome.Error = err.Error()
		return outcome
	}
	outcome.Action = finished

	logging.From(ctx).Info("action executed",
		"action_id", action.ID,
		"type", action.Type,
		"status", finished.Status,
	)
	return outcome
}

// dispatch routes action by type. A returned error is the failure message
// to persist; platform failures are folded into it.
func (uc *ActionUseCase) dispatch(ctx context.Context, action *model.Action) (map[string]any, error) {
	switch action.Type {
	case types.ActionTypeUpdateBusinessHours:
		var p model.HoursUpdateParams
		if err := action.DecodeParams(&p); err != nil {
			return nil, fail(ErrValidation, "Invalid parameters: "+err.Error())
		}
		platforms := p.Platforms
		if len(platforms) == 0 {
			platforms = uc.hoursPlatforms()
		}

		res := uc.dispatcher.DispatchHours(ctx, platforms, p.Hours)
		if !res.OverallSuccess() {
			return nil, hoursFailure(res)
		}
		return map[string]any{
			"success":       true,
			"platforms":     res.PlatformsMap(),
			"updated_hours": p.Hours.StringMap(),
			"message":       "Business hours update completed",
		}, nil

	case types.ActionTypeDraftSocialPost:
		var p model.SocialPostParams
		if err := action.DecodeParams(&p); err != nil {
			return nil, fail(ErrValidation, "Invalid parameters: "+err.Error())
		}
		if p.Platform == "" {
			p.Platform = types.SocialNetworkFacebook
		}

		r := uc.dispatcher.DispatchSocial(ctx, model.SocialPost{
			Network:   p.Platform,
			Content:   p.Content,
			MediaURLs: p.MediaURLs,
			Hashtags:  p.Hashtags,
		})
		if !r.Success {
			return nil, fail(ErrIntegration, r.Error)
		}
		return map[string]any{
			"success":   true,
			"post_data": r.Data["post_data"],
			"message":   r.Message,
		}, nil

	case types.ActionTypeUpdateGoogleBusinessProfile, types.ActionTypeUpdateYelpListing:
		platform, _ := action.Type.ListingPlatform()
		var p model.ListingUpdateParams
		if err := action.DecodeParams(&p); err != nil {
			return nil, fail(ErrValidation, "Invalid parameters: "+err.Error())
		}

		r := uc.dispatcher.DispatchListing(ctx, platform, p.Info)
		if !r.Success {
			return nil, fail(ErrIntegration, r.Error)
		}
		return map[string]any{
			"success":      true,
			"platform":     platform.String(),
			"updated_info": r.Data["updated_info"],
			"message":      r.Message,
		}, nil

	default:
		return nil, fail(ErrUnknownActionType, fmt.Sprintf("Unknown action type: %s", action.Type))
	}
}

func (uc *ActionUseCase) hoursPlatforms() []types.Platform {
	if uc.business != nil && len(uc.business.HoursPlatforms) > 0 {
		return uc.business.HoursPlatforms
	}
	return types.DefaultHoursPlatforms()
}

func hoursFailure(res *model.HoursDispatchResult) error {
	failed := res.Failed()
	parts := make([]string, 0, len(failed))
	for _, r := range failed {
		parts = append(parts, r.Error)
	}
	return fail(ErrIntegration, "Business hours update completed with errors: "+strings.Join(parts, "; "))
}

// executionFailure is the message persisted on a FAILED action. It unwraps
// to the taxonomy sentinel so callers can still classify it.
type executionFailure struct {
	msg  string
	kind error
}

func fail(kind error, msg string) error {
	return &executionFailure{msg: msg, kind: kind}
}

func (e *executionFailure) Error() string { return e.msg }
func (e *executionFailure) Unwrap() error { return e.kind }
