package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/aadee-inc/steward/pkg/domain/interfaces"
	"github.com/aadee-inc/steward/pkg/domain/model"
	"github.com/aadee-inc/steward/pkg/domain/types"
	"github.com/aadee-inc/steward/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// recentSuggestions is the number of suggestions returned by Stats.
const recentSuggestions = 5

// SuggestionUseCase manages proactive suggestions and turns accepted ones
// into PENDING actions.
type SuggestionUseCase struct {
	repo    interfaces.Repository
	actions *ActionUseCase
	now     func() time.Time
}

func NewSuggestionUseCase(repo interfaces.Repository, actions *ActionUseCase) *SuggestionUseCase {
	return &SuggestionUseCase{
		repo:    repo,
		actions: actions,
		now:     time.Now,
	}
}

// CreateSuggestionInput is a new suggestion. Priority defaults to medium.
type CreateSuggestionInput struct {
	OrgID           string
	Type            types.SuggestionType
	Priority        types.SuggestionPriority
	Title           string
	Description     string
	SuggestedAction *model.SuggestedAction
	Metadata        map[string]any
}

func (uc *SuggestionUseCase) CreateSuggestion(ctx context.Context, in CreateSuggestionInput) (*model.Suggestion, error) {
	if in.OrgID == "" {
		return nil, goerr.Wrap(ErrValidation, "org_id is required")
	}
	if !in.Type.IsValid() {
		return nil, goerr.Wrap(ErrValidation, "unknown suggestion type", goerr.V("type", in.Type))
	}
	if in.Priority == "" {
		in.Priority = types.SuggestionPriorityMedium
	}
	if !in.Priority.IsValid() {
		return nil, goerr.Wrap(ErrValidation, "unknown suggestion priority", goerr.V("priority", in.Priority))
	}
	if in.Title == "" {
		return nil, goerr.Wrap(ErrValidation, "title is required")
	}
	if in.SuggestedAction != nil && !in.SuggestedAction.Type.IsValid() {
		return nil, goerr.Wrap(ErrValidation, "unknown suggested action type", goerr.V("type", in.SuggestedAction.Type))
	}

	created, err := uc.repo.Suggestion().Create(ctx, &model.Suggestion{
		OrgID:           in.OrgID,
		Type:            in.Type,
		Priority:        in.Priority,
		Title:           in.Title,
		Description:     in.Description,
		SuggestedAction: in.SuggestedAction,
		Metadata:        in.Metadata,
		Status:          types.SuggestionStatusActive,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create suggestion", goerr.V(OrgIDKey, in.OrgID))
	}
	return created, nil
}

func (uc *SuggestionUseCase) GetSuggestion(ctx context.Context, id model.SuggestionID) (*model.Suggestion, error) {
	s, err := uc.repo.Suggestion().Get(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrSuggestionNotFound, "suggestion not found", goerr.V(SuggestionIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get suggestion", goerr.V(SuggestionIDKey, id))
	}
	return s, nil
}

// ListSuggestionsInput filters ListSuggestions. Status defaults to active;
// "all" matches every status.
type ListSuggestionsInput struct {
	OrgID    string
	Status   string
	Priority string
	Limit    int
	Offset   int
}

func (uc *SuggestionUseCase) ListSuggestions(ctx context.Context, in ListSuggestionsInput) ([]*model.Suggestion, error) {
	if in.OrgID == "" {
		return nil, goerr.Wrap(ErrValidation, "org_id is required")
	}
	limit, err := pageLimit(in.Limit, in.Offset)
	if err != nil {
		return nil, err
	}

	q := interfaces.SuggestionQuery{OrgID: in.OrgID, Limit: limit, Offset: in.Offset}
	switch in.Status {
	case "":
		q.Status = types.SuggestionStatusActive
	case "all":
	default:
		status, err := types.ParseSuggestionStatus(in.Status)
		if err != nil {
			return nil, goerr.Wrap(ErrValidation, "invalid status", goerr.V(StatusKey, in.Status))
		}
		q.Status = status
	}
	if in.Priority != "" {
		q.Priority = types.SuggestionPriority(in.Priority)
		if !q.Priority.IsValid() {
			return nil, goerr.Wrap(ErrValidation, "invalid priority", goerr.V("priority", in.Priority))
		}
	}

	list, err := uc.repo.Suggestion().List(ctx, q)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list suggestions", goerr.V(OrgIDKey, in.OrgID))
	}
	return list, nil
}

// DismissSuggestion closes an active suggestion on behalf of user.
func (uc *SuggestionUseCase) DismissSuggestion(ctx context.Context, id model.SuggestionID, user, note string) (*model.Suggestion, error) {
	s, err := uc.GetSuggestion(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.Status != types.SuggestionStatusActive {
		return nil, goerr.Wrap(ErrConflict, "suggestion is not active",
			goerr.V(SuggestionIDKey, id), goerr.V(StatusKey, s.Status))
	}

	now := uc.now().UTC()
	s.Status = types.SuggestionStatusDismissed
	s.DismissedBy = user
	s.DismissedAt = &now
	s.DismissalNote = note

	updated, err := uc.repo.Suggestion().Update(ctx, s)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to dismiss suggestion", goerr.V(SuggestionIDKey, id))
	}
	return updated, nil
}

// CreateActionFromSuggestion creates the PENDING action a suggestion
// proposes. Top-level "type" and "params" keys of overrides replace the
// suggested ones.
func (uc *SuggestionUseCase) CreateActionFromSuggestion(ctx context.Context, id model.SuggestionID, overrides map[string]any, user string) (*model.Action, *model.Suggestion, error) {
	s, err := uc.GetSuggestion(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if s.Status != types.SuggestionStatusActive {
		return nil, nil, goerr.Wrap(ErrConflict, "suggestion is not active",
			goerr.V(SuggestionIDKey, id), goerr.V(StatusKey, s.Status))
	}

	actionType := types.ActionTypeUpdateBusinessHours
	var params map[string]any
	if s.SuggestedAction != nil {
		if s.SuggestedAction.Type != "" {
			actionType = s.SuggestedAction.Type
		}
		params = s.SuggestedAction.Params
	}
	if v, ok := overrides["type"].(string); ok && v != "" {
		actionType = types.ActionType(v)
	}
	if v, ok := overrides["params"].(map[string]any); ok {
		params = v
	}

	action, err := uc.actions.CreateAction(ctx, CreateActionInput{
		OrgID:       s.OrgID,
		Type:        actionType,
		Params:      params,
		Description: "Action created from suggestion: " + s.Title,
		CreatedBy:   user,
	})
	if err != nil {
		return nil, nil, err
	}

	now := uc.now().UTC()
	s.Status = types.SuggestionStatusActioned
	s.ActionID = action.ID
	s.ActionedAt = &now
	updated, err := uc.repo.Suggestion().Update(ctx, s)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to mark suggestion actioned",
			goerr.V(SuggestionIDKey, id), goerr.V(ActionIDKey, action.ID))
	}

	logging.From(ctx).Info("action created from suggestion",
		"suggestion_id", id,
		"action_id", action.ID,
	)
	return action, updated, nil
}

// Stats counts the suggestions of an organization.
func (uc *SuggestionUseCase) Stats(ctx context.Context, orgID string) (*model.SuggestionStats, error) {
	if orgID == "" {
		return nil, goerr.Wrap(ErrValidation, "org_id is required")
	}

	all, err := uc.repo.Suggestion().List(ctx, interfaces.SuggestionQuery{OrgID: orgID})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list suggestions", goerr.V(OrgIDKey, orgID))
	}

	stats := &model.SuggestionStats{
		ByStatus:         make(map[types.SuggestionStatus]int),
		ActiveByPriority: make(map[types.SuggestionPriority]int),
	}
	for _, st := range types.AllSuggestionStatuses() {
		stats.ByStatus[st] = 0
	}
	for _, p := range types.AllSuggestionPriorities() {
		stats.ActiveByPriority[p] = 0
	}

	for _, s := range all {
		stats.ByStatus[s.Status]++
		if s.Status == types.SuggestionStatusActive {
			stats.ActiveByPriority[s.Priority]++
		}
	}
	stats.Total = len(all)

	stats.Recent = all
	if len(stats.Recent) > recentSuggestions {
		stats.Recent = stats.Recent[:recentSuggestions]
	}
	return stats, nil
}

// GenerateSuggestions inserts the seasonal and engagement suggestions that
// apply now, skipping any whose title matches an active suggestion. It
// returns the suggestions created.
func (uc *SuggestionUseCase) GenerateSuggestions(ctx context.Context, orgID string) ([]*model.Suggestion, error) {
	if orgID == "" {
		return nil, goerr.Wrap(ErrValidation, "org_id is required")
	}

	active, err := uc.repo.Suggestion().List(ctx, interfaces.SuggestionQuery{
		OrgID:  orgID,
		Status: types.SuggestionStatusActive,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list active suggestions", goerr.V(OrgIDKey, orgID))
	}
	titles := make(map[string]bool, len(active))
	for _, s := range active {
		titles[s.Title] = true
	}

	candidates := append(seasonalSuggestions(uc.now()), engagementSuggestions()...)

	var created []*model.Suggestion
	for _, in := range candidates {
		if titles[in.Title] {
			continue
		}
		in.OrgID = orgID
		s, err := uc.CreateSuggestion(ctx, in)
		if err != nil {
			return created, err
		}
		titles[in.Title] = true
		created = append(created, s)
	}

	logging.From(ctx).Info("suggestions generated",
		"org_id", orgID,
		"candidates", len(candidates),
		"created", len(created),
	)
	return created, nil
}

func seasonalSuggestions(now time.Time) []CreateSuggestionInput {
	switch now.Month() {
	case time.November, time.December:
		return []CreateSuggestionInput{{
			Type:        types.SuggestionTypeSeasonalReminder,
			Priority:    types.SuggestionPriorityMedium,
			Title:       "Holiday Hours Update",
			Description: "Consider updating your business hours for the holiday season. Many customers will be looking for holiday shopping hours.",
			SuggestedAction: hoursSuggestion(map[string]any{
				"monday":    "09:00-21:00",
				"tuesday":   "09:00-21:00",
				"wednesday": "09:00-21:00",
				"thursday":  "09:00-21:00",
				"friday":    "09:00-21:00",
				"saturday":  "09:00-20:00",
				"sunday":    "10:00-18:00",
			}),
		}}
	case time.June, time.July, time.August:
		return []CreateSuggestionInput{{
			Type:        types.SuggestionTypeSeasonalReminder,
			Priority:    types.SuggestionPriorityLow,
			Title:       "Summer Hours Optimization",
			Description: "Consider extending evening hours during summer months when customers stay out later.",
			SuggestedAction: hoursSuggestion(map[string]any{
				"monday":    "09:00-19:00",
				"tuesday":   "09:00-19:00",
				"wednesday": "09:00-19:00",
				"thursday":  "09:00-19:00",
				"friday":    "09:00-20:00",
				"saturday":  "09:00-20:00",
				"sunday":    "10:00-18:00",
			}),
		}}
	default:
		return nil
	}
}

func hoursSuggestion(hours map[string]any) *model.SuggestedAction {
	return &model.SuggestedAction{
		Type: types.ActionTypeUpdateBusinessHours,
		Params: map[string]any{
			"hours":     hours,
			"platforms": []any{types.PlatformGoogleBusiness.String(), types.PlatformYelp.String()},
		},
	}
}

func engagementSuggestions() []CreateSuggestionInput {
	return []CreateSuggestionInput{{
		Type:        types.SuggestionTypeEngagementAlert,
		Priority:    types.SuggestionPriorityHigh,
		Title:       "Social Media Engagement Drop",
		Description: "Your social media engagement has dropped 25% this week. Consider posting more engaging content or running a promotion.",
		SuggestedAction: &model.SuggestedAction{
			Type: types.ActionTypeDraftSocialPost,
			Params: map[string]any{
				"platform": types.SocialNetworkFacebook.String(),
				"content":  "Special offer this week! Come visit us and mention this post for 10% off your order. #specialoffer #community",
				"hashtags": []any{"specialoffer", "community", "discount"},
			},
		},
		Metadata: map[string]any{
			"engagement_drop": 0.25,
			"period":          "week",
			"platforms":       []any{"facebook", "instagram"},
		},
	}}
}
