package model

import (
	"encoding/json"
	"time"

	"github.com/aadee-inc/steward/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// ActionID is the opaque identifier of an Action.
type ActionID string

func (id ActionID) String() string {
	return string(id)
}

// Action is a proposed operational change that must be approved before it
// is executed against external platforms.
//
// Params is fixed at creation. Result and ErrorMessage are mutually exclusive
// and are written once, by the transition into COMPLETED or FAILED.
type Action struct {
	ID           ActionID
	OrgID        string
	SessionID    string
	Type         types.ActionType
	Status       types.ActionStatus
	Params       map[string]any
	Description  string
	Result       map[string]any
	ErrorMessage string
	ReviewNote   string
	CreatedBy    string
	ApprovedBy   string
	ApprovedAt   *time.Time
	ExecutedBy   string
	ExecutedAt   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Copy returns a deep copy of a.
func (a *Action) Copy() *Action {
	if a == nil {
		return nil
	}
	c := *a
	c.Params = copyMap(a.Params)
	c.Result = copyMap(a.Result)
	if a.ApprovedAt != nil {
		t := *a.ApprovedAt
		c.ApprovedAt = &t
	}
	if a.ExecutedAt != nil {
		t := *a.ExecutedAt
		c.ExecutedAt = &t
	}
	return &c
}

// DecodeParams decodes Params into out through their JSON form.
func (a *Action) DecodeParams(out any) error {
	raw, err := json.Marshal(a.Params)
	if err != nil {
		return goerr.Wrap(err, "failed to encode action params", goerr.V(ActionIDKey, a.ID))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return goerr.Wrap(ErrInvalidParams, "failed to decode action params",
			goerr.V(ActionIDKey, a.ID), goerr.V("cause", err.Error()))
	}
	return nil
}

// HoursUpdateParams are the params of update_business_hours.
type HoursUpdateParams struct {
	Hours     BusinessHoursMap `json:"hours"`
	Platforms []types.Platform `json:"platforms,omitempty"`
}

// ListingUpdateParams are the params of the listing update types. The target
// platform comes from the action type.
type ListingUpdateParams struct {
	Info map[string]any `json:"info"`
}

// SocialPostParams are the params of draft_social_post.
type SocialPostParams struct {
	Platform  types.SocialNetwork `json:"platform"`
	Content   string              `json:"content"`
	MediaURLs []string            `json:"media_urls,omitempty"`
	Hashtags  []string            `json:"hashtags,omitempty"`
}

// ToParams converts typed params into the stored map form.
func ToParams(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to encode params")
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, goerr.Wrap(err, "failed to decode params")
	}
	return out, nil
}

func copyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return copyMap(x)
	case []any:
		out := make([]any, len(x))
		for i := range x {
			out[i] = copyValue(x[i])
		}
		return out
	case []string:
		return append([]string(nil), x...)
	default:
		return v
	}
}
