package model

import (
	"time"

	"github.com/aadee-inc/steward/pkg/domain/types"
)

// SuggestionID is the opaque identifier of a Suggestion.
type SuggestionID string

func (id SuggestionID) String() string {
	return string(id)
}

// SuggestedAction is the action a suggestion proposes if the operator accepts it.
type SuggestedAction struct {
	Type   types.ActionType
	Params map[string]any
}

// Suggestion is a proactive recommendation shown to the operator.
type Suggestion struct {
	ID              SuggestionID
	OrgID           string
	Type            types.SuggestionType
	Priority        types.SuggestionPriority
	Title           string
	Description     string
	SuggestedAction *SuggestedAction
	Metadata        map[string]any
	Status          types.SuggestionStatus
	DismissedBy     string
	DismissedAt     *time.Time
	DismissalNote   string
	ActionID        ActionID
	ActionedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Copy returns a deep copy of s.
func (s *Suggestion) Copy() *Suggestion {
	if s == nil {
		return nil
	}
	c := *s
	c.Metadata = copyMap(s.Metadata)
	if s.SuggestedAction != nil {
		c.SuggestedAction = &SuggestedAction{
			Type:   s.SuggestedAction.Type,
			Params: copyMap(s.SuggestedAction.Params),
		}
	}
	if s.DismissedAt != nil {
		t := *s.DismissedAt
		c.DismissedAt = &t
	}
	if s.ActionedAt != nil {
		t := *s.ActionedAt
		c.ActionedAt = &t
	}
	return &c
}

// SuggestionStats summarizes the suggestions of one organization.
type SuggestionStats struct {
	Total            int
	ByStatus         map[types.SuggestionStatus]int
	ActiveByPriority map[types.SuggestionPriority]int
	Recent           []*Suggestion
}
