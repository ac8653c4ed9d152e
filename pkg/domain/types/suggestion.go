package types

import "fmt"

// SuggestionType categorizes a proactive suggestion.
type SuggestionType string

const (
	SuggestionTypeSeasonalReminder  SuggestionType = "seasonal_reminder"
	SuggestionTypeEngagementAlert   SuggestionType = "engagement_alert"
	SuggestionTypeHoursOptimization SuggestionType = "hours_optimization"
	SuggestionTypeListingUpdate     SuggestionType = "listing_update"
	SuggestionTypeSocialOpportunity SuggestionType = "social_opportunity"
)

func (t SuggestionType) IsValid() bool {
	switch t {
	case SuggestionTypeSeasonalReminder,
		SuggestionTypeEngagementAlert,
		SuggestionTypeHoursOptimization,
		SuggestionTypeListingUpdate,
		SuggestionTypeSocialOpportunity:
		return true
	default:
		return false
	}
}

// SuggestionPriority orders suggestions for display.
type SuggestionPriority string

const (
	SuggestionPriorityLow    SuggestionPriority = "low"
	SuggestionPriorityMedium SuggestionPriority = "medium"
	SuggestionPriorityHigh   SuggestionPriority = "high"
	SuggestionPriorityUrgent SuggestionPriority = "urgent"
)

// AllSuggestionPriorities returns priorities from lowest to highest.
func AllSuggestionPriorities() []SuggestionPriority {
	return []SuggestionPriority{
		SuggestionPriorityLow,
		SuggestionPriorityMedium,
		SuggestionPriorityHigh,
		SuggestionPriorityUrgent,
	}
}

func (p SuggestionPriority) IsValid() bool {
	switch p {
	case SuggestionPriorityLow, SuggestionPriorityMedium, SuggestionPriorityHigh, SuggestionPriorityUrgent:
		return true
	default:
		return false
	}
}

// SuggestionStatus tracks whether a suggestion is still open.
type SuggestionStatus string

const (
	SuggestionStatusActive    SuggestionStatus = "active"
	SuggestionStatusDismissed SuggestionStatus = "dismissed"
	SuggestionStatusActioned  SuggestionStatus = "actioned"
)

// AllSuggestionStatuses returns every suggestion status.
func AllSuggestionStatuses() []SuggestionStatus {
	return []SuggestionStatus{
		SuggestionStatusActive,
		SuggestionStatusDismissed,
		SuggestionStatusActioned,
	}
}

func (s SuggestionStatus) IsValid() bool {
	switch s {
	case SuggestionStatusActive, SuggestionStatusDismissed, SuggestionStatusActioned:
		return true
	default:
		return false
	}
}

// ParseSuggestionStatus parses a string into a SuggestionStatus
func ParseSuggestionStatus(s string) (SuggestionStatus, error) {
	st := SuggestionStatus(s)
	if !st.IsValid() {
		return "", fmt.Errorf("invalid suggestion status: %s", s)
	}
	return st, nil
}
