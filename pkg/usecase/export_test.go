package usecase

import "time"

// SetActionClock replaces the clock of an ActionUseCase for testing
func SetActionClock(uc *ActionUseCase, now func() time.Time) {
	uc.now = now
}

// SetAvailabilityClock replaces the clock of an AvailabilityUseCase for testing
func SetAvailabilityClock(uc *AvailabilityUseCase, now func() time.Time) {
	uc.now = now
}

// SetSuggestionClock replaces the clock of a SuggestionUseCase for testing
func SetSuggestionClock(uc *SuggestionUseCase, now func() time.Time) {
	uc.now = now
}

// ChatSystemPrompt is exported for testing template rendering
var ChatSystemPrompt = chatSystemPrompt
