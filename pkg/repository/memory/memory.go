package memory

import (
	"github.com/aadee-inc/steward/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

// Memory keeps every aggregate in process memory. It backs development mode
// and tests; state is lost on exit.
type Memory struct {
	action     *actionRepository
	suggestion *suggestionRepository
	chat       *chatRepository
	calendar   *calendarCredentialRepository
	tokens     *tokenStore
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		action:     newActionRepository(),
		suggestion: newSuggestionRepository(),
		chat:       newChatRepository(),
		calendar:   newCalendarCredentialRepository(),
		tokens:     newTokenStore(),
	}
}

func (m *Memory) Action() interfaces.ActionRepository {
	return m.action
}

func (m *Memory) Suggestion() interfaces.SuggestionRepository {
	return m.suggestion
}

func (m *Memory) Chat() interfaces.ChatRepository {
	return m.chat
}

func (m *Memory) CalendarCredential() interfaces.CalendarCredentialRepository {
	return m.calendar
}

func (m *Memory) Token() interfaces.TokenStore {
	return m.tokens
}

func (m *Memory) Close() error {
	return nil
}
