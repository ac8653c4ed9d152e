package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Action() ActionRepository
	Suggestion() SuggestionRepository
	Chat() ChatRepository
	CalendarCredential() CalendarCredentialRepository
	Token() TokenStore

	Close() error
}
