package usecase

import (
	"context"

	"github.com/aadee-inc/steward/pkg/domain/interfaces"
	"github.com/aadee-inc/steward/pkg/domain/model/config"
	"github.com/aadee-inc/steward/pkg/service/integration"
	"github.com/m-mizutani/gollem"
)

// IntegrationReporter describes the registered platform integrations.
type IntegrationReporter interface {
	Report(ctx context.Context) []integration.Status
}

type UseCases struct {
	repo       interfaces.Repository
	business   *config.Business
	dispatcher interfaces.Dispatcher
	connector  interfaces.CalendarConnector
	llmClient  gollem.LLMClient
	observers  []interfaces.ActionObserver

	Action       *ActionUseCase
	Chat         *ChatUseCase
	Availability *AvailabilityUseCase
	Booking      *BookingUseCase
	Suggestion   *SuggestionUseCase
	Auth         Authenticator
	Integrations IntegrationReporter
}

type Option func(*UseCases)

func WithBusiness(biz *config.Business) Option {
	return func(uc *UseCases) {
		uc.business = biz
	}
}

// WithDispatcher sets the executor of approved actions. A dispatcher that
// also implements IntegrationReporter backs the integration report.
func WithDispatcher(d interfaces.Dispatcher) Option {
	return func(uc *UseCases) {
		uc.dispatcher = d
		if r, ok := d.(IntegrationReporter); ok {
			uc.Integrations = r
		}
	}
}

func WithCalendar(c interfaces.CalendarConnector) Option {
	return func(uc *UseCases) {
		uc.connector = c
	}
}

func WithLLMClient(c gollem.LLMClient) Option {
	return func(uc *UseCases) {
		uc.llmClient = c
	}
}

// WithObserver adds a receiver of action lifecycle changes.
func WithObserver(o interfaces.ActionObserver) Option {
	return func(uc *UseCases) {
		uc.observers = append(uc.observers, o)
	}
}

func WithAuth(auth Authenticator) Option {
	return func(uc *UseCases) {
		uc.Auth = auth
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo: repo,
	}

	for _, opt := range opts {
		opt(uc)
	}

	if uc.business == nil {
		uc.business = config.NewBusiness("default")
	}
	if uc.dispatcher == nil {
		d := integration.NewDispatcher(nil)
		uc.dispatcher = d
		uc.Integrations = d
	}
	if uc.Auth == nil {
		uc.Auth = NewNoAuthnUseCase("")
	}

	uc.Action = NewActionUseCase(repo, uc.dispatcher, uc.business, uc.observers...)
	uc.Chat = NewChatUseCase(repo, uc.Action, uc.business, uc.llmClient)
	uc.Availability = NewAvailabilityUseCase(uc.connector, uc.business)
	uc.Booking = NewBookingUseCase(repo, uc.connector, uc.business)
	uc.Suggestion = NewSuggestionUseCase(repo, uc.Action)

	return uc
}

// Business returns the operating profile the use cases run with.
func (uc *UseCases) Business() *config.Business {
	return uc.business
}
