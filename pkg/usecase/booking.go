package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aadee-inc/steward/pkg/domain/interfaces"
	"github.com/aadee-inc/steward/pkg/domain/model"
	"github.com/aadee-inc/steward/pkg/domain/model/config"
	"github.com/aadee-inc/steward/pkg/utils/errutil"
	"github.com/aadee-inc/steward/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

type BookingUseCase struct {
	repo      interfaces.Repository
	connector interfaces.CalendarConnector
	business  *config.Business
}

func NewBookingUseCase(repo interfaces.Repository, connector interfaces.CalendarConnector, business *config.Business) *BookingUseCase {
	return &BookingUseCase{
		repo:      repo,
		connector: connector,
		business:  business,
	}
}

// BookInput describes the appointment to place. Zero Duration and empty
// Summary use the business defaults.
type BookInput struct {
	SessionID  string
	Start      time.Time
	Attendee   string
	Duration   time.Duration
	Summary    string
	Name       string
	Phone      string
	Purpose    string
	Conference bool
}

// Book creates a calendar event and, when the booking came from a chat
// session, records a confirmation in its history.
func (uc *BookingUseCase) Book(ctx context.Context, in BookInput) (*model.BookingResult, error) {
	if in.Start.IsZero() {
		return nil, goerr.Wrap(ErrValidation, "start is required")
	}
	if in.Attendee == "" {
		return nil, goerr.Wrap(ErrValidation, "attendee is required")
	}

	req := model.BookingRequest{
		OrgID:      uc.business.OrgID,
		SessionID:  in.SessionID,
		Start:      in.Start.UTC(),
		Duration:   in.Duration,
		Attendee:   in.Attendee,
		Summary:    in.Summary,
		Name:       in.Name,
		Phone:      in.Phone,
		Purpose:    in.Purpose,
		Conference: in.Conference,
	}
	if req.Duration <= 0 {
		req.Duration = uc.business.BookingDuration
	}
	if req.Summary == "" {
		req.Summary = uc.business.BookingSummary
	}

	if uc.connector == nil {
		return nil, goerr.Wrap(ErrNotConnected, "calendar is not configured")
	}
	cal, err := uc.connector.Connect(ctx, req.OrgID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotConnected) {
			return nil, goerr.Wrap(ErrNotConnected, "calendar is not connected", goerr.V(OrgIDKey, req.OrgID))
		}
		return nil, goerr.Wrap(err, "failed to connect calendar", goerr.V(OrgIDKey, req.OrgID))
	}

	result, err := cal.CreateEvent(ctx, req)
	if err != nil {
		return nil, goerr.Wrap(ErrIntegration, "failed to create calendar event",
			goerr.V(OrgIDKey, req.OrgID), goerr.V("cause", err.Error()))
	}

	logging.From(ctx).Info("booking created",
		"event_id", result.EventID,
		"start", req.Start,
		"session_id", req.SessionID,
	)

	if req.SessionID != "" {
		if _, err := uc.repo.Chat().AppendMessage(ctx, &model.ChatMessage{
			OrgID:     req.OrgID,
			SessionID: req.SessionID,
			Role:      model.ChatRoleAssistant,
			Content:   fmt.Sprintf("Booked %s for %s", req.Start.Format(time.RFC3339), req.Attendee),
		}); err != nil {
			errutil.Handle(ctx, err, "failed to record booking confirmation")
		}
	}

	return result, nil
}
