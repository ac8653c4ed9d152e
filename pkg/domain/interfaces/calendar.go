package interfaces

import (
	"context"
	"time"

	"github.com/aadee-inc/steward/pkg/domain/model"
)

// Calendar is a connected external calendar.
type Calendar interface {
	// BusyIntervals returns the taken ranges intersecting [start, end).
	BusyIntervals(ctx context.Context, start, end time.Time) ([]model.BusyInterval, error)
	CreateEvent(ctx context.Context, req model.BookingRequest) (*model.BookingResult, error)
}

// CalendarConnector resolves the calendar of an organization. It returns
// ErrNotConnected when no credential exists.
type CalendarConnector interface {
	Connect(ctx context.Context, orgID string) (Calendar, error)
}

// CalendarCredentialRepository stores calendar OAuth credentials.
type CalendarCredentialRepository interface {
	Put(ctx context.Context, cred *model.CalendarCredential) error
	// Get returns ErrNotFound when the organization has no credential.
	Get(ctx context.Context, orgID string) (*model.CalendarCredential, error)
}
