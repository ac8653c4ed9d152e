// Package calendar connects organizations to Google Calendar for
// availability and bookings.
package calendar

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/aadee-inc/steward/pkg/domain/interfaces"
	"github.com/aadee-inc/steward/pkg/domain/model"
	"github.com/aadee-inc/steward/pkg/utils/logging"
	"github.com/aadee-inc/steward/pkg/utils/retry"
	"github.com/aadee-inc/steward/pkg/utils/tracing"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/oauth2"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// DefaultCalendarID is used when a credential names no calendar.
const DefaultCalendarID = "primary"

// Connector builds a Google Calendar client from the stored credential of an
// organization.
type Connector struct {
	credentials interfaces.CalendarCredentialRepository
	oauth       *oauth2.Config
	clientOpts  []option.ClientOption
	policy      retry.Policy
}

var _ interfaces.CalendarConnector = (*Connector)(nil)

type Option func(*Connector)

// WithOAuthConfig lets expired access tokens be refreshed with the stored
// refresh token.
func WithOAuthConfig(cfg *oauth2.Config) Option {
	return func(c *Connector) {
		c.oauth = cfg
	}
}

// WithClientOptions appends options to every calendar client.
func WithClientOptions(opts ...option.ClientOption) Option {
	return func(c *Connector) {
		c.clientOpts = append(c.clientOpts, opts...)
	}
}

func WithRetryPolicy(p retry.Policy) Option {
	return func(c *Connector) {
		c.policy = p
	}
}

func NewConnector(credentials interfaces.CalendarCredentialRepository, opts ...Option) *Connector {
	c := &Connector{
		credentials: credentials,
		policy:      retry.DefaultPolicy(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect returns the calendar of orgID, or an error wrapping
// interfaces.ErrNotConnected when no credential is stored.
func (c *Connector) Connect(ctx context.Context, orgID string) (interfaces.Calendar, error) {
	cred, err := c.credentials.Get(ctx, orgID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(interfaces.ErrNotConnected, "calendar is not connected", goerr.V("org_id", orgID))
		}
		return nil, goerr.Wrap(err, "failed to load calendar credential", goerr.V("org_id", orgID))
	}

	token := &oauth2.Token{
		AccessToken:  cred.AccessToken,
		RefreshToken: cred.RefreshToken,
		TokenType:    cred.TokenType,
		Expiry:       cred.Expiry,
	}
	var ts oauth2.TokenSource
	if c.oauth != nil {
		ts = c.oauth.TokenSource(ctx, token)
	} else {
		ts = oauth2.StaticTokenSource(token)
	}

	opts := append([]option.ClientOption{option.WithTokenSource(ts)}, c.clientOpts...)
	svc, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create calendar client", goerr.V("org_id", orgID))
	}

	calendarID := cred.CalendarID
	if calendarID == "" {
		calendarID = DefaultCalendarID
	}
	return &googleCalendar{svc: svc, calendarID: calendarID, policy: c.policy}, nil
}

type googleCalendar struct {
	svc        *gcal.Service
	calendarID string
	policy     retry.Policy
}

func apiStatus(err error) int {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return 0
}

// classify marks client errors other than 429 permanent.
func classify(err error) error {
	if code := apiStatus(err); code >= 400 && code < 500 && code != http.StatusTooManyRequests {
		return retry.Permanent(err)
	}
	return err
}

// BusyIntervals lists the timed events in [start, end). All-day, cancelled
// and transparent (free) events do not block slots.
func (g *googleCalendar) BusyIntervals(ctx context.Context, start, end time.Time) (busy []model.BusyInterval, err error) {
	ctx, span := tracing.Start(ctx, "calendar.busy_intervals", tracing.OperationKey.String("events.list"))
	defer func() { tracing.End(span, err) }()

	pageToken := ""
	for {
		var page *gcal.Events
		err := retry.Do(ctx, g.policy, "calendar.events.list", func(ctx context.Context) error {
			call := g.svc.Events.List(g.calendarID).
				TimeMin(start.UTC().Format(time.RFC3339)).
				TimeMax(end.UTC().Format(time.RFC3339)).
				SingleEvents(true).
				OrderBy("startTime").
				Context(ctx)
			if pageToken != "" {
				call = call.PageToken(pageToken)
			}
			var err error
			page, err = call.Do()
			return classify(err)
		})
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list calendar events", goerr.V("calendar_id", g.calendarID))
		}

		for _, e := range page.Items {
			if iv, ok := busyInterval(e); ok {
				busy = append(busy, iv)
			}
		}

		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	logging.From(ctx).Debug("calendar busy intervals fetched",
		"calendar_id", g.calendarID,
		"count", len(busy),
	)
	return busy, nil
}

func busyInterval(e *gcal.Event) (model.BusyInterval, bool) {
	if e == nil || e.Status == "cancelled" || e.Transparency == "transparent" {
		return model.BusyInterval{}, false
	}
	if e.Start == nil || e.End == nil || e.Start.DateTime == "" || e.End.DateTime == "" {
		return model.BusyInterval{}, false
	}
	s, err := time.Parse(time.RFC3339, e.Start.DateTime)
	if err != nil {
		return model.BusyInterval{}, false
	}
	t, err := time.Parse(time.RFC3339, e.End.DateTime)
	if err != nil || !t.After(s) {
		return model.BusyInterval{}, false
	}
	return model.BusyInterval{Start: s.UTC(), End: t.UTC()}, true
}

// newEventID returns an id in the base32hex alphabet Calendar accepts for
// client supplied event ids.
func newEventID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// CreateEvent inserts the booking and notifies attendees. The event id is
// chosen up front so a retried insert that already went through is
// recognized by its 409 and read back instead of duplicated.
func (g *googleCalendar) CreateEvent(ctx context.Context, req model.BookingRequest) (result *model.BookingResult, err error) {
	ctx, span := tracing.Start(ctx, "calendar.create_event", tracing.OperationKey.String("events.insert"))
	defer func() { tracing.End(span, err) }()

	event := &gcal.Event{
		Id:          newEventID(),
		Summary:     req.Summary,
		Description: req.Description(),
		Start:       &gcal.EventDateTime{DateTime: req.Start.UTC().Format(time.RFC3339), TimeZone: "UTC"},
		End:         &gcal.EventDateTime{DateTime: req.End().UTC().Format(time.RFC3339), TimeZone: "UTC"},
	}
	if req.Attendee != "" {
		event.Attendees = []*gcal.EventAttendee{{Email: req.Attendee}}
	}
	if req.Conference {
		event.ConferenceData = &gcal.ConferenceData{
			CreateRequest: &gcal.CreateConferenceRequest{
				RequestId:             uuid.NewString(),
				ConferenceSolutionKey: &gcal.ConferenceSolutionKey{Type: "hangoutsMeet"},
			},
		}
	}

	var created *gcal.Event
	attempt := 0
	err = retry.Do(ctx, g.policy, "calendar.events.insert", func(ctx context.Context) error {
		attempt++
		call := g.svc.Events.Insert(g.calendarID, event).SendUpdates("all").Context(ctx)
		if req.Conference {
			call = call.ConferenceDataVersion(1)
		}

		var err error
		created, err = call.Do()
		if err != nil && attempt > 1 && apiStatus(err) == http.StatusConflict {
			created, err = g.svc.Events.Get(g.calendarID, event.Id).Context(ctx).Do()
		}
		return classify(err)
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create calendar event",
			goerr.V("calendar_id", g.calendarID),
			goerr.V("start", req.Start),
		)
	}

	logging.From(ctx).Info("calendar event created",
		"calendar_id", g.calendarID,
		"event_id", created.Id,
		"start", req.Start,
	)
	return &model.BookingResult{
		EventID: created.Id,
		Link:    created.HtmlLink,
		Start:   req.Start.UTC(),
		End:     req.End().UTC(),
	}, nil
}
