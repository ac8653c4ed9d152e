package config

import (
	"time"

	"github.com/aadee-inc/steward/pkg/domain/model"
	"github.com/aadee-inc/steward/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Defaults applied by NewBusiness.
const (
	DefaultTimezone        = "America/New_York"
	DefaultOpenHour        = 9
	DefaultCloseHour       = 17
	DefaultSlotMinutes     = 30
	DefaultBookingMinutes  = 30
	DefaultBookingSummary  = "Consultation"
	DefaultAvailabilityMax = 60
)

// PlatformCredential is an opaque set of values for one platform client.
type PlatformCredential map[string]string

// Business is the operating profile of the organization this process serves.
type Business struct {
	OrgID    string
	Name     string
	Location *time.Location

	OpenHour  int
	CloseHour int
	// WeeklyHours overrides OpenHour/CloseHour per weekday. Values follow
	// model.BusinessHoursMap.
	WeeklyHours model.BusinessHoursMap

	SlotDuration    time.Duration
	BookingDuration time.Duration
	BookingSummary  string
	MaxSlots        int

	HoursPlatforms []types.Platform
	Platforms      map[types.Platform]PlatformCredential
}

// NewBusiness returns a Business with defaults applied.
func NewBusiness(orgID string) *Business {
	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		loc = time.UTC
	}
	return &Business{
		OrgID:           orgID,
		Location:        loc,
		OpenHour:        DefaultOpenHour,
		CloseHour:       DefaultCloseHour,
		SlotDuration:    DefaultSlotMinutes * time.Minute,
		BookingDuration: DefaultBookingMinutes * time.Minute,
		BookingSummary:  DefaultBookingSummary,
		MaxSlots:        DefaultAvailabilityMax,
		HoursPlatforms:  types.DefaultHoursPlatforms(),
		Platforms:       map[types.Platform]PlatformCredential{},
	}
}

// Validate checks the profile for internal consistency.
func (b *Business) Validate() error {
	if b.OrgID == "" {
		return goerr.New("business org_id is required")
	}
	if b.Location == nil {
		return goerr.New("business timezone is required", goerr.V("org_id", b.OrgID))
	}
	if b.OpenHour < 0 || b.CloseHour > 24 || b.OpenHour >= b.CloseHour {
		return goerr.New("business open hour must precede close hour",
			goerr.V("open", b.OpenHour), goerr.V("close", b.CloseHour))
	}
	if b.SlotDuration <= 0 {
		return goerr.New("slot duration must be positive", goerr.V("slot", b.SlotDuration))
	}
	if b.BookingDuration <= 0 {
		return goerr.New("booking duration must be positive", goerr.V("booking", b.BookingDuration))
	}
	if len(b.WeeklyHours) > 0 {
		if err := b.WeeklyHours.Validate(); err != nil {
			return goerr.Wrap(err, "invalid weekly hours")
		}
	}
	for _, p := range b.HoursPlatforms {
		if !p.IsValid() {
			return goerr.New("unknown hours platform", goerr.V("platform", p))
		}
	}
	return nil
}

// WindowFor returns the opening window of day in minutes after local
// midnight. open is false when the business is closed that day.
func (b *Business) WindowFor(day time.Weekday) (window model.HoursRange, open bool) {
	if v, ok := b.WeeklyHours[types.WeekdayOf(day)]; ok {
		r, closed, err := model.ParseHoursValue(v)
		if err != nil || closed {
			return model.HoursRange{}, false
		}
		return r, true
	}
	return model.HoursRange{Open: b.OpenHour * 60, Close: b.CloseHour * 60}, true
}
