package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/aadee-inc/steward/pkg/domain/interfaces"
	"github.com/aadee-inc/steward/pkg/domain/model"
	"github.com/aadee-inc/steward/pkg/domain/model/config"
	"github.com/aadee-inc/steward/pkg/utils/errutil"
	"github.com/aadee-inc/steward/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// Bounds of the availability window in days.
const (
	DefaultAvailabilityDays = 14
	MinAvailabilityDays     = 1
	MaxAvailabilityDays     = 30
)

// AvailabilityUseCase computes open appointment slots.
type AvailabilityUseCase struct {
	connector interfaces.CalendarConnector
	business  *config.Business
	now       func() time.Time
}

func NewAvailabilityUseCase(connector interfaces.CalendarConnector, business *config.Business) *AvailabilityUseCase {
	return &AvailabilityUseCase{
		connector: connector,
		business:  business,
		now:       time.Now,
	}
}

// Availability is the result of FindFreeSlots. Degraded is set when busy
// intervals could not be consulted and Slots is the raw business-hours grid.
type Availability struct {
	Slots    []model.TimeSlot
	Grouped  map[string][]string
	Degraded bool
}

// FindFreeSlots returns at most limit slot starts within the next days days,
// in chronological order. A non-positive limit uses the business default.
func (uc *AvailabilityUseCase) FindFreeSlots(ctx context.Context, days, limit int) (*Availability, error) {
	if days == 0 {
		days = DefaultAvailabilityDays
	}
	if days < MinAvailabilityDays || days > MaxAvailabilityDays {
		return nil, goerr.Wrap(ErrValidation, "days must be between 1 and 30", goerr.V("days", days))
	}
	if limit <= 0 {
		limit = uc.business.MaxSlots
	}

	now := uc.now().UTC().Truncate(time.Minute)
	candidates := SlotGrid(uc.business, now, days)
	// The grid covers the whole last local day, past now+days.
	end := now.Add(time.Duration(days) * 24 * time.Hour)
	if n := len(candidates); n > 0 && candidates[n-1].End().After(end) {
		end = candidates[n-1].End()
	}

	slots, degraded := uc.filter(ctx, candidates, now, end)
	if len(slots) > limit {
		slots = slots[:limit]
	}

	return &Availability{
		Slots:    slots,
		Grouped:  model.GroupSlotsByDate(slots),
		Degraded: degraded,
	}, nil
}

// filter drops candidates overlapping a busy interval. Without a calendar,
// or when busy intervals cannot be fetched, candidates are returned as is.
func (uc *AvailabilityUseCase) filter(ctx context.Context, candidates []model.TimeSlot, start, end time.Time) ([]model.TimeSlot, bool) {
	if uc.connector == nil {
		return candidates, true
	}

	cal, err := uc.connector.Connect(ctx, uc.business.OrgID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotConnected) {
			logging.From(ctx).Debug("calendar not connected, returning business hours grid")
		} else {
			errutil.Handle(ctx, err, "failed to connect calendar")
		}
		return candidates, true
	}

	busy, err := cal.BusyIntervals(ctx, start, end)
	if err != nil {
		errutil.Handle(ctx, err, "failed to fetch busy intervals")
		return candidates, true
	}

	free := make([]model.TimeSlot, 0, len(candidates))
	for _, c := range candidates {
		if !overlapsAny(c, busy) {
			free = append(free, c)
		}
	}
	return free, false
}

func overlapsAny(slot model.TimeSlot, busy []model.BusyInterval) bool {
	for _, b := range busy {
		if slot.Overlaps(b) {
			return true
		}
	}
	return false
}

// SlotGrid walks each local calendar day from now through now+days in the
// business timezone and steps through its opening window. Only starts
// strictly after now are kept.
func SlotGrid(biz *config.Business, now time.Time, days int) []model.TimeSlot {
	loc := biz.Location
	if loc == nil {
		loc = time.UTC
	}
	step := biz.SlotDuration
	if step <= 0 {
		step = config.DefaultSlotMinutes * time.Minute
	}
	stepMin := int(step / time.Minute)

	local := now.In(loc)
	last := now.Add(time.Duration(days) * 24 * time.Hour).In(loc)
	lastDay := time.Date(last.Year(), last.Month(), last.Day(), 0, 0, 0, 0, loc)

	var slots []model.TimeSlot
	for day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc); !day.After(lastDay); day = day.AddDate(0, 0, 1) {
		window, open := biz.WindowFor(day.Weekday())
		if !open {
			continue
		}
		for m := window.Open; m < window.Close; m += stepMin {
			start := time.Date(day.Year(), day.Month(), day.Day(), 0, m, 0, 0, loc).UTC()
			if !start.After(now) {
				continue
			}
			slots = append(slots, model.TimeSlot{Start: start, Duration: step})
		}
	}
	return slots
}
