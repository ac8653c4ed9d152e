package model_test

import (
	"testing"
	"time"

	"github.com/aadee-inc/steward/pkg/domain/model"
	"github.com/m-mizutani/gt"
)

func TestOverlaps(t *testing.T) {
	base := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)
	slot := model.TimeSlot{Start: base, Duration: 30 * time.Minute}

	tests := []struct {
		name string
		busy model.BusyInterval
		want bool
	}{
		{"ends at slot start", model.BusyInterval{Start: base.Add(-time.Hour), End: base}, false},
		{"starts at slot end", model.BusyInterval{Start: base.Add(30 * time.Minute), End: base.Add(time.Hour)}, false},
		{"covers slot", model.BusyInterval{Start: base.Add(-time.Hour), End: base.Add(time.Hour)}, true},
		{"inside slot", model.BusyInterval{Start: base.Add(10 * time.Minute), End: base.Add(20 * time.Minute)}, true},
		{"overlaps tail", model.BusyInterval{Start: base.Add(29 * time.Minute), End: base.Add(time.Hour)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, slot.Overlaps(tt.busy)).Equal(tt.want)
		})
	}
}

func TestGroupSlotsByDate(t *testing.T) {
	d1 := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 3, 3, 14, 0, 0, 0, time.UTC)
	grouped := model.GroupSlotsByDate([]model.TimeSlot{
		{Start: d1},
		{Start: d1.Add(30 * time.Minute)},
		{Start: d2},
	})

	gt.Array(t, grouped["2026-03-02"]).Length(2)
	gt.Value(t, grouped["2026-03-02"][0]).Equal("2026-03-02T14:00:00Z")
	gt.Array(t, grouped["2026-03-03"]).Length(1)
}

func TestBookingRequest_Description(t *testing.T) {
	gt.Value(t, model.BookingRequest{}.Description()).Equal("")
	gt.Value(t, model.BookingRequest{Name: "Ann", Purpose: "Consult"}.Description()).
		Equal("Name: Ann\nPurpose: Consult")
}
