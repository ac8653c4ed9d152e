package model

import (
	"strings"
	"time"
)

// BookingRequest asks for a calendar event at Start.
type BookingRequest struct {
	OrgID      string
	SessionID  string
	Start      time.Time
	Duration   time.Duration
	Attendee   string
	Summary    string
	Name       string
	Phone      string
	Purpose    string
	Conference bool
}

// End returns Start + Duration.
func (r BookingRequest) End() time.Time {
	return r.Start.Add(r.Duration)
}

// Description assembles the event body from the metadata fields that are
// present. It is empty when none are.
func (r BookingRequest) Description() string {
	var lines []string
	if r.Name != "" {
		lines = append(lines, "Name: "+r.Name)
	}
	if r.Phone != "" {
		lines = append(lines, "Phone: "+r.Phone)
	}
	if r.Purpose != "" {
		lines = append(lines, "Purpose: "+r.Purpose)
	}
	return strings.Join(lines, "\n")
}

// BookingResult identifies the created event.
type BookingResult struct {
	EventID string
	Link    string
	Start   time.Time
	End     time.Time
}
