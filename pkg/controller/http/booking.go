package http

import (
	"net/http"
	"time"

	"github.com/aadee-inc/steward/pkg/usecase"
)

func (s *Server) availability(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days")
	if err != nil {
		writeError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, r, err)
		return
	}

	avail, err := s.uc.Availability.FindFreeSlots(r.Context(), days, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slots := make([]string, len(avail.Slots))
	for i, slot := range avail.Slots {
		slots[i] = slot.Start.UTC().Format(time.RFC3339)
	}

	body := map[string]any{
		"slots":    slots,
		"grouped":  avail.Grouped,
		"timezone": s.uc.Business().Location.String(),
		"degraded": avail.Degraded,
	}
	if avail.Degraded {
		body["message"] = "Calendar unavailable; showing business hours without busy times"
	}
	writeJSON(w, r, http.StatusOK, body)
}

type bookingRequest struct {
	SessionID       string `json:"session_id"`
	Start           string `json:"start"            validate:"required"`
	Attendee        string `json:"attendee"         validate:"required,email"`
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	Purpose         string `json:"purpose"`
	Conference      bool   `json:"conference"`
	DurationMinutes int    `json:"duration_minutes" validate:"gte=0,lte=480"`
}

func (s *Server) book(w http.ResponseWriter, r *http.Request) {
	var req bookingRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	start, err := time.Parse(time.RFC3339, req.Start)
	if err != nil {
		writeError(w, r, validationError("start must be an RFC3339 timestamp", "start", req.Start))
		return
	}

	booking, err := s.uc.Booking.Book(r.Context(), usecase.BookInput{
		SessionID:  req.SessionID,
		Start:      start,
		Attendee:   req.Attendee,
		Duration:   time.Duration(req.DurationMinutes) * time.Minute,
		Name:       req.Name,
		Phone:      req.Phone,
		Purpose:    req.Purpose,
		Conference: req.Conference,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, map[string]any{
		"booking": map[string]any{
			"event_id": booking.EventID,
			"link":     booking.Link,
			"start":    booking.Start.UTC().Format(time.RFC3339),
			"end":      booking.End.UTC().Format(time.RFC3339),
		},
	})
}
