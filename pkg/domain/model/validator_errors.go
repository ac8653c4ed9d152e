package model

import "github.com/m-mizutani/goerr/v2"

// Model errors
var (
	ErrInvalidParams     = goerr.New("invalid action params")
	ErrInvalidHours      = goerr.New("invalid business hours")
	ErrInvalidTransition = goerr.New("invalid action transition")
	ErrStatusMismatch    = goerr.New("action status changed concurrently")
)

// Context keys for error values
const (
	ActionIDKey   = "action_id"
	ActionTypeKey = "action_type"
	WeekdayKey    = "weekday"
	HoursKey      = "hours"
)
