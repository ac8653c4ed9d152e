package model

import "time"

// CalendarCredential is a stored OAuth token for one organization's
// calendar. Acquisition and refresh happen outside this service.
type CalendarCredential struct {
	OrgID        string
	CalendarID   string
	AccessToken  string `masq:"secret"`
	RefreshToken string `masq:"secret"`
	TokenType    string
	Expiry       time.Time
	UpdatedAt    time.Time
}
