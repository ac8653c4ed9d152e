package types

// Intent is the label assigned to an inbound chat message.
type Intent string

const (
	IntentBusinessHours Intent = "business_hours"
	IntentSocialMedia   Intent = "social_media"
	IntentListingUpdate Intent = "listing_update"
	IntentNone          Intent = "none"
)

func (i Intent) String() string {
	return string(i)
}
