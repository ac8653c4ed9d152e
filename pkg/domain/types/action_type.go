package types

import "fmt"

// ActionType selects how an approved Action is executed.
type ActionType string

const (
	ActionTypeUpdateBusinessHours         ActionType = "update_business_hours"
	ActionTypeUpdateGoogleBusinessProfile ActionType = "update_google_business_profile"
	ActionTypeUpdateYelpListing           ActionType = "update_yelp_listing"
	ActionTypeDraftSocialPost             ActionType = "draft_social_post"
	ActionTypeUpdateWebsiteContent        ActionType = "update_website_content"
)

// AllActionTypes returns every action type that can be stored.
func AllActionTypes() []ActionType {
	return []ActionType{
		ActionTypeUpdateBusinessHours,
		ActionTypeUpdateGoogleBusinessProfile,
		ActionTypeUpdateYelpListing,
		ActionTypeDraftSocialPost,
		ActionTypeUpdateWebsiteContent,
	}
}

// IsValid reports whether t can be stored. A valid type is not necessarily
// executable; see ListingPlatform and the executor routing.
func (t ActionType) IsValid() bool {
	switch t {
	case ActionTypeUpdateBusinessHours,
		ActionTypeUpdateGoogleBusinessProfile,
		ActionTypeUpdateYelpListing,
		ActionTypeDraftSocialPost,
		ActionTypeUpdateWebsiteContent:
		return true
	default:
		return false
	}
}

// ListingPlatform returns the platform a listing update targets, or false
// when t is not a listing update.
func (t ActionType) ListingPlatform() (Platform, bool) {
	switch t {
	case ActionTypeUpdateGoogleBusinessProfile:
		return PlatformGoogleBusiness, true
	case ActionTypeUpdateYelpListing:
		return PlatformYelp, true
	default:
		return "", false
	}
}

func (t ActionType) String() string {
	return string(t)
}

// ParseActionType parses a string into an ActionType
func ParseActionType(s string) (ActionType, error) {
	t := ActionType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid action type: %s", s)
	}
	return t, nil
}
