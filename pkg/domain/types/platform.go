package types

import "fmt"

// Platform names an external integration target.
type Platform string

const (
	PlatformGoogleBusiness Platform = "google_business"
	PlatformYelp           Platform = "yelp"
	PlatformSocialMedia    Platform = "social_media"
)

// DefaultHoursPlatforms is used when an hours update names no platforms.
func DefaultHoursPlatforms() []Platform {
	return []Platform{PlatformGoogleBusiness, PlatformYelp}
}

// IsValid checks if the platform is known
func (p Platform) IsValid() bool {
	switch p {
	case PlatformGoogleBusiness, PlatformYelp, PlatformSocialMedia:
		return true
	default:
		return false
	}
}

func (p Platform) String() string {
	return string(p)
}

// ParsePlatform parses a string into a Platform
func ParsePlatform(s string) (Platform, error) {
	p := Platform(s)
	if !p.IsValid() {
		return "", fmt.Errorf("invalid platform: %s", s)
	}
	return p, nil
}

// SocialNetwork is the network a social post is drafted for. It is carried
// inside social_media requests.
type SocialNetwork string

const (
	SocialNetworkFacebook  SocialNetwork = "facebook"
	SocialNetworkInstagram SocialNetwork = "instagram"
	SocialNetworkTwitter   SocialNetwork = "twitter"
	SocialNetworkLinkedIn  SocialNetwork = "linkedin"
)

// AllSocialNetworks returns the networks in detection priority order.
func AllSocialNetworks() []SocialNetwork {
	return []SocialNetwork{
		SocialNetworkFacebook,
		SocialNetworkInstagram,
		SocialNetworkTwitter,
		SocialNetworkLinkedIn,
	}
}

func (n SocialNetwork) String() string {
	return string(n)
}

func (n SocialNetwork) IsValid() bool {
	for _, v := range AllSocialNetworks() {
		if v == n {
			return true
		}
	}
	return false
}

// ParseSocialNetwork parses a lowercase network name.
func ParseSocialNetwork(s string) (SocialNetwork, error) {
	n := SocialNetwork(s)
	if !n.IsValid() {
		return "", fmt.Errorf("invalid social network: %s", s)
	}
	return n, nil
}
