package intent

import (
	"regexp"
	"strings"

	"github.com/aadee-inc/steward/pkg/domain/model"
	"github.com/aadee-inc/steward/pkg/domain/types"
)

var (
	phonePattern   = regexp.MustCompile(`\+?\d[\d\s().-]{7,}\d`)
	websitePattern = regexp.MustCompile(`(?i)\b(?:https?://[^\s,]+|www\.[^\s,]+|[a-z0-9-]+\.(?:com|net|org|io|co|biz|shop)(?:/[^\s,]*)?)`)
	quotedPattern  = regexp.MustCompile(`"([^"]+)"|“([^”]+)”`)
	hashtagPattern = regexp.MustCompile(`#(\w+)`)
	descPattern    = regexp.MustCompile(`(?i)\bdescription\s*(?:to|:)\s*(.+)$`)
	addressPattern = regexp.MustCompile(`(?i)\baddress\s*(?:to|:)\s*(.+)$`)
	aboutPattern   = regexp.MustCompile(`(?i)\b(?:about|announcing|for)\s+(.+)$`)
)

var networkKeywords = []struct {
	network types.SocialNetwork
	pattern *regexp.Regexp
}{
	{types.SocialNetworkInstagram, regexp.MustCompile(`(?i)\b(?:instagram|insta|ig)\b`)},
	{types.SocialNetworkTwitter, regexp.MustCompile(`(?i)\b(?:twitter|tweet)\b`)},
	{types.SocialNetworkLinkedIn, regexp.MustCompile(`(?i)\blinkedin\b`)},
	{types.SocialNetworkFacebook, regexp.MustCompile(`(?i)\bfacebook\b`)},
}

// ExtractListingInfo picks the listing fields mentioned in text. Keys are
// phone, website, address and description; the result is empty when none
// was recognized.
func ExtractListingInfo(text string) map[string]any {
	info := map[string]any{}

	if m := descPattern.FindStringSubmatch(text); m != nil {
		info["description"] = cleanValue(m[1])
		return info
	}
	if m := addressPattern.FindStringSubmatch(text); m != nil {
		info["address"] = cleanValue(m[1])
		return info
	}

	if phone := phonePattern.FindString(text); phone != "" {
		info["phone"] = strings.TrimSpace(phone)
	}
	if site := websitePattern.FindString(text); site != "" {
		info["website"] = strings.TrimRight(site, ".")
	}
	return info
}

// ExtractSocialPost builds draft post parameters from text. The network
// defaults to Facebook when none is named.
func ExtractSocialPost(text string) model.SocialPostParams {
	post := model.SocialPostParams{
		Platform: types.SocialNetworkFacebook,
	}
	for _, k := range networkKeywords {
		if k.pattern.MatchString(text) {
			post.Platform = k.network
			break
		}
	}

	for _, m := range hashtagPattern.FindAllStringSubmatch(text, -1) {
		post.Hashtags = append(post.Hashtags, m[1])
	}

	switch {
	case quotedPattern.MatchString(text):
		m := quotedPattern.FindStringSubmatch(text)
		post.Content = m[1] + m[2]
	case strings.Contains(text, ":"):
		post.Content = strings.TrimSpace(text[strings.Index(text, ":")+1:])
	default:
		if m := aboutPattern.FindStringSubmatch(text); m != nil {
			post.Content = cleanValue(m[1])
		} else {
			post.Content = strings.TrimSpace(text)
		}
	}
	post.Content = strings.TrimSpace(hashtagPattern.ReplaceAllString(post.Content, ""))
	if post.Content == "" {
		post.Content = strings.TrimSpace(text)
	}

	return post
}

func cleanValue(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'“”`)
	return strings.TrimRight(s, ".!")
}
