package intent

import (
	"regexp"

	"github.com/aadee-inc/steward/pkg/domain/types"
)

type keywordSet []*regexp.Regexp

func words(patterns ...string) keywordSet {
	set := make(keywordSet, 0, len(patterns))
	for _, p := range patterns {
		set = append(set, regexp.MustCompile(`\b`+p+`\b`))
	}
	return set
}

func (k keywordSet) any(s string) bool {
	for _, re := range k {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

var (
	hoursKeywords = words(`hours?`, `open(?:ing|s)?`, `clos(?:e|ed|es|ing)`, `schedule`,
		`monday`, `tuesday`, `wednesday`, `thursday`, `friday`, `saturday`, `sunday`, `weekends?`, `weekdays?`)
	changeVerbs = words(`updat(?:e|ed|es|ing)`, `chang(?:e|ed|es|ing)`, `set`, `modif(?:y|ied|ies)`, `adjust(?:ed|ing)?`,
		`extend(?:ed|ing)?`, `shorten(?:ed|ing)?`)

	socialKeywords = words(`facebook`, `instagram`, `twitter`, `linkedin`, `tiktok`, `social(?: media)?`, `tweet`)
	contentVerbs   = words(`posts?`, `draft`, `write`, `creat(?:e|ing)`, `share`, `publish`, `announce`)

	listingKeywords = words(`listings?`, `profile`, `google business`, `yelp`, `phone(?: number)?`, `website`,
		`address`, `description`, `business info(?:rmation)?`)
	editVerbs = words(`updat(?:e|ed|es|ing)`, `chang(?:e|ed|es|ing)`, `edit`, `modif(?:y|ied|ies)`, `fix`, `correct`, `set`)
)

// Classifier maps a user message to an intent. The first matching intent in
// the order business hours, social media, listing update is returned.
type Classifier struct{}

func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify returns the intent of message, or types.IntentNone.
func (c *Classifier) Classify(message string) types.Intent {
	s := normalizeText(message)

	switch {
	case hoursKeywords.any(s) && changeVerbs.any(s):
		return types.IntentBusinessHours
	case socialKeywords.any(s) && contentVerbs.any(s):
		return types.IntentSocialMedia
	case listingKeywords.any(s) && editVerbs.any(s):
		return types.IntentListingUpdate
	}
	return types.IntentNone
}
