package cli

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/aadee-inc/steward/pkg/domain/types"
	"github.com/aadee-inc/steward/pkg/service/intent"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

type parseResult struct {
	Intent  types.Intent      `json:"intent"`
	Hours   map[string]string `json:"hours,omitempty"`
	Listing map[string]any    `json:"listing,omitempty"`
	Social  any               `json:"social,omitempty"`
}

// cmdParse runs the message classifier and extractors offline, which helps
// when tuning keywords.
func cmdParse() *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Usage:     "Classify a message and show what would be proposed",
		ArgsUsage: "<message>",
		Action: func(ctx context.Context, c *cli.Command) error {
			text := strings.Join(c.Args().Slice(), " ")
			if strings.TrimSpace(text) == "" {
				return goerr.New("message is required")
			}

			result := parseResult{Intent: intent.NewClassifier().Classify(text)}
			switch result.Intent {
			case types.IntentBusinessHours:
				if hours, ok := intent.NewHoursParser().Parse(text); ok {
					result.Hours = make(map[string]string, len(hours))
					for day, v := range hours {
						result.Hours[day.String()] = v
					}
				}
			case types.IntentListingUpdate:
				result.Listing = intent.ExtractListingInfo(text)
			case types.IntentSocialMedia:
				result.Social = intent.ExtractSocialPost(text)
			}

			enc := json.NewEncoder(c.Root().Writer)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
}
