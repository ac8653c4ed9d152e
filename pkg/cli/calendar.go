package cli

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/aadee-inc/steward/pkg/cli/config"
	"github.com/aadee-inc/steward/pkg/domain/model"
	"github.com/aadee-inc/steward/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

func cmdCalendar() *cli.Command {
	return &cli.Command{
		Name:  "calendar",
		Usage: "Manage calendar credentials",
		Commands: []*cli.Command{
			cmdCalendarImport(),
		},
	}
}

// loadOAuthToken reads a token JSON as written by golang.org/x/oauth2 tools.
func loadOAuthToken(path string) (*oauth2.Token, error) {
	// #nosec G304 - path is provided by operator flag
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read token file", goerr.V("path", path))
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, goerr.Wrap(config.ErrInvalidConfig, "token file is not valid JSON", goerr.V("path", path), goerr.V("cause", err.Error()))
	}
	if token.AccessToken == "" && token.RefreshToken == "" {
		return nil, goerr.Wrap(config.ErrMissingCredential, "token file has neither access_token nor refresh_token", goerr.V("path", path))
	}
	return &token, nil
}

func cmdCalendarImport() *cli.Command {
	var repoCfg config.Repository
	var bizCfg config.Business
	var tokenFile string
	var calendarID string

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "token-file",
			Usage:       "OAuth2 token JSON (access_token, refresh_token, token_type, expiry)",
			Required:    true,
			Destination: &tokenFile,
		},
		&cli.StringFlag{
			Name:        "calendar-id",
			Usage:       "Calendar to book into (primary when empty)",
			Destination: &calendarID,
		},
	}
	flags = append(flags, bizCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:  "import",
		Usage: "Store an OAuth2 token as the calendar credential of the organization",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			biz, err := bizCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load business config")
			}

			token, err := loadOAuthToken(tokenFile)
			if err != nil {
				return err
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer closeRepository(repo)()

			cred := &model.CalendarCredential{
				OrgID:        biz.OrgID,
				CalendarID:   calendarID,
				AccessToken:  token.AccessToken,
				RefreshToken: token.RefreshToken,
				TokenType:    token.TokenType,
				Expiry:       token.Expiry,
				UpdatedAt:    time.Now().UTC(),
			}
			if err := repo.CalendarCredential().Put(ctx, cred); err != nil {
				return goerr.Wrap(err, "failed to store calendar credential", goerr.V("org_id", biz.OrgID))
			}

			logging.Default().Info("Calendar credential imported",
				"org_id", biz.OrgID,
				"calendar_id", calendarID,
				"credential", cred,
			)
			return nil
		},
	}
}
