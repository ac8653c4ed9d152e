package integration

import (
	"context"
	"net/http"
	"strings"

	"github.com/aadee-inc/steward/pkg/domain/interfaces"
	"github.com/aadee-inc/steward/pkg/domain/model/config"
	"github.com/aadee-inc/steward/pkg/domain/types"
	"github.com/aadee-inc/steward/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
)

// Credential keys read from config.PlatformCredential.
const (
	CredLocation        = "location"
	CredAccessToken     = "access_token"
	CredCredentialsFile = "credentials_file"
	CredEndpoint        = "endpoint"
	CredBusinessID      = "business_id"
	CredAPIKey          = "api_key"
	CredBaseURL         = "base_url"
	CredNetworks        = "networks"
)

// Build creates one integration per platform configured in biz. client is
// used by the HTTP based integrations; nil selects http.DefaultClient.
func Build(ctx context.Context, biz *config.Business, client *http.Client) ([]interfaces.Integration, error) {
	var integrations []interfaces.Integration

	for _, p := range []types.Platform{types.PlatformGoogleBusiness, types.PlatformYelp, types.PlatformSocialMedia} {
		cred, ok := biz.Platforms[p]
		if !ok {
			continue
		}

		var (
			integ interfaces.Integration
			err   error
		)
		switch p {
		case types.PlatformGoogleBusiness:
			integ, err = buildGoogleBusiness(ctx, cred)
		case types.PlatformYelp:
			integ, err = NewYelp(cred[CredBusinessID], cred[CredAPIKey], cred[CredBaseURL], client)
		case types.PlatformSocialMedia:
			integ, err = buildSocial(cred, client)
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to configure integration", goerr.V("platform", p))
		}

		integrations = append(integrations, integ)
		logging.From(ctx).Info("integration configured", "platform", p)
	}

	return integrations, nil
}

func buildGoogleBusiness(ctx context.Context, cred config.PlatformCredential) (*GoogleBusiness, error) {
	var opts []option.ClientOption
	switch {
	case cred[CredAccessToken] != "":
		opts = append(opts, option.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: cred[CredAccessToken],
			TokenType:   "Bearer",
		})))
	case cred[CredCredentialsFile] != "":
		opts = append(opts, option.WithCredentialsFile(cred[CredCredentialsFile]))
	}
	if cred[CredEndpoint] != "" {
		opts = append(opts, option.WithEndpoint(cred[CredEndpoint]))
	}
	return NewGoogleBusiness(ctx, cred[CredLocation], opts...)
}

func buildSocial(cred config.PlatformCredential, client *http.Client) (*Social, error) {
	var networks []types.SocialNetwork
	for _, name := range strings.Split(cred[CredNetworks], ",") {
		name = strings.TrimSpace(strings.ToLower(name))
		if name == "" {
			continue
		}
		n, err := types.ParseSocialNetwork(name)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid social network")
		}
		networks = append(networks, n)
	}

	return NewSocial(networks, WithPublishingGateway(cred[CredBaseURL], cred[CredAccessToken], client)), nil
}
