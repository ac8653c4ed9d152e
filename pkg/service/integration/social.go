package integration

import (
	"context"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/aadee-inc/steward/pkg/domain/interfaces"
	"github.com/aadee-inc/steward/pkg/domain/model"
	"github.com/aadee-inc/steward/pkg/domain/types"
	"github.com/aadee-inc/steward/pkg/utils/retry"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// ErrPublishingDisabled is returned by operations that need a publishing
// gateway when none is configured.
var ErrPublishingDisabled = goerr.New("social publishing gateway is not configured")

// Social drafts posts locally and hands publishing, scheduling and analytics
// to a JSON publishing gateway.
type Social struct {
	networks []types.SocialNetwork
	api      *jsonClient
	now      func() time.Time
}

var _ interfaces.SocialCapable = (*Social)(nil)

type SocialOption func(*Social)

// WithPublishingGateway enables publish, schedule and analytics calls.
func WithPublishingGateway(baseURL, token string, client *http.Client) SocialOption {
	return func(s *Social) {
		if baseURL != "" {
			s.api = newJSONClient(baseURL, token, client)
		}
	}
}

func WithSocialClock(now func() time.Time) SocialOption {
	return func(s *Social) {
		s.now = now
	}
}

// NewSocial enables the given networks; an empty list enables all of them.
func NewSocial(networks []types.SocialNetwork, opts ...SocialOption) *Social {
	if len(networks) == 0 {
		networks = types.AllSocialNetworks()
	}
	s := &Social{
		networks: networks,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Social) Platform() types.Platform {
	return types.PlatformSocialMedia
}

func (s *Social) TestConnection(ctx context.Context) error {
	if s.api == nil {
		return nil
	}
	if err := s.api.do(ctx, http.MethodGet, "/me", nil, nil); err != nil {
		return goerr.Wrap(err, "failed to reach publishing gateway")
	}
	return nil
}

func (s *Social) checkNetwork(n types.SocialNetwork) error {
	if !slices.Contains(s.networks, n) {
		return retry.Permanent(goerr.New("social network is not enabled", goerr.V("network", n)))
	}
	return nil
}

func postBody(post model.SocialPost) map[string]any {
	mediaURLs := post.MediaURLs
	if mediaURLs == nil {
		mediaURLs = []string{}
	}
	hashtags := post.Hashtags
	if hashtags == nil {
		hashtags = []string{}
	}
	return map[string]any{
		"platform":   post.Network.String(),
		"content":    post.Content,
		"media_urls": mediaURLs,
		"hashtags":   hashtags,
	}
}

// DraftPost validates post and returns it as a draft. Nothing is sent to
// the network.
func (s *Social) DraftPost(ctx context.Context, post model.SocialPost) (map[string]any, error) {
	if err := s.checkNetwork(post.Network); err != nil {
		return nil, err
	}
	if strings.TrimSpace(post.Content) == "" {
		return nil, retry.Permanent(goerr.New("post content is empty"))
	}

	data := postBody(post)
	data["id"] = uuid.NewString()
	data["status"] = "draft"
	data["created_at"] = s.now().UTC().Format(time.RFC3339)

	return map[string]any{
		"platform":  post.Network.String(),
		"post_data": data,
		"message":   "Post drafted successfully for " + post.Network.String(),
	}, nil
}

type gatewayPost struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	ScheduledAt string `json:"scheduled_at"`
}

func (s *Social) PublishPost(ctx context.Context, post model.SocialPost) (map[string]any, error) {
	if err := s.checkNetwork(post.Network); err != nil {
		return nil, err
	}
	if s.api == nil {
		return nil, retry.Permanent(ErrPublishingDisabled)
	}

	var resp gatewayPost
	if err := s.api.do(ctx, http.MethodPost, "/posts", postBody(post), &resp); err != nil {
		return nil, goerr.Wrap(err, "failed to publish post", goerr.V("network", post.Network))
	}
	return map[string]any{
		"platform": post.Network.String(),
		"post_id":  resp.ID,
		"post_url": resp.URL,
		"message":  "Post published successfully on " + post.Network.String(),
	}, nil
}

func (s *Social) SchedulePost(ctx context.Context, post model.SocialPost, at time.Time) (map[string]any, error) {
	if err := s.checkNetwork(post.Network); err != nil {
		return nil, err
	}
	if s.api == nil {
		return nil, retry.Permanent(ErrPublishingDisabled)
	}
	if !at.After(s.now()) {
		return nil, retry.Permanent(goerr.New("scheduled time must be in the future", goerr.V("at", at)))
	}

	body := postBody(post)
	body["scheduled_at"] = at.UTC().Format(time.RFC3339)

	var resp gatewayPost
	if err := s.api.do(ctx, http.MethodPost, "/posts", body, &resp); err != nil {
		return nil, goerr.Wrap(err, "failed to schedule post", goerr.V("network", post.Network))
	}
	return map[string]any{
		"platform":       post.Network.String(),
		"scheduled_id":   resp.ID,
		"scheduled_time": at.UTC().Format(time.RFC3339),
		"message":        "Post scheduled successfully for " + post.Network.String(),
	}, nil
}

func (s *Social) GetAnalytics(ctx context.Context, network types.SocialNetwork, days int) (map[string]any, error) {
	if err := s.checkNetwork(network); err != nil {
		return nil, err
	}
	if s.api == nil {
		return nil, retry.Permanent(ErrPublishingDisabled)
	}
	if days <= 0 {
		days = 30
	}

	q := url.Values{}
	q.Set("network", network.String())
	q.Set("days", strconv.Itoa(days))

	var metrics map[string]any
	if err := s.api.do(ctx, http.MethodGet, "/analytics?"+q.Encode(), nil, &metrics); err != nil {
		return nil, goerr.Wrap(err, "failed to get analytics", goerr.V("network", network))
	}
	return map[string]any{
		"platform":    network.String(),
		"period_days": days,
		"metrics":     metrics,
	}, nil
}
