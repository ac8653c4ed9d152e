package interfaces

import (
	"context"
	"time"

	"github.com/aadee-inc/steward/pkg/domain/model"
	"github.com/aadee-inc/steward/pkg/domain/types"
)

// Integration is the common part of every platform client.
type Integration interface {
	Platform() types.Platform
	TestConnection(ctx context.Context) error
}

// HoursCapable platforms accept business hours updates.
type HoursCapable interface {
	Integration
	UpdateBusinessHours(ctx context.Context, hours model.BusinessHoursMap) (map[string]any, error)
	GetBusinessHours(ctx context.Context) (model.BusinessHoursMap, error)
}

// ListingCapable platforms accept listing updates.
type ListingCapable interface {
	Integration
	UpdateBusinessInfo(ctx context.Context, info map[string]any) (map[string]any, error)
	UpdateDescription(ctx context.Context, description string) error
	UpdateContactInfo(ctx context.Context, phone, website string) error
}

// SocialCapable platforms manage social posts.
type SocialCapable interface {
	Integration
	DraftPost(ctx context.Context, post model.SocialPost) (map[string]any, error)
	PublishPost(ctx context.Context, post model.SocialPost) (map[string]any, error)
	SchedulePost(ctx context.Context, post model.SocialPost, at time.Time) (map[string]any, error)
	GetAnalytics(ctx context.Context, network types.SocialNetwork, days int) (map[string]any, error)
}

// Dispatcher executes approved changes against the registered
// integrations. Platform failures are reported in the returned values.
type Dispatcher interface {
	DispatchHours(ctx context.Context, platforms []types.Platform, hours model.BusinessHoursMap) *model.HoursDispatchResult
	DispatchListing(ctx context.Context, platform types.Platform, info map[string]any) model.PlatformResult
	DispatchSocial(ctx context.Context, post model.SocialPost) model.PlatformResult
}
