// Package integration executes approved changes against external platforms.
package integration

import (
	"context"
	"fmt"
	"slices"

	"github.com/aadee-inc/steward/pkg/domain/interfaces"
	"github.com/aadee-inc/steward/pkg/domain/model"
	"github.com/aadee-inc/steward/pkg/domain/types"
	"github.com/aadee-inc/steward/pkg/utils/logging"
	"github.com/aadee-inc/steward/pkg/utils/retry"
	"github.com/aadee-inc/steward/pkg/utils/tracing"
	"github.com/m-mizutani/goerr/v2"
)

// Dispatcher routes a change to the integrations registered for each
// platform. Every platform call is isolated: its failure is returned as a
// PlatformResult value and never stops calls to other platforms.
type Dispatcher struct {
	integrations map[types.Platform]interfaces.Integration
	policy       retry.Policy
}

type Option func(*Dispatcher)

// WithRetryPolicy sets the timeout and retry budget of each platform call.
func WithRetryPolicy(p retry.Policy) Option {
	return func(d *Dispatcher) {
		d.policy = p
	}
}

// NewDispatcher registers integrations by their platform. A later
// integration for the same platform replaces an earlier one.
func NewDispatcher(integrations []interfaces.Integration, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		integrations: make(map[types.Platform]interfaces.Integration, len(integrations)),
		policy:       retry.DefaultPolicy(),
	}
	for _, i := range integrations {
		d.integrations[i.Platform()] = i
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Platforms returns the registered platforms in a stable order.
func (d *Dispatcher) Platforms() []types.Platform {
	platforms := make([]types.Platform, 0, len(d.integrations))
	for p := range d.integrations {
		platforms = append(platforms, p)
	}
	slices.Sort(platforms)
	return platforms
}

func notAvailable(p types.Platform) model.PlatformResult {
	return model.PlatformResult{
		Platform: p,
		Error:    fmt.Sprintf("Integration not available for platform: %s", p),
	}
}

func notCapable(p types.Platform, capability string) model.PlatformResult {
	return model.PlatformResult{
		Platform: p,
		Error:    fmt.Sprintf("Platform %s does not support %s", p, capability),
	}
}

// DispatchHours sends hours to every platform in order and aggregates the
// per-platform outcomes.
func (d *Dispatcher) DispatchHours(ctx context.Context, platforms []types.Platform, hours model.BusinessHoursMap) *model.HoursDispatchResult {
	result := &model.HoursDispatchResult{}
	for _, p := range platforms {
		result.Add(d.updateHours(ctx, p, hours))
	}

	logging.From(ctx).Info("business hours dispatched",
		"platforms", platforms,
		"success", result.OverallSuccess(),
		"failed", len(result.Failed()),
	)
	return result
}

func (d *Dispatcher) updateHours(ctx context.Context, p types.Platform, hours model.BusinessHoursMap) model.PlatformResult {
	integ, ok := d.integrations[p]
	if !ok {
		return notAvailable(p)
	}
	hc, ok := integ.(interfaces.HoursCapable)
	if !ok {
		return notCapable(p, "business hours")
	}

	var data map[string]any
	err := d.call(ctx, p, "update_business_hours", func(ctx context.Context) error {
		var err error
		data, err = hc.UpdateBusinessHours(ctx, hours)
		return err
	})
	if err != nil {
		return model.PlatformResult{
			Platform: p,
			Error:    fmt.Sprintf("Error updating %s: %s", p, err.Error()),
		}
	}

	return model.PlatformResult{
		Platform: p,
		Success:  true,
		Message:  messageOr(data, fmt.Sprintf("Business hours updated on %s", p)),
		Data:     data,
	}
}

// DispatchListing applies info to the listing on platform.
func (d *Dispatcher) DispatchListing(ctx context.Context, p types.Platform, info map[string]any) model.PlatformResult {
	integ, ok := d.integrations[p]
	if !ok {
		return notAvailable(p)
	}
	lc, ok := integ.(interfaces.ListingCapable)
	if !ok {
		return notCapable(p, "listing updates")
	}

	var data map[string]any
	err := d.call(ctx, p, "update_business_info", func(ctx context.Context) error {
		var err error
		data, err = lc.UpdateBusinessInfo(ctx, info)
		return err
	})
	if err != nil {
		return model.PlatformResult{
			Platform: p,
			Message:  "Failed to update business listing",
			Error:    err.Error(),
		}
	}

	if data == nil {
		data = map[string]any{}
	}
	if _, ok := data["updated_info"]; !ok {
		data["updated_info"] = info
	}
	return model.PlatformResult{
		Platform: p,
		Success:  true,
		Message:  messageOr(data, fmt.Sprintf("Listing updated on %s", p)),
		Data:     data,
	}
}

// DispatchSocial drafts post on the social platform.
func (d *Dispatcher) DispatchSocial(ctx context.Context, post model.SocialPost) model.PlatformResult {
	p := types.PlatformSocialMedia
	integ, ok := d.integrations[p]
	if !ok {
		return notAvailable(p)
	}
	sc, ok := integ.(interfaces.SocialCapable)
	if !ok {
		return notCapable(p, "social posts")
	}

	var data map[string]any
	err := d.call(ctx, p, "draft_post", func(ctx context.Context) error {
		var err error
		data, err = sc.DraftPost(ctx, post)
		return err
	})
	if err != nil {
		return model.PlatformResult{
			Platform: p,
			Message:  "Failed to create social media post",
			Error:    err.Error(),
		}
	}

	return model.PlatformResult{
		Platform: p,
		Success:  true,
		Message:  messageOr(data, fmt.Sprintf("Post drafted successfully for %s", post.Network)),
		Data:     data,
	}
}

// call runs one platform operation under the retry policy inside its own
// span. A panic inside the integration is returned as an error.
func (d *Dispatcher) call(ctx context.Context, p types.Platform, op string, fn func(ctx context.Context) error) (err error) {
	ctx, span := tracing.Start(ctx, "integration."+op,
		tracing.PlatformKey.String(p.String()),
		tracing.OperationKey.String(op),
	)
	defer func() {
		if r := recover(); r != nil {
			err = goerr.New("integration panicked", goerr.V("platform", p), goerr.V("panic", r))
		}
		if err != nil {
			logging.From(ctx).Warn("platform call failed",
				"platform", p,
				"operation", op,
				"error", err.Error(),
			)
		}
		tracing.End(span, err)
	}()

	return retry.Do(ctx, d.policy, p.String()+"."+op, func(ctx context.Context) error {
		return fn(ctx)
	})
}

func messageOr(data map[string]any, fallback string) string {
	if msg, ok := data["message"].(string); ok && msg != "" {
		return msg
	}
	return fallback
}
