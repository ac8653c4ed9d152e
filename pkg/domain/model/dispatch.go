package model

import "github.com/aadee-inc/steward/pkg/domain/types"

// PlatformResult is the outcome of one platform call. A failure is carried
// as a value in Error, never as a returned error.
type PlatformResult struct {
	Platform types.Platform
	Success  bool
	Message  string
	Error    string
	Data     map[string]any
}

// Map renders r for storage in Action.Result.
func (r PlatformResult) Map() map[string]any {
	out := map[string]any{
		"success":  r.Success,
		"platform": r.Platform.String(),
	}
	if r.Message != "" {
		out["message"] = r.Message
	}
	if r.Error != "" {
		out["error"] = r.Error
	}
	for k, v := range r.Data {
		if _, exists := out[k]; !exists {
			out[k] = v
		}
	}
	return out
}

// HoursDispatchResult aggregates a multi-platform hours update. Order keeps
// the requested platform order.
type HoursDispatchResult struct {
	Order     []types.Platform
	Platforms map[types.Platform]PlatformResult
}

// Add records r, replacing an earlier entry for the same platform.
func (d *HoursDispatchResult) Add(r PlatformResult) {
	if d.Platforms == nil {
		d.Platforms = make(map[types.Platform]PlatformResult)
	}
	if _, exists := d.Platforms[r.Platform]; !exists {
		d.Order = append(d.Order, r.Platform)
	}
	d.Platforms[r.Platform] = r
}

// OverallSuccess is the conjunction of every platform outcome. An empty
// result is not a success.
func (d *HoursDispatchResult) OverallSuccess() bool {
	if len(d.Platforms) == 0 {
		return false
	}
	for _, r := range d.Platforms {
		if !r.Success {
			return false
		}
	}
	return true
}

// Failed returns the failed platform results in request order.
func (d *HoursDispatchResult) Failed() []PlatformResult {
	var failed []PlatformResult
	for _, p := range d.Order {
		if r := d.Platforms[p]; !r.Success {
			failed = append(failed, r)
		}
	}
	return failed
}

// PlatformsMap renders the per-platform entries keyed by platform name.
func (d *HoursDispatchResult) PlatformsMap() map[string]any {
	out := make(map[string]any, len(d.Platforms))
	for p, r := range d.Platforms {
		out[p.String()] = r.Map()
	}
	return out
}

// SocialPost is the content handed to a social integration.
type SocialPost struct {
	Network   types.SocialNetwork
	Content   string
	MediaURLs []string
	Hashtags  []string
}
