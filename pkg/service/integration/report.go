package integration

import (
	"context"

	"github.com/aadee-inc/steward/pkg/domain/interfaces"
	"github.com/aadee-inc/steward/pkg/domain/types"
	"golang.org/x/sync/errgroup"
)

// Capability names reported by Report.
const (
	CapabilityHours   = "hours"
	CapabilityListing = "listing"
	CapabilitySocial  = "social"
)

// Status describes one registered integration.
type Status struct {
	Platform     types.Platform `json:"platform"`
	Capabilities []string       `json:"capabilities"`
	Connected    bool           `json:"connected"`
	Error        string         `json:"error,omitempty"`
}

// Capabilities lists the capability interfaces integ implements.
func Capabilities(integ interfaces.Integration) []string {
	var caps []string
	if _, ok := integ.(interfaces.HoursCapable); ok {
		caps = append(caps, CapabilityHours)
	}
	if _, ok := integ.(interfaces.ListingCapable); ok {
		caps = append(caps, CapabilityListing)
	}
	if _, ok := integ.(interfaces.SocialCapable); ok {
		caps = append(caps, CapabilitySocial)
	}
	return caps
}

// Report tests every registered integration concurrently, each under the
// dispatcher's per-call timeout.
func (d *Dispatcher) Report(ctx context.Context) []Status {
	platforms := d.Platforms()
	statuses := make([]Status, len(platforms))

	var eg errgroup.Group
	for i, p := range platforms {
		integ := d.integrations[p]
		statuses[i] = Status{Platform: p, Capabilities: Capabilities(integ)}

		s := &statuses[i]
		eg.Go(func() error {
			callCtx := ctx
			if d.policy.Timeout > 0 {
				var cancel context.CancelFunc
				callCtx, cancel = context.WithTimeout(ctx, d.policy.Timeout)
				defer cancel()
			}
			if err := integ.TestConnection(callCtx); err != nil {
				s.Error = err.Error()
				return nil
			}
			s.Connected = true
			return nil
		})
	}
	_ = eg.Wait()

	return statuses
}
