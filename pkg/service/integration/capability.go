package integration

import (
	"context"

	"github.com/aadee-inc/steward/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
)

type hoursAndListing interface {
	interfaces.HoursCapable
	interfaces.ListingCapable
}

// updateContact sends only the contact fields that are set.
func updateContact(ctx context.Context, lc interfaces.ListingCapable, phone, website string) error {
	info := map[string]any{}
	if phone != "" {
		info["phone"] = phone
	}
	if website != "" {
		info["website"] = website
	}
	if len(info) == 0 {
		return goerr.New("phone or website is required")
	}
	_, err := lc.UpdateBusinessInfo(ctx, info)
	return err
}
