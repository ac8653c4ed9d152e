package integration

import (
	"context"
	"errors"
	"maps"
	"net/http"
	"sort"
	"strings"

	"github.com/aadee-inc/steward/pkg/domain/model"
	"github.com/aadee-inc/steward/pkg/domain/types"
	"github.com/aadee-inc/steward/pkg/utils/retry"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/googleapi"
	mbi "google.golang.org/api/mybusinessbusinessinformation/v1"
	"google.golang.org/api/option"
)

// GoogleBusiness updates one Google Business Profile location.
type GoogleBusiness struct {
	svc      *mbi.Service
	location string
}

var _ hoursAndListing = (*GoogleBusiness)(nil)

// NewGoogleBusiness creates a client for location ("locations/{id}" or the
// bare id).
func NewGoogleBusiness(ctx context.Context, location string, opts ...option.ClientOption) (*GoogleBusiness, error) {
	if location == "" {
		return nil, goerr.New("google business location is required")
	}
	if !strings.HasPrefix(location, "locations/") {
		location = "locations/" + location
	}

	svc, err := mbi.NewService(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Google Business Profile client", goerr.V("location", location))
	}
	return &GoogleBusiness{svc: svc, location: location}, nil
}

func (g *GoogleBusiness) Platform() types.Platform {
	return types.PlatformGoogleBusiness
}

// googleError wraps err and marks client errors other than 429 permanent.
func (g *GoogleBusiness) googleError(err error, msg string) error {
	wrapped := goerr.Wrap(err, msg, goerr.V("location", g.location))

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code >= 400 && apiErr.Code < 500 && apiErr.Code != http.StatusTooManyRequests {
		return retry.Permanent(wrapped)
	}
	return wrapped
}

func (g *GoogleBusiness) get(ctx context.Context, readMask string) (*mbi.Location, error) {
	loc, err := g.svc.Locations.Get(g.location).ReadMask(readMask).Context(ctx).Do()
	if err != nil {
		return nil, g.googleError(err, "failed to get location")
	}
	return loc, nil
}

func (g *GoogleBusiness) TestConnection(ctx context.Context) error {
	_, err := g.get(ctx, "name")
	return err
}

var googleDays = map[types.Weekday]string{
	types.Monday:    "MONDAY",
	types.Tuesday:   "TUESDAY",
	types.Wednesday: "WEDNESDAY",
	types.Thursday:  "THURSDAY",
	types.Friday:    "FRIDAY",
	types.Saturday:  "SATURDAY",
	types.Sunday:    "SUNDAY",
}

// GetBusinessHours reads the regular hours. Only the first period of a day
// is kept; split hours are not represented in BusinessHoursMap.
func (g *GoogleBusiness) GetBusinessHours(ctx context.Context) (model.BusinessHoursMap, error) {
	loc, err := g.get(ctx, "regularHours")
	if err != nil {
		return nil, err
	}
	return hoursFromPeriods(loc.RegularHours), nil
}

func hoursFromPeriods(bh *mbi.BusinessHours) model.BusinessHoursMap {
	hours := model.BusinessHoursMap{}
	if bh == nil || len(bh.Periods) == 0 {
		return hours
	}

	for _, day := range types.AllWeekdays() {
		hours[day] = model.HoursClosed
	}
	seen := map[types.Weekday]bool{}
	for _, p := range bh.Periods {
		for day, name := range googleDays {
			if p.OpenDay != name || seen[day] {
				continue
			}
			start, end := timeOfDay(p.OpenTime), timeOfDay(p.CloseTime)
			if p.CloseDay != p.OpenDay && end == 0 {
				end = 24 * 60
			}
			if start < end {
				hours[day] = model.FormatHoursRange(start/60, start%60, end/60, end%60)
				seen[day] = true
			}
		}
	}
	return hours
}

func timeOfDay(t *mbi.TimeOfDay) int {
	if t == nil {
		return 0
	}
	return int(t.Hours)*60 + int(t.Minutes)
}

func periodsFromHours(hours model.BusinessHoursMap) ([]*mbi.TimePeriod, error) {
	var periods []*mbi.TimePeriod
	for _, day := range hours.Days() {
		r, closed, err := model.ParseHoursValue(hours[day])
		if err != nil {
			return nil, err
		}
		if closed {
			continue
		}
		periods = append(periods, &mbi.TimePeriod{
			OpenDay:   googleDays[day],
			OpenTime:  &mbi.TimeOfDay{Hours: int64(r.Open / 60), Minutes: int64(r.Open % 60)},
			CloseDay:  googleDays[day],
			CloseTime: &mbi.TimeOfDay{Hours: int64(r.Close / 60), Minutes: int64(r.Close % 60)},
		})
	}
	return periods, nil
}

// UpdateBusinessHours merges hours over the published regular hours and
// patches the location.
func (g *GoogleBusiness) UpdateBusinessHours(ctx context.Context, hours model.BusinessHoursMap) (map[string]any, error) {
	if err := hours.Validate(); err != nil {
		return nil, retry.Permanent(err)
	}

	current, err := g.GetBusinessHours(ctx)
	if err != nil {
		return nil, err
	}
	merged := model.BusinessHoursMap{}
	maps.Copy(merged, current)
	maps.Copy(merged, hours)

	periods, err := periodsFromHours(merged)
	if err != nil {
		return nil, retry.Permanent(err)
	}

	patch := &mbi.Location{
		RegularHours: &mbi.BusinessHours{Periods: periods},
	}
	if _, err := g.svc.Locations.Patch(g.location, patch).UpdateMask("regularHours").Context(ctx).Do(); err != nil {
		return nil, g.googleError(err, "failed to update regular hours")
	}

	return map[string]any{
		"location_id":   g.location,
		"updated_hours": hours.StringMap(),
		"message":       "Business hours updated successfully on Google Business Profile",
	}, nil
}

// UpdateBusinessInfo patches the listing fields in info. Supported keys are
// name, phone, website, description and address.
func (g *GoogleBusiness) UpdateBusinessInfo(ctx context.Context, info map[string]any) (map[string]any, error) {
	if len(info) == 0 {
		return nil, retry.Permanent(goerr.New("no listing fields to update"))
	}

	keys := make([]string, 0, len(info))
	for k := range info {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	patch := &mbi.Location{}
	var mask []string
	for _, k := range keys {
		v, ok := info[k].(string)
		if !ok {
			return nil, retry.Permanent(goerr.New("listing field must be a string", goerr.V("field", k)))
		}

		switch k {
		case "name":
			patch.Title = v
			mask = append(mask, "title")
		case "phone":
			patch.PhoneNumbers = &mbi.PhoneNumbers{PrimaryPhone: v}
			mask = append(mask, "phoneNumbers.primaryPhone")
		case "website":
			patch.WebsiteUri = v
			mask = append(mask, "websiteUri")
		case "description":
			patch.Profile = &mbi.Profile{Description: v}
			mask = append(mask, "profile.description")
		case "address":
			loc, err := g.get(ctx, "storefrontAddress")
			if err != nil {
				return nil, err
			}
			addr := loc.StorefrontAddress
			if addr == nil {
				addr = &mbi.PostalAddress{}
			}
			addr.AddressLines = []string{v}
			patch.StorefrontAddress = addr
			mask = append(mask, "storefrontAddress")
		default:
			return nil, retry.Permanent(goerr.New("unsupported listing field", goerr.V("field", k)))
		}
	}

	if _, err := g.svc.Locations.Patch(g.location, patch).UpdateMask(strings.Join(mask, ",")).Context(ctx).Do(); err != nil {
		return nil, g.googleError(err, "failed to update location")
	}

	return map[string]any{
		"location_id":  g.location,
		"updated_info": info,
		"message":      "Business information updated successfully on Google Business Profile",
	}, nil
}

func (g *GoogleBusiness) UpdateDescription(ctx context.Context, description string) error {
	_, err := g.UpdateBusinessInfo(ctx, map[string]any{"description": description})
	return err
}

func (g *GoogleBusiness) UpdateContactInfo(ctx context.Context, phone, website string) error {
	return updateContact(ctx, g, phone, website)
}
