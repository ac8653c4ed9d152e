package integration

import (
	"context"
	"fmt"
	"maps"
	"net/http"
	"net/url"
	"sort"

	"github.com/aadee-inc/steward/pkg/domain/model"
	"github.com/aadee-inc/steward/pkg/domain/types"
	"github.com/aadee-inc/steward/pkg/utils/retry"
	"github.com/m-mizutani/goerr/v2"
)

// DefaultYelpBaseURL is the Yelp partner API host.
const DefaultYelpBaseURL = "https://partner-api.yelp.com"

// Yelp updates a Yelp business through the partner API. Reads use the
// Fusion business details shape.
type Yelp struct {
	businessID string
	api        *jsonClient
}

var _ hoursAndListing = (*Yelp)(nil)

// NewYelp returns a Yelp client. An empty baseURL selects
// DefaultYelpBaseURL and a nil client selects http.DefaultClient.
func NewYelp(businessID, apiKey, baseURL string, client *http.Client) (*Yelp, error) {
	if businessID == "" {
		return nil, goerr.New("yelp business_id is required")
	}
	if apiKey == "" {
		return nil, goerr.New("yelp api_key is required", goerr.V("business_id", businessID))
	}
	if baseURL == "" {
		baseURL = DefaultYelpBaseURL
	}
	return &Yelp{
		businessID: businessID,
		api:        newJSONClient(baseURL, apiKey, client),
	}, nil
}

func (y *Yelp) Platform() types.Platform {
	return types.PlatformYelp
}

type yelpOpen struct {
	Day         int    `json:"day"`
	Start       string `json:"start"`
	End         string `json:"end"`
	IsOvernight bool   `json:"is_overnight"`
}

type yelpHours struct {
	HoursType string     `json:"hours_type,omitempty"`
	Open      []yelpOpen `json:"open"`
}

type yelpBusiness struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Hours []yelpHours `json:"hours"`
}

func (y *Yelp) businessPath(suffix string) string {
	return "/v3/businesses/" + url.PathEscape(y.businessID) + suffix
}

func (y *Yelp) partnerPath(suffix string) string {
	return "/v1/businesses/" + url.PathEscape(y.businessID) + suffix
}

func (y *Yelp) fetch(ctx context.Context) (*yelpBusiness, error) {
	var b yelpBusiness
	if err := y.api.do(ctx, http.MethodGet, y.businessPath(""), nil, &b); err != nil {
		return nil, goerr.Wrap(err, "failed to get yelp business", goerr.V("business_id", y.businessID))
	}
	return &b, nil
}

func (y *Yelp) TestConnection(ctx context.Context) error {
	_, err := y.fetch(ctx)
	return err
}

// GetBusinessHours reads the regular hours. Days without an opening are
// closed when the business publishes any hours at all.
func (y *Yelp) GetBusinessHours(ctx context.Context) (model.BusinessHoursMap, error) {
	b, err := y.fetch(ctx)
	if err != nil {
		return nil, err
	}

	hours := model.BusinessHoursMap{}
	for _, h := range b.Hours {
		if h.HoursType != "" && h.HoursType != "REGULAR" {
			continue
		}
		for _, o := range h.Open {
			if o.Day < 0 || o.Day >= 7 {
				continue
			}
			day := types.AllWeekdays()[o.Day]
			if _, seen := hours[day]; seen {
				continue
			}
			if v, ok := yelpRange(o.Start, o.End); ok {
				hours[day] = v
			}
		}
	}
	if len(hours) > 0 {
		for _, d := range types.AllWeekdays() {
			if _, ok := hours[d]; !ok {
				hours[d] = model.HoursClosed
			}
		}
	}
	return hours, nil
}

func yelpRange(start, end string) (string, bool) {
	if len(start) != 4 || len(end) != 4 {
		return "", false
	}
	v := start[:2] + ":" + start[2:] + "-" + end[:2] + ":" + end[2:]
	if _, _, err := model.ParseHoursValue(v); err != nil {
		return "", false
	}
	return v, true
}

// UpdateBusinessHours merges hours over the published hours and replaces
// the regular hours with the result.
func (y *Yelp) UpdateBusinessHours(ctx context.Context, hours model.BusinessHoursMap) (map[string]any, error) {
	if err := hours.Validate(); err != nil {
		return nil, retry.Permanent(err)
	}

	current, err := y.GetBusinessHours(ctx)
	if err != nil {
		return nil, err
	}
	merged := model.BusinessHoursMap{}
	maps.Copy(merged, current)
	maps.Copy(merged, hours)

	var open []yelpOpen
	for i, day := range types.AllWeekdays() {
		v, ok := merged[day]
		if !ok {
			continue
		}
		r, closed, err := model.ParseHoursValue(v)
		if err != nil {
			return nil, retry.Permanent(err)
		}
		if closed {
			continue
		}
		open = append(open, yelpOpen{
			Day:   i,
			Start: fmt.Sprintf("%02d%02d", r.Open/60, r.Open%60),
			End:   fmt.Sprintf("%02d%02d", r.Close/60, r.Close%60),
		})
	}

	body := map[string]any{"regular_hours": open}
	if err := y.api.do(ctx, http.MethodPut, y.partnerPath("/hours"), body, nil); err != nil {
		return nil, goerr.Wrap(err, "failed to update yelp hours", goerr.V("business_id", y.businessID))
	}

	return map[string]any{
		"business_id":   y.businessID,
		"updated_hours": hours.StringMap(),
		"message":       "Business hours updated successfully on Yelp",
	}, nil
}

var yelpInfoFields = map[string]string{
	"name":        "name",
	"phone":       "phone",
	"website":     "url",
	"description": "description",
	"address":     "address",
}

// UpdateBusinessInfo sends the recognized listing fields in one request.
func (y *Yelp) UpdateBusinessInfo(ctx context.Context, info map[string]any) (map[string]any, error) {
	if len(info) == 0 {
		return nil, retry.Permanent(goerr.New("no listing fields to update"))
	}

	keys := make([]string, 0, len(info))
	for k := range info {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	body := map[string]any{}
	for _, k := range keys {
		field, ok := yelpInfoFields[k]
		if !ok {
			return nil, retry.Permanent(goerr.New("unsupported listing field", goerr.V("field", k)))
		}
		body[field] = info[k]
	}

	if err := y.api.do(ctx, http.MethodPost, y.partnerPath("/info"), body, nil); err != nil {
		return nil, goerr.Wrap(err, "failed to update yelp listing", goerr.V("business_id", y.businessID))
	}

	return map[string]any{
		"business_id":  y.businessID,
		"updated_info": info,
		"message":      "Business information updated successfully on Yelp",
	}, nil
}

func (y *Yelp) UpdateDescription(ctx context.Context, description string) error {
	_, err := y.UpdateBusinessInfo(ctx, map[string]any{"description": description})
	return err
}

func (y *Yelp) UpdateContactInfo(ctx context.Context, phone, website string) error {
	return updateContact(ctx, y, phone, website)
}
