package integration_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aadee-inc/steward/pkg/domain/model"
	"github.com/aadee-inc/steward/pkg/domain/types"
	"github.com/aadee-inc/steward/pkg/service/integration"
	"github.com/m-mizutani/gt"
	"google.golang.org/api/option"
)

const googleLocation = `{
  "name": "locations/42",
  "regularHours": {"periods": [
    {"openDay": "MONDAY", "openTime": {"hours": 9}, "closeDay": "MONDAY", "closeTime": {"hours": 17}},
    {"openDay": "FRIDAY", "openTime": {"hours": 9}, "closeDay": "FRIDAY", "closeTime": {"hours": 17, "minutes": 30}}
  ]}
}`

type googleRecorder struct {
	masks  []string
	bodies []map[string]any
}

func newGoogleServer(t *testing.T, rec *googleRecorder) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gt.Bool(t, strings.HasSuffix(r.URL.Path, "/locations/42")).True()
		w.Header().Set("Content-Type", "application/json")

		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(googleLocation))
		case http.MethodPatch:
			var body map[string]any
			gt.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			rec.masks = append(rec.masks, r.URL.Query().Get("updateMask"))
			rec.bodies = append(rec.bodies, body)
			_ = json.NewEncoder(w).Encode(body)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
}

func newGoogleBusiness(t *testing.T, srv *httptest.Server) *integration.GoogleBusiness {
	g, err := integration.NewGoogleBusiness(context.Background(), "42",
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	gt.NoError(t, err).Required()
	return g
}

func TestGoogleBusiness_GetBusinessHours(t *testing.T) {
	srv := newGoogleServer(t, &googleRecorder{})
	defer srv.Close()

	hours, err := newGoogleBusiness(t, srv).GetBusinessHours(context.Background())
	gt.NoError(t, err).Required()
	gt.Value(t, hours[types.Monday]).Equal("09:00-17:00")
	gt.Value(t, hours[types.Friday]).Equal("09:00-17:30")
	gt.Value(t, hours[types.Sunday]).Equal(model.HoursClosed)
}

func TestGoogleBusiness_UpdateBusinessHours(t *testing.T) {
	rec := &googleRecorder{}
	srv := newGoogleServer(t, rec)
	defer srv.Close()

	data, err := newGoogleBusiness(t, srv).UpdateBusinessHours(context.Background(), fridayHours)
	gt.NoError(t, err).Required()
	gt.Value(t, data["location_id"]).Equal("locations/42")

	gt.Value(t, rec.masks).Equal([]string{"regularHours"})
	periods := rec.bodies[0]["regularHours"].(map[string]any)["periods"].([]any)
	gt.Array(t, periods).Length(2)

	friday := periods[1].(map[string]any)
	gt.Value(t, friday["openDay"]).Equal("FRIDAY")
	gt.Value(t, friday["closeTime"].(map[string]any)["hours"]).Equal(float64(15))
}

func TestGoogleBusiness_UpdateBusinessInfo(t *testing.T) {
	rec := &googleRecorder{}
	srv := newGoogleServer(t, rec)
	defer srv.Close()

	g := newGoogleBusiness(t, srv)
	gt.NoError(t, g.UpdateContactInfo(context.Background(), "+1-555-123-4567", "https://example.com"))

	gt.Value(t, rec.masks).Equal([]string{"phoneNumbers.primaryPhone,websiteUri"})
	gt.Value(t, rec.bodies[0]["websiteUri"]).Equal("https://example.com")
	gt.Value(t, rec.bodies[0]["phoneNumbers"].(map[string]any)["primaryPhone"]).Equal("+1-555-123-4567")

	_, err := g.UpdateBusinessInfo(context.Background(), map[string]any{"logo": "x.png"})
	gt.Error(t, err)
}
