package model_test

import (
	"testing"

	"github.com/aadee-inc/steward/pkg/domain/model"
	"github.com/aadee-inc/steward/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func TestParseHoursValue(t *testing.T) {
	r, closed, err := model.ParseHoursValue("09:30-17:00")
	gt.NoError(t, err).Required()
	gt.Bool(t, closed).False()
	gt.Value(t, r).Equal(model.HoursRange{Open: 570, Close: 1020})
	gt.Value(t, r.String()).Equal("09:30-17:00")

	_, closed, err = model.ParseHoursValue("closed")
	gt.NoError(t, err)
	gt.Bool(t, closed).True()

	for _, bad := range []string{"17:00-09:00", "9-5", "09:00-25:00", "09:61-10:00", ""} {
		_, _, err := model.ParseHoursValue(bad)
		gt.Error(t, err).Is(model.ErrInvalidHours)
	}
}

func TestBusinessHoursMap_Days(t *testing.T) {
	m := model.BusinessHoursMap{
		types.Sunday: "closed",
		types.Monday: "09:00-17:00",
	}
	gt.Value(t, m.Days()).Equal([]types.Weekday{types.Monday, types.Sunday})
}

func TestHoursDispatchResult(t *testing.T) {
	var d model.HoursDispatchResult
	gt.Bool(t, d.OverallSuccess()).False()

	d.Add(model.PlatformResult{Platform: types.PlatformGoogleBusiness, Error: "boom"})
	d.Add(model.PlatformResult{Platform: types.PlatformYelp, Success: true})

	gt.Bool(t, d.OverallSuccess()).False()
	gt.Value(t, d.Order).Equal([]types.Platform{types.PlatformGoogleBusiness, types.PlatformYelp})
	gt.Array(t, d.Failed()).Length(1)

	m := d.PlatformsMap()
	gt.Value(t, m["yelp"].(map[string]any)["success"]).Equal(true)
	gt.Value(t, m["google_business"].(map[string]any)["error"]).Equal("boom")
}
