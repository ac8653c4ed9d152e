package types_test

import (
	"testing"
	"time"

	"github.com/aadee-inc/steward/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func TestActionType_ListingPlatform(t *testing.T) {
	p, ok := types.ActionTypeUpdateGoogleBusinessProfile.ListingPlatform()
	gt.Bool(t, ok).True()
	gt.Value(t, p).Equal(types.PlatformGoogleBusiness)

	p, ok = types.ActionTypeUpdateYelpListing.ListingPlatform()
	gt.Bool(t, ok).True()
	gt.Value(t, p).Equal(types.PlatformYelp)

	_, ok = types.ActionTypeUpdateBusinessHours.ListingPlatform()
	gt.Bool(t, ok).False()
}

func TestParseActionType(t *testing.T) {
	for _, at := range types.AllActionTypes() {
		got, err := types.ParseActionType(at.String())
		gt.NoError(t, err)
		gt.Value(t, got).Equal(at)
	}

	_, err := types.ParseActionType("launch_rocket")
	gt.Value(t, err).NotNil()
}

func TestWeekday(t *testing.T) {
	gt.Array(t, types.AllWeekdays()).Length(7)
	for _, d := range types.AllWeekdays() {
		gt.Value(t, types.WeekdayOf(d.Time())).Equal(d)
	}
	gt.Value(t, types.WeekdayOf(time.Saturday)).Equal(types.Saturday)

	_, err := types.ParseWeekday("funday")
	gt.Value(t, err).NotNil()
}
