package model

import (
	"strings"

	"github.com/aadee-inc/steward/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// ValidateActionParams checks params against the shape required by
// actionType. Types without a known shape only need non-empty params.
func ValidateActionParams(actionType types.ActionType, params map[string]any) error {
	if !actionType.IsValid() {
		return goerr.Wrap(ErrInvalidParams, "unknown action type", goerr.V(ActionTypeKey, actionType))
	}
	if len(params) == 0 {
		return goerr.Wrap(ErrInvalidParams, "action params are required", goerr.V(ActionTypeKey, actionType))
	}

	probe := &Action{Type: actionType, Params: params}

	switch actionType {
	case types.ActionTypeUpdateBusinessHours:
		var p HoursUpdateParams
		if err := probe.DecodeParams(&p); err != nil {
			return err
		}
		if err := p.Hours.Validate(); err != nil {
			return goerr.Wrap(ErrInvalidParams, "invalid hours param", goerr.V("cause", err.Error()))
		}
		for _, platform := range p.Platforms {
			if !platform.IsValid() {
				return goerr.Wrap(ErrInvalidParams, "unknown platform", goerr.V("platform", platform))
			}
		}

	case types.ActionTypeUpdateGoogleBusinessProfile, types.ActionTypeUpdateYelpListing:
		var p ListingUpdateParams
		if err := probe.DecodeParams(&p); err != nil {
			return err
		}
		if len(p.Info) == 0 {
			return goerr.Wrap(ErrInvalidParams, "listing info is required", goerr.V(ActionTypeKey, actionType))
		}

	case types.ActionTypeDraftSocialPost:
		var p SocialPostParams
		if err := probe.DecodeParams(&p); err != nil {
			return err
		}
		if strings.TrimSpace(p.Content) == "" {
			return goerr.Wrap(ErrInvalidParams, "post content is required")
		}
	}

	return nil
}
