package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/aadee-inc/steward/pkg/domain/model"
	domainConfig "github.com/aadee-inc/steward/pkg/domain/model/config"
	"github.com/aadee-inc/steward/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// BusinessFile is the TOML representation of the business profile
type BusinessFile struct {
	OrgID          string                       `toml:"org_id"`
	Name           string                       `toml:"name"`
	Timezone       string                       `toml:"timezone"`
	OpenHour       *int                         `toml:"open_hour"`
	CloseHour      *int                         `toml:"close_hour"`
	SlotMinutes    int                          `toml:"slot_minutes"`
	BookingMinutes int                          `toml:"booking_minutes"`
	BookingSummary string                       `toml:"booking_summary"`
	MaxSlots       int                          `toml:"max_slots"`
	HoursPlatforms []string                     `toml:"hours_platforms"`
	Hours          map[string]string            `toml:"hours"`
	Platform       map[string]map[string]string `toml:"platform"`
}

// ToDomain converts the file into a validated domain profile
func (f *BusinessFile) ToDomain() (*domainConfig.Business, error) {
	biz := domainConfig.NewBusiness(f.OrgID)
	biz.Name = f.Name

	if f.Timezone != "" {
		loc, err := time.LoadLocation(f.Timezone)
		if err != nil {
			return nil, goerr.Wrap(ErrInvalidTimezone, err.Error(), goerr.V(TimezoneKey, f.Timezone))
		}
		biz.Location = loc
	}
	if f.OpenHour != nil {
		biz.OpenHour = *f.OpenHour
	}
	if f.CloseHour != nil {
		biz.CloseHour = *f.CloseHour
	}
	if f.SlotMinutes != 0 {
		biz.SlotDuration = time.Duration(f.SlotMinutes) * time.Minute
	}
	if f.BookingMinutes != 0 {
		biz.BookingDuration = time.Duration(f.BookingMinutes) * time.Minute
	}
	if f.BookingSummary != "" {
		biz.BookingSummary = f.BookingSummary
	}
	if f.MaxSlots > 0 {
		biz.MaxSlots = f.MaxSlots
	}

	if len(f.HoursPlatforms) > 0 {
		biz.HoursPlatforms = make([]types.Platform, 0, len(f.HoursPlatforms))
		for _, s := range f.HoursPlatforms {
			p, err := types.ParsePlatform(s)
			if err != nil {
				return nil, goerr.Wrap(ErrInvalidPlatform, "unknown hours platform", goerr.V(PlatformKey, s))
			}
			biz.HoursPlatforms = append(biz.HoursPlatforms, p)
		}
	}

	if len(f.Hours) > 0 {
		biz.WeeklyHours = make(model.BusinessHoursMap, len(f.Hours))
		for day, v := range f.Hours {
			biz.WeeklyHours[types.Weekday(day)] = v
		}
	}

	for name, cred := range f.Platform {
		p, err := types.ParsePlatform(name)
		if err != nil {
			return nil, goerr.Wrap(ErrInvalidPlatform, "unknown platform section", goerr.V(PlatformKey, name))
		}
		biz.Platforms[p] = domainConfig.PlatformCredential(cred)
	}

	if err := biz.Validate(); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, err.Error())
	}
	return biz, nil
}

// LoadBusiness loads the business profile from a TOML file
func LoadBusiness(path string) (*domainConfig.Business, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, "business config does not exist", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read business config", goerr.V(ConfigPathKey, path))
	}

	var file BusinessFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse TOML config", goerr.V(ConfigPathKey, path), goerr.V("cause", err.Error()))
	}

	biz, err := file.ToDomain()
	if err != nil {
		return nil, goerr.Wrap(err, "config validation failed", goerr.V(ConfigPathKey, path))
	}
	return biz, nil
}

// Business holds the CLI flags that locate the business profile
type Business struct {
	path  string
	orgID string
}

func (b *Business) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "business-config",
			Aliases:     []string{"c"},
			Usage:       "Business profile TOML file",
			Category:    "Business",
			Sources:     cli.EnvVars("STEWARD_BUSINESS_CONFIG"),
			Destination: &b.path,
		},
		&cli.StringFlag{
			Name:        "org-id",
			Usage:       "Organization ID used when no business config is given",
			Category:    "Business",
			Value:       "default",
			Sources:     cli.EnvVars("STEWARD_ORG_ID"),
			Destination: &b.orgID,
		},
	}
}

// Path returns the configured file path
func (b *Business) Path() string {
	return b.path
}

// Configure loads the business profile, or returns defaults for the
// configured org when no file is given.
func (b *Business) Configure() (*domainConfig.Business, error) {
	if b.path == "" {
		orgID := b.orgID
		if orgID == "" {
			orgID = "default"
		}
		return domainConfig.NewBusiness(orgID), nil
	}
	return LoadBusiness(b.path)
}
