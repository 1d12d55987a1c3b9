// Package config loads the golfmetrics configuration file and supplies
// defaults when none exists. Policy constants live here so the
// aggregator and the report renderer can never disagree about them.
package config

import (
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Policy holds the coaching policy constants applied uniformly to every
// statistic and report.
type Policy struct {
	// GoodDriveCarryM excludes mis-hits and chip-outs from "average
	// driver carry": only drives carrying beyond this count.
	GoodDriveCarryM float64 `koanf:"good_drive_carry_m"`
	// FairwayHalfWidthM is the half-width of the fairway band used for
	// the fairway-hit rate.
	FairwayHalfWidthM float64 `koanf:"fairway_half_width_m"`
}

// Paths holds filesystem locations.
type Paths struct {
	DB        string `koanf:"db"`
	Roster    string `koanf:"roster"`
	OutDir    string `koanf:"out_dir"`
	StoreRoot string `koanf:"store_root"`
}

// UserCred is one login the auth boundary may verify: a bcrypt hash and
// the role granted on success.
type UserCred struct {
	Username string `koanf:"username"`
	Role     string `koanf:"role"` // "coach" or "student"
	Hash     string `koanf:"hash"`
}

// Config is the full application configuration.
type Config struct {
	Policy Policy     `koanf:"policy"`
	Paths  Paths      `koanf:"paths"`
	Users  []UserCred `koanf:"users"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Policy: Policy{
			GoodDriveCarryM:   120,
			FairwayHalfWidthM: 20,
		},
		Paths: Paths{
			DB:        "golfmetrics.db",
			Roster:    "roster.json",
			OutDir:    "out",
			StoreRoot: "store",
		},
	}
}

// Load reads a YAML configuration file over the defaults. An absent
// file (or empty path) yields the defaults without error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Policy.GoodDriveCarryM < 0 {
		return fmt.Errorf("policy.good_drive_carry_m must be >= 0")
	}
	if c.Policy.FairwayHalfWidthM <= 0 {
		return fmt.Errorf("policy.fairway_half_width_m must be > 0")
	}
	for _, u := range c.Users {
		if u.Role != "coach" && u.Role != "student" {
			return fmt.Errorf("user %q: unknown role %q", u.Username, u.Role)
		}
	}
	return nil
}
