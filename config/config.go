// config/config.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/skyvoice/navguide/nav"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the configuration file.
const (
	EnvLogLevel = "NAVGUIDE_LOG_LEVEL"
	EnvLogDir   = "NAVGUIDE_LOG_DIR"
	EnvNavData  = "NAVGUIDE_NAVDATA"
	EnvMagVar   = "NAVGUIDE_MAGVAR"
)

type Config struct {
	// Navigation database: either JSON or zstd-compressed msgpack (.msgpack.zst).
	NavData string `yaml:"navdata"`
	// Used for bearings when no airport with a known variation is loaded.
	MagneticVariation float64 `yaml:"magnetic_variation"`

	Log    LogConfig        `yaml:"log"`
	Cache  CacheConfig      `yaml:"cache"`
	ILS    nav.ILSParams    `yaml:"ils"`
	Visual nav.VisualParams `yaml:"visual"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Dir   string `yaml:"dir"` // empty: the user config directory
}

type CacheConfig struct {
	Size int           `yaml:"size"`
	TTL  time.Duration `yaml:"ttl"`
}

func Default() Config {
	return Config{
		Log:    LogConfig{Level: "info"},
		Cache:  CacheConfig{Size: 64, TTL: 10 * time.Minute},
		ILS:    nav.DefaultILSParams(),
		Visual: nav.DefaultVisualParams(),
	}
}

// Load reads the configuration file at path, if path is non-empty, over
// the defaults and then applies any environment overrides, including
// those given in a .env file in the current directory.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, err
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("%s: %w", path, err)
		}
	}

	// A missing .env file is fine.
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (cfg *Config) applyEnv() error {
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv(EnvLogDir); v != "" {
		cfg.Log.Dir = v
	}
	if v := os.Getenv(EnvNavData); v != "" {
		cfg.NavData = v
	}
	if v := os.Getenv(EnvMagVar); v != "" {
		mv, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMagVar, err)
		}
		cfg.MagneticVariation = mv
	}
	return nil
}

func (cfg *Config) validate() error {
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q must be one of debug, info, warn, error", cfg.Log.Level)
	}

	if cfg.MagneticVariation < -180 || cfg.MagneticVariation > 180 {
		return fmt.Errorf("magnetic_variation must be between -180 and 180")
	}

	if cfg.Cache.Size < 0 {
		return fmt.Errorf("cache.size must be >= 0")
	}
	if cfg.Cache.TTL <= 0 {
		cfg.Cache.TTL = 10 * time.Minute
	}

	ils := cfg.ILS
	for _, c := range []struct {
		name string
		v    float64
	}{
		{"ils.too_far_nm", ils.TooFar},
		{"ils.established_cross_track_nm", ils.EstablishedCrossTrack},
		{"ils.setup_capture_nm", ils.SetupCapture},
		{"ils.intercept_cross_track_nm", ils.InterceptCrossTrack},
		{"ils.intercept_offset_nm", ils.InterceptOffset},
		{"ils.setup_distance_nm", ils.SetupDistance},
		{"ils.localizer_tolerance_deg", ils.LocalizerTolerance},
		{"ils.glideslope_ft_per_nm", ils.GlideslopeGradient},
		{"visual.aligned_tolerance_deg", cfg.Visual.AlignedTolerance},
		{"visual.on_slope_tolerance_ft", cfg.Visual.OnSlopeTolerance},
		{"visual.glideslope_ft_per_nm", cfg.Visual.GlideslopeGradient},
	} {
		if c.v <= 0 {
			return fmt.Errorf("%s must be > 0", c.name)
		}
	}
	if ils.CenterlineLead < 0 {
		return fmt.Errorf("ils.centerline_lead_nm must be >= 0")
	}

	if cfg.Visual.FastUpdateInterval <= 0 || cfg.Visual.SlowUpdateInterval <= 0 {
		return fmt.Errorf("visual update intervals must be > 0")
	}
	return nil
}
