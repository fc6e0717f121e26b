package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	devenv "eposfetch/dev/env"
	"eposfetch/internal/components/telemetry"
	"eposfetch/internal/scrapers/epos"
	"eposfetch/lib/configutil"
)

type Config struct {
	SalesUrl   string `json:"sales_url"`
	DetailsUrl string `json:"details_url"`
	DistCode   string `json:"dist_code"`
	FpsId      string `json:"fps_id"`

	// CacheDir holds one file per distinct request, "<dev_state>/..." paths are
	// resolved inside the workspace.
	CacheDir string `json:"cache_dir"`
	// DumpDir receives every http message when running with --verbose, empty disables it.
	// It is wiped on every run, so it may not contain the cache or the log file.
	DumpDir string `json:"dump_dir"`

	LogFile      string `json:"log_file"`
	LogMaxSizeMB int    `json:"log_max_size_mb"`
	LogBackups   int    `json:"log_backups"`

	RequestDelayMs   int    `json:"request_delay_ms"`
	RequestTimeoutMs int    `json:"request_timeout_ms"`
	UserAgent        string `json:"user_agent"`
	CloudflareBypass bool   `json:"cloudflare_bypass"`

	Otlp telemetry.OtlpConfig `json:"otlp"`
}

func defaultConfig() Config {
	return Config{
		SalesUrl:       epos.DefaultSalesUrl,
		DetailsUrl:     epos.DefaultDetailsUrl,
		DistCode:       "233",
		FpsId:          "123300100909",
		CacheDir:       "data",
		LogFile:        "ration_details.log",
		LogMaxSizeMB:   5,
		RequestDelayMs: 1000,
	}
}

func (c Config) RequestDelay() time.Duration {
	return time.Duration(c.RequestDelayMs) * time.Millisecond
}

func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMs) * time.Millisecond
}

// loadConfig reads the config file, searching parent directories when the path
// was not given explicitly. A missing file is not an error, defaults are used.
func loadConfig(path string, explicit bool) (Config, error) {
	var cfg Config
	var err error
	if explicit {
		cfg, err = configutil.ReadConfig[Config](path)
	} else {
		cfg, _, err = configutil.ReadRecursively[Config](path)
	}
	if err != nil && !(errors.Is(err, os.ErrNotExist) && !explicit) {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg, err = configutil.WithDefaults(cfg, defaultConfig())
	if err != nil {
		return Config{}, err
	}

	for _, p := range []*string{&cfg.CacheDir, &cfg.DumpDir, &cfg.LogFile} {
		resolved, err := devenv.ResolvePath(*p)
		if err != nil {
			return Config{}, fmt.Errorf("resolve %s: %w", *p, err)
		}
		*p = resolved
	}

	if cfg.DumpDir != "" {
		for _, p := range []string{cfg.CacheDir, cfg.LogFile} {
			inside, err := isWithin(cfg.DumpDir, p)
			if err != nil {
				return Config{}, err
			}
			if inside {
				return Config{}, fmt.Errorf("dump_dir %s would wipe %s on every run", cfg.DumpDir, p)
			}
		}
	}
	return cfg, nil
}

// isWithin reports whether path is dir itself or somewhere below it.
func isWithin(dir, path string) (bool, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false, err
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false, err
	}
	rel, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return false, nil
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))), nil
}
