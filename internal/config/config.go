package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete Showrunner configuration
type Config struct {
	Discussion DiscussionConfig `mapstructure:"discussion"`
	Timeline   TimelineConfig   `mapstructure:"timeline"`
	Registry   RegistryConfig   `mapstructure:"registry"`
	Offline    OfflineConfig    `mapstructure:"offline"`
	Output     OutputConfig     `mapstructure:"output"`
	Watch      WatchConfig      `mapstructure:"watch"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// DiscussionConfig controls how consensus discussions run
type DiscussionConfig struct {
	// MaxParallel caps how many advisor calls run concurrently within a
	// round. The engine never exceeds the participant count. (default: 4)
	MaxParallel int `mapstructure:"max_parallel"`
	// CallTimeoutSeconds is the per-advisor-call deadline in seconds.
	// Calls past the deadline fall back to a neutral opinion. (default: 30)
	CallTimeoutSeconds int `mapstructure:"call_timeout_seconds"`
	// RateLimitPerSecond throttles advisor dispatches across all phases
	// of a run. 0 disables rate limiting. (default: 0)
	RateLimitPerSecond float64 `mapstructure:"rate_limit_per_second"`
}

// TimelineConfig controls timeline planning defaults
type TimelineConfig struct {
	// Tolerance is the default allowed fractional deviation between a
	// stage's planned and measured duration before it is flagged for
	// repair. Missions may override per run. (default: 0.1)
	Tolerance float64 `mapstructure:"tolerance"`
}

// RegistryConfig controls where the participant catalog comes from
type RegistryConfig struct {
	// CatalogPath points at a YAML participant catalog. Empty uses the
	// built-in catalog. Supports ~ for home directory expansion.
	CatalogPath string `mapstructure:"catalog_path"`
}

// OfflineConfig controls the deterministic offline backends used for
// dry runs
type OfflineConfig struct {
	// Seed drives every offline output. Identical seeds reproduce
	// identical runs. (default: 1)
	Seed uint64 `mapstructure:"seed"`
	// LatencyMs adds an artificial delay to each offline call so dry
	// runs exercise timeout and cancellation paths. 0 disables the
	// delay. (default: 0)
	LatencyMs int `mapstructure:"latency_ms"`
}

// OutputConfig controls where run results are written
type OutputConfig struct {
	// Dir is the directory for result JSON and logs. Empty uses the
	// working directory. Supports ~ for home directory expansion.
	Dir string `mapstructure:"dir"`
}

// WatchConfig controls the mission drop-folder watcher
type WatchConfig struct {
	// DebounceMs is how long the watcher waits after the last write
	// before producing a mission, so editors that save in multiple
	// writes trigger one run. (default: 500)
	DebounceMs int `mapstructure:"debounce_ms"`
	// Patterns are the glob patterns a file name must match to be
	// treated as a mission. (default: ["*.yaml", "*.yml"])
	Patterns []string `mapstructure:"patterns"`
}

// LoggingConfig controls structured logging behavior
type LoggingConfig struct {
	// Enabled controls whether logging is enabled (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// Dir is the directory for log files. Empty logs to stderr.
	Dir string `mapstructure:"dir"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation (default: 10)
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups is the number of rotated log files to keep (default: 3)
	MaxBackups int `mapstructure:"max_backups"`
	// Compress gzips rotated log files (default: false)
	Compress bool `mapstructure:"compress"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Discussion: DiscussionConfig{
			MaxParallel:        4,
			CallTimeoutSeconds: 30,
			RateLimitPerSecond: 0, // No throttling by default
		},
		Timeline: TimelineConfig{
			Tolerance: 0.1,
		},
		Registry: RegistryConfig{
			CatalogPath: "", // Empty means use the built-in catalog
		},
		Offline: OfflineConfig{
			Seed:      1,
			LatencyMs: 0,
		},
		Output: OutputConfig{
			Dir: "", // Empty means use the working directory
		},
		Watch: WatchConfig{
			DebounceMs: 500,
			Patterns:   []string{"*.yaml", "*.yml"},
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			Dir:        "", // Empty means log to stderr
			MaxSizeMB:  10,
			MaxBackups: 3,
			Compress:   false,
		},
	}
}

// CallTimeout returns the advisor call timeout as a time.Duration
func (c *DiscussionConfig) CallTimeout() time.Duration {
	return time.Duration(c.CallTimeoutSeconds) * time.Second
}

// Latency returns the offline latency as a time.Duration
func (c *OfflineConfig) Latency() time.Duration {
	return time.Duration(c.LatencyMs) * time.Millisecond
}

// Debounce returns the watch debounce window as a time.Duration
func (c *WatchConfig) Debounce() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}

// ResolveDir returns the resolved output directory.
// If Dir is empty, it returns baseDir.
// If Dir starts with ~, it expands to the user's home directory.
// If Dir is a relative path, it's resolved relative to baseDir.
func (c *OutputConfig) ResolveDir(baseDir string) string {
	return resolvePath(c.Dir, baseDir)
}

// ResolveCatalogPath returns the resolved catalog path, or "" when the
// built-in catalog should be used.
func (c *RegistryConfig) ResolveCatalogPath(baseDir string) string {
	if c.CatalogPath == "" {
		return ""
	}
	return resolvePath(c.CatalogPath, baseDir)
}

func resolvePath(path, baseDir string) string {
	if path == "" {
		return baseDir
	}

	// Expand ~ to home directory
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	// If relative path, resolve relative to baseDir
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}

	return path
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Discussion defaults
	viper.SetDefault("discussion.max_parallel", defaults.Discussion.MaxParallel)
	viper.SetDefault("discussion.call_timeout_seconds", defaults.Discussion.CallTimeoutSeconds)
	viper.SetDefault("discussion.rate_limit_per_second", defaults.Discussion.RateLimitPerSecond)

	// Timeline defaults
	viper.SetDefault("timeline.tolerance", defaults.Timeline.Tolerance)

	// Registry defaults
	viper.SetDefault("registry.catalog_path", defaults.Registry.CatalogPath)

	// Offline defaults
	viper.SetDefault("offline.seed", defaults.Offline.Seed)
	viper.SetDefault("offline.latency_ms", defaults.Offline.LatencyMs)

	// Output defaults
	viper.SetDefault("output.dir", defaults.Output.Dir)

	// Watch defaults
	viper.SetDefault("watch.debounce_ms", defaults.Watch.DebounceMs)
	viper.SetDefault("watch.patterns", defaults.Watch.Patterns)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
	viper.SetDefault("logging.compress", defaults.Logging.Compress)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Validate the configuration
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "showrunner")
	}
	// Fall back to ~/.config/showrunner
	home, err := os.UserHomeDir()
	if err != nil {
		return ".showrunner"
	}
	return filepath.Join(home, ".config", "showrunner")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "showrunner.yaml")
}
