package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}

	// Verify default discussion config
	if cfg.Discussion.MaxParallel != 4 {
		t.Errorf("Discussion.MaxParallel = %d, want 4", cfg.Discussion.MaxParallel)
	}
	if cfg.Discussion.CallTimeoutSeconds != 30 {
		t.Errorf("Discussion.CallTimeoutSeconds = %d, want 30", cfg.Discussion.CallTimeoutSeconds)
	}
	if cfg.Discussion.RateLimitPerSecond != 0 {
		t.Errorf("Discussion.RateLimitPerSecond = %f, want 0", cfg.Discussion.RateLimitPerSecond)
	}

	// Verify default timeline config
	if cfg.Timeline.Tolerance != 0.1 {
		t.Errorf("Timeline.Tolerance = %f, want 0.1", cfg.Timeline.Tolerance)
	}

	// Verify default registry config
	if cfg.Registry.CatalogPath != "" {
		t.Errorf("Registry.CatalogPath should be empty, got %q", cfg.Registry.CatalogPath)
	}

	// Verify default offline config
	if cfg.Offline.Seed != 1 {
		t.Errorf("Offline.Seed = %d, want 1", cfg.Offline.Seed)
	}
	if cfg.Offline.LatencyMs != 0 {
		t.Errorf("Offline.LatencyMs = %d, want 0", cfg.Offline.LatencyMs)
	}

	// Verify default watch config
	if cfg.Watch.DebounceMs != 500 {
		t.Errorf("Watch.DebounceMs = %d, want 500", cfg.Watch.DebounceMs)
	}
	wantPatterns := []string{"*.yaml", "*.yml"}
	if len(cfg.Watch.Patterns) != len(wantPatterns) {
		t.Fatalf("Watch.Patterns = %v, want %v", cfg.Watch.Patterns, wantPatterns)
	}
	for i, p := range wantPatterns {
		if cfg.Watch.Patterns[i] != p {
			t.Errorf("Watch.Patterns[%d] = %q, want %q", i, cfg.Watch.Patterns[i], p)
		}
	}

	// Verify default logging config
	if !cfg.Logging.Enabled {
		t.Error("Logging.Enabled should be true by default")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
	if cfg.Logging.MaxSizeMB != 10 {
		t.Errorf("Logging.MaxSizeMB = %d, want 10", cfg.Logging.MaxSizeMB)
	}
	if cfg.Logging.MaxBackups != 3 {
		t.Errorf("Logging.MaxBackups = %d, want 3", cfg.Logging.MaxBackups)
	}
	if cfg.Logging.Compress {
		t.Error("Logging.Compress should be false by default")
	}
}

func TestDiscussionConfig_CallTimeout(t *testing.T) {
	tests := []struct {
		seconds  int
		expected time.Duration
	}{
		{30, 30 * time.Second},
		{120, 2 * time.Minute},
		{1, 1 * time.Second},
		{0, 0},
	}

	for _, tt := range tests {
		cfg := DiscussionConfig{CallTimeoutSeconds: tt.seconds}
		result := cfg.CallTimeout()
		if result != tt.expected {
			t.Errorf("CallTimeout() with %ds = %v, want %v", tt.seconds, result, tt.expected)
		}
	}
}

func TestWatchConfig_Debounce(t *testing.T) {
	tests := []struct {
		ms       int
		expected time.Duration
	}{
		{500, 500 * time.Millisecond},
		{1000, 1 * time.Second},
		{0, 0},
	}

	for _, tt := range tests {
		cfg := WatchConfig{DebounceMs: tt.ms}
		result := cfg.Debounce()
		if result != tt.expected {
			t.Errorf("Debounce() with %dms = %v, want %v", tt.ms, result, tt.expected)
		}
	}
}

func TestOfflineConfig_Latency(t *testing.T) {
	cfg := OfflineConfig{LatencyMs: 250}
	if got := cfg.Latency(); got != 250*time.Millisecond {
		t.Errorf("Latency() = %v, want 250ms", got)
	}
}

func TestOutputConfig_ResolveDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("UserHomeDir: %v", err)
	}

	tests := []struct {
		name     string
		dir      string
		expected string
	}{
		{"empty uses base", "", "/work"},
		{"absolute kept", "/var/runs", "/var/runs"},
		{"relative joins base", "runs", filepath.Join("/work", "runs")},
		{"tilde expands", "~/runs", filepath.Join(home, "runs")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := OutputConfig{Dir: tt.dir}
			if got := cfg.ResolveDir("/work"); got != tt.expected {
				t.Errorf("ResolveDir() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestRegistryConfig_ResolveCatalogPath(t *testing.T) {
	cfg := RegistryConfig{}
	if got := cfg.ResolveCatalogPath("/work"); got != "" {
		t.Errorf("ResolveCatalogPath() with empty path = %q, want empty", got)
	}

	cfg.CatalogPath = "catalog.yaml"
	if got := cfg.ResolveCatalogPath("/work"); got != filepath.Join("/work", "catalog.yaml") {
		t.Errorf("ResolveCatalogPath() = %q", got)
	}
}

func TestConfigDir(t *testing.T) {
	// Test with XDG_CONFIG_HOME set
	t.Run("with XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")
		result := ConfigDir()
		expected := "/custom/config/showrunner"
		if result != expected {
			t.Errorf("ConfigDir() = %q, want %q", result, expected)
		}
	})

	// Test without XDG_CONFIG_HOME
	t.Run("without XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		result := ConfigDir()

		// Should be based on home directory
		home, _ := os.UserHomeDir()
		expected := filepath.Join(home, ".config", "showrunner")
		if result != expected {
			t.Errorf("ConfigDir() = %q, want %q", result, expected)
		}
	})
}

func TestConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	result := ConfigFile()
	expected := "/custom/config/showrunner/showrunner.yaml"
	if result != expected {
		t.Errorf("ConfigFile() = %q, want %q", result, expected)
	}
}

func TestGet(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	// Set defaults in viper first (normally done by cmd init)
	SetDefaults()

	// Get() should return defaults when no config file exists
	cfg := Get()
	if cfg == nil {
		t.Fatal("Get() returned nil")
	}

	// Should have default values
	if cfg.Discussion.MaxParallel != 4 {
		t.Errorf("Get().Discussion.MaxParallel = %d, want 4", cfg.Discussion.MaxParallel)
	}
	if cfg.Timeline.Tolerance != 0.1 {
		t.Errorf("Get().Timeline.Tolerance = %f, want 0.1", cfg.Timeline.Tolerance)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "showrunner.yaml")
	contents := "discussion:\n  max_parallel: 2\nlogging:\n  level: debug\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	SetDefaults()
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Discussion.MaxParallel != 2 {
		t.Errorf("Discussion.MaxParallel = %d, want 2 from file", cfg.Discussion.MaxParallel)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q from file", cfg.Logging.Level, "debug")
	}
	// Untouched keys keep their defaults
	if cfg.Watch.DebounceMs != 500 {
		t.Errorf("Watch.DebounceMs = %d, want default 500", cfg.Watch.DebounceMs)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("SHOWRUNNER_DISCUSSION_MAX_PARALLEL", "8")

	// Mirror the root command's viper wiring
	SetDefaults()
	viper.AutomaticEnv()
	viper.SetEnvPrefix("SHOWRUNNER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Discussion.MaxParallel != 8 {
		t.Errorf("Discussion.MaxParallel = %d, want 8 from environment", cfg.Discussion.MaxParallel)
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	SetDefaults()
	viper.Set("discussion.max_parallel", 0)

	_, err := Load()
	if err == nil {
		t.Fatal("Load() with invalid config returned nil error")
	}
	if !strings.Contains(err.Error(), "discussion.max_parallel") {
		t.Errorf("error %q should name the invalid field", err.Error())
	}
}
