package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected default values.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default Timeout is 3 seconds", func(t *testing.T) {
		t.Parallel()
		if cfg.Timeout != 3*time.Second {
			t.Errorf("expected Timeout to be 3s, got %v", cfg.Timeout)
		}
	})

	t.Run("default Depth is unbounded", func(t *testing.T) {
		t.Parallel()
		if cfg.Depth != -1 {
			t.Errorf("expected Depth to be -1, got %d", cfg.Depth)
		}
	})

	t.Run("default Format is text", func(t *testing.T) {
		t.Parallel()
		if cfg.Format != FormatText {
			t.Errorf("expected Format to be text, got %q", cfg.Format)
		}
	})

	t.Run("default WarmupStrategy is max", func(t *testing.T) {
		t.Parallel()
		if cfg.WarmupStrategy != "max" {
			t.Errorf("expected WarmupStrategy to be max, got %q", cfg.WarmupStrategy)
		}
	})

	t.Run("word search is off", func(t *testing.T) {
		t.Parallel()
		if cfg.WordSearch {
			t.Error("expected WordSearch to be false")
		}
	})

	t.Run("default MaxBodySize is 10MB", func(t *testing.T) {
		t.Parallel()
		if cfg.MaxBodySize != 10*1024*1024 {
			t.Errorf("expected MaxBodySize to be 10MB, got %d", cfg.MaxBodySize)
		}
	})
}

// TestConfigValidate tests the Validate method with various configurations.
// Each test case is designed to test one specific validation rule.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	// validConfig returns a minimal valid configuration.
	validConfig := func() *Config {
		cfg := NewConfig()
		cfg.URL = "https://example.com/"
		return cfg
	}

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{name: "valid config", modify: func(*Config) {}},
		{name: "valid word search", modify: func(c *Config) { c.WordSearch, c.Word = true, "go" }},
		{name: "depth zero is valid", modify: func(c *Config) { c.Depth = 0 }},
		{name: "markdown format is valid", modify: func(c *Config) { c.Format = FormatMarkdown }},
		{name: "average strategy is valid", modify: func(c *Config) { c.WarmupStrategy = "average" }},
		{name: "empty URL", modify: func(c *Config) { c.URL = "" }, wantErr: ErrNoURL},
		{name: "blank URL", modify: func(c *Config) { c.URL = "   " }, wantErr: ErrNoURL},
		{name: "URL without scheme", modify: func(c *Config) { c.URL = "example.com" }, wantErr: ErrInvalidURL},
		{name: "ftp URL", modify: func(c *Config) { c.URL = "ftp://example.com/" }, wantErr: ErrInvalidURL},
		{name: "unparsable URL", modify: func(c *Config) { c.URL = "http://[::1" }, wantErr: ErrInvalidURL},
		{name: "empty word", modify: func(c *Config) { c.WordSearch, c.Word = true, "" }, wantErr: ErrEmptyWord},
		{name: "blank word", modify: func(c *Config) { c.WordSearch, c.Word = true, "  " }, wantErr: ErrEmptyWord},
		{name: "negative depth", modify: func(c *Config) { c.Depth = -2 }, wantErr: ErrInvalidDepth},
		{name: "zero timeout", modify: func(c *Config) { c.Timeout = 0 }, wantErr: ErrInvalidTimeout},
		{name: "negative timeout", modify: func(c *Config) { c.Timeout = -time.Second }, wantErr: ErrInvalidTimeout},
		{name: "negative warmup", modify: func(c *Config) { c.Warmup = -1 }, wantErr: ErrInvalidWarmup},
		{name: "unknown strategy", modify: func(c *Config) { c.WarmupStrategy = "median" }, wantErr: ErrInvalidWarmupStrategy},
		{name: "unknown format", modify: func(c *Config) { c.Format = "xml" }, wantErr: ErrInvalidFormat},
		{name: "negative max body size", modify: func(c *Config) { c.MaxBodySize = -1 }, wantErr: ErrInvalidMaxBodySize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestConfigApply tests merging file settings into a Config.
func TestConfigApply(t *testing.T) {
	t.Parallel()

	t.Run("zero settings change nothing", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.Apply(Settings{})

		if cfg.Depth != DefaultDepth || cfg.Timeout != DefaultTimeout || cfg.Strict {
			t.Errorf("unexpected changes: %+v", cfg)
		}
	})

	t.Run("all fields are applied", func(t *testing.T) {
		t.Parallel()

		depth, strict := 0, true
		cfg := NewConfig()
		cfg.Apply(Settings{
			UserAgent:     "custom/1.0",
			Headers:       map[string]string{"X-Api": "1"},
			Timeout:       7 * time.Second,
			Depth:         &depth,
			Strict:        &strict,
			Selectors:     []string{"article"},
			LinkSelectors: []string{"a[href]"},
			Proxy:         "127.0.0.1:9050",
			MaxBodySize:   1024,
		})

		if cfg.UserAgent != "custom/1.0" {
			t.Errorf("expected user agent, got %q", cfg.UserAgent)
		}
		if cfg.Headers["X-Api"] != "1" {
			t.Errorf("unexpected headers: %v", cfg.Headers)
		}
		if cfg.Timeout != 7*time.Second {
			t.Errorf("expected timeout 7s, got %v", cfg.Timeout)
		}
		if cfg.Depth != 0 {
			t.Errorf("expected depth 0, got %d", cfg.Depth)
		}
		if !cfg.Strict {
			t.Error("expected strict mode")
		}
		if len(cfg.ContentSelectors) != 1 || len(cfg.LinkSelectors) != 1 {
			t.Errorf("unexpected selectors: %v %v", cfg.ContentSelectors, cfg.LinkSelectors)
		}
		if cfg.ProxyAddress != "127.0.0.1:9050" {
			t.Errorf("expected proxy, got %q", cfg.ProxyAddress)
		}
		if cfg.MaxBodySize != 1024 {
			t.Errorf("expected max body size 1024, got %d", cfg.MaxBodySize)
		}
	})

	t.Run("nil headers map is created", func(t *testing.T) {
		t.Parallel()

		cfg := &Config{}
		cfg.Apply(Settings{Headers: map[string]string{"X-A": "b"}})
		if cfg.Headers["X-A"] != "b" {
			t.Errorf("expected header, got %v", cfg.Headers)
		}
	})
}

// TestConfigHost tests host extraction from the seed URL.
func TestConfigHost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url  string
		want string
	}{
		{"https://Example.COM/path", "example.com"},
		{"http://127.0.0.1:8080/", "127.0.0.1"},
		{"http://[::1", ""},
		{"", ""},
	}

	for _, tt := range tests {
		cfg := &Config{URL: tt.url}
		if got := cfg.Host(); got != tt.want {
			t.Errorf("Host() for %q = %q, want %q", tt.url, got, tt.want)
		}
	}
}

// TestFormat tests format validation.
func TestFormat(t *testing.T) {
	t.Parallel()

	for _, f := range Formats {
		if !f.IsValid() {
			t.Errorf("expected %q to be valid", f)
		}
	}
	for _, f := range []Format{"", "TEXT", "html"} {
		if f.IsValid() {
			t.Errorf("expected %q to be invalid", f)
		}
	}
}

// TestFileSettingsFor tests merging defaults with per-host settings.
func TestFileSettingsFor(t *testing.T) {
	t.Parallel()

	depth := 2
	strict := true
	file := &File{
		Defaults: Settings{
			UserAgent: "default-agent",
			Headers:   map[string]string{"X-Default": "1"},
			Timeout:   5 * time.Second,
		},
		Sites: map[string]Settings{
			"example.com": {
				Headers: map[string]string{"X-Site": "2"},
				Depth:   &depth,
			},
			"docs.example.com": {
				Strict:    &strict,
				UserAgent: "docs-agent",
			},
		},
	}

	t.Run("unknown host gets defaults", func(t *testing.T) {
		t.Parallel()

		s := file.SettingsFor("other.test")
		if s.UserAgent != "default-agent" || s.Timeout != 5*time.Second {
			t.Errorf("expected defaults, got %+v", s)
		}
		if s.Depth != nil {
			t.Error("expected no depth")
		}
	})

	t.Run("site overrides and merges headers", func(t *testing.T) {
		t.Parallel()

		s := file.SettingsFor("example.com")
		if s.UserAgent != "default-agent" {
			t.Errorf("expected default user agent to be kept, got %q", s.UserAgent)
		}
		if s.Headers["X-Default"] != "1" || s.Headers["X-Site"] != "2" {
			t.Errorf("expected merged headers, got %v", s.Headers)
		}
		if s.Depth == nil || *s.Depth != 2 {
			t.Errorf("expected depth 2, got %v", s.Depth)
		}
	})

	t.Run("subdomain falls back to parent entry", func(t *testing.T) {
		t.Parallel()

		s := file.SettingsFor("blog.example.com")
		if s.Depth == nil || *s.Depth != 2 {
			t.Errorf("expected parent depth, got %v", s.Depth)
		}
	})

	t.Run("most specific entry wins", func(t *testing.T) {
		t.Parallel()

		s := file.SettingsFor("DOCS.example.com")
		if s.UserAgent != "docs-agent" {
			t.Errorf("expected docs user agent, got %q", s.UserAgent)
		}
		if s.Strict == nil || !*s.Strict {
			t.Error("expected strict from docs entry")
		}
		if s.Depth != nil {
			t.Error("expected no depth from the parent when a closer entry exists")
		}
	})

	t.Run("defaults are not mutated", func(t *testing.T) {
		t.Parallel()

		_ = file.SettingsFor("example.com")
		if _, ok := file.Defaults.Headers["X-Site"]; ok {
			t.Error("defaults headers were modified")
		}
	})
}

// TestLoadConfigFile tests loading the YAML configuration file.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadConfigFile("/nonexistent/path/.seaward.yaml")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if cfg != nil {
			t.Error("expected nil config when file not found")
		}
	})

	t.Run("loads valid YAML config", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), DefaultConfigFile)
		content := `defaults:
  timeout: 5s
  depth: 0
  userAgent: "seaward-test"
sites:
  example.com:
    strict: true
    headers:
      Authorization: "Bearer token"
    selectors:
      - article
      - "p.lead"
    proxy: "127.0.0.1:9050"
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cfg, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.Defaults.Timeout != 5*time.Second {
			t.Errorf("expected default timeout 5s, got %v", cfg.Defaults.Timeout)
		}
		if cfg.Defaults.Depth == nil || *cfg.Defaults.Depth != 0 {
			t.Errorf("expected explicit depth 0, got %v", cfg.Defaults.Depth)
		}

		site, ok := cfg.Sites["example.com"]
		if !ok {
			t.Fatal("expected example.com in sites")
		}
		if site.Strict == nil || !*site.Strict {
			t.Error("expected strict site")
		}
		if site.Headers["Authorization"] != "Bearer token" {
			t.Errorf("expected Authorization header")
		}
		if len(site.Selectors) != 2 {
			t.Errorf("expected 2 selectors, got %d", len(site.Selectors))
		}
		if site.Proxy != "127.0.0.1:9050" {
			t.Errorf("expected proxy, got %q", site.Proxy)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(configPath, []byte(`invalid: yaml: content: [}`), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfigFile(configPath)
		if err == nil {
			t.Fatal("expected error for invalid YAML")
		}
		if !strings.Contains(err.Error(), configPath) {
			t.Errorf("expected error to name the file, got %v", err)
		}
	})

	t.Run("returns error for invalid duration", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(configPath, []byte("defaults:\n  timeout: soon\n"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfigFile(configPath); err == nil {
			t.Error("expected error for invalid duration")
		}
	})

	t.Run("initializes nil Sites map", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(configPath, []byte("defaults:\n  depth: 3\n"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cfg, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Sites == nil {
			t.Error("expected Sites map to be initialized")
		}
	})
}

// TestFindConfigFile tests the FindConfigFile function.
func TestFindConfigFile(t *testing.T) {
	t.Run("returns explicit path if exists", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(configPath, []byte("defaults: {}"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if result := FindConfigFile(configPath); result != configPath {
			t.Errorf("expected %q, got %q", configPath, result)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		if result := FindConfigFile("/nonexistent/path/config.yaml"); result != "" {
			t.Errorf("expected empty string, got %q", result)
		}
	})

	t.Run("finds the file in the current directory", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte("defaults: {}"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		t.Chdir(dir)

		result := FindConfigFile("")
		if filepath.Base(result) != DefaultConfigFile || filepath.Dir(result) != dir {
			t.Errorf("expected config in %q, got %q", dir, result)
		}
	})
}

// TestXDGConfigDir tests the XDG config directory.
func TestXDGConfigDir(t *testing.T) {
	t.Parallel()

	dir := XDGConfigDir()
	if dir == "" {
		t.Fatal("expected non-empty path")
	}
	if filepath.Base(dir) != AppName {
		t.Errorf("expected path to end with %q, got %q", AppName, dir)
	}
}
