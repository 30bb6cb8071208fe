package config

import (
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultTimeout is the per-request timeout when no warm-up is run.
	// Three seconds is enough for most public sites while keeping a crawl
	// of unresponsive hosts from stalling.
	DefaultTimeout = 3 * time.Second

	// DefaultDepth means the crawl is not depth limited.
	DefaultDepth = -1

	// DefaultWarmupStrategy picks the slowest successful probe.
	DefaultWarmupStrategy = "max"

	// DefaultMaxBodySize limits the maximum response body size to read.
	// 10MB is sufficient for most HTML pages while preventing memory
	// exhaustion from unexpectedly large responses.
	DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB

	// AppName is the application name used for XDG directory paths.
	AppName = "seaward"
)

// Format selects how results are written.
type Format string

// Supported output formats.
const (
	// FormatText writes plain lines, with highlighted matches in word mode.
	FormatText Format = "text"

	// FormatJSON writes one JSON object per line.
	FormatJSON Format = "json"

	// FormatMarkdown writes a Markdown document when the crawl ends.
	FormatMarkdown Format = "markdown"
)

// Formats lists the supported output formats.
var Formats = []Format{FormatText, FormatJSON, FormatMarkdown}

// IsValid reports whether f is a supported format.
func (f Format) IsValid() bool {
	for _, v := range Formats {
		if f == v {
			return true
		}
	}
	return false
}

// Config holds all configuration options for one seaward run.
// It is populated from built-in defaults, the configuration file and CLI
// flags, in increasing order of precedence, and then passed down explicitly.
//
// Design decision: A single flat struct like the rest of the CLI surface.
// File settings are merged in through Apply so the struct stays the only
// thing the command needs to look at.
type Config struct {
	// URL is the seed URL the crawl starts from.
	URL string

	// Word is the search word. It is only used when WordSearch is true.
	Word string

	// WordSearch selects word-search mode. It is set when the word flag is
	// given, even if its value is empty, so that an empty word is reported
	// instead of silently switching to link mode.
	WordSearch bool

	// Depth is the number of link layers followed from the seed.
	// DefaultDepth (-1) means unbounded.
	Depth int

	// Timeout is the per-request timeout.
	Timeout time.Duration

	// Warmup is the number of calibration probes. When positive, the
	// measured timeout replaces Timeout.
	Warmup int

	// WarmupStrategy is "max" or "average".
	WarmupStrategy string

	// Strict restricts the crawl to the seed URL's path.
	Strict bool

	// Silent suppresses the banner, calibration output and the summary.
	Silent bool

	// Format is the output format.
	Format Format

	// OutputFile is the path results are written to. Empty means stdout.
	OutputFile string

	// NoColor disables colored output.
	NoColor bool

	// ProxyAddress is an optional SOCKS5 proxy in "host:port" format.
	ProxyAddress string

	// Verbose enables detailed log output using slog.LevelDebug.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the default locations are searched.
	ConfigFilePath string

	// UserAgent overrides the User-Agent header. Empty keeps the fetcher's
	// browser-like default.
	UserAgent string

	// Headers are extra HTTP headers sent with every request.
	Headers map[string]string

	// ContentSelectors override the elements searched in word mode.
	ContentSelectors []string

	// LinkSelectors override the elements whose href is followed.
	LinkSelectors []string

	// MaxBodySize is the maximum response body size in bytes to read.
	MaxBodySize int64
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Depth:          DefaultDepth,
		Timeout:        DefaultTimeout,
		WarmupStrategy: DefaultWarmupStrategy,
		Format:         FormatText,
		Headers:        make(map[string]string),
		MaxBodySize:    DefaultMaxBodySize,
	}
}

// XDGConfigDir returns the XDG config directory for seaward.
// On Linux: ~/.config/seaward
// On macOS: ~/Library/Application Support/seaward
// On Windows: %APPDATA%\seaward
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Apply copies the non-zero fields of s into c.
// Callers apply file settings first and explicit flags afterwards.
func (c *Config) Apply(s Settings) {
	if s.UserAgent != "" {
		c.UserAgent = s.UserAgent
	}
	if c.Headers == nil {
		c.Headers = make(map[string]string)
	}
	for k, v := range s.Headers {
		c.Headers[k] = v
	}
	if s.Timeout > 0 {
		c.Timeout = s.Timeout
	}
	if s.Depth != nil {
		c.Depth = *s.Depth
	}
	if s.Strict != nil {
		c.Strict = *s.Strict
	}
	if len(s.Selectors) > 0 {
		c.ContentSelectors = s.Selectors
	}
	if len(s.LinkSelectors) > 0 {
		c.LinkSelectors = s.LinkSelectors
	}
	if s.Proxy != "" {
		c.ProxyAddress = s.Proxy
	}
	if s.MaxBodySize > 0 {
		c.MaxBodySize = s.MaxBodySize
	}
}

// Host returns the lower-cased host name of URL, or "" if URL does not parse.
func (c *Config) Host() string {
	u, err := url.Parse(strings.TrimSpace(c.URL))
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after flags and file settings are merged, before any
// request is made.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.URL) == "" {
		return ErrNoURL
	}

	u, err := url.Parse(strings.TrimSpace(c.URL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Hostname() == "" {
		return ErrInvalidURL
	}

	if c.WordSearch && strings.TrimSpace(c.Word) == "" {
		return ErrEmptyWord
	}

	// -1 is the unbounded marker; anything lower is a mistake
	if c.Depth < DefaultDepth {
		return ErrInvalidDepth
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.Warmup < 0 {
		return ErrInvalidWarmup
	}

	if c.WarmupStrategy != "max" && c.WarmupStrategy != "average" {
		return ErrInvalidWarmupStrategy
	}

	if !c.Format.IsValid() {
		return ErrInvalidFormat
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	return nil
}
