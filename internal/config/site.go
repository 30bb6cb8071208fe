package config

import (
	"strings"
	"time"
)

// Settings holds crawl settings that can be set in the configuration file,
// either as defaults or for a single host.
type Settings struct {
	// UserAgent replaces the default User-Agent header.
	UserAgent string `yaml:"userAgent,omitempty"`

	// Headers are custom HTTP headers to include in requests.
	Headers map[string]string `yaml:"headers,omitempty"`

	// Timeout is the per-request timeout, e.g. "5s".
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// Depth is the depth limit. Nil leaves it unchanged; 0 is meaningful.
	Depth *int `yaml:"depth,omitempty"`

	// Strict restricts the crawl to the seed path.
	Strict *bool `yaml:"strict,omitempty"`

	// Selectors are the CSS selectors searched in word mode.
	Selectors []string `yaml:"selectors,omitempty"`

	// LinkSelectors are the CSS selectors whose href is followed.
	LinkSelectors []string `yaml:"linkSelectors,omitempty"`

	// Proxy is a SOCKS5 proxy address in "host:port" format.
	Proxy string `yaml:"proxy,omitempty"`

	// MaxBodySize is the maximum response body size in bytes.
	MaxBodySize int64 `yaml:"maxBodySize,omitempty"`
}

// File represents the structure of the seaward configuration file.
type File struct {
	// Sites maps host names to their settings. A key also applies to the
	// subdomains of that host, the most specific key wins.
	Sites map[string]Settings `yaml:"sites,omitempty"`

	// Defaults are applied to every host unless overridden in Sites.
	Defaults Settings `yaml:"defaults,omitempty"`
}

// SettingsFor returns the settings for host: the defaults merged with the
// most specific matching site entry.
func (cf *File) SettingsFor(host string) Settings {
	result := cf.Defaults
	result.Headers = copyHeaders(cf.Defaults.Headers)

	site, ok := cf.lookup(strings.ToLower(strings.TrimSuffix(host, ".")))
	if !ok {
		return result
	}

	if site.UserAgent != "" {
		result.UserAgent = site.UserAgent
	}
	if len(site.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string)
		}
		for k, v := range site.Headers {
			result.Headers[k] = v
		}
	}
	if site.Timeout > 0 {
		result.Timeout = site.Timeout
	}
	if site.Depth != nil {
		result.Depth = site.Depth
	}
	if site.Strict != nil {
		result.Strict = site.Strict
	}
	if len(site.Selectors) > 0 {
		result.Selectors = site.Selectors
	}
	if len(site.LinkSelectors) > 0 {
		result.LinkSelectors = site.LinkSelectors
	}
	if site.Proxy != "" {
		result.Proxy = site.Proxy
	}
	if site.MaxBodySize > 0 {
		result.MaxBodySize = site.MaxBodySize
	}

	return result
}

// lookup finds the entry for host or for its closest parent domain.
func (cf *File) lookup(host string) (Settings, bool) {
	for host != "" {
		for key, s := range cf.Sites {
			if strings.EqualFold(key, host) {
				return s, true
			}
		}
		i := strings.IndexByte(host, '.')
		if i < 0 {
			break
		}
		host = host[i+1:]
	}
	return Settings{}, false
}

func copyHeaders(h map[string]string) map[string]string {
	if h == nil {
		return nil
	}
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out
}
