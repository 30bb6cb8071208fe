package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoURL is returned when no seed URL is given.
	ErrNoURL = errors.New("no URL specified: provide the URL to crawl")

	// ErrInvalidURL is returned when the seed URL is not an absolute
	// http or https URL.
	ErrInvalidURL = errors.New("invalid URL: must be an absolute http or https URL")

	// ErrEmptyWord is returned when word search is requested with an empty word.
	ErrEmptyWord = errors.New("invalid word: must not be empty")

	// ErrInvalidDepth is returned when the depth is negative.
	// Leave the depth unset for an unbounded crawl.
	ErrInvalidDepth = errors.New("invalid depth: must be non-negative")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	// A timeout of zero or negative would cause immediate request failures.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidWarmup is returned when the number of warm-up probes is negative.
	ErrInvalidWarmup = errors.New("invalid warmup: must be non-negative")

	// ErrInvalidWarmupStrategy is returned for a strategy other than
	// "max" or "average".
	ErrInvalidWarmupStrategy = errors.New("invalid warmup strategy: must be max or average")

	// ErrInvalidFormat is returned for an unsupported output format.
	ErrInvalidFormat = errors.New("invalid format: must be text, json or markdown")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")
)
