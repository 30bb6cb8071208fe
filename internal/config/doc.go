// Package config provides the run configuration of seaward.
// It defines the crawl options, the optional YAML configuration file with
// per-host settings and the validation of the merged result.
package config
