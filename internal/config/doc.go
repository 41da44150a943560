// Package config loads, normalizes, and validates athletematch configuration.
//
// It supplies defaults, reads TOML files, expands tilde paths and applies the
// ATHLETEMATCH_* environment overrides. Always obtain settings through Load so
// downstream code receives absolute paths and validated search limits.
package config
