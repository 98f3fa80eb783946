// Package config loads, normalizes, and validates shortsmith configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// SHORTSMITH_STORAGE_ROOT. The Config type centralizes every knob the CLI and
// pipeline stages need: the storage layout, encoder settings per stage, and
// time limits for the external processes.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors.
package config
