// Package config loads, normalizes, and validates ewms configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. Every deployment-time constant the
// engine needs lives here: the fixed bed count, the data and log
// directories, the sync endpoint, and the API bind address.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors.
package config
