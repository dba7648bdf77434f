// Package config loads, validates, and normalizes the boardcheck TOML
// configuration. Components receive their configuration explicitly at
// construction; there is no process-wide settings state.
package config
