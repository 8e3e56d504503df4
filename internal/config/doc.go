// Package config loads, validates, and defaults clipsense configuration.
//
// Configuration is a TOML file (default ~/.config/clipsense/config.toml, or a
// clipsense.toml in the working directory). Load returns a fully normalized
// Config: paths expanded to absolute form, defaults applied, and every value
// validated. Components receive the Config by injection rather than reading
// files themselves.
package config
