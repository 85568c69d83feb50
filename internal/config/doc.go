// Package config loads and validates the subtool configuration file.
//
// Configuration is a single TOML document, by default at
// ~/.config/subtool/config.toml. The loaded Config is an explicit value
// object: it is constructed once at startup and passed into the components
// that need it. Nothing in this package is consulted through globals.
package config
