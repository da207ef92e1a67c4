// Package config loads engine settings.
//
// Settings come from three places, later ones overriding earlier ones:
//
//  1. Built-in defaults (Default)
//  2. A config file, YAML, TOML or JSON chosen by extension (Load)
//  3. Environment variables prefixed with INEPT_, optionally read from a
//     .env file first (ApplyEnv)
//
// Command line flags are applied on top by the caller. Validate checks the
// merged result.
package config
