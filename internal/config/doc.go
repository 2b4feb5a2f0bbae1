// Package config loads and validates the teams-bridge YAML configuration,
// expanding ${VAR} environment references before parsing.
package config
