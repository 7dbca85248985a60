// Package config handles configuration loading, parsing, and validation
// from environment variables (ADBOARD_ prefix) and an optional config.yaml.
// It provides type-safe access to the settings needed by the server,
// database, auth, image storage and comment policy components.
package config
