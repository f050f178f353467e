// Package config loads, normalizes, and validates srt-translate configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the environment fallbacks used for
// the serving and translated-mirror URLs (LOCAL_SERVER_URL,
// TRANSLATED_LOCAL_SERVER_URL, GITHUB_PAGES_URL, TRANSLATED_GITHUB_PAGES_URL).
//
// Always obtain settings through this package so downstream code receives
// expanded paths, a canonical deployment mode, and clear validation errors.
package config
