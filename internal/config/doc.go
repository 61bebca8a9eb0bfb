// Package config loads application settings from defaults, an optional
// config.yaml, an optional .env file and GRAMMAR_-prefixed environment
// variables, in increasing order of precedence, and validates the result.
package config
