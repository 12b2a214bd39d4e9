// Package config loads, defaults and validates the YAML configuration for
// the ingest pipeline. ${VAR} references in the file are expanded from the
// environment before parsing.
package config
