// Package config loads moonwatchd configuration from environment variables.
//
// Load parses env-tagged struct fields after loading an optional .env file.
// ToggleOverrides extracts local toggle overrides from TOGGLE_<NAME> pairs:
//
//	TOGGLE_PLATFORMIDLETIMESETTINGS=true
//
// becomes the override {"platformidletimesettings": true}. Override names
// are canonicalized to lower case; any value other than "true"
// (case-insensitive) reads as false.
package config
