// Package config provides configuration management for song-downloader.
//
// This package handles:
//   - Loading and saving settings from YAML files
//   - Default configuration values
//   - Conversion to the configs of the http, spotify, audio and io packages
//
// # Default Settings
//
//	settings := config.DefaultSettings()
//	// M4A output into the working directory
//	// 5 attempts, 5 seconds apart, for unavailable sources
//	// Cover art embedded, resized to 1000px
//
// # Loading from File
//
//	settings, err := config.Load(config.DefaultPath())
//	// Uses defaults if the file doesn't exist
//
// Durations accept Go syntax plus days and weeks ("90s", "1m30s", "1d").
package config
