// Package config loads runtime configuration for the gallery CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// # JSON schema
//
// Intervals use timex.Duration, so values can be either strings like "5s"
// or integer nanoseconds:
//
//	{
//	  "account_base_url": "http://localhost:8080",
//	  "image_base_url": "http://localhost:8081",
//	  "poll_interval": "5s",
//	  "request_timeout": "30s",
//	  "session_db_path": "session.db",
//	  "download_dir": "downloads",
//	  "s3_bucket": "exports"
//	}
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values. The S3 export falls back to the
// default AWS credential chain when no keys are given.
package config
