// Package config handles configuration for the gallery backend,
// including defaults, JSON overlay, and command-line flags.
package config

import (
	"time"

	"github.com/dmitrijs2005/gophgallery/internal/s3x"
)

// Config holds runtime settings for the gallery backend.
//
// Fields:
//   - AccountAddr / ImageAddr: bind addresses of the account and image services.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty keeps everything in memory.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use test defaults in prod.
//   - AccessTokenValidityDuration: token lifetime; an expired token gets 403.
//   - ThumbnailDelay: how long thumbnails stay pending. Negative means they are
//     only produced on demand (tests).
//   - ThumbnailSize: bounding box of generated thumbnails, in pixels.
//   - MaxUploadSize: largest accepted upload, in bytes.
//   - S3*: object storage for image bytes. Empty S3Bucket keeps them in memory.
type Config struct {
	AccountAddr                 string
	ImageAddr                   string
	DatabaseDSN                 string
	SecretKey                   string
	AccessTokenValidityDuration time.Duration
	ThumbnailDelay              time.Duration
	ThumbnailSize               int
	MaxUploadSize               int64
	S3AccessKey                 string
	S3SecretKey                 string
	S3Bucket                    string
	S3Region                    string
	S3BaseEndpoint              string
	LogLevel                    string
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.AccountAddr = ":8080"
	c.ImageAddr = ":8081"
	c.DatabaseDSN = ""
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 60 * time.Minute
	c.ThumbnailDelay = 3 * time.Second
	c.ThumbnailSize = 200
	c.MaxUploadSize = 10 << 20
	c.S3Region = "us-east-1"
	c.LogLevel = "info"
}

// S3 returns the object storage settings.
func (c *Config) S3() s3x.Config {
	return s3x.Config{
		Bucket:       c.S3Bucket,
		Region:       c.S3Region,
		BaseEndpoint: c.S3BaseEndpoint,
		AccessKey:    c.S3AccessKey,
		SecretKey:    c.S3SecretKey,
	}
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
