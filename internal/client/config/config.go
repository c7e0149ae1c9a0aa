package config

import (
	"time"

	"github.com/dmitrijs2005/gophgallery/internal/s3x"
)

// Config holds runtime settings for the gallery CLI.
//
// Fields:
//   - AccountBaseURL / ImageBaseURL: base URLs of the two backend services.
//   - PollInterval: delay between list fetches while thumbnails are pending.
//   - RequestTimeout: bound for non-streaming calls.
//   - SessionDBPath: SQLite file keeping the signed-in session.
//   - DownloadDir: where downloads are saved when S3 export is off.
//   - S3*: optional bucket that receives downloads instead of DownloadDir.
type Config struct {
	AccountBaseURL string
	ImageBaseURL   string
	PollInterval   time.Duration
	RequestTimeout time.Duration
	SessionDBPath  string
	DownloadDir    string
	LogLevel       string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string
	S3Prefix       string
}

// LoadDefaults populates c with settings matching a local cmd/server.
func (c *Config) LoadDefaults() {
	c.AccountBaseURL = "http://localhost:8080"
	c.ImageBaseURL = "http://localhost:8081"
	c.PollInterval = 5 * time.Second
	c.RequestTimeout = 30 * time.Second
	c.SessionDBPath = "session.db"
	c.DownloadDir = "downloads"
	c.LogLevel = "warn"
	c.S3Region = "us-east-1"
}

// S3 returns the export bucket settings. Bucket is empty when export is off.
func (c *Config) S3() s3x.Config {
	return s3x.Config{
		Bucket:       c.S3Bucket,
		Region:       c.S3Region,
		BaseEndpoint: c.S3BaseEndpoint,
		AccessKey:    c.S3AccessKey,
		SecretKey:    c.S3SecretKey,
	}
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
