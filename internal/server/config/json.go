package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophgallery/internal/flagx"
	"github.com/dmitrijs2005/gophgallery/internal/timex"
)

// JsonConfig is the on-disk shape of Config. Durations accept "1s" style
// strings or integer nanoseconds. Absent fields leave Config untouched.
type JsonConfig struct {
	AccountAddr                 string          `json:"account_addr"`
	ImageAddr                   string          `json:"image_addr"`
	DatabaseDSN                 string          `json:"database_dsn"`
	SecretKey                   string          `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration  `json:"access_token_validity_duration"`
	ThumbnailDelay              *timex.Duration `json:"thumbnail_delay"`
	ThumbnailSize               int             `json:"thumbnail_size"`
	MaxUploadSize               int64           `json:"max_upload_size"`
	S3AccessKey                 string          `json:"s3_access_key"`
	S3SecretKey                 string          `json:"s3_secret_key"`
	S3Bucket                    string          `json:"s3_bucket"`
	S3Region                    string          `json:"s3_region"`
	S3BaseEndpoint              string          `json:"s3_base_endpoint"`
	LogLevel                    string          `json:"log_level"`
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// parseJson overlays the JSON file named by -c/-config, if any.
// An unreadable or invalid file panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.ConfigFile(os.Args[1:])

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	setString(&config.AccountAddr, c.AccountAddr)
	setString(&config.ImageAddr, c.ImageAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	if c.AccessTokenValidityDuration.Duration > 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.ThumbnailDelay != nil {
		config.ThumbnailDelay = c.ThumbnailDelay.Duration
	}
	if c.ThumbnailSize > 0 {
		config.ThumbnailSize = c.ThumbnailSize
	}
	if c.MaxUploadSize > 0 {
		config.MaxUploadSize = c.MaxUploadSize
	}
	setString(&config.S3AccessKey, c.S3AccessKey)
	setString(&config.S3SecretKey, c.S3SecretKey)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.LogLevel, c.LogLevel)
}
