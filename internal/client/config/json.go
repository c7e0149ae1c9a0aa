package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophgallery/internal/flagx"
	"github.com/dmitrijs2005/gophgallery/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "5s" or as integer nanoseconds. Absent fields keep the
// current value.
type JsonConfig struct {
	AccountBaseURL string         `json:"account_base_url"`
	ImageBaseURL   string         `json:"image_base_url"`
	PollInterval   timex.Duration `json:"poll_interval"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	SessionDBPath  string         `json:"session_db_path"`
	DownloadDir    string         `json:"download_dir"`
	LogLevel       string         `json:"log_level"`
	S3Bucket       string         `json:"s3_bucket"`
	S3Region       string         `json:"s3_region"`
	S3BaseEndpoint string         `json:"s3_base_endpoint"`
	S3AccessKey    string         `json:"s3_access_key"`
	S3SecretKey    string         `json:"s3_secret_key"`
	S3Prefix       string         `json:"s3_prefix"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Read or unmarshal errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFile(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	for _, f := range []struct {
		dst *string
		v   string
	}{
		{&cfg.AccountBaseURL, jc.AccountBaseURL},
		{&cfg.ImageBaseURL, jc.ImageBaseURL},
		{&cfg.SessionDBPath, jc.SessionDBPath},
		{&cfg.DownloadDir, jc.DownloadDir},
		{&cfg.LogLevel, jc.LogLevel},
		{&cfg.S3Bucket, jc.S3Bucket},
		{&cfg.S3Region, jc.S3Region},
		{&cfg.S3BaseEndpoint, jc.S3BaseEndpoint},
		{&cfg.S3AccessKey, jc.S3AccessKey},
		{&cfg.S3SecretKey, jc.S3SecretKey},
		{&cfg.S3Prefix, jc.S3Prefix},
	} {
		if f.v != "" {
			*f.dst = f.v
		}
	}
	if jc.PollInterval.Duration > 0 {
		cfg.PollInterval = jc.PollInterval.Duration
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
}
