package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/gophgallery/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   account service base URL
//	-m string   image service base URL
//	-p int      list poll interval while thumbnails are pending, seconds
//	-t int      request timeout, seconds
//	-s string   session database file
//	-o string   download directory
//	-l string   log level (debug, info, warn, error)
//	-b string   S3 bucket for downloads (empty: save to -o)
//	-g string   S3 region
//	-e string   S3 base endpoint
//	-u string   S3 access key
//	-k string   S3 secret key
//	-x string   S3 key prefix
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-m", "-p", "-t", "-s", "-o", "-l", "-b", "-g", "-e", "-u", "-k", "-x"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.AccountBaseURL, "a", cfg.AccountBaseURL, "account service base URL")
	fs.StringVar(&cfg.ImageBaseURL, "m", cfg.ImageBaseURL, "image service base URL")
	pollInterval := fs.Int("p", int(cfg.PollInterval.Seconds()), "poll interval (in seconds)")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.SessionDBPath, "s", cfg.SessionDBPath, "session database file")
	fs.StringVar(&cfg.DownloadDir, "o", cfg.DownloadDir, "download directory")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "S3 bucket for downloads")
	fs.StringVar(&cfg.S3Region, "g", cfg.S3Region, "S3 region")
	fs.StringVar(&cfg.S3BaseEndpoint, "e", cfg.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&cfg.S3AccessKey, "u", cfg.S3AccessKey, "S3 access key")
	fs.StringVar(&cfg.S3SecretKey, "k", cfg.S3SecretKey, "S3 secret key")
	fs.StringVar(&cfg.S3Prefix, "x", cfg.S3Prefix, "S3 key prefix")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.PollInterval = time.Duration(*pollInterval) * time.Second
	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
}
