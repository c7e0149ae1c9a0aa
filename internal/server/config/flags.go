package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/gophgallery/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   account service bind address (e.g., ":8080")
//	-i string   image service bind address (e.g., ":8081")
//	-d string   PostgreSQL DSN, empty for in-memory storage
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-w int      thumbnail delay, milliseconds (negative: on demand only)
//	-z int      thumbnail bounding box, pixels
//	-n int      max upload size, bytes
//	-u string   S3 access key
//	-p string   S3 secret key
//	-b string   S3 bucket name, empty for in-memory blobs
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-l string   log level
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-i", "-d", "-s", "-t", "-w", "-z", "-n", "-u", "-p", "-b", "-g", "-e", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.AccountAddr, "a", config.AccountAddr, "account service address")
	fs.StringVar(&config.ImageAddr, "i", config.ImageAddr, "image service address")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")
	thumbnailDelay := fs.Int64("w", config.ThumbnailDelay.Milliseconds(), "thumbnail delay (in milliseconds)")

	fs.IntVar(&config.ThumbnailSize, "z", config.ThumbnailSize, "thumbnail size (in pixels)")
	fs.Int64Var(&config.MaxUploadSize, "n", config.MaxUploadSize, "max upload size (in bytes)")
	fs.StringVar(&config.S3AccessKey, "u", config.S3AccessKey, "S3 access key")
	fs.StringVar(&config.S3SecretKey, "p", config.S3SecretKey, "S3 secret key")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
	config.ThumbnailDelay = time.Duration(*thumbnailDelay) * time.Millisecond
}
