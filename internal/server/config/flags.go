package config

import (
	"flag"
	"os"
	"time"

	"github.com/ddanilov/daybook/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g. ":8080")
//	-d string   PostgreSQL DSN
//	-r string   Redis address
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-l int      magic-link token validity, minutes
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g. "http://127.0.0.1:9000/")
//	-P          treat the bucket as private (bare keys + signed URLs)
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other packages' flags.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-r", "-s", "-t", "-l", "-b", "-g", "-e", "-P"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.Addr, "a", config.Addr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidity := fs.Int("t", int(config.AccessTokenValidity.Minutes()), "access token validity (in minutes)")
	linkTokenValidity := fs.Int("l", int(config.LinkTokenValidity.Minutes()), "magic-link token validity (in minutes)")

	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.BoolVar(&config.PrivateBucket, "P", config.PrivateBucket, "private bucket (signed URLs for reads)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidity = time.Duration(*accessTokenValidity) * time.Minute
	config.LinkTokenValidity = time.Duration(*linkTokenValidity) * time.Minute
}
