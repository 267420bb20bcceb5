package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config fields from environment variables. A .env file
// in the working directory is loaded first when present; real environment
// variables win over .env values (godotenv does not overwrite).
func parseEnv(config *Config) {
	_ = godotenv.Load()

	setString := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	setInt := func(dst *int, key string) {
		if v, ok := os.LookupEnv(key); ok {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}
	setBool := func(dst *bool, key string) {
		if v, ok := os.LookupEnv(key); ok {
			if b, err := strconv.ParseBool(v); err == nil {
				*dst = b
			}
		}
	}
	setDuration := func(dst *time.Duration, key string) {
		if v, ok := os.LookupEnv(key); ok {
			if d, err := time.ParseDuration(v); err == nil {
				*dst = d
			}
		}
	}

	setString(&config.Addr, "DAYBOOK_ADDR")
	setString(&config.DatabaseDSN, "DAYBOOK_DATABASE_DSN")
	setString(&config.RedisAddr, "DAYBOOK_REDIS_ADDR")
	setString(&config.RedisPassword, "DAYBOOK_REDIS_PASSWORD")
	setInt(&config.RedisDB, "DAYBOOK_REDIS_DB")
	setString(&config.SecretKey, "DAYBOOK_SECRET_KEY")
	setDuration(&config.AccessTokenValidity, "DAYBOOK_ACCESS_TOKEN_VALIDITY")
	setDuration(&config.LinkTokenValidity, "DAYBOOK_LINK_TOKEN_VALIDITY")
	setString(&config.LinkBaseURL, "DAYBOOK_LINK_BASE_URL")
	setInt(&config.LinkRatePerHour, "DAYBOOK_LINK_RATE_PER_HOUR")
	setInt(&config.LinkBurst, "DAYBOOK_LINK_BURST")
	setString(&config.SMTPAddr, "DAYBOOK_SMTP_ADDR")
	setString(&config.SMTPFrom, "DAYBOOK_SMTP_FROM")
	setString(&config.S3AccessKey, "DAYBOOK_S3_ACCESS_KEY")
	setString(&config.S3SecretKey, "DAYBOOK_S3_SECRET_KEY")
	setString(&config.S3Bucket, "DAYBOOK_S3_BUCKET")
	setString(&config.S3Region, "DAYBOOK_S3_REGION")
	setString(&config.S3BaseEndpoint, "DAYBOOK_S3_BASE_ENDPOINT")
	setBool(&config.PrivateBucket, "DAYBOOK_PRIVATE_BUCKET")
}
