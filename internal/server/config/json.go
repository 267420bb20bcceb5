package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/ddanilov/daybook/internal/flagx"
	"github.com/ddanilov/daybook/internal/timex"
)

// JSONConfig is the DTO for the optional JSON configuration file. Duration
// fields accept both strings ("15m") and integer nanoseconds via
// timex.Duration. Pointer fields distinguish "absent" from zero values so
// the overlay only touches keys present in the file.
type JSONConfig struct {
	Addr                *string         `json:"addr"`
	DatabaseDSN         *string         `json:"database_dsn"`
	RedisAddr           *string         `json:"redis_addr"`
	RedisPassword       *string         `json:"redis_password"`
	RedisDB             *int            `json:"redis_db"`
	SecretKey           *string         `json:"secret_key"`
	AccessTokenValidity *timex.Duration `json:"access_token_validity"`
	LinkTokenValidity   *timex.Duration `json:"link_token_validity"`
	LinkBaseURL         *string         `json:"link_base_url"`
	LinkRatePerHour     *int            `json:"link_rate_per_hour"`
	LinkBurst           *int            `json:"link_burst"`
	SMTPAddr            *string         `json:"smtp_addr"`
	SMTPFrom            *string         `json:"smtp_from"`
	S3AccessKey         *string         `json:"s3_access_key"`
	S3SecretKey         *string         `json:"s3_secret_key"`
	S3Bucket            *string         `json:"s3_bucket"`
	S3Region            *string         `json:"s3_region"`
	S3BaseEndpoint      *string         `json:"s3_base_endpoint"`
	PrivateBucket       *bool           `json:"private_bucket"`
}

// parseJSON overlays configuration from the file named by -c/-config.
// Missing flag means no file is loaded. An unreadable or invalid file
// panics: a misconfigured server should not start.
func parseJSON(config *Config) {
	jsonConfigFile := flagx.JSONConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JSONConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setInt := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	setDuration := func(dst *time.Duration, src *timex.Duration) {
		if src != nil {
			*dst = src.Duration
		}
	}

	setString(&config.Addr, c.Addr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.RedisPassword, c.RedisPassword)
	setInt(&config.RedisDB, c.RedisDB)
	setString(&config.SecretKey, c.SecretKey)
	setDuration(&config.AccessTokenValidity, c.AccessTokenValidity)
	setDuration(&config.LinkTokenValidity, c.LinkTokenValidity)
	setString(&config.LinkBaseURL, c.LinkBaseURL)
	setInt(&config.LinkRatePerHour, c.LinkRatePerHour)
	setInt(&config.LinkBurst, c.LinkBurst)
	setString(&config.SMTPAddr, c.SMTPAddr)
	setString(&config.SMTPFrom, c.SMTPFrom)
	setString(&config.S3AccessKey, c.S3AccessKey)
	setString(&config.S3SecretKey, c.S3SecretKey)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	if c.PrivateBucket != nil {
		config.PrivateBucket = *c.PrivateBucket
	}
}
