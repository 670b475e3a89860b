package config

import (
	"strings"

	"github.com/spf13/viper"
)

var (
	TLS_DOMAINS  = ""             // e.g. "example.com,example2.com"
	BIND_ADDRESS = "0.0.0.0:8080" // ignored when TLS_DOMAINS is set
	DEBUG_MODE   = true
	CORS_ORIGINS = "" // comma-separated, CORS is off when empty
	// Database: MySQL is used if MYSQL_DSN is set, then Postgres, then SQLite
	MYSQL_DSN    = ""
	POSTGRES_DSN = ""
	SQLITE_FILE  = "yatube.db"
	// Sessions
	SESSION_SECRET  = "change me, this is not a secret"
	SESSION_MAX_AGE = 14 * 86400
	LOGIN_URL       = "/auth/login/"
	// Feeds
	POSTS_PER_PAGE      = 10
	INDEX_CACHE_SECONDS = 20
	CACHE_BACKEND       = "memory" // or "redis"
	REDIS_ADDR          = "127.0.0.1:6379"
	REDIS_PASSWORD      = ""
	REDIS_DB            = 0
	// Media. S3 is used when S3_BUCKET is set, MEDIA_DIR otherwise
	MEDIA_DIR     = "media"
	S3_BUCKET     = ""
	S3_REGION     = "us-east-1"
	S3_ENDPOINT   = "" // for S3 compatible services
	S3_PREFIX     = ""
	S3_ACCESS_KEY = ""
	S3_SECRET_KEY = ""
	THUMB_SIZE    = 960
	// Misc
	LOGIN_RATE_PER_MINUTE       = 10
	SENTRY_DSN                  = ""
	OTEL_EXPORTER_OTLP_ENDPOINT = "" // e.g. "localhost:4318"
)

func init() {
	Load()
}

// Load (re)reads all settings from the optional yatube.* config file and the environment.
// Environment variables take precedence.
func Load() {
	v := viper.New()
	v.SetConfigName("yatube")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/yatube")
	_ = v.ReadInConfig() // the file is optional
	v.AutomaticEnv()

	readString(v, "TLS_DOMAINS", &TLS_DOMAINS)
	readString(v, "BIND_ADDRESS", &BIND_ADDRESS)
	readBool(v, "DEBUG_MODE", &DEBUG_MODE)
	readString(v, "CORS_ORIGINS", &CORS_ORIGINS)
	readString(v, "MYSQL_DSN", &MYSQL_DSN)
	readString(v, "POSTGRES_DSN", &POSTGRES_DSN)
	readString(v, "SQLITE_FILE", &SQLITE_FILE)
	readString(v, "SESSION_SECRET", &SESSION_SECRET)
	readInt(v, "SESSION_MAX_AGE", &SESSION_MAX_AGE)
	readString(v, "LOGIN_URL", &LOGIN_URL)
	readInt(v, "POSTS_PER_PAGE", &POSTS_PER_PAGE)
	readInt(v, "INDEX_CACHE_SECONDS", &INDEX_CACHE_SECONDS)
	readString(v, "CACHE_BACKEND", &CACHE_BACKEND)
	readString(v, "REDIS_ADDR", &REDIS_ADDR)
	readString(v, "REDIS_PASSWORD", &REDIS_PASSWORD)
	readInt(v, "REDIS_DB", &REDIS_DB)
	readString(v, "MEDIA_DIR", &MEDIA_DIR)
	readString(v, "S3_BUCKET", &S3_BUCKET)
	readString(v, "S3_REGION", &S3_REGION)
	readString(v, "S3_ENDPOINT", &S3_ENDPOINT)
	readString(v, "S3_PREFIX", &S3_PREFIX)
	readString(v, "S3_ACCESS_KEY", &S3_ACCESS_KEY)
	readString(v, "S3_SECRET_KEY", &S3_SECRET_KEY)
	readInt(v, "THUMB_SIZE", &THUMB_SIZE)
	readInt(v, "LOGIN_RATE_PER_MINUTE", &LOGIN_RATE_PER_MINUTE)
	readString(v, "SENTRY_DSN", &SENTRY_DSN)
	readString(v, "OTEL_EXPORTER_OTLP_ENDPOINT", &OTEL_EXPORTER_OTLP_ENDPOINT)

	if POSTS_PER_PAGE <= 0 {
		POSTS_PER_PAGE = 10
	}
}

func readString(v *viper.Viper, name string, value *string) {
	if !v.IsSet(name) {
		return
	}
	if s := v.GetString(name); s != "" {
		*value = s
	}
}

func readBool(v *viper.Viper, name string, value *bool) {
	if !v.IsSet(name) {
		return
	}
	s := strings.ToLower(v.GetString(name))
	if s == "true" || s == "1" || s == "yes" || s == "on" {
		*value = true
	} else if s == "false" || s == "0" || s == "no" || s == "off" {
		*value = false
	}
}

func readInt(v *viper.Viper, name string, value *int) {
	if !v.IsSet(name) {
		return
	}
	s := v.GetString(name)
	if s == "" {
		return
	}
	// viper returns 0 for values that fail to parse, keep the default then
	if i := v.GetInt(name); i != 0 || s == "0" {
		*value = i
	}
}
