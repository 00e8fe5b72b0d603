package main

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all runtime settings. Everything is overridable through the
// environment (ADDR, DATABASE_URL, JWT_SECRET, ...) with a .env file picked
// up for local development.
type Config struct {
	Addr           string
	DatabaseURL    string
	JWTSecret      string
	FeedLimit      int
	AllowedOrigins []string
	LogJSON        bool
	Debug          bool
}

const devJWTSecret = "dev_secret_change_in_production"

func loadConfig() *Config {
	// Best effort: a missing .env just means plain env vars are used.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("addr", ":8080")
	v.SetDefault("database_url", "")
	v.SetDefault("jwt_secret", devJWTSecret)
	v.SetDefault("feed_limit", 25)
	v.SetDefault("allowed_origins", "http://localhost:5173,http://localhost:3001")
	v.SetDefault("log_json", false)
	v.SetDefault("debug", false)

	return &Config{
		Addr:           v.GetString("addr"),
		DatabaseURL:    v.GetString("database_url"),
		JWTSecret:      v.GetString("jwt_secret"),
		FeedLimit:      v.GetInt("feed_limit"),
		AllowedOrigins: splitOrigins(v.GetString("allowed_origins")),
		LogJSON:        v.GetBool("log_json"),
		Debug:          v.GetBool("debug"),
	}
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
