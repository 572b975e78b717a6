// Package config loads runtime settings from the environment and holds the
// domain constants shared by the services.
package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string

	RedisAddr     string
	RedisPassword string

	JWTSecret string
	JWTTTL    time.Duration

	AnalysisURL     string
	AnalysisTimeout time.Duration

	TelegramBotToken string
	StatsCron        string
	CORSOrigins      []string
}

// Load reads .env when present and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("WARN: no .env file loaded, using process environment")
	}

	return &Config{
		Port:             getEnv("PORT", "8080"),
		DatabaseURL:      getEnv("DATABASE_URL", "host=localhost user=user password=password dbname=grievancedb port=5432 sslmode=disable"),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		JWTSecret:        getEnv("JWT_SECRET", "changeme"),
		JWTTTL:           getDuration("JWT_TTL", 72*time.Hour),
		AnalysisURL:      getEnv("ANALYSIS_URL", "http://localhost:8000"),
		AnalysisTimeout:  getDuration("ANALYSIS_TIMEOUT", DefaultAnalysisTimeout),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		StatsCron:        getEnv("STATS_CRON", "0 */5 * * * *"),
		CORSOrigins:      splitList(getEnv("CORS_ORIGINS", "*")),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("WARN: invalid duration %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
