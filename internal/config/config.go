package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	ServerPort string
	JWTSecret  string

	GraderBaseURL  string
	GraderEmail    string
	GraderPassword string
	GraderTimeout  time.Duration

	DefaultNumOptions int

	Autosave   bool
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
}

func Load() *Config {
	return &Config{
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		JWTSecret:         getEnv("JWT_SECRET", "super-secret-key-change-me"),
		GraderBaseURL:     getEnv("GRADER_BASE_URL", "http://localhost:8000"),
		GraderEmail:       getEnv("GRADER_EMAIL", ""),
		GraderPassword:    getEnv("GRADER_PASSWORD", ""),
		GraderTimeout:     time.Duration(getEnvInt("GRADER_TIMEOUT", 120)) * time.Second,
		DefaultNumOptions: getEnvInt("DEFAULT_NUM_OPTIONS", 4),
		Autosave:          getEnvBool("AUTOSAVE", false),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", "postgres"),
		DBName:            getEnv("DB_NAME", "composer"),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	val := getEnv(key, "")
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		log.Printf("config: invalid %s=%q, using %d", key, val, fallback)
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	val := getEnv(key, "")
	if val == "" {
		return fallback
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		log.Printf("config: invalid %s=%q, using %t", key, val, fallback)
		return fallback
	}
	return b
}
