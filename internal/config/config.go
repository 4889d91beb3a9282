package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultModels is the ordered candidate list used when GEMINI_MODELS is
// unset. The order is the preference order: the dispatcher tries them front
// to back and stops at the first success.
var DefaultModels = []string{
	"gemini-2.5-flash",
	"gemini-flash-latest",
	"gemini-2.0-flash-lite",
	"gemini-2.5-flash-lite",
	"gemini-pro-latest",
}

type Config struct {
	// Server
	Port string
	Env  string

	// Gemini AI
	GeminiAPIKey         string
	GeminiModels         []string
	GeminiAttemptTimeout int // seconds per candidate attempt

	// Chat endpoint rate limiting (0 = disabled)
	ChatRateLimit      int
	ChatRateWindowSecs int

	// Optional backing stores
	DatabaseURL string
	RedisURL    string

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port: getEnvOrDefault("PORT", "8080"),
		Env:  getEnvOrDefault("ENV", "development"),

		// Deliberately not required: the server still starts without a
		// key and reports a configuration error on each chat request.
		GeminiAPIKey:         os.Getenv("GEMINI_API_KEY"),
		GeminiModels:         getEnvAsListOrDefault("GEMINI_MODELS", DefaultModels),
		GeminiAttemptTimeout: getEnvAsIntOrDefault("GEMINI_ATTEMPT_TIMEOUT_SECONDS", 30),

		ChatRateLimit:      getEnvAsIntOrDefault("CHAT_RATE_LIMIT", 0),
		ChatRateWindowSecs: getEnvAsIntOrDefault("CHAT_RATE_WINDOW_SECONDS", 60),

		DatabaseURL: getEnvOrDefault("DATABASE_URL", ""),
		RedisURL:    getEnvOrDefault("REDIS_URL", ""),

		FrontendURL: getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
	}

	return cfg
}

// IsDevelopment reports whether diagnostic detail may be included in
// client-visible error bodies.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

// getEnvAsListOrDefault parses a comma-separated list, trimming whitespace
// and dropping empty entries. Falls back to defaultVal if the variable is
// unset or yields no entries.
func getEnvAsListOrDefault(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
