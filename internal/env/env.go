package env

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type AppEnv string

const (
	EnvDevelopment AppEnv = "development"
	EnvProduction  AppEnv = "production"
)

// Init loads .env files into the process environment. Variables already set
// in the environment win over the file.
func Init(files ...string) {
	if err := godotenv.Load(files...); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("no .env file found")
			return
		}
		slog.Warn("failed to load .env file", "error", err)
		return
	}
	slog.Debug("environment variables loaded")
}

func GetString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func GetInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		i, err := strconv.Atoi(val)
		if err != nil {
			slog.Warn("env must be integer, using fallback", "key", key, "value", val, "fallback", fallback)
			return fallback
		}
		return i
	}
	return fallback
}

// GetDuration parses values such as "30s" or "2m".
func GetDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			slog.Warn("env must be a duration, using fallback", "key", key, "value", val, "fallback", fallback)
			return fallback
		}
		return d
	}
	return fallback
}

// GetList splits a comma separated value and drops empty entries.
func GetList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}

	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func GetAppEnv() AppEnv {
	if GetString("APP_ENV", string(EnvDevelopment)) == string(EnvProduction) {
		return EnvProduction
	}
	return EnvDevelopment
}
