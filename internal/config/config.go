package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/samber/lo"
)

// Config stores the editor configuration. Every field comes from the
// environment (optionally a .env file) with a default.
type Config struct {
	FPS                  int
	TotalFrames          int
	Width                int
	Height               int
	CellsPerSecond       float64
	DragCellsPerSecond   float64
	PlaybackRates        []float64
	LogFile              string
	LogLevel             string
	MPVPath              string
	StorageURL           string
	StorageBucket        string
	NotificationLifetime time.Duration
}

var defaultRates = []float64{0.5, 1, 1.5, 2}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt gets an environment variable as int or returns a default value.
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

// getEnvFloats parses a comma separated list. Any bad entry falls back to
// the whole default list.
func getEnvFloats(key string, fallback []float64) []float64 {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return fallback
	}
	var out []float64
	for _, part := range strings.Split(value, ",") {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil || f <= 0 {
			return fallback
		}
		out = append(out, f)
	}
	return lo.Uniq(out)
}

func defaultLogFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "robomovie", "robomovie.log")
	}
	return filepath.Join(home, ".robomovie", "robomovie.log")
}

// Load loads configuration from environment variables (via .env file) or
// defaults. A missing .env file is not an error.
func Load() *Config {
	_ = godotenv.Load()
	return fromEnv()
}

func fromEnv() *Config {
	return &Config{
		FPS:                  getEnvInt("ROBOMOVIE_FPS", 30),
		TotalFrames:          getEnvInt("ROBOMOVIE_TOTAL_FRAMES", 150),
		Width:                getEnvInt("ROBOMOVIE_WIDTH", 1920),
		Height:               getEnvInt("ROBOMOVIE_HEIGHT", 1080),
		CellsPerSecond:       getEnvFloat("ROBOMOVIE_CELLS_PER_SECOND", 4),
		DragCellsPerSecond:   getEnvFloat("ROBOMOVIE_DRAG_CELLS_PER_SECOND", 0),
		PlaybackRates:        getEnvFloats("ROBOMOVIE_PLAYBACK_RATES", defaultRates),
		LogFile:              getEnv("ROBOMOVIE_LOG_FILE", defaultLogFile()),
		LogLevel:             getEnv("ROBOMOVIE_LOG_LEVEL", "info"),
		MPVPath:              getEnv("ROBOMOVIE_MPV", "mpv"),
		StorageURL:           getEnv("ROBOMOVIE_STORAGE_URL", ""),
		StorageBucket:        getEnv("ROBOMOVIE_STORAGE_BUCKET", "scenes"),
		NotificationLifetime: time.Duration(getEnvInt("ROBOMOVIE_NOTIFY_MS", 2000)) * time.Millisecond,
	}
}

// Aspect is the canvas width over height.
func (c *Config) Aspect() float64 {
	if c.Width <= 0 || c.Height <= 0 {
		return 16.0 / 9.0
	}
	return float64(c.Width) / float64(c.Height)
}
