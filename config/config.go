package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultEnvFile is the dotenv file read by Load and watched by the server.
const DefaultEnvFile = ".env"

// Config stores the application configuration.
type Config struct {
	// Output locations for the generate command and the server's request directories.
	OutputDir string
	AudioFile string // e.g., "output.wav"
	SVGFile   string // e.g., "output.svg"

	// Click track
	SampleRate      int
	ClickDurationMs float64 // 0 means the style's default length
	ClickStyle      string  // "click" or "beep"
	NoiseSeed       uint64
	AccentEnabled   bool // accent the first beat of the measure

	// Request defaults
	DefaultBPM   int
	DefaultBeats int

	// Animation geometry
	Spacing           float64
	Offset            float64 // 0 means half the spacing
	Height            float64
	Radius            float64
	ResetAccentOnLoop bool

	Port string

	LogLevel      string
	LogFile       string // empty disables the rotated file output
	LogMaxSize    int    // megabytes
	LogMaxBackups int
	LogMaxAge     int // days
	LogCompress   bool
}

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

func getEnvUint64(key string, fallback uint64) uint64 {
	if value, exists := os.LookupEnv(key); exists {
		if v, err := strconv.ParseUint(value, 10, 64); err == nil {
			return v
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			return v
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if v, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return v
		}
	}
	return fallback
}

// Load loads configuration from environment variables (via .env file) or defaults.
func Load() *Config {
	// godotenv.Load() will not override existing env vars.
	if err := godotenv.Load(DefaultEnvFile); err != nil {
		log.Println("No .env file found or error loading .env, relying on existing environment variables and defaults.")
	}
	return fromEnv()
}

func fromEnv() *Config {
	outputDir := getEnv("OUTPUT_DIR", "tmp")

	return &Config{
		OutputDir:         outputDir,
		AudioFile:         getEnv("AUDIO_FILE", "output.wav"),
		SVGFile:           getEnv("SVG_FILE", "output.svg"),
		SampleRate:        getEnvInt("SAMPLE_RATE", 44100),
		ClickDurationMs:   getEnvFloat("CLICK_DURATION_MS", 0),
		ClickStyle:        getEnv("CLICK_STYLE", "click"),
		NoiseSeed:         getEnvUint64("NOISE_SEED", 0),
		AccentEnabled:     getEnvBool("ACCENT_ENABLED", true),
		DefaultBPM:        getEnvInt("DEFAULT_BPM", 120),
		DefaultBeats:      getEnvInt("DEFAULT_BEATS", 4),
		Spacing:           getEnvFloat("SVG_SPACING", 100),
		Offset:            getEnvFloat("SVG_OFFSET", 0),
		Height:            getEnvFloat("SVG_HEIGHT", 200),
		Radius:            getEnvFloat("SVG_RADIUS", 20),
		ResetAccentOnLoop: getEnvBool("RESET_ACCENT_ON_LOOP", false),
		Port:              getEnv("PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFile:           getEnv("LOG_FILE", filepath.Join("logs", "metronome.log")),
		LogMaxSize:        getEnvInt("LOG_MAX_SIZE", 100),
		LogMaxBackups:     getEnvInt("LOG_MAX_BACKUPS", 3),
		LogMaxAge:         getEnvInt("LOG_MAX_AGE", 28),
		LogCompress:       getEnvBool("LOG_COMPRESS", true),
	}
}

// OutputPaths returns where the generate command writes its two artifacts.
func (c *Config) OutputPaths() (audioPath, svgPath string) {
	return filepath.Join(c.OutputDir, c.AudioFile), filepath.Join(c.OutputDir, c.SVGFile)
}
