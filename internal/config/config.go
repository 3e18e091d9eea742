package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Relay
	Addr          string
	Executable    string
	StaticDir     string
	Shell         string
	JournalDriver string
	JournalDSN    string

	// Client
	Endpoint  string
	MapID     string
	RadarType string
	Canvas    int

	LogLevel string
}

func Default() Config {
	return Config{
		Addr:       ":9001",
		Executable: "./target/release/radar",
		StaticDir:  "./frontend/static",
		Shell:      "./frontend/index.html",
		Endpoint:   "ws://localhost:9001/",
		MapID:      "de_nuke",
		RadarType:  "callouts",
		Canvas:     1024,
		LogLevel:   "info",
	}
}

// Load reads an optional .env file from the working directory, then the
// environment. A missing .env is fine; a malformed one is not.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv()
}

func FromEnv() (Config, error) {
	c := Default()
	str(&c.Addr, "RADAR_ADDR")
	str(&c.Executable, "RADAR_EXECUTABLE")
	str(&c.StaticDir, "RADAR_STATIC_DIR")
	str(&c.Shell, "RADAR_SHELL")
	str(&c.JournalDriver, "RADAR_JOURNAL_DRIVER")
	str(&c.JournalDSN, "RADAR_JOURNAL_DSN")
	str(&c.Endpoint, "RADAR_ENDPOINT")
	str(&c.MapID, "RADAR_MAP")
	str(&c.RadarType, "RADAR_TYPE")
	str(&c.LogLevel, "LOG_LEVEL")

	if v := os.Getenv("RADAR_CANVAS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("RADAR_CANVAS: invalid size %q", v)
		}
		c.Canvas = n
	}
	return c, nil
}

func str(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
