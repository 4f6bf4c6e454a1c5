// Package config gathers the service settings. A .env file, if there
// is one, goes into the environment first, then come the PDBNEAR_
// variables and finally command line flags.
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/andrew-torda/pdbnear/pkg/nearby"
)

type Config struct {
	Addr        string
	LogLevel    string
	Radius      float64
	Workers     int
	MaxSessions int
	DotEnv      bool // a .env file was read
}

// FromEnv reads the environment only. Values that do not parse are
// replaced by the default.
func FromEnv() Config {
	return Config{
		Addr:        getEnv("PDBNEAR_ADDR", ":8085"),
		LogLevel:    getEnv("PDBNEAR_LOG_LEVEL", "info"),
		Radius:      getFloat("PDBNEAR_RADIUS", 3.0),
		Workers:     getInt("PDBNEAR_WORKERS", 1),
		MaxSessions: getInt("PDBNEAR_MAX_SESSIONS", 128),
	}
}

// Load reads the .env files (default ".env"), then the environment,
// then lets the flags in args override it all. A missing .env is not
// an error. Variables already set in the environment win over the
// .env file.
func Load(fs *flag.FlagSet, args []string, envFiles ...string) (Config, error) {
	err := godotenv.Load(envFiles...)
	cfg := FromEnv()
	cfg.DotEnv = err == nil

	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug|info|warn|error")
	fs.Float64Var(&cfg.Radius, "r", cfg.Radius, "neighbour radius in Å")
	fs.IntVar(&cfg.Workers, "w", cfg.Workers, "goroutines per scan")
	fs.IntVar(&cfg.MaxSessions, "max-sessions", cfg.MaxSessions, "sessions kept before the oldest is dropped")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	return cfg, cfg.Check()
}

// Check says if the values make sense.
func (c Config) Check() error {
	if err := nearby.CheckRadius(c.Radius); err != nil {
		return err
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers %d: need at least one", c.Workers)
	}
	if c.MaxSessions < 1 {
		return fmt.Errorf("max sessions %d: need at least one", c.MaxSessions)
	}
	return nil
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(k string, def float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
