// Package config holds the server's runtime settings.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Addr                string        `json:"addr"`
	AllowOrigins        string        `json:"allow_origins"`
	ClockTime           time.Duration `json:"clock_time"`
	MatchmakingInterval time.Duration `json:"matchmaking_interval"`
	WSReadBufferSize    int           `json:"ws_read_buffer_size"`
	WSWriteBufferSize   int           `json:"ws_write_buffer_size"`
	LogLevel            string        `json:"log_level"`
}

func Default() Config {
	return Config{
		Addr:                ":3000",
		AllowOrigins:        "http://localhost:5173",
		ClockTime:           600 * time.Second,
		MatchmakingInterval: time.Second,
		WSReadBufferSize:    1024,
		WSWriteBufferSize:   1024,
		LogLevel:            "info",
	}
}

// Origins splits AllowOrigins into the list the websocket upgrader expects.
func (c Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func (c Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: empty listen address", ErrInvalidConfig)
	case len(c.Origins()) == 0:
		return fmt.Errorf("%w: no allowed origins", ErrInvalidConfig)
	case c.ClockTime <= 0:
		return fmt.Errorf("%w: clock time must be positive", ErrInvalidConfig)
	case c.MatchmakingInterval <= 0:
		return fmt.Errorf("%w: matchmaking interval must be positive", ErrInvalidConfig)
	case c.WSReadBufferSize <= 0 || c.WSWriteBufferSize <= 0:
		return fmt.Errorf("%w: websocket buffer sizes must be positive", ErrInvalidConfig)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.LogLevel)
	}
	return nil
}

// Load starts from Default, applies CHESS_* environment variables and then
// command-line flags, so flags win over the environment.
func Load(args []string, getenv func(string) string) (Config, error) {
	cfg := Default()
	if getenv == nil {
		getenv = os.Getenv
	}
	if err := cfg.applyEnv(getenv); err != nil {
		return Config{}, err
	}

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	fs.StringVar(&cfg.AllowOrigins, "origins", cfg.AllowOrigins, "comma separated allowed origins")
	fs.DurationVar(&cfg.ClockTime, "clock", cfg.ClockTime, "initial time on each player's clock")
	fs.DurationVar(&cfg.MatchmakingInterval, "match-interval", cfg.MatchmakingInterval, "matchmaking queue poll interval")
	fs.IntVar(&cfg.WSReadBufferSize, "ws-read-buffer", cfg.WSReadBufferSize, "websocket read buffer size")
	fs.IntVar(&cfg.WSWriteBufferSize, "ws-write-buffer", cfg.WSWriteBufferSize, "websocket write buffer size")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("CHESS_ADDR"); v != "" {
		c.Addr = v
	}
	if v := getenv("CHESS_ALLOW_ORIGINS"); v != "" {
		c.AllowOrigins = v
	}
	if v := getenv("CHESS_LOG_LEVEL"); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"CHESS_CLOCK_TIME", &c.ClockTime},
		{"CHESS_MATCHMAKING_INTERVAL", &c.MatchmakingInterval},
	}
	for _, d := range durations {
		v := getenv(d.key)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, d.key, err)
		}
		*d.dst = parsed
	}
	ints := []struct {
		key string
		dst *int
	}{
		{"CHESS_WS_READ_BUFFER", &c.WSReadBufferSize},
		{"CHESS_WS_WRITE_BUFFER", &c.WSWriteBufferSize},
	}
	for _, i := range ints {
		v := getenv(i.key)
		if v == "" {
			continue
		}
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, i.key, err)
		}
		*i.dst = parsed
	}
	return nil
}
