package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/agalitsyn/flagutils"
	"github.com/agalitsyn/secret"

	"github.com/agalitsyn/dailyflow/version"
)

const EnvPrefix = "DAILYFLOW"

type Config struct {
	Debug bool

	Log struct {
		Level string
	}

	Token  secret.String
	DBPath string

	UpdateTimeout     int
	MessagesPerSecond float64
	ViewCacheSize     int

	// SettingsPath points to an optional yaml file with deployment defaults.
	SettingsPath string
}

func (c Config) String() string {
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stdout, err)
		os.Exit(0)
	}
	return string(b)
}

// parseLogLevel reports whether debug logging is on. lgr only distinguishes
// debug output from the rest, so other levels are rejected.
func parseLogLevel(level string) (bool, error) {
	switch strings.ToLower(level) {
	case "debug":
		return true, nil
	case "info", "":
		return false, nil
	default:
		return false, fmt.Errorf("unsupported log level %q, expected debug or info", level)
	}
}

func ParseFlags() Config {
	var cfg Config

	printVersion := flag.Bool("version", false, "Show version.")
	logLevel := flag.String("log-level", "info", "Log level (debug | info).")
	token := flag.String("token", "", "Telegram bot token.")
	flag.StringVar(&cfg.DBPath, "db-path", "dailyflow.db", "Path to the SQLite database.")
	flag.IntVar(&cfg.UpdateTimeout, "update-timeout", 60, "Long polling timeout in seconds.")
	flag.Float64Var(&cfg.MessagesPerSecond, "messages-per-second", 25, "Outgoing message rate limit.")
	flag.IntVar(&cfg.ViewCacheSize, "view-cache-size", 256, "Number of computed task views kept in memory.")
	flag.StringVar(&cfg.SettingsPath, "settings", "", "Path to a yaml file with timezone and default priority settings.")

	flagutils.Prefix = EnvPrefix
	flagutils.Parse()
	flag.Parse()

	debug, err := parseLogLevel(*logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	cfg.Log.Level = strings.ToLower(*logLevel)
	cfg.Debug = debug

	cfg.Token = secret.NewString(*token)

	if *printVersion {
		fmt.Fprintln(os.Stdout, version.String())
		os.Exit(0)
	}

	return cfg
}
