package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	app "github.com/rocketscienceinc/gridmatch-backend/internal"
	"github.com/rocketscienceinc/gridmatch-backend/internal/config"
)

// main - boots the gridmatch server: .env, config, logger, then the websocket and REST listeners.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	loadDotEnv()

	conf := initConfig()
	logger := initLogger(conf)

	if err := app.RunApp(logger, conf); err != nil {
		panic(fmt.Errorf("app run failed: %w", err))
	}
}

// loadDotEnv - a missing .env file is fine, values then come from the real environment.
func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(fmt.Errorf("failed to load .env: %w", err))
	}
}

// configPathEnv - overrides the location of config.yml.
const configPathEnv = "GRIDMATCH_CONFIG"

// initConfig - a missing file leaves every value to the environment.
func initConfig() *config.Config {
	if path := os.Getenv(configPathEnv); path != "" {
		return config.MustLoad(path)
	}

	baseDir, err := os.Getwd()
	if err != nil {
		panic(fmt.Errorf("failed to get current directory: %w", err))
	}

	return config.MustLoad(filepath.Join(baseDir, "./config.yml"))
}

func initLogger(conf *config.Config) *slog.Logger {
	var level slog.Level

	switch conf.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
