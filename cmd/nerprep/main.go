package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var version = "dev"

type config struct {
	OutputDir     string            `yaml:"output_dir"`
	Inputs        map[string]string `yaml:"inputs"`
	Encoding      string            `yaml:"encoding"`
	CleanerConfig string            `yaml:"cleaner_config"`
	LogLevel      string            `yaml:"log_level"`
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "convert":
		cmdConvert(os.Args[2:])
	case "clean":
		cmdClean(os.Args[2:])
	case "check":
		cmdCheck(os.Args[2:])
	case "list":
		cmdList()
	case "mcp":
		cmdMCP(os.Args[2:])
	case "version":
		fmt.Println(version)
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: nerprep <command>

Commands:
  convert   Rebuild entity tables from raw NER datasets
  clean     Clean text arguments or stdin lines
  check     Verify produced entity tables
  list      List dataset converters
  mcp       Serve the MCP tools over stdio
  version   Print the version
`)
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}

// loadConfig reads the YAML config at path, then applies .env and
// NERPREP_* environment overrides.
func loadConfig(path string) (config, *slog.Logger) {
	cfg := config{
		OutputDir: "data/intermediate",
		LogLevel:  "info",
	}

	_ = godotenv.Load()
	readErr := readConfig(path, &cfg)

	cfg.OutputDir = getEnv("NERPREP_OUTPUT_DIR", cfg.OutputDir)
	cfg.Encoding = getEnv("NERPREP_ENCODING", cfg.Encoding)
	cfg.CleanerConfig = getEnv("NERPREP_CLEANER_CONFIG", cfg.CleanerConfig)
	cfg.LogLevel = getEnv("NERPREP_LOG_LEVEL", cfg.LogLevel)

	logger := newLogger(cfg.LogLevel)
	switch {
	case os.IsNotExist(readErr):
		logger.Debug("no config file, using defaults", "path", path)
	case readErr != nil:
		logger.Error("load config", "path", path, "error", readErr)
		os.Exit(1)
	}
	return cfg, logger
}

func readConfig(path string, cfg *config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
