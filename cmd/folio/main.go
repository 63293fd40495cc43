package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hpungsan/folio/internal/config"
	"github.com/hpungsan/folio/internal/logging"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// baseDir is where config.json and the stand-in backend's database live.
func baseDir() (string, error) {
	if dir := os.Getenv("FOLIO_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".folio"), nil
}

func main() {
	// Help and version need no config.
	if isHelpOrVersion() {
		app := newCLIApp(&appEnv{cfg: config.DefaultConfig(), log: logging.Nop()})
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	dir, err := baseDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(logging.Options{FilePath: cfg.LogFile, Dev: cfg.LogDev})
	defer log.Sync()

	args := os.Args
	// Piped stdin with no command means an MCP client launched us.
	if len(args) < 2 && !isTerminal() {
		args = append(args, "mcp")
	}

	app := newCLIApp(&appEnv{cfg: cfg, baseDir: dir, log: log})
	if err := app.Run(args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		log.Sync()
		os.Exit(1)
	}
}
