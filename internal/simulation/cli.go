package simulation

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/quantcoach/tempo/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to the console, and additionally to a
// file when requested. Passing "auto" generates a timestamped filename.
func SetupLogging(logFile string, verbose bool) error {
	var w io.Writer = os.Stdout

	if logFile != "" {
		if logFile == "auto" {
			timestamp := time.Now().Format("20060102_150405")
			logFile = "simulation_" + timestamp + ".log"
		}

		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
		if err != nil {
			return fmt.Errorf("failed to create log file: %w", err)
		}
		w = io.MultiWriter(os.Stdout, file)
	}

	if err := logger.Init(w); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	if logFile != "" {
		logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	}
	return nil
}

// ShowHelp prints usage information for the simulator.
func ShowHelp() {
	os.Stdout.WriteString(`Tempo Interview Simulator
=========================

Drives the interview engine through a synthetic interview and reports the
resulting coverage, difficulty trajectory, and selection distributions.

Usage:
  go run cmd/simulate/main.go [options]

Options:
  -id string
        Interview id (default: a generated UUID)
  -turns int
        Number of question/answer turns to play (default 15)
  -archetype string
        Candidate behavior: steady, strong, struggling, improving,
        volatile (default "steady")
  -seed int
        RNG seed; runs with the same seed repeat exactly (default 1)
  -pool string
        YAML question pool file (default: a generated pool)
  -pool-size int
        Size of the generated pool (default 30)
  -duration float
        Simulated interview length in minutes (default 45)
  -save-pool string
        Write the generated pool to this YAML file
  -log string
        Log file for run output ("auto" for a timestamped name)
  -verbose
        Enable debug logging
  -help
        Show this help message

Engine tunables are read from the environment (TEMPO_ prefix) and from the
YAML file named by TEMPO_CONFIG, e.g.:

  TEMPO_STARTING_DIFFICULTY=medium go run cmd/simulate/main.go -archetype strong

Examples:
  # Play a steady candidate with defaults
  go run cmd/simulate/main.go

  # A strong candidate over a longer interview, reproducibly
  go run cmd/simulate/main.go -archetype strong -turns 25 -seed 42

  # Replay a saved pool against a struggling candidate
  go run cmd/simulate/main.go -pool pool.yaml -archetype struggling
`)
}
