package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/quantcoach/tempo/internal/config"
	"github.com/quantcoach/tempo/internal/simulation"
	"github.com/quantcoach/tempo/pkg/logger"
)

// Default configuration constants.
const (
	defaultTurns      = 15
	defaultPoolSize   = 30
	defaultSeed       = 1
	defaultDuration   = 45.0
	defaultRunTimeout = 5 * time.Minute
)

func main() {
	var (
		interviewID = flag.String("id", "", "Interview id (default: a generated UUID)")
		turns       = flag.Int("turns", defaultTurns, "Number of question/answer turns to play")
		archetype   = flag.String("archetype", "steady", "Candidate behavior: steady, strong, struggling, improving, volatile")
		seed        = flag.Int64("seed", defaultSeed, "RNG seed; runs with the same seed repeat exactly")
		poolFile    = flag.String("pool", "", "YAML question pool file (default: a generated pool)")
		poolSize    = flag.Int("pool-size", defaultPoolSize, "Size of the generated pool")
		duration    = flag.Float64("duration", defaultDuration, "Simulated interview length in minutes")
		savePool    = flag.String("save-pool", "", "Write the generated pool to this YAML file")
		logFile     = flag.String("log", "", "Log file for run output (\"auto\" for a timestamped name)")
		verbose     = flag.Bool("verbose", false, "Enable debug logging")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		simulation.ShowHelp()
		return
	}

	if err := simulation.SetupLogging(*logFile, *verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	engine, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("Failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if !*verbose {
		if err := logger.SetLevelString(engine.LogLevel); err != nil {
			os.Stderr.WriteString("Invalid log level: " + err.Error() + "\n")
			os.Exit(1)
		}
	}

	runArchetype, err := simulation.ParseArchetype(*archetype)
	if err != nil {
		os.Stderr.WriteString("Invalid archetype: " + err.Error() + "\n")
		os.Exit(1)
	}

	cfg := &simulation.Config{
		InterviewID:     *interviewID,
		Turns:           *turns,
		Archetype:       runArchetype,
		Seed:            *seed,
		PoolFile:        *poolFile,
		PoolSize:        *poolSize,
		SavePool:        *savePool,
		DurationMinutes: *duration,
		LogFile:         *logFile,
		Verbose:         *verbose,
		Engine:          engine,
	}

	if _, err := simulation.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("Simulation failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
