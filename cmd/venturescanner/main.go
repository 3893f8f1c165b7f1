package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"VentureScanner/internal/app"
	"VentureScanner/internal/config"
	"VentureScanner/internal/domain"
	"VentureScanner/internal/logging"
)

// main only translates run's result into an exit code so deferred cleanup
// inside run always happens before the process exits.
func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := flag.NewFlagSet("venturescanner", flag.ContinueOnError)
	inputPath := flags.String("input", "", "path to a JSON file with the business idea input")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	raw, err := readInput(*inputPath)
	if err != nil {
		logger.Error("cannot read input", "error", err)
		return 1
	}

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("cannot build application", "error", err)
		return 1
	}
	defer func() {
		if err := application.Close(); err != nil {
			logger.Warn("shutdown incomplete", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	snapshot, runErr := application.Run(ctx, raw)

	printed, err := json.MarshalIndent(snapshot, "", "  ")
	if err == nil {
		fmt.Println(string(printed))
	}

	if runErr != nil {
		logger.Error("run failed", "run_id", snapshot.RunID, "error", runErr)
		return 1
	}
	logger.Info("run completed", "run_id", snapshot.RunID, "progress", snapshot.Progress)
	return 0
}

// readInput decodes the raw input from the given file, or from stdin when no
// path is supplied.
func readInput(path string) (domain.RawInput, error) {
	var raw domain.RawInput

	source := os.Stdin
	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return domain.RawInput{}, fmt.Errorf("open input: %w", err)
		}
		defer file.Close()
		source = file
	}

	if err := json.NewDecoder(source).Decode(&raw); err != nil {
		return domain.RawInput{}, fmt.Errorf("decode input: %w", err)
	}
	return raw, nil
}
