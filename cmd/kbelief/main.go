package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Ludeme/Ludii-sub013/internal/board"
	"github.com/Ludeme/Ludii-sub013/internal/engine"
	"github.com/Ludeme/Ludii-sub013/internal/replay"
	"github.com/Ludeme/Ludii-sub013/internal/storage"
)

var (
	transcript = flag.String("transcript", "", "read commands from file instead of stdin")
	dbPath     = flag.String("db", "", "snapshot database directory (\"default\" for the platform data dir)")
	threads    = flag.Int("threads", runtime.NumCPU(), "ranking worker goroutines")
	black      = flag.Bool("black", false, "start as Black")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	verbose    = flag.Bool("v", false, "debug logging")
)

func main() {
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create CPU profile")
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal().Err(err).Msg("could not start CPU profile")
		}
		defer pprof.StopCPUProfile()
		log.Info().Str("path", profilePath).Msg("CPU profiling enabled")
	}

	if err := run(); err != nil {
		log.Error().Err(err).Msg("session failed")
		pprof.StopCPUProfile()
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	owner := board.White
	if *black {
		owner = board.Black
	}
	opts := []replay.Option{
		replay.WithOwner(owner),
		replay.WithRanker(engine.NewRanker(*threads, engine.WithLogger(log.Logger))),
	}

	if *dbPath != "" {
		store, err := openStore(*dbPath)
		if err != nil {
			return err
		}
		defer store.Close()
		opts = append(opts, replay.WithStore(store))
	}

	var in io.Reader = os.Stdin
	if *transcript != "" {
		f, err := os.Open(*transcript)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	return replay.New(os.Stdout, opts...).Run(ctx, in)
}

func openStore(path string) (*storage.Storage, error) {
	if path == "default" {
		return storage.OpenDefault()
	}
	return storage.Open(path)
}
