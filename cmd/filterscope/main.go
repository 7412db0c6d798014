package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	ossignal "os/signal"
	"syscall"

	"github.com/RyanBlaney/filterscope/algorithms/spectral"
	"github.com/RyanBlaney/filterscope/compare"
	"github.com/RyanBlaney/filterscope/config"
	"github.com/RyanBlaney/filterscope/ingest"
	"github.com/RyanBlaney/filterscope/logging"
	"github.com/RyanBlaney/filterscope/report"
)

func main() {
	var (
		cfgFile string
		outDir  string
		format  string
		workers int
		debug   bool
	)
	flag.StringVar(&cfgFile, "config", "filterscope.yaml", "Path to the batch configuration file")
	flag.StringVar(&outDir, "out", "", "Override the output directory from the config")
	flag.StringVar(&format, "format", "", "Override the artifact format (json or msgpack)")
	flag.IntVar(&workers, "workers", 0, "Override the number of jobs run at once")
	flag.BoolVar(&debug, "debug", false, "Enable debug logging")
	flag.Parse()

	os.Exit(run(cfgFile, outDir, format, workers, debug))
}

func run(cfgFile, outDir, format string, workers int, debug bool) int {
	zl, err := logging.NewZapLogger(debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer zl.Sync()
	logging.SetGlobalLogger(zl)

	cfg, err := config.Load(cfgFile)
	if err != nil {
		logging.Error(err, "Could not load configuration", logging.Fields{"config": cfgFile})
		return 1
	}

	if outDir != "" {
		cfg.OutputDir = outDir
	}
	if format != "" {
		cfg.Format = format
	}
	if workers > 0 {
		cfg.Workers = workers
	}
	if err := cfg.Validate(); err != nil {
		logging.Error(err, "Invalid configuration")
		return 1
	}
	if !debug && cfg.LogLevel != "" {
		logging.SetLevel(logging.ParseLevel(cfg.LogLevel))
	}

	jobs, err := cfg.Jobs()
	if err != nil {
		logging.Error(err, "Could not build jobs")
		return 1
	}

	ctx, stop := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := compare.NewRunner(
		ingest.NewLoader(cfg.LoaderConfig()),
		spectral.NewAnalyzer(),
		report.NewFileReporter(cfg.OutputDir, cfg.ReportFormat()),
		compare.WithWorkers(cfg.Workers),
	)

	failed := 0
	for _, o := range runner.RunBatch(ctx, jobs) {
		if o.Err != nil {
			failed++
			continue
		}
		fmt.Println(o.Artifact)
	}

	if failed > 0 {
		logging.Warn("Some comparisons failed", logging.Fields{
			"failed": failed,
			"total":  len(jobs),
		})
		return 1
	}
	return 0
}
