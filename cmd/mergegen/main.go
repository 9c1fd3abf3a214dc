// Command mergegen writes source tensors and golden merge outputs for the
// channel, width and batch merge tests. Run without flags it writes the
// default fixture set into the working directory.
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/23skdu/longbow-mergegen/internal/arrowio"
	"github.com/23skdu/longbow-mergegen/internal/config"
	"github.com/23skdu/longbow-mergegen/internal/flightsrv"
	"github.com/23skdu/longbow-mergegen/internal/generate"
	"github.com/23skdu/longbow-mergegen/internal/logger"
	"github.com/23skdu/longbow-mergegen/internal/metrics"
	"github.com/23skdu/longbow-mergegen/internal/scenario"
)

func main() {
	cfg := config.Default()
	low, high := float64(cfg.Low), float64(cfg.High)
	var scenarios string

	flag.StringVar(&cfg.OutDir, "out", cfg.OutDir, "Directory to write fixtures into")
	flag.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed (0 seeds from the clock)")
	flag.Float64Var(&low, "low", low, "Inclusive lower bound of sampled values")
	flag.Float64Var(&high, "high", high, "Exclusive upper bound of sampled values")
	flag.StringVar(&scenarios, "scenarios", "", "Comma separated scenarios to run (channel,width,batch); empty runs all")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flag.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (console or json)")
	flag.StringVar(&cfg.MetricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile after generation")
	flag.StringVar(&cfg.ArrowFile, "arrow", "", "Also write all fixtures to this Arrow IPC file")
	flag.StringVar(&cfg.ServeAddr, "serve", "", "Serve fixtures over Arrow Flight on this address until interrupted")
	flag.Parse()

	cfg.Low, cfg.High = float32(low), float32(high)
	cfg.Scenarios = config.ParseScenarios(scenarios)

	logger.Setup(cfg.LogLevel, cfg.LogFormat)
	if err := cfg.Validate(); err != nil {
		logger.Log.Error("invalid configuration", "err", err)
		os.Exit(2)
	}

	if err := run(cfg); err != nil {
		logger.Log.Error("generation failed", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	gen, err := generate.NewRange(cfg.Seed, cfg.Low, cfg.High)
	if err != nil {
		return err
	}
	if !cfg.Deterministic() {
		logger.Log.Warn("no seed given, fixtures will differ between runs", "seed", gen.Seed())
	}

	selected, err := scenario.Select(scenario.Defaults(), cfg.Scenarios)
	if err != nil {
		return err
	}

	m, err := scenario.NewRunner(cfg.OutDir, gen).Run(selected)
	if err != nil {
		return err
	}
	logger.Log.Info("generation complete",
		"out", cfg.OutDir,
		"seed", gen.Seed(),
		"fixtures", len(m.Fixtures),
		"bytes", metrics.TotalBytes(),
	)

	if cfg.ArrowFile != "" {
		if err := arrowio.WriteFile(cfg.ArrowFile, m); err != nil {
			return err
		}
		logger.Log.Info("wrote arrow sidecar", "file", cfg.ArrowFile)
	}
	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			return err
		}
	}
	if cfg.ServeAddr != "" {
		return serve(cfg.ServeAddr, m)
	}
	return nil
}

func serve(addr string, m *scenario.Manifest) error {
	srv := flightsrv.NewServer(m)
	if err := srv.Listen(addr); err != nil {
		return err
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Log.Info("shutting down", "signal", sig.String())
		srv.Shutdown()
	}()

	return srv.Serve()
}
