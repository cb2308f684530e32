// Command leakdemo shows which containers release the values they no longer need.
//
// It pops values from a stack with and without clearing the vacated slots,
// and drops keys held by weak and capacity-bounded caches,
// then reports how many values the collector could actually reclaim.
package main

import (
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"github.com/spf13/pflag"

	"github.com/djdv/go-lifecycle/internal/config"
	"github.com/djdv/go-lifecycle/internal/logger"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "leakdemo:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var (
		fs         = pflag.NewFlagSet("leakdemo", pflag.ContinueOnError)
		configPath = fs.String("config", "", "Path to a YAML settings file.")
		objects    = fs.Int("objects", config.DefaultObjects, "Values allocated per scenario.")
		capacity   = fs.Int("capacity", config.DefaultCapacity, "Entry limit of the capacity-policy cache.")
		logOpts    logger.Options
	)
	logOpts.BindFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	applyFlags(fs, cfg, *objects, *capacity, &logOpts)
	if err := cfg.Validate(); err != nil {
		return err
	}
	log, err := logger.NewLogger(logOpts)
	if err != nil {
		return err
	}
	return report(log, cfg)
}

// applyFlags lets explicitly set flags override the file.
func applyFlags(fs *pflag.FlagSet, cfg *config.Config, objects, capacity int, logOpts *logger.Options) {
	if fs.Changed("objects") {
		cfg.Objects = objects
	}
	if fs.Changed("capacity") {
		cfg.Capacity = capacity
	}
	encoding, level := logger.Changed(fs)
	if !encoding {
		logOpts.LogEncoding = cfg.Log.Encoding
	}
	if !level {
		logOpts.LogLevel = cfg.Log.Level
	}
}

func report(log logr.Logger, cfg *config.Config) error {
	leaked, released, err := stackScenario(cfg.Objects)
	if err != nil {
		return err
	}
	log.Info("stack",
		"popped", cfg.Objects,
		"retainedWithoutClearing", leaked,
		"retainedWithClearing", released)

	remaining, err := weakScenario(log.WithName("weak"), cfg.Objects)
	if err != nil {
		return err
	}
	log.Info("weak cache",
		"inserted", cfg.Objects,
		"dropped", cfg.Objects/2,
		"remaining", remaining)

	evicted, err := capacityScenario(log.WithName("capacity"), cfg.Objects, cfg.Capacity)
	if err != nil {
		return err
	}
	log.Info("capacity cache",
		"inserted", cfg.Objects,
		"capacity", cfg.Capacity,
		"evicted", evicted)
	return nil
}
