package main

import (
	"context"
	"flag"
	"os"

	_ "github.com/Temutjin2k/fastlane/docs"

	"github.com/Temutjin2k/fastlane/config"
	"github.com/Temutjin2k/fastlane/internal/app"
	"github.com/Temutjin2k/fastlane/internal/domain/types"
	"github.com/Temutjin2k/fastlane/pkg/logger"
)

var (
	helpFlag   = flag.Bool("help", false, "Show help message")
	configPath = flag.String("config-path", "config.yaml", "Path to the config yaml file")
)

func main() {
	flag.Parse()
	if *helpFlag {
		config.PrintHelp(os.Stdout)
		return
	}

	ctx := context.Background()
	log := logger.InitLogger("fastlane", logger.LevelInfo)

	cfg, err := config.NewConfig(*configPath)
	if err != nil {
		log.Error(ctx, "failed to configure application", err)
		config.PrintHelp(os.Stderr)
		os.Exit(2)
	}

	// simulate mode owns stdout for snapshots
	if cfg.Mode == types.SimulateMode {
		log = logger.New(os.Stderr, cfg.Mode.String(), cfg.Log.Level)
	} else {
		log = logger.InitLogger(cfg.Mode.String(), cfg.Log.Level)
		config.PrintConfig(os.Stdout, cfg)
	}

	application, err := app.NewApplication(ctx, *cfg, os.Stdout, log)
	if err != nil {
		log.Error(ctx, "failed to init application", err)
		os.Exit(1)
	}

	if err = application.Run(ctx); err != nil {
		log.Error(ctx, "failed to run application", err)
		os.Exit(1)
	}
}
