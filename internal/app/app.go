package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Temutjin2k/fastlane/config"
	"github.com/Temutjin2k/fastlane/internal/app/microservices"
	"github.com/Temutjin2k/fastlane/internal/domain/types"
	"github.com/Temutjin2k/fastlane/pkg/logger"
)

var (
	ErrInvalidMode           = errors.New("invalid mode")
	ErrServiceNotInitialized = errors.New("service not initialized")
)

type Service interface {
	Start(ctx context.Context) error
}

type App struct {
	mode    types.ServiceMode
	service Service

	cfg config.Config
	log logger.Logger
}

// NewApplication builds the service selected by cfg.Mode. Simulate mode writes snapshots to out.
func NewApplication(ctx context.Context, cfg config.Config, out io.Writer, log logger.Logger) (*App, error) {
	if out == nil {
		out = os.Stdout
	}

	app := &App{
		mode: cfg.Mode,
		cfg:  cfg,
		log:  log,
	}

	if err := app.initService(ctx, app.mode, out); err != nil {
		return nil, err
	}

	return app, nil
}

func (a *App) Run(ctx context.Context) error {
	if a.service == nil {
		return ErrServiceNotInitialized
	}

	return a.service.Start(ctx)
}

func (a *App) initService(ctx context.Context, mode types.ServiceMode, out io.Writer) error {
	var (
		service Service
		err     error
	)
	switch mode {
	case types.NavService:
		service, err = microservices.NewNavigation(ctx, a.cfg, a.log)
	case types.SimulateMode:
		service, err = microservices.NewSimulation(ctx, a.cfg, out, a.log)
	default:
		return ErrInvalidMode
	}

	if err != nil {
		return fmt.Errorf("failed to init service: %w", err)
	}
	if service == nil {
		return fmt.Errorf("failed to initialize: %s", mode)
	}

	a.service = service

	return nil
}
