package microservices

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Temutjin2k/fastlane/config"
	"github.com/Temutjin2k/fastlane/internal/adapter/http/handler"
	httpserver "github.com/Temutjin2k/fastlane/internal/adapter/http/server"
	wshandler "github.com/Temutjin2k/fastlane/internal/adapter/http/ws"
	"github.com/Temutjin2k/fastlane/internal/adapter/postgres"
	rabbitAdapter "github.com/Temutjin2k/fastlane/internal/adapter/rabbit"
	"github.com/Temutjin2k/fastlane/internal/service/auth"
	"github.com/Temutjin2k/fastlane/internal/service/drive"
	"github.com/Temutjin2k/fastlane/internal/service/trip"
	"github.com/Temutjin2k/fastlane/pkg/logger"
	postgresclient "github.com/Temutjin2k/fastlane/pkg/postgres"
	"github.com/Temutjin2k/fastlane/pkg/rabbit"
	"github.com/Temutjin2k/fastlane/pkg/trm"
	ws "github.com/Temutjin2k/fastlane/pkg/wsHub"
)

// Navigation serves trip planning, drives and snapshot streaming over HTTP and WebSocket.
type Navigation struct {
	postgresDB *postgresclient.PostgreDB
	rabbit     *rabbit.RabbitMQ
	catalogDB  *sql.DB
	httpServer *httpserver.API
	connHub    *ws.ConnectionHub
	drives     *drive.Service

	stopDrives context.CancelFunc

	cfg config.Config
	log logger.Logger
}

func NewNavigation(ctx context.Context, cfg config.Config, log logger.Logger) (_ *Navigation, err error) {
	s := &Navigation{
		cfg: cfg,
		log: log,
	}
	// release whatever was opened if a later step fails
	defer func() {
		if err != nil {
			s.close(ctx)
		}
	}()

	s.postgresDB, err = postgresclient.New(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	s.rabbit, err = rabbit.New(ctx, cfg.RabbitMQ.GetDSN(), log)
	if err != nil {
		return nil, err
	}

	producer := rabbitAdapter.NewDriveProducer(s.rabbit)
	if err = producer.Setup(); err != nil {
		return nil, err
	}

	catalog, catalogDB, err := openCatalog(ctx, cfg.Catalog, log)
	s.catalogDB = catalogDB
	if err != nil {
		return nil, err
	}

	// repositories
	tripRepo := postgres.NewTripRepo(s.postgresDB.Pool)
	driveRepo := postgres.NewDriveRepo(s.postgresDB.Pool)
	txManager := trm.New(s.postgresDB.Pool)

	// websocket
	s.connHub = ws.NewConnHub(log)
	tripHub := wshandler.NewTripHub(s.connHub)

	// services
	tokenSvc := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL, log)
	tripSvc := trip.NewService(tripRepo, catalog, txManager, log)

	driveCtx, stopDrives := context.WithCancel(context.WithoutCancel(ctx))
	s.stopDrives = stopDrives
	s.drives = drive.NewService(driveCtx, tripSvc, driveRepo, txManager, producer, tripHub, drive.Options{
		TickInterval:     cfg.Drive.TickInterval,
		StopOnArrival:    cfg.Drive.StopOnArrival,
		ProgressEvery:    cfg.Drive.ProgressEvery,
		PersistEvery:     cfg.Drive.PersistEvery,
		ArrivedRetention: cfg.Drive.ArrivedRetention,
	}, log)

	s.httpServer, err = httpserver.New(cfg, httpserver.Services{
		Tokens:  tokenSvc,
		Auth:    tokenSvc,
		Catalog: tripSvc,
		Trips:   tripSvc,
		Drives:  s.drives,
		Stream:  tripHub,
		Checks: map[string]handler.Check{
			"postgres": s.postgresDB.Pool.Ping,
			"rabbitmq": s.rabbitCheck,
		},
	}, log)
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Navigation) rabbitCheck(_ context.Context) error {
	if s.rabbit.IsConnectionClosed() {
		return errors.New("connection closed")
	}
	return nil
}

func (s *Navigation) Start(ctx context.Context) error {
	defer func() {
		s.close(ctx)
		s.log.Info(ctx, "navigation service closed")
	}()

	errCh := make(chan error, 1)
	s.httpServer.Run(ctx, errCh)

	// Waiting signal
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	s.log.Info(ctx, "service started", "addr", s.cfg.HTTP.Addr())
	select {
	case errRun := <-errCh:
		return errRun
	case sig := <-shutdownCh:
		s.log.Info(ctx, "shuting down application", "signal", sig.String())
		return nil
	case <-ctx.Done():
		return nil
	}
}

// close stops the HTTP server first so no new drives start, then the drives, then the clients.
func (s *Navigation) close(ctx context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second*10)
	defer cancel()

	if s.httpServer != nil {
		if err := s.httpServer.Stop(ctx); err != nil {
			s.log.Error(ctx, "failed to shutdown HTTP server", err)
		}
	}

	if s.drives != nil {
		s.drives.Shutdown(ctx)
	}
	if s.stopDrives != nil {
		s.stopDrives()
	}

	if s.connHub != nil {
		s.connHub.Close()
	}

	if s.rabbit != nil {
		if err := s.rabbit.Close(ctx); err != nil {
			s.log.Error(ctx, "failed to close rabbitmq", err)
		}
	}

	if s.catalogDB != nil {
		if err := s.catalogDB.Close(); err != nil {
			s.log.Error(ctx, "failed to close catalog db", err)
		}
	}

	s.postgresDB.Close()
}
