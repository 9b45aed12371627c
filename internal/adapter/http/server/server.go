package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Temutjin2k/fastlane/config"
	"github.com/Temutjin2k/fastlane/internal/adapter/http/handler"
	"github.com/Temutjin2k/fastlane/internal/adapter/http/middleware"
	"github.com/Temutjin2k/fastlane/pkg/logger"
	wrap "github.com/Temutjin2k/fastlane/pkg/logger/wrapper"
)

const serviceName = "nav-service"

type API struct {
	mux    *http.ServeMux
	server *http.Server
	routes *handlers
	m      *middleware.Middleware

	addr string
	cfg  config.Config
	log  logger.Logger
}

type handlers struct {
	health  *handler.Health
	auth    *handler.Auth
	catalog *handler.Catalog
	trip    *handler.Trip
	drive   *handler.Drive
}

// Services are the domain services the API serves.
type Services struct {
	Tokens  handler.TokenIssuer
	Auth    middleware.AuthService
	Catalog handler.CatalogService
	Trips   handler.TripService
	Drives  handler.DriveService
	Stream  handler.SnapshotStream
	Checks  map[string]handler.Check
}

func New(cfg config.Config, svc Services, log logger.Logger) (*API, error) {
	if svc.Auth == nil || svc.Tokens == nil {
		return nil, errors.New("auth service is required")
	}
	if svc.Catalog == nil || svc.Trips == nil || svc.Drives == nil || svc.Stream == nil {
		return nil, errors.New("catalog, trip, drive and stream services are required")
	}

	routes := &handlers{
		health:  handler.NewHealth(serviceName, svc.Checks, log),
		auth:    handler.NewAuth(svc.Tokens, log),
		catalog: handler.NewCatalog(svc.Catalog, log),
		trip:    handler.NewTrip(svc.Trips, log),
		drive:   handler.NewDrive(svc.Drives, svc.Trips, svc.Stream, log),
	}

	api := &API{
		mux:    http.NewServeMux(),
		routes: routes,
		m:      middleware.NewMiddleware(svc.Auth, log),
		addr:   cfg.HTTP.Addr(),
		cfg:    cfg,
		log:    log,
	}

	setupRoutes(api.mux, api.routes, api.m)

	api.server = &http.Server{
		Addr:              api.addr,
		Handler:           api.withMiddleware(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return api, nil
}

// Handler returns the full middleware chain, used by tests.
func (a *API) Handler() http.Handler {
	return a.server.Handler
}

func (a *API) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	ctx = wrap.WithAction(ctx, "http_server_stop")

	a.log.Debug(ctx, "shutting down HTTP server...", "address", a.addr)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	a.log.Debug(ctx, "shutting down HTTP server completed")

	return nil
}

func (a *API) Run(ctx context.Context, errCh chan<- error) {
	go func() {
		ctx = wrap.WithAction(ctx, "http_server_start")
		a.log.Info(ctx, "started http server", "address", a.addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start HTTP server: %w", err)
		}
	}()
}

// withMiddleware applies middlewares to the mux
func (a *API) withMiddleware() http.Handler {
	var h http.Handler = a.mux
	h = a.m.Auth(h)
	h = a.m.Logging(h)
	h = a.m.Metrics(serviceName)(h)
	h = a.m.RequestID(h)
	h = a.m.CORS(a.cfg.HTTP.Origins())(h)
	return a.m.Recover(h)
}
