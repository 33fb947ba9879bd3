// Package server initializes and runs the Anniv account server: it opens the
// database, applies migrations, wires the services and runs the HTTP API
// and the gRPC health endpoint until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/anniv/internal/common"
	"github.com/dmitrijs2005/anniv/internal/filex"
	"github.com/dmitrijs2005/anniv/internal/logging"
	"github.com/dmitrijs2005/anniv/internal/server/config"
	"github.com/dmitrijs2005/anniv/internal/server/credentials"
	"github.com/dmitrijs2005/anniv/internal/server/dialect"
	"github.com/dmitrijs2005/anniv/internal/server/features"
	"github.com/dmitrijs2005/anniv/internal/server/httpapi"
	"github.com/dmitrijs2005/anniv/internal/server/metrics"
	"github.com/dmitrijs2005/anniv/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/anniv/internal/server/services"
	"github.com/dmitrijs2005/anniv/internal/server/sessions"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	gs "github.com/dmitrijs2005/anniv/internal/server/grpc"
)

type App struct {
	config        *config.Config
	logger        logging.Logger
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	userService   *services.UserService
	inviteService *services.InviteService
	sessions      *sessions.Manager
	closers       []io.Closer
}

// NewApp opens and migrates the database and builds the services.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	d, err := dialect.ForDriver(c.DatabaseDriver)
	if err != nil {
		return nil, err
	}
	if d.Name() == config.DriverSQLite {
		if err := filex.EnsureParentDir(c.DatabaseDSN); err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
	}

	db, err := dialect.Open(ctx, d, c.DatabaseDSN, c.DatabaseMaxConnections)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	app := &App{config: c, logger: logger, db: db, closers: []io.Closer{db}}

	rm := repomanager.NewRepositoryManager(d)
	app.repomanager = rm
	if err := rm.RunMigrations(ctx, db); err != nil {
		app.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	backend, err := app.sessionBackend(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.sessions = sessions.NewManager(backend, c.SessionTTL, c.SessionSecureCookie)

	app.userService = services.NewUserService(db, rm, features.NewSet(c.Features...),
		credentials.NewCodec(c.BcryptCost, credentials.WithTOTPWindow(c.TOTPWindow)), logger)
	app.inviteService = services.NewInviteService(db, rm, logger)

	logger.Info(ctx, "database ready", "driver", rm.Dialect().Name(), "features", c.Features)
	return app, nil
}

func (app *App) sessionBackend(ctx context.Context) (sessions.Backend, error) {
	switch app.config.SessionBackend {
	case config.SessionRedis:
		b, err := sessions.NewRedisBackendFromURL(ctx, app.config.RedisURL, app.config.SessionTTL)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, b)
		return b, nil
	default:
		return sessions.NewJWTBackend([]byte(app.config.SessionSecret), app.config.SessionTTL), nil
	}
}

// Invites exposes out-of-band invite creation for the admin command.
func (app *App) Invites() *services.InviteService {
	return app.inviteService
}

// Close releases the database and session store connections.
func (app *App) Close() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i].Close(); err != nil {
			app.logger.Warn(context.Background(), "close", "error", err)
		}
	}
	app.closers = nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) handler() *httpapi.Handler {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg, httpapi.Routes...)

	info := httpapi.SiteInfo{
		Name:            app.config.SiteName,
		Description:     app.config.SiteDescription,
		ProtocolVersion: common.ProtocolVersion,
		Features:        app.userService.Features().Names(),
	}
	return httpapi.NewHandler(app.userService, app.sessions, m, info, app.logger)
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewServer(app.config.HTTPAddr, app.handler().Routes(), app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewHealthServer(app.config.GRPCAddr, app.logger, app.db)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a shutdown signal arrives, then
// closes the app.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	if app.config.GRPCAddr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startGRPCServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()
	app.Close()
	app.logger.Info(context.Background(), "App stopped")
}
