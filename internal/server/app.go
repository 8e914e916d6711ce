// Package server wires the account service together: configuration, storage
// backend, password hashing, token issuing, the gRPC endpoint and the metrics
// endpoint, and runs them until a shutdown signal arrives.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/authkeeper/internal/cryptox"
	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
	"github.com/dmitrijs2005/authkeeper/internal/server/config"
	"github.com/dmitrijs2005/authkeeper/internal/server/metrics"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/authkeeper/internal/server/services"

	gs "github.com/dmitrijs2005/authkeeper/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	repos       repomanager.RepositoryManager
	metrics     *metrics.Metrics
	issuer      *auth.Issuer
	userService *services.UserService
}

// NewApp validates c and builds every collaborator. Logs are written as JSON
// to w.
func NewApp(ctx context.Context, c *config.Config, w io.Writer) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	level, err := config.ParseLogLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := logging.NewJSONLogger(w, level)

	issuer, err := auth.NewIssuer([]byte(c.SecretKey), c.SigningAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("token issuer error: %w", err)
	}

	rm, err := repomanager.New(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if c.DatabaseDSN == "" {
		logger.Warn(ctx, "no database configured, accounts are kept in memory")
	}

	m := metrics.New()

	us, err := services.NewUserService(rm.Users(), cryptox.NewArgon2Hasher(cryptox.DefaultParams),
		issuer, c, logger, services.WithRecorder(m))
	if err != nil {
		_ = rm.Close()
		return nil, fmt.Errorf("user service init error: %w", err)
	}

	return &App{
		config:      c,
		logger:      logger,
		repos:       rm,
		metrics:     m,
		issuer:      issuer,
		userService: us,
	}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case sig := <-sigs:
			app.logger.Info(ctx, "Shutdown signal received", "signal", sig.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) error {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.userService, app.issuer, app.metrics)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "gRPC server failed", "error", err)
		cancelFunc()
		return err
	}
	return nil
}

func (app *App) startMetricsServer(ctx context.Context, cancelFunc context.CancelFunc) error {
	s := metrics.NewServer(app.config.EndpointAddrMetrics, app.metrics, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "metrics server failed", "error", err)
		cancelFunc()
		return err
	}
	return nil
}

// Run serves until ctx is cancelled, a shutdown signal arrives or one of the
// servers fails, then releases the storage backend.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	collect := func(err error) {
		if err != nil {
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
		}
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		collect(app.startGRPCServer(ctx, cancelFunc))
	}()

	if app.config.EndpointAddrMetrics != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			collect(app.startMetricsServer(ctx, cancelFunc))
		}()
	}

	wg.Wait()

	if err := app.repos.Close(); err != nil {
		collect(fmt.Errorf("db close error: %w", err))
	}

	app.logger.Info(context.Background(), "App stopped")

	return errors.Join(errs...)
}
