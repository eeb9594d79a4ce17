// Package server runs the storyboard HTTP API: it builds the session from
// configuration, serves it until a termination signal arrives and then
// shuts down gracefully and closes the journal.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/storyboard/internal/bootstrap"
	"github.com/dmitrijs2005/storyboard/internal/config"
	"github.com/dmitrijs2005/storyboard/internal/httpapi"
	"github.com/dmitrijs2005/storyboard/internal/logging"
	"github.com/gin-gonic/gin"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	runtime *bootstrap.Runtime
	server  *httpapi.Server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(os.Stdout, c.LogLevel, true)
	if c.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	return newApp(ctx, c, logger, bootstrap.Options{Confirmer: httpapi.Confirmer})
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger, opts bootstrap.Options) (*App, error) {
	rt, err := bootstrap.New(ctx, c, logger, opts)
	if err != nil {
		return nil, fmt.Errorf("session init error: %w", err)
	}

	var history httpapi.HistoryReader
	if rt.Journal != nil {
		history = rt.Journal
	}
	h := httpapi.NewHandler(rt.Session, rt.Keys, history, logger)

	return &App{
		config:  c,
		logger:  logger,
		runtime: rt,
		server:  httpapi.NewServer(c.HTTPAddr, h, logger),
	}, nil
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

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "session", app.runtime.Session.ID())

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.runtime.Close(); err != nil {
		app.logger.Error(ctx, "journal close failed", "error", err)
	}
	app.logger.Info(ctx, "Stopped")
}
