package app

import (
	"context"
	"net/http"

	"github.com/shandysiswandi/goexemplar/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/goexemplar/internal/pkg/pkglog"
	"github.com/shandysiswandi/goexemplar/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/goexemplar/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/goexemplar/internal/pkg/pkguid"
)

type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	configPath string
	config     pkgconfig.Config

	// libraries
	uuid      pkguid.StringID
	snowflake pkguid.NumberID
	goroutine *pkgroutine.Manager

	// server
	router     *pkgrouter.Router
	httpServer *http.Server

	//
	closerFn map[string]func(context.Context) error
}

// New builds the service from the config file at configPath. An empty path
// picks the default location.
func New(configPath string) (*App, error) {
	pkglog.InitLogging()

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:        ctx,
		cancel:     cancel,
		configPath: configPath,
		closerFn:   map[string]func(context.Context) error{},
	}

	for _, step := range []func() error{
		app.initConfig,
		app.initLogFile,
		app.initLibraries,
		app.initHTTPServer,
		app.initModules,
	} {
		if err := step(); err != nil {
			cancel()
			app.closeResources(context.Background())
			return nil, err
		}
	}

	app.initClosers()

	return app, nil
}

// Handler exposes the root HTTP handler, CORS included.
func (a *App) Handler() http.Handler {
	return a.httpServer.Handler
}
