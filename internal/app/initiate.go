package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/shandysiswandi/goexemplar/internal/docs"
	"github.com/shandysiswandi/goexemplar/internal/pkg/pkglog"
	"github.com/shandysiswandi/goexemplar/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/goexemplar/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/goexemplar/internal/pkg/pkguid"
)

func (a *App) initConfig() error {
	cfg, err := LoadConfig(a.configPath)
	if err != nil {
		return err
	}

	a.config = cfg
	a.closerFn["Config"] = func(context.Context) error {
		return a.config.Close()
	}

	return nil
}

// initLogFile tees logs into log.dir when it is set.
func (a *App) initLogFile() error {
	dir := a.config.GetString("log.dir")
	if dir == "" {
		return nil
	}

	f, err := pkglog.OpenLogFile(dir, time.Now())
	if err != nil {
		return err
	}

	pkglog.InitLogging(os.Stdout, f)
	slog.Info("logging to file", "path", f.Name())

	a.closerFn["Log File"] = func(context.Context) error {
		return f.Close()
	}

	return nil
}

func (a *App) initLibraries() error {
	a.goroutine = pkgroutine.NewManager(100)
	a.uuid = pkguid.NewUUID()

	node, err := pkguid.NewSnowflake()
	if err != nil {
		return err
	}
	a.snowflake = node

	return nil
}

func (a *App) initHTTPServer() error {
	a.router = pkgrouter.NewRouter(a.uuid)

	a.router.Handle(http.MethodGet, "/swagger/*any", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("server.address.http"),
		Handler:           corsHandler.Handler(a.router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return nil
}

func (a *App) initClosers() {
	a.closerFn["HTTP Server"] = func(ctx context.Context) error {
		return a.httpServer.Shutdown(ctx)
	}
}
