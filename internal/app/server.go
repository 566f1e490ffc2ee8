package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/shandysiswandi/goexemplar/internal/pkg/pkglog"
)

// Start serves HTTP in the background. The returned channel closes on
// SIGINT, SIGTERM or SIGHUP, or when the listener fails.
func (a *App) Start() <-chan struct{} {
	done := make(chan struct{})
	sigCtx, stop := signal.NotifyContext(a.ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		slog.Info("http server listening", "address", a.httpServer.Addr)

		if err := a.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to listen and serve http server", "error", err)
			stop()
		}
	}()

	go func() {
		<-sigCtx.Done()
		stop()

		if a.cancel != nil {
			a.cancel()
		}
		close(done)

		slog.Info("application gracefully shutdown")
	}()

	return done
}

func (a *App) Stop(ctx context.Context) {
	if a.cancel != nil {
		a.cancel()
	}

	if err := a.httpServer.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to close resources", "name", "HTTP Server", "error", err)
	}

	slog.InfoContext(ctx, "waiting for all goroutine to finish")
	if err := a.goroutine.Wait(); err != nil {
		slog.ErrorContext(ctx, "error from goroutines executions", "error", err)
	}
	slog.InfoContext(ctx, "all goroutines have finished successfully")

	a.closeResources(ctx)
}

// closeResources runs every closer except the HTTP server. The log file goes
// last so the other closers can still log.
func (a *App) closeResources(ctx context.Context) {
	for name, closer := range a.closerFn {
		if name == "HTTP Server" || name == "Log File" {
			continue
		}
		if err := closer(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to close resources", "name", name, "error", err)
		}
	}

	if closer, ok := a.closerFn["Log File"]; ok {
		pkglog.InitLogging()
		if err := closer(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to close resources", "name", "Log File", "error", err)
		}
	}
}
