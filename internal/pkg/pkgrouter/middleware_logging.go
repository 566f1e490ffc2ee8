package pkgrouter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
)

const maxLoggedBodyBytes = 16 * 1024

type statusRecorder struct {
	http.ResponseWriter
	status    int
	bytes     int
	body      bytes.Buffer
	truncated bool
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRecorder) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	if room := maxLoggedBodyBytes - w.body.Len(); room > 0 {
		if len(p) > room {
			w.body.Write(p[:room])
			w.truncated = true
		} else {
			w.body.Write(p)
		}
	} else if len(p) > 0 {
		w.truncated = true
	}

	n, err := w.ResponseWriter.Write(p)
	w.bytes += n
	return n, err
}

func (w *statusRecorder) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

type routeContextKey struct{}

func middlewareRoute(path string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), routeContextKey{}, path)))
		})
	}
}

func matchedRoutePath(r *http.Request) string {
	if pattern, ok := r.Context().Value(routeContextKey{}).(string); ok && pattern != "" {
		return pattern
	}
	return r.URL.Path
}

// peekBody reads at most maxLoggedBodyBytes of the request body and puts the
// consumed bytes back in front of the rest.
func peekBody(r *http.Request) any {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}

	head, _ := io.ReadAll(io.LimitReader(r.Body, maxLoggedBodyBytes+1))
	r.Body = readCloser{Reader: io.MultiReader(bytes.NewReader(head), r.Body), Closer: r.Body}

	truncated := len(head) > maxLoggedBodyBytes
	if truncated {
		head = head[:maxLoggedBodyBytes]
	}
	return loggableBody(head, truncated)
}

type readCloser struct {
	io.Reader
	io.Closer
}

// middlewareLogging logs one record per request and one per response.
// Multipart bodies hold the uploaded reports and are never read here.
// Response bodies are logged only for failed requests.
func middlewareLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := matchedRoutePath(r)
		start := time.Now()

		var reqBody any
		if isMultipart(r.Header.Get("Content-Type")) {
			reqBody = fmt.Sprintf("<multipart body omitted, %s>", humanize.Bytes(uint64(max(r.ContentLength, 0))))
		} else {
			reqBody = peekBody(r)
		}

		slog.InfoContext(r.Context(), "request received",
			"method", r.Method,
			"route", route,
			"path", r.URL.Path,
			"query", r.URL.RawQuery,
			"headers", maskHeaders(r.Header),
			"body", reqBody,
		)

		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}

		attrs := []any{
			"method", r.Method,
			"route", route,
			"status", status,
			"size", humanize.Bytes(uint64(rec.bytes)),
			"latency_ms", time.Since(start).Milliseconds(),
		}

		level := slog.LevelInfo
		if status >= http.StatusBadRequest {
			level = slog.LevelWarn
			if status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			attrs = append(attrs, "body", loggableBody(rec.body.Bytes(), rec.truncated))
		}

		slog.Log(r.Context(), level, "response sent", attrs...)
	})
}
