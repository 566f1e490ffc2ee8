// Package pkglog sets up the process-wide slog JSON logger.
//
// Records carry the request correlation ID and any attributes stored on the
// context with WithAttrs, such as the upload ID of the request being served.
// DetachContext keeps those values for background work that outlives the
// request. OpenLogFile opens the per-run file that logs can be teed into.
package pkglog
