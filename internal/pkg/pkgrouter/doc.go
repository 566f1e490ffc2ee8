// Package pkgrouter is the HTTP layer shared by the service modules.
//
// Endpoints are plain functions returning a payload or an error. The router
// wraps payloads in a {message, data, meta} envelope, maps *pkgerror.Error
// values to statuses. Every route gets a correlation ID and panic recovery,
// and request logging skips multipart bodies.
package pkgrouter
