// Package pkgroutine runs background work with bounded concurrency.
//
// Tasks get a name for logging, returned errors are collected, and panics are
// recovered and logged so a failing task never takes the process down.
package pkgroutine
