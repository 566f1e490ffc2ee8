// Package pkguid generates identifiers.
//
// Upload and correlation IDs are UUIDv7 strings. Stored rows in the in-memory
// store get Snowflake numbers so their order follows insertion.
package pkguid
