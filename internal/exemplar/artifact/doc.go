// Package artifact persists the output files of a transformation.
//
// LocalWriter is the source of truth. S3Mirror optionally copies what it
// wrote to a bucket.
package artifact
