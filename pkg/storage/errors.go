// Package storage persists uploaded files under a single root directory.
// Callers hand in raw bytes and a client-supplied name and get back a generated
// stored name; every later operation takes that name, never a path.
package storage

import "errors"

var (
	// ErrNotFound indicates the stored name does not exist or cannot be read.
	ErrNotFound = errors.New("storage: file not found")

	// ErrPathTraversal indicates a client-supplied name contained a parent directory segment.
	ErrPathTraversal = errors.New("storage: path traversal attempt")

	// ErrInvalidName indicates a stored name is empty, absolute, contains a
	// separator, or resolves outside the storage root.
	ErrInvalidName = errors.New("storage: invalid stored name")
)
