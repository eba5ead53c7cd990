// Package publisher provides use cases for seeding and reading Publisher records.
// Seeding is all-or-nothing: every definition is shape-checked and validated
// before any write, and the writes share one store transaction.
package publisher

import "errors"

var (
	// ErrPublisherNotFound indicates that the requested publisher does not exist.
	ErrPublisherNotFound = errors.New("publisher not found")

	// ErrNoTransactor is returned by Seed when the Service has no Transactor,
	// since the batch could not be written atomically.
	ErrNoTransactor = errors.New("seed requires a transactor")
)
