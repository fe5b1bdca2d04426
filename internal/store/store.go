// Package store holds the in-memory reactive state of the client: one
// store per entity type, each a mutex-guarded collection with a narrow
// mutation API and pure derived views. Views never mutate stores
// directly; the sync services are the only writers.
package store

import "time"

// Clock returns the current time. It is injected so tests can simulate
// time passage deterministically through the dedup windows.
type Clock func() time.Time

// SystemClock reads the wall clock in UTC.
func SystemClock() time.Time {
	return time.Now().UTC()
}
