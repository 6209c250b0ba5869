// Package kv defines the durable key/value store that holds learner state.
//
// Every value is an opaque JSON document addressed by a fixed key.
package kv

import "errors"

// Keys used by SQLGram.
const (
	ProgressKey = "sqlgram_progress"
	HistoryKey  = "sqlgram_query_history"
)

// ErrWriteFailed is returned by Memory when write failures are injected.
var ErrWriteFailed = errors.New("kv: write failed")

// Store is a durable key/value store.
type Store interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(key string) (value []byte, ok bool, err error)
	// Set stores value under key, replacing any previous value.
	Set(key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
}
