// Package store defines the key-value persistence port and the JSON adapter
// the session and ledger services persist through.
//
// A Store is the only shared state of the application. Services sharing a
// Persister serialise their read-modify-write cycles on its lock; two
// processes pointed at the same backing store are not coordinated and the
// last writer wins.
package store

import "context"

// Fixed keys of the persisted records.
const (
	KeyUser     = "user"
	KeyBudget   = "budget"
	KeyExpenses = "expenses"
)

// Store is a string key-value store.
type Store interface {
	// Get returns the value under key; ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set stores value under key, overwriting any prior value.
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Clear removes every key of the store.
	Clear(ctx context.Context) error
}
