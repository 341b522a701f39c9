package store

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sync"

	"budgetapp/internal/core"
	"budgetapp/internal/log"
)

// Persister saves and loads JSON blobs through a Store.
//
// Reads never fail: a missing, unreadable or malformed value leaves the
// destination untouched and Load reports false. Failures other than absence
// are logged.
//
// Save and Load do not lock. Services that read, modify and write records
// hold Lock for the whole cycle, so a logout cannot interleave with a
// ledger write sharing the same persister.
type Persister struct {
	mu     sync.Mutex
	store  Store
	logger *log.Logger
}

func NewPersister(s Store, logger *log.Logger) *Persister {
	if logger == nil {
		logger = log.Default(log.ComponentStore)
	}
	return &Persister{store: s, logger: logger.WithComponent(log.ComponentStore)}
}

// Lock acquires the lock shared by every service built on p.
func (p *Persister) Lock() { p.mu.Lock() }

// Unlock releases the lock taken by Lock.
func (p *Persister) Unlock() { p.mu.Unlock() }

// Save serializes v and stores it under key.
func (p *Persister) Save(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := p.store.Set(ctx, key, string(b)); err != nil {
		p.logger.ErrorContext(ctx, "Failed to persist value",
			append(log.NewFields().WithOperation(log.OpUpdate).WithError(err).WithErrorType(log.ErrorTypeStorage).ToSlice(), log.FieldKey, key)...)
		return fmt.Errorf("store %s: %w", key, err)
	}
	return nil
}

// Load decodes the value under key into dst and reports whether it did.
func (p *Persister) Load(ctx context.Context, key string, dst any) bool {
	raw, ok, err := p.store.Get(ctx, key)
	if err != nil {
		p.logger.WarnContext(ctx, "Stored value unreadable, using default",
			log.FieldKey, key, log.FieldError, err.Error(), log.FieldErrorType, log.ErrorTypeStorage)
		return false
	}
	if !ok || raw == "" || raw == "null" {
		return false
	}
	if err := decode(raw, dst); err != nil {
		p.logger.WarnContext(ctx, "Stored value malformed, using default",
			log.FieldKey, key, log.FieldError, err.Error(), log.FieldErrorType, log.ErrorTypeCorrupt)
		return false
	}
	return true
}

// Clear wipes the whole store.
func (p *Persister) Clear(ctx context.Context) error {
	if err := p.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear store: %w", err)
	}
	return nil
}

// LoadOr returns the decoded value under key, or def when Load fails.
func LoadOr[T any](ctx context.Context, p *Persister, key string, def T) T {
	var v T
	if !p.Load(ctx, key, &v) {
		return def
	}
	return v
}

// decode unmarshals into a fresh value first so dst is untouched on error.
func decode(raw string, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("decode into %T: destination must be a non-nil pointer", dst)
	}
	tmp := reflect.New(rv.Elem().Type())
	if err := json.Unmarshal([]byte(raw), tmp.Interface()); err != nil {
		return fmt.Errorf("%w: %v", core.ErrCorruptStoredData, err)
	}
	rv.Elem().Set(tmp.Elem())
	return nil
}
