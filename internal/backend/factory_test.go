package backend

import (
	"context"
	"path/filepath"
	"testing"

	"budgetapp/internal/config"
	"budgetapp/internal/log"
	"budgetapp/internal/store"
)

func TestFromAppConfig(t *testing.T) {
	cfg := &config.Config{
		DataBackend:  "redis",
		SQLiteDBPath: "./x.db",
		RedisURL:     "redis://localhost:6379/1",
		RedisPrefix:  "test:",
	}
	got, err := FromAppConfig(cfg)
	if err != nil {
		t.Fatalf("FromAppConfig() error = %v", err)
	}
	if got.Type != RedisBackend || got.RedisURL != cfg.RedisURL || got.RedisPrefix != "test:" {
		t.Fatalf("FromAppConfig() = %+v", got)
	}

	if _, err := FromAppConfig(nil); err == nil {
		t.Fatal("FromAppConfig(nil) error = nil")
	}
	if _, err := FromAppConfig(&config.Config{DataBackend: "sheets"}); err == nil {
		t.Fatal("FromAppConfig(sheets) error = nil")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"memory", Config{Type: MemoryBackend}, false},
		{"sqlite with path", Config{Type: SQLiteBackend, SQLiteDBPath: "a.db"}, false},
		{"sqlite without path", Config{Type: SQLiteBackend}, true},
		{"redis with url", Config{Type: RedisBackend, RedisURL: "redis://x", RedisPrefix: "p:"}, false},
		{"redis without prefix", Config{Type: RedisBackend, RedisURL: "redis://x"}, true},
		{"unknown", Config{Type: "postgres"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetBackendTypeStrings(t *testing.T) {
	got := GetBackendTypeStrings()
	if len(got) != 3 || got[0] != "sqlite" || got[1] != "redis" || got[2] != "memory" {
		t.Fatalf("GetBackendTypeStrings() = %v", got)
	}
}

func roundTrip(t *testing.T, s store.Store) {
	t.Helper()
	ctx := context.Background()
	if err := s.Set(ctx, store.KeyBudget, `{"monthly":100.00}`); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, ok, err := s.Get(ctx, store.KeyBudget)
	if err != nil || !ok || got != `{"monthly":100.00}` {
		t.Fatalf("Get() = %q, %v, %v", got, ok, err)
	}
}

func TestCreateMemoryBackend(t *testing.T) {
	f := NewFactory(log.Discard())
	res, err := f.CreateBackend(context.Background(), Config{Type: MemoryBackend})
	if err != nil {
		t.Fatalf("CreateBackend() error = %v", err)
	}
	defer res.Close()
	roundTrip(t, res.Store)
}

func TestCreateSQLiteBackend(t *testing.T) {
	f := NewFactory(log.Discard())
	path := filepath.Join(t.TempDir(), "sub", "budget.db")
	res, err := f.CreateBackend(context.Background(), Config{Type: SQLiteBackend, SQLiteDBPath: path})
	if err != nil {
		t.Fatalf("CreateBackend() error = %v", err)
	}
	roundTrip(t, res.Store)
	if err := res.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
}

func TestCreateBackendRejectsInvalidConfig(t *testing.T) {
	f := NewFactory(log.Discard())
	if _, err := f.CreateBackend(context.Background(), Config{Type: SQLiteBackend}); err == nil {
		t.Fatal("CreateBackend() error = nil for missing sqlite path")
	}
}

func TestNilResultClose(t *testing.T) {
	var res *BackendResult
	if err := res.Close(); err != nil {
		t.Fatalf("Close() on nil = %v", err)
	}
}
