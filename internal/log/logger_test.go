package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("%q: expected %v, got %v", in, want, got)
		}
	}
}

func TestLoggerAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelInfo, Format: "json", Component: ComponentLedger, Output: &buf})
	l.Info("expense added", FieldExpenseID, int64(42))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode: %v (%s)", err, buf.String())
	}
	if rec[FieldComponent] != ComponentLedger {
		t.Fatalf("expected component %q, got %v", ComponentLedger, rec[FieldComponent])
	}
	if rec[FieldExpenseID].(float64) != 42 {
		t.Fatalf("unexpected expense id %v", rec[FieldExpenseID])
	}

	buf.Reset()
	l.WithComponent(ComponentStore).Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug should be filtered at info level: %s", buf.String())
	}
}

func TestLogFields(t *testing.T) {
	f := NewFields().WithOperation(OpCreate).WithError(errors.New("boom")).WithExpense(1, 250, "Transport")
	s := f.ToSlice()
	if len(s) != 10 {
		t.Fatalf("expected 10 items, got %d", len(s))
	}
	joined := ""
	for _, v := range s {
		if str, ok := v.(string); ok {
			joined += str + " "
		}
	}
	if !strings.Contains(joined, "boom") || !strings.Contains(joined, OpCreate) {
		t.Fatalf("missing fields: %s", joined)
	}
}
