package sloghooks

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func newBufLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func lines(buf *bytes.Buffer) []map[string]any {
	var out []map[string]any
	for _, l := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if l == "" {
			continue
		}
		m := map[string]any{}
		if err := json.Unmarshal([]byte(l), &m); err == nil {
			out = append(out, m)
		}
	}
	return out
}

func TestSampling(t *testing.T) {
	l, buf := newBufLogger()
	h := New(l, Options{LookThroughEvery: 10})
	for i := 0; i < 100; i++ {
		h.LookThrough("hot", "k", true)
	}
	if got := len(lines(buf)); got != 10 {
		t.Fatalf("logged %d look-throughs, want 10", got)
	}
}

func TestFailuresAreNeverSampled(t *testing.T) {
	l, buf := newBufLogger()
	h := New(l, Options{PurgeEvery: 1000, LookThroughEvery: 1000})
	for i := 0; i < 5; i++ {
		h.WriteBackFailed("hot", "k", errors.New("down"))
		h.CapacityViolated("hot", 4, 3)
	}
	if got := len(lines(buf)); got != 10 {
		t.Fatalf("logged %d failures, want 10", got)
	}
}

func TestKeyRedaction(t *testing.T) {
	l, buf := newBufLogger()
	New(l, Options{}).WriteBackFailed("hot", "patient-42", errors.New("down"))
	if strings.Contains(buf.String(), "patient-42") {
		t.Fatal("raw key leaked into the log")
	}

	buf.Reset()
	New(l, Options{Redact: func(string) string { return "***" }}).LookThrough("hot", "patient-42", false)
	ls := lines(buf)
	if len(ls) != 1 || ls[0]["key"] != "***" || ls[0]["msg"] != "tierstore.look_through" {
		t.Fatalf("logged %v", ls)
	}
}

func TestNilLogger(t *testing.T) {
	h := New(nil, Options{})
	h.Purged("hot", 1, 1)
	h.WriteBackFailed("hot", "k", errors.New("x"))
	h.InternRejected("ids", 1)
}
