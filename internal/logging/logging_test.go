package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
)

func TestLogfmtLoggerFormatsFields(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Info).With(F("session", "s-1"))

	logger.Info("breed sent", F("generation", 2), F("path", "/breed/oldgen/2/img/3/7/"), F("err", errors.New("boom here")))
	logger.Debug("hidden")

	out := buf.String()
	if strings.Count(out, "\n") != 1 {
		t.Fatalf("expected one line, got %q", out)
	}
	for _, want := range []string{"level=info", `msg="breed sent"`, "session=s-1", "generation=2", "path=/breed/oldgen/2/img/3/7/", `err="boom here"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   Debug,
		" WARN ":  Warn,
		"warning": Warn,
		"error":   Error,
		"":        Info,
		"bogus":   Info,
	}
	for raw, want := range cases {
		if got := ParseLevel(raw); got != want {
			t.Fatalf("ParseLevel(%q): got=%v want=%v", raw, got, want)
		}
	}
}

func TestNopLoggerIsDisabled(t *testing.T) {
	if Nop().Enabled(Error) {
		t.Fatalf("expected nop logger to be disabled")
	}
}

type recordingSink struct {
	mu    sync.Mutex
	lines []string
}

func (s *recordingSink) Log(_ context.Context, level Level, msg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, level.String()+":"+msg)
	return nil
}

func TestRemoteLoggerForwardsInfoAndError(t *testing.T) {
	sink := &recordingSink{}
	var buf bytes.Buffer
	logger, closeFn := NewRemote(New(&buf, Debug), sink, 8)
	logger = logger.With(F("session", "abc"))

	logger.Debug("local only")
	logger.Info("client starting")
	logger.Error("reset failed", F("status", 500))
	closeFn()

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.lines) != 2 {
		t.Fatalf("expected two forwarded lines, got %#v", sink.lines)
	}
	if sink.lines[0] != "info:client starting session=abc" {
		t.Fatalf("unexpected info line: %q", sink.lines[0])
	}
	if sink.lines[1] != "error:reset failed session=abc status=500" {
		t.Fatalf("unexpected error line: %q", sink.lines[1])
	}
	if !strings.Contains(buf.String(), "local only") {
		t.Fatalf("expected debug line locally, got %q", buf.String())
	}
}

func TestRemoteLoggerDropsAfterClose(t *testing.T) {
	sink := &recordingSink{}
	logger, closeFn := NewRemote(New(&bytes.Buffer{}, Info), sink, 1)
	closeFn()
	closeFn()
	logger.Info("late")

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.lines) != 0 {
		t.Fatalf("expected no lines after close, got %#v", sink.lines)
	}
}
