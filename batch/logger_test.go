package batch_test

import (
	"bytes"
	"log"
	"strings"
	"testing"

	. "github.com/batchkit/batchkit/batch"
)

func newCapturedLogger(minLevel LogLevel) (*SimpleLogger, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	l := NewSimpleLogger(minLevel)
	l.StdoutLogger = log.New(&stdout, "", 0)
	l.StderrLogger = log.New(&stderr, "", 0)
	return l, &stdout, &stderr
}

func TestLogLevel_String(t *testing.T) {
	cases := map[LogLevel]string{
		LogLevelDebug: "DEBUG",
		LogLevelInfo:  "INFO",
		LogLevelWarn:  "WARN",
		LogLevelError: "ERROR",
		LogLevel(99):  "UNKNOWN",
	}
	for level, want := range cases {
		if got := level.String(); got != want {
			t.Errorf("LogLevel(%d).String() = %q, want %q", level, got, want)
		}
	}
}

func TestSimpleLogger_LevelRouting(t *testing.T) {
	l, stdout, stderr := newCapturedLogger(LogLevelDebug)

	l.Debug("debug %d", 1)
	l.Info("info %d", 2)
	l.Warn("warn %d", 3)
	l.Error("error %d", 4)

	out := stdout.String()
	errOut := stderr.String()

	if !strings.Contains(out, "[DEBUG] debug 1") || !strings.Contains(out, "[INFO] info 2") {
		t.Errorf("stdout missing debug/info lines: %q", out)
	}
	if strings.Contains(out, "warn") || strings.Contains(out, "error") {
		t.Errorf("stdout should not contain warn/error lines: %q", out)
	}
	if !strings.Contains(errOut, "[WARN] warn 3") || !strings.Contains(errOut, "[ERROR] error 4") {
		t.Errorf("stderr missing warn/error lines: %q", errOut)
	}
}

func TestSimpleLogger_MinLevelFilters(t *testing.T) {
	l, stdout, stderr := newCapturedLogger(LogLevelWarn)

	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("visible")

	if stdout.Len() != 0 {
		t.Errorf("messages below MinLevel should be discarded: %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), "visible") {
		t.Errorf("warn message should pass the filter: %q", stderr.String())
	}
}

func TestNoOpLogger_DiscardsEverything(t *testing.T) {
	// Mostly a compile-time check that NoOpLogger satisfies Logger.
	var l Logger = NoOpLogger{}
	l.Log(LogLevelError, "ignored")
	l.Debug("ignored")
	l.Info("ignored")
	l.Warn("ignored")
	l.Error("ignored")
}
