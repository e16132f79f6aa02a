package logger

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func capture() (*bytes.Buffer, func()) {
	var buf bytes.Buffer
	SetOutput(log.New(&buf, "", 0))
	return &buf, func() { SetOutput(nil) }
}

func TestLevelFiltering(t *testing.T) {
	buf, restore := capture()
	defer restore()

	Init("warn")
	Debugf("hidden debug")
	Infof("hidden info")
	Warnf("visible warn")
	Errorf("visible error")

	got := buf.String()
	if strings.Contains(got, "hidden") {
		t.Fatalf("expected debug/info to be suppressed at warn level, got: %q", got)
	}
	if !strings.Contains(got, "visible warn") || !strings.Contains(got, "visible error") {
		t.Fatalf("expected warn and error lines, got: %q", got)
	}
}

func TestInitUnknownFallsBackToInfo(t *testing.T) {
	_, restore := capture()
	defer restore()

	Init("chatty")
	if LevelString() != "info" {
		t.Fatalf("expected info fallback, got %s", LevelString())
	}
}

func TestLevelString(t *testing.T) {
	_, restore := capture()
	defer restore()

	for _, name := range []string{"debug", "info", "warn", "error", "fatal"} {
		Init(name)
		if LevelString() != name {
			t.Fatalf("Init(%q): LevelString() = %q", name, LevelString())
		}
	}
	Init("info")
}
