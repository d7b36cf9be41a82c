package logging

import (
	"bytes"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestInitAndLoggingToFile(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "nested", "knowpack.log")

	if err := Init(logPath, false); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	t.Cleanup(func() {
		_ = Close()
	})

	LogEvent("hello %s", "world")
	LogFields("stage", "name", "extract", "files", 3)
	_ = Close()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "hello world") {
		t.Fatalf("expected LogEvent content, got: %s", content)
	}
	if !strings.Contains(content, "[STAGE] name=extract files=3") {
		t.Fatalf("expected LogFields content, got: %s", content)
	}
}

func TestBuildFieldsMessage(t *testing.T) {
	msg := buildFieldsMessage(" skip ", "source", "a b.json", "err", errors.New("bad shape"), "dangling")
	if !strings.HasPrefix(msg, "[SKIP]") {
		t.Fatalf("expected uppercased event, got: %s", msg)
	}
	if !strings.Contains(msg, `source="a b.json"`) {
		t.Fatalf("expected quoted source, got: %s", msg)
	}
	if !strings.Contains(msg, `err="bad shape"`) {
		t.Fatalf("expected quoted error, got: %s", msg)
	}
	if !strings.Contains(msg, "dangling=(missing)") {
		t.Fatalf("expected missing marker, got: %s", msg)
	}
	if got := buildFieldsMessage(""); got != "[EVENT]" {
		t.Fatalf("expected default event name, got: %s", got)
	}
}

func TestFormatValueVariants(t *testing.T) {
	if got := formatValue(nil); got != "null" {
		t.Fatalf("nil value: %s", got)
	}
	if got := formatValue(" "); got != `""` {
		t.Fatalf("empty string value: %s", got)
	}
	if got := formatValue([]byte("hi")); got != "hi" {
		t.Fatalf("byte value: %s", got)
	}
	if got := formatValue(1500 * time.Millisecond); got != "1.5s" {
		t.Fatalf("stringer value: %s", got)
	}
	if got := formatValue(map[string]int{"ok": 1}); got != `{"ok":1}` {
		t.Fatalf("json value: %s", got)
	}
}

func TestInitDiscard(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	if err := Init("", false); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	LogEvent("discard")
	if buf.Len() != 0 {
		t.Fatalf("expected log output discarded, got: %s", buf.String())
	}
}
