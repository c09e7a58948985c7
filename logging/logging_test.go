package logging

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := New()
	logger.SetOutput(&buf)
	logger.SetLevel(LevelInfo)

	// Debug should be filtered
	logger.Debug("debug message")
	if buf.Len() > 0 {
		t.Error("debug message should be filtered at INFO level")
	}

	logger.Info("info message")
	if buf.Len() == 0 {
		t.Error("info message should be logged")
	}

	output := buf.String()
	if !strings.Contains(output, "INFO") {
		t.Error("log should contain INFO level")
	}
	if !strings.Contains(output, "info message") {
		t.Error("log should contain the message")
	}
}

func TestLogger_WithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New().WithComponent("manager")
	logger.SetOutput(&buf)

	logger.Info("test message")

	output := buf.String()
	if !strings.Contains(output, "[manager]") {
		t.Errorf("expected component 'manager' in log, got: %s", output)
	}
}

func TestLogger_FieldsSorted(t *testing.T) {
	var buf bytes.Buffer
	logger := New()
	logger.SetOutput(&buf)

	logger.Info("fields", map[string]interface{}{
		"zeta":  1,
		"alpha": "a",
		"mid":   true,
	})

	output := buf.String()
	if !strings.Contains(output, "alpha=a mid=true zeta=1") {
		t.Errorf("expected sorted fields, got: %s", output)
	}
}

func TestLogger_Format(t *testing.T) {
	var buf bytes.Buffer
	logger := New().WithComponent("test")
	logger.SetOutput(&buf)

	logger.Info("hello world", map[string]interface{}{"key": "value"})

	output := buf.String()
	// Format: LEVEL TIMESTAMP [component] message key=value
	if !strings.HasPrefix(output, "INFO ") {
		t.Errorf("expected line to start with 'INFO ', got: %s", output)
	}
	if !strings.Contains(output, "[test] hello world key=value") {
		t.Errorf("unexpected format: %s", output)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{" warn ", LevelWarn, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"verbose", "", true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLogger_StoreLoadFailed(t *testing.T) {
	var buf bytes.Buffer
	logger := New()
	logger.SetOutput(&buf)

	logger.StoreLoadFailed("resumes.json", fmt.Errorf("unexpected EOF"))

	output := buf.String()
	if !strings.HasPrefix(output, "WARN ") {
		t.Errorf("load failure should be WARN, got: %s", output)
	}
	if !strings.Contains(output, "recovery=empty") {
		t.Errorf("expected recovery field, got: %s", output)
	}
	if !strings.Contains(output, "location=resumes.json") {
		t.Errorf("expected location field, got: %s", output)
	}
}

func TestLogger_StoreSaveFailed(t *testing.T) {
	var buf bytes.Buffer
	logger := New()
	logger.SetOutput(&buf)

	logger.StoreSaveFailed("/ro/resumes.json", fmt.Errorf("read-only file system"))

	output := buf.String()
	if !strings.HasPrefix(output, "ERROR") {
		t.Errorf("save failure should be ERROR, got: %s", output)
	}
}

func TestLogger_RecordEvents(t *testing.T) {
	var buf bytes.Buffer
	logger := New()
	logger.SetOutput(&buf)
	logger.SetLevel(LevelDebug)

	logger.RecordCreated("jdoe")
	logger.RecordMutated("jdoe", "skill_added")
	logger.StoreLoaded("resumes.json", 3, 5*time.Millisecond)
	logger.RecordDeleted("jdoe")

	output := buf.String()
	for _, want := range []string{"resume_created", "change=skill_added", "resumes=3", "resume_deleted"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
}

func TestLogger_EventExport(t *testing.T) {
	var buf bytes.Buffer
	logger := New()
	logger.SetOutput(&buf)

	logger.EventExportFailed("http://collector/events", 120, fmt.Errorf("connection refused"))
	logger.EventsDropped("http://collector/events", 7)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got: %s", buf.String())
	}
	if !strings.HasPrefix(lines[0], "WARN ") || !strings.Contains(lines[0], "pending=120") {
		t.Errorf("export failure line = %s", lines[0])
	}
	if !strings.Contains(lines[1], "events_dropped") || !strings.Contains(lines[1], "dropped=7") {
		t.Errorf("drop line = %s", lines[1])
	}
}

func TestDiscard(t *testing.T) {
	// Must not panic and must not write anywhere observable.
	Discard().Error("nothing")
}
