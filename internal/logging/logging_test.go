package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{input: "", want: slog.LevelInfo},
		{input: "DEBUG", want: slog.LevelDebug},
		{input: "info", want: slog.LevelInfo},
		{input: " Warn ", want: slog.LevelWarn},
		{input: "ERROR", want: slog.LevelError},
		{input: "verbose", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewWithWriter_Formats(t *testing.T) {
	ctx := context.Background()

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := NewWithWriter("json", slog.LevelInfo, &buf)
		if err != nil {
			t.Fatalf("NewWithWriter() error = %v", err)
		}
		l.With("runId", "r1").Info(ctx, "hello", "kinds", 3)
		var rec map[string]any
		if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
			t.Fatalf("output is not JSON: %v: %q", err, buf.String())
		}
		if rec["msg"] != "hello" || rec["runId"] != "r1" || rec["kinds"] != float64(3) {
			t.Errorf("unexpected record: %v", rec)
		}
	})

	t.Run("text level filter", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := NewWithWriter("text", slog.LevelWarn, &buf)
		if err != nil {
			t.Fatalf("NewWithWriter() error = %v", err)
		}
		l.Info(ctx, "hidden")
		l.Warnf(ctx, "shown %d", 1)
		if strings.Contains(buf.String(), "hidden") {
			t.Errorf("info line should be filtered: %q", buf.String())
		}
		if !strings.Contains(buf.String(), "shown 1") {
			t.Errorf("warn line missing: %q", buf.String())
		}
	})

	t.Run("human", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := NewWithWriter("human", slog.LevelDebug, &buf)
		if err != nil {
			t.Fatalf("NewWithWriter() error = %v", err)
		}
		l.Debug(ctx, "stage matched", "stage", "archive")
		if !strings.Contains(buf.String(), "stage matched") || !strings.Contains(buf.String(), "archive") {
			t.Errorf("unexpected human output: %q", buf.String())
		}
	})

	t.Run("unsupported", func(t *testing.T) {
		if _, err := NewWithWriter("xml", slog.LevelInfo, &bytes.Buffer{}); err == nil {
			t.Fatal("expected error for unsupported format")
		}
	})
}

func TestFromContext(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext should return a default logger")
	}
	var buf bytes.Buffer
	l, err := NewWithWriter("text", slog.LevelInfo, &buf)
	if err != nil {
		t.Fatal(err)
	}
	ctx := WithLogger(context.Background(), l)
	FromContext(ctx).Info(ctx, "from context")
	if !strings.Contains(buf.String(), "from context") {
		t.Errorf("logger from context not used: %q", buf.String())
	}
}
