package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		want    zerolog.Level
		wantErr bool
	}{
		{"", zerolog.InfoLevel, false},
		{"debug", zerolog.DebugLevel, false},
		{"WARN", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"chatty", zerolog.NoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevel(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestNew_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, zerolog.WarnLevel)

	log.Info().Msg("hidden")
	log.Warn().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Info event should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("Warn event missing: %s", out)
	}
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	log := Component(New(&buf, zerolog.DebugLevel), "loader")
	log.Debug().Str("file", "rest.dcm").Msg("parsed")

	var event map[string]any
	if err := json.Unmarshal(buf.Bytes(), &event); err != nil {
		t.Fatalf("Event is not JSON: %v (%s)", err, buf.String())
	}
	if event["component"] != "loader" {
		t.Errorf("component = %v, want loader", event["component"])
	}
	if event["file"] != "rest.dcm" {
		t.Errorf("file = %v, want rest.dcm", event["file"])
	}
	if _, ok := event["time"]; !ok {
		t.Errorf("Event should carry a timestamp")
	}
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	NewConsole(&buf, zerolog.InfoLevel).Info().Int("pixels", 42).Msg("analyzed")

	out := buf.String()
	if !strings.Contains(out, "analyzed") || !strings.Contains(out, "pixels=42") {
		t.Errorf("Unexpected console output: %q", out)
	}
}
