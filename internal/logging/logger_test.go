package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		level string
		want  logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"warn", logrus.WarnLevel},
		{"", logrus.InfoLevel},
		{"nonsense", logrus.InfoLevel},
	}
	for _, tt := range tests {
		log := New(&bytes.Buffer{}, tt.level, "text")
		if log.GetLevel() != tt.want {
			t.Errorf("level %q: expected %v, got %v", tt.level, tt.want, log.GetLevel())
		}
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info", "json")
	log.WithField("url", "http://a").Warn("invalid")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}
	if line["msg"] != "invalid" || line["url"] != "http://a" || line["level"] != "warning" {
		t.Errorf("unexpected fields %v", line)
	}
}
