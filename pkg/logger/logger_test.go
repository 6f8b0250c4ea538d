package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewLevel(t *testing.T) {
	tests := []struct {
		in   string
		want logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"warn", logrus.WarnLevel},
		{"bogus", logrus.InfoLevel},
		{"", logrus.InfoLevel},
	}
	for _, tt := range tests {
		if got := New(tt.in).GetLevel(); got != tt.want {
			t.Errorf("New(%q) level = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestNewWithOutputWritesFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithOutput("info", &buf)
	l.WithField("poll_id", "p1").Info("vote recorded")

	out := buf.String()
	if !strings.Contains(out, "vote recorded") || !strings.Contains(out, "poll_id=p1") {
		t.Errorf("unexpected log output: %q", out)
	}
}
