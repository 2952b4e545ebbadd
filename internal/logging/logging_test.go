package logging

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewLevels(t *testing.T) {
	cases := map[string]logrus.Level{
		"":        logrus.InfoLevel,
		"debug":   logrus.DebugLevel,
		"WARN":    logrus.WarnLevel,
		"warning": logrus.WarnLevel,
		"error":   logrus.ErrorLevel,
	}
	for name, want := range cases {
		logger, err := New(name)
		if err != nil {
			t.Fatalf("%q: unexpected error %v", name, err)
		}
		if logger.GetLevel() != want {
			t.Fatalf("%q: expected %s, got %s", name, want, logger.GetLevel())
		}
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New("verbose"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
