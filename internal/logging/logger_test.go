package logging_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ewms/internal/logging"
	"ewms/internal/testsupport"
)

func TestNewRejectsUnknownSettings(t *testing.T) {
	if _, err := logging.New(logging.Options{Level: "verbose"}); err == nil {
		t.Fatal("expected unknown level to be rejected")
	}
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected unknown format to be rejected")
	}
}

func TestNewAcceptsAllSupportedLevels(t *testing.T) {
	for _, level := range []string{"", "debug", "info", "warn", "error", "WARN"} {
		if _, err := logging.New(logging.Options{Level: level}); err != nil {
			t.Fatalf("level %q rejected: %v", level, err)
		}
	}
}

func TestNewFromConfigWritesToLogDir(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		t.Fatalf("NewFromConfig failed: %v", err)
	}
	logger.Info("ward engine test entry")

	path := filepath.Join(cfg.Paths.LogDir, "ewms.log")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "ward engine test entry") {
		t.Fatalf("log file missing entry: %q", data)
	}
}
