package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/shadow/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestNewDefaults(t *testing.T) {
	cfg := New()
	if cfg.Root.ID != DefaultRootID {
		t.Errorf("Root.ID = %d, want %d", cfg.Root.ID, DefaultRootID)
	}
	if cfg.Inspector.Addr != DefaultInspectorAddr {
		t.Errorf("Inspector.Addr = %q", cfg.Inspector.Addr)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := writeConfig(t, `{
		"root": {"id": 7, "width": 375, "height": 812},
		"log": {"level": "debug", "format": "json"},
		"inspector": {"addr": ":9000"}
	}`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Root.ID != 7 || cfg.Root.Width != 375 || cfg.Root.Height != 812 {
		t.Errorf("Root = %+v", cfg.Root)
	}
	if cfg.Inspector.Addr != ":9000" {
		t.Errorf("Inspector.Addr = %q", cfg.Inspector.Addr)
	}
	if cfg.Inspector.History != DefaultHistory {
		t.Errorf("Inspector.History = %d, want default", cfg.Inspector.History)
	}
	if cfg.Path() != filepath.Join(dir, ConfigFileName) {
		t.Errorf("Path = %q", cfg.Path())
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    string
	}{
		{"invalid json", `{"root": `, "E202"},
		{"negative size", `{"root": {"width": -1}}`, "E202"},
		{"bad level", `{"log": {"level": "loud"}}`, "E202"},
		{"bad format", `{"log": {"format": "xml"}}`, "E202"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if !errors.HasCode(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(dir); !errors.HasCode(err, "E201") {
		t.Errorf("Load error = %v, want E201", err)
	}

	cfg, err := LoadOrDefault(dir)
	if err != nil {
		t.Fatalf("LoadOrDefault error: %v", err)
	}
	if cfg.Root.ID != DefaultRootID {
		t.Errorf("LoadOrDefault returned %+v", cfg)
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := LogConfig{Level: "warn", Format: "json"}.Logger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "id", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info record passed a warn-level logger")
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"id":3`) {
		t.Errorf("output = %s", out)
	}
}
