package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/thomasrohde/riverflow/pkg/config"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := config.Load(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Pretty || cfg.Color != config.ColorAuto || cfg.JSON || cfg.Trace != "" {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.Source != "" {
		t.Errorf("Source = %q, want empty", cfg.Source)
	}
}

func TestLoad_ProjectWinsOverUser(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	project := t.TempDir()
	writeFile(t, filepath.Join(home, ".rflow", "config.yaml"), "json: true\n")
	writeFile(t, filepath.Join(project, ".rflow.yaml"), "pretty: false\ncolor: never\n")

	cfg, err := config.Load(project)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Pretty || cfg.Color != config.ColorNever {
		t.Errorf("cfg = %+v, want project settings", cfg)
	}
	if cfg.JSON {
		t.Error("user settings leaked into project config")
	}
	if cfg.Source != filepath.Join(project, ".rflow.yaml") {
		t.Errorf("Source = %q", cfg.Source)
	}
}

func TestLoad_UserFallback(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeFile(t, filepath.Join(home, ".rflow", "config.yaml"), "trace: run.jsonl\n")

	cfg, err := config.Load(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Trace != "run.jsonl" {
		t.Errorf("Trace = %q, want run.jsonl", cfg.Trace)
	}
	if !cfg.Pretty {
		t.Error("absent field lost its default")
	}
}

func TestLoad_Malformed(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	project := t.TempDir()
	writeFile(t, filepath.Join(project, ".rflow.yaml"), "pretty: [unclosed\n")

	_, err := config.Load(project)
	var cfgErr *config.Error
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *config.Error, got %T: %v", err, err)
	}
}

func TestLoad_BadColor(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	project := t.TempDir()
	writeFile(t, filepath.Join(project, ".rflow.yaml"), "color: rainbow\n")

	_, err := config.Load(project)
	if err == nil || !strings.Contains(err.Error(), "rainbow") {
		t.Fatalf("expected color error, got %v", err)
	}
}

func TestUseColor(t *testing.T) {
	tests := []struct {
		mode string
		tty  bool
		want bool
	}{
		{config.ColorAuto, true, true},
		{config.ColorAuto, false, false},
		{config.ColorAlways, false, true},
		{config.ColorNever, true, false},
	}
	for _, tt := range tests {
		cfg := &config.Config{Color: tt.mode}
		if got := cfg.UseColor(tt.tty); got != tt.want {
			t.Errorf("UseColor(%s, tty=%v) = %v, want %v", tt.mode, tt.tty, got, tt.want)
		}
	}
}

func TestMarshal(t *testing.T) {
	out, err := config.Default().Marshal()
	if err != nil {
		t.Fatal(err)
	}
	s := string(out)
	for _, want := range []string{"pretty: true", "color: auto", "json: false"} {
		if !strings.Contains(s, want) {
			t.Errorf("marshal output missing %q:\n%s", want, s)
		}
	}
	if strings.Contains(s, "trace") || strings.Contains(s, "Source") {
		t.Errorf("unexpected fields in:\n%s", s)
	}
}
