package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewConfigDefaultsWhenMissing(t *testing.T) {
	projectDir := t.TempDir()
	t.Setenv("NEWSROOM_API_URL", "")
	c, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("NewConfig returned error: %v", err)
	}
	if c.Project.Version != 1 {
		t.Fatalf("expected default version == 1, got %d", c.Project.Version)
	}
	if c.Project.API.BaseURL != defaultBaseURL {
		t.Fatalf("expected default base url %q, got %q", defaultBaseURL, c.Project.API.BaseURL)
	}
	if !c.ValidateForm() {
		t.Fatalf("expected form validation on by default")
	}
	if c.DateFormat() != defaultDateLayout {
		t.Fatalf("unexpected date format %q", c.DateFormat())
	}
}

func TestInitNewsroomDirWritesParsableDefaults(t *testing.T) {
	projectDir := t.TempDir()
	t.Setenv("NEWSROOM_API_URL", "")
	if err := InitNewsroomDir(projectDir); err != nil {
		t.Fatalf("init: %v", err)
	}
	if _, err := os.Stat(filepath.Join(projectDir, NewsroomDir, "logs")); err != nil {
		t.Fatalf("expected logs dir: %v", err)
	}
	c, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("NewConfig returned error: %v", err)
	}
	if c.Project.API.Retry.InitialDelay != 250*time.Millisecond {
		t.Fatalf("initial delay = %s", c.Project.API.Retry.InitialDelay)
	}
	if c.Project.API.Breaker.FailureThreshold != 0.6 {
		t.Fatalf("failure threshold = %v", c.Project.API.Breaker.FailureThreshold)
	}
}

func TestLoadProjectConfigParsesYaml(t *testing.T) {
	projectDir := t.TempDir()
	dir := filepath.Join(projectDir, NewsroomDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	configYAML := strings.TrimSpace(`
version: 1
api:
  base_url: https://news.example.com/
  timeout: 3s
  retry:
    max_attempts: 5
form:
  validate: false
ui:
  date_format: 2006-01-02
`)
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(configYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	c := &Config{ProjectDir: projectDir, NewsroomProjectDir: dir, Project: DefaultProjectConfig()}
	if err := c.loadProjectConfig(); err != nil {
		t.Fatalf("loadProjectConfig returned error: %v", err)
	}
	if c.Project.API.BaseURL != "https://news.example.com" {
		t.Fatalf("expected trailing slash trimmed, got %s", c.Project.API.BaseURL)
	}
	if c.Project.API.Timeout != 3*time.Second {
		t.Fatalf("timeout = %s", c.Project.API.Timeout)
	}
	if c.Project.API.Retry.MaxAttempts != 5 {
		t.Fatalf("max attempts = %d", c.Project.API.Retry.MaxAttempts)
	}
	if c.Project.API.Retry.MaxDelay != 2*time.Second {
		t.Fatalf("expected default max delay, got %s", c.Project.API.Retry.MaxDelay)
	}
	if c.ValidateForm() {
		t.Fatalf("expected validation disabled")
	}
	if c.DateFormat() != "2006-01-02" {
		t.Fatalf("date format = %s", c.DateFormat())
	}
}

func TestLoadProjectConfigValidation(t *testing.T) {
	projectDir := t.TempDir()
	dir := filepath.Join(projectDir, NewsroomDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	configYAML := strings.TrimSpace(`
version: 1
api:
  base_url: ftp://news.example.com
`)
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(configYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	c := &Config{ProjectDir: projectDir, NewsroomProjectDir: dir, Project: DefaultProjectConfig()}
	if err := c.loadProjectConfig(); err == nil {
		t.Fatalf("expected validation error but got none")
	}
}

func TestNewConfigHonorsEnv(t *testing.T) {
	t.Setenv("NEWSROOM_API_URL", "https://api.example.org/")
	t.Setenv("NEWSROOM_API_TIMEOUT", "750ms")
	t.Setenv("NEWSROOM_FORM_VALIDATE", "false")
	t.Setenv("NEWSROOM_METRICS_ADDR", "127.0.0.1:9464")
	c, err := NewConfig(t.TempDir())
	if err != nil {
		t.Fatalf("NewConfig returned error: %v", err)
	}
	if c.Project.API.BaseURL != "https://api.example.org" {
		t.Fatalf("base url = %s", c.Project.API.BaseURL)
	}
	if c.Project.API.Timeout != 750*time.Millisecond {
		t.Fatalf("timeout = %s", c.Project.API.Timeout)
	}
	if c.ValidateForm() {
		t.Fatalf("expected env to disable validation")
	}
	if c.Project.Metrics.Addr != "127.0.0.1:9464" {
		t.Fatalf("metrics addr = %q", c.Project.Metrics.Addr)
	}
}

func TestNewConfigRejectsBadEnvURL(t *testing.T) {
	t.Setenv("NEWSROOM_API_URL", "not a url")
	if _, err := NewConfig(t.TempDir()); err == nil {
		t.Fatalf("expected error for invalid NEWSROOM_API_URL")
	}
}
