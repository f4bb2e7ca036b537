// internal/config/config.go
//
// This package handles configuration and the .newsroom directory structure.
// Every directory newsroom runs from gets a .newsroom/ folder holding the
// project config file and the log files.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// NewsroomDir is the name of the directory we create in each project
	NewsroomDir = ".newsroom"

	defaultBaseURL    = "http://localhost:9090"
	defaultTimeout    = 10 * time.Second
	defaultDateLayout = "02 Jan 2006"
)

const defaultProjectConfigYAML = `# newsroom configuration
version: 1

api:
  # Base URL of the articles API. NEWSROOM_API_URL overrides this value.
  base_url: http://localhost:9090
  timeout: 10s
  rate_limit:
    rps: 5
    burst: 10
  retry:
    max_attempts: 3
    initial_delay: 250ms
    max_delay: 2s
  breaker:
    max_requests: 3
    interval: 30s
    timeout: 30s
    failure_threshold: 0.6
    min_requests: 5

form:
  # Check author and comment before posting instead of relying on the API.
  validate: true

ui:
  date_format: 02 Jan 2006

metrics:
  # Address for the Prometheus /metrics endpoint, e.g. 127.0.0.1:9464.
  # Empty disables it. NEWSROOM_METRICS_ADDR overrides this value.
  addr: ""
`

// RateLimitConfig bounds outbound request rate.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// RetryConfig controls read retries.
type RetryConfig struct {
	MaxAttempts  int           `yaml:"max_attempts"`
	InitialDelay time.Duration `yaml:"initial_delay"`
	MaxDelay     time.Duration `yaml:"max_delay"`
}

// BreakerConfig controls the API circuit breaker.
type BreakerConfig struct {
	MaxRequests      uint32        `yaml:"max_requests"`
	Interval         time.Duration `yaml:"interval"`
	Timeout          time.Duration `yaml:"timeout"`
	FailureThreshold float64       `yaml:"failure_threshold"`
	MinRequests      uint32        `yaml:"min_requests"`
}

// APIConfig describes the remote articles API.
type APIConfig struct {
	BaseURL   string          `yaml:"base_url"`
	Timeout   time.Duration   `yaml:"timeout"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Retry     RetryConfig     `yaml:"retry"`
	Breaker   BreakerConfig   `yaml:"breaker"`
}

// FormConfig captures comment form preferences.
type FormConfig struct {
	Validate bool `yaml:"validate"`
}

// UIConfig captures presentation preferences.
type UIConfig struct {
	DateFormat string `yaml:"date_format"`
}

// MetricsConfig controls the optional Prometheus endpoint.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// ProjectConfig models .newsroom/config.yaml.
type ProjectConfig struct {
	Version int           `yaml:"version"`
	API     APIConfig     `yaml:"api"`
	Form    FormConfig    `yaml:"form"`
	UI      UIConfig      `yaml:"ui"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// Config holds the runtime configuration for newsroom.
type Config struct {
	// ProjectDir is the directory where the user ran `newsroom` from
	ProjectDir string

	// NewsroomProjectDir is ProjectDir/.newsroom
	NewsroomProjectDir string

	Project ProjectConfig
}

// InitNewsroomDir creates the .newsroom directory structure in the given
// project directory and writes a default config file if none exists.
//
// Structure created:
// .newsroom/
// ├── config.yaml
// └── logs/
func InitNewsroomDir(projectDir string) error {
	dir := filepath.Join(projectDir, NewsroomDir)
	if err := os.MkdirAll(filepath.Join(dir, "logs"), 0o755); err != nil {
		return err
	}
	return ensureProjectConfig(filepath.Join(dir, "config.yaml"))
}

// NewConfig loads .newsroom/config.yaml (if present) and applies environment
// overrides.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir:         projectDir,
		NewsroomProjectDir: filepath.Join(projectDir, NewsroomDir),
		Project:            DefaultProjectConfig(),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	cfg.Project.applyEnvOverrides()
	if err := cfg.Project.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// LogsDir returns the path to the logs directory
func (c *Config) LogsDir() string {
	return filepath.Join(c.NewsroomProjectDir, "logs")
}

// ProjectConfigPath returns the on-disk location for the project config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.NewsroomProjectDir, "config.yaml")
}

// DateFormat returns the layout used for article and comment dates.
func (c *Config) DateFormat() string {
	if c == nil || strings.TrimSpace(c.Project.UI.DateFormat) == "" {
		return defaultDateLayout
	}
	return c.Project.UI.DateFormat
}

// ValidateForm reports whether drafts are checked before posting.
func (c *Config) ValidateForm() bool {
	return c != nil && c.Project.Form.Validate
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	parsed := DefaultProjectConfig()
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize()
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

// DefaultProjectConfig returns the configuration used when no file exists.
func DefaultProjectConfig() ProjectConfig {
	pc := ProjectConfig{
		Version: 1,
		API: APIConfig{
			BaseURL: defaultBaseURL,
			Timeout: defaultTimeout,
		},
		Form: FormConfig{Validate: true},
		UI:   UIConfig{DateFormat: defaultDateLayout},
	}
	pc.applyDefaults()
	return pc
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if pc.API.Timeout <= 0 {
		pc.API.Timeout = defaultTimeout
	}
	if pc.API.RateLimit.RPS <= 0 {
		pc.API.RateLimit.RPS = 5
	}
	if pc.API.RateLimit.Burst <= 0 {
		pc.API.RateLimit.Burst = 10
	}
	r := &pc.API.Retry
	if r.MaxAttempts <= 0 {
		r.MaxAttempts = 3
	}
	if r.InitialDelay <= 0 {
		r.InitialDelay = 250 * time.Millisecond
	}
	if r.MaxDelay <= 0 {
		r.MaxDelay = 2 * time.Second
	}
	b := &pc.API.Breaker
	if b.MaxRequests == 0 {
		b.MaxRequests = 3
	}
	if b.Interval <= 0 {
		b.Interval = 30 * time.Second
	}
	if b.Timeout <= 0 {
		b.Timeout = 30 * time.Second
	}
	if b.FailureThreshold <= 0 {
		b.FailureThreshold = 0.6
	}
	if b.MinRequests == 0 {
		b.MinRequests = 5
	}
}

func (pc *ProjectConfig) normalize() {
	pc.API.BaseURL = strings.TrimRight(strings.TrimSpace(pc.API.BaseURL), "/")
	if pc.API.BaseURL == "" {
		pc.API.BaseURL = defaultBaseURL
	}
	pc.Metrics.Addr = strings.TrimSpace(pc.Metrics.Addr)
	pc.UI.DateFormat = strings.TrimSpace(pc.UI.DateFormat)
	if pc.UI.DateFormat == "" {
		pc.UI.DateFormat = defaultDateLayout
	}
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	u, err := url.Parse(pc.API.BaseURL)
	if err != nil {
		return fmt.Errorf("api.base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.base_url must use http or https")
	}
	if u.Host == "" {
		return fmt.Errorf("api.base_url must include a host")
	}
	if pc.API.Breaker.FailureThreshold > 1 {
		return fmt.Errorf("api.breaker.failure_threshold must be <= 1")
	}
	if pc.API.Retry.MaxDelay < pc.API.Retry.InitialDelay {
		return fmt.Errorf("api.retry.max_delay must be >= initial_delay")
	}
	return nil
}

func (pc *ProjectConfig) applyEnvOverrides() {
	if value := strings.TrimSpace(os.Getenv("NEWSROOM_API_URL")); value != "" {
		pc.API.BaseURL = strings.TrimRight(value, "/")
	}
	if value := strings.TrimSpace(os.Getenv("NEWSROOM_API_TIMEOUT")); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			pc.API.Timeout = d
		}
	}
	if value := strings.TrimSpace(os.Getenv("NEWSROOM_METRICS_ADDR")); value != "" {
		pc.Metrics.Addr = value
	}
	if value := strings.TrimSpace(os.Getenv("NEWSROOM_FORM_VALIDATE")); value != "" {
		if enabled, err := strconv.ParseBool(value); err == nil {
			pc.Form.Validate = enabled
		}
	}
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0o644)
}
