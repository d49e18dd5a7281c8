// internal/config/config.go
//
// This package handles configuration and the .tastematch directory structure.
// Running any tastematch command in a directory creates .tastematch/ there.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// Dir is the name of the directory we create in each project
	Dir = ".tastematch"

	// DefaultHeartbeat is the pulse interval of the result screen
	DefaultHeartbeat = 2 * time.Second

	// DefaultReportTimeout bounds one score report
	DefaultReportTimeout = 5 * time.Second

	// DefaultSinkHost keeps the local score sink on loopback
	DefaultSinkHost = "127.0.0.1"

	// DefaultSinkPort is where `tastematch serve` listens
	DefaultSinkPort = 8766
)

const defaultProjectConfigYAML = `# tastematch project configuration
version: 1

quiz:
  # Path to a YAML question bank. Leave empty to use the built-in quiz.
  bank: ""

report:
  # Base URL of the score service. Scores are POSTed to <endpoint>/players/score.
  # Leave empty to disable reporting. Try "tastematch serve" for a local sink.
  endpoint: ""
  timeout: 5s

heartbeat:
  interval: 2s

sink:
  enabled: true
  host: 127.0.0.1
  port: 8766
`

// QuizConfig selects the question bank.
type QuizConfig struct {
	Bank string `yaml:"bank"`
}

// ReportConfig points at the score backend.
type ReportConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}

// HeartbeatConfig controls the result screen pulse.
type HeartbeatConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// SinkConfig configures the local score sink served by `tastematch serve`.
type SinkConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	Host    string `yaml:"host,omitempty"`
	Port    int    `yaml:"port,omitempty"`
}

// ProjectConfig models .tastematch/config.yaml.
type ProjectConfig struct {
	Version   int             `yaml:"version"`
	Quiz      QuizConfig      `yaml:"quiz"`
	Report    ReportConfig    `yaml:"report"`
	Heartbeat HeartbeatConfig `yaml:"heartbeat"`
	Sink      SinkConfig      `yaml:"sink"`
}

// Config holds the runtime configuration.
type Config struct {
	// ProjectDir is the directory tastematch was started from
	ProjectDir string

	// StateDir is ProjectDir/.tastematch
	StateDir string

	Project ProjectConfig
}

// InitDir creates the .tastematch directory structure in the given project
// directory and writes a commented default config when none exists.
//
// Structure created:
// .tastematch/
// ├── config.yaml
// └── logs/
func InitDir(projectDir string) error {
	root := filepath.Join(projectDir, Dir)
	if err := os.MkdirAll(filepath.Join(root, "logs"), 0o755); err != nil {
		return err
	}
	return ensureProjectConfig(filepath.Join(root, "config.yaml"))
}

// NewConfig loads the project config, applying defaults and environment overrides.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir: projectDir,
		StateDir:   filepath.Join(projectDir, Dir),
		Project:    defaultProjectConfig(),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Project.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// LogsDir returns the path to the logs directory
func (c *Config) LogsDir() string {
	return filepath.Join(c.StateDir, "logs")
}

// ProjectConfigPath returns the on-disk location for the project config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.StateDir, "config.yaml")
}

// BankPath returns the configured question bank, or "" for the built-in one.
func (c *Config) BankPath() string {
	return c.Project.Quiz.Bank
}

// ReportEndpoint returns the score service base URL, or "" when disabled.
func (c *Config) ReportEndpoint() string {
	return c.Project.Report.Endpoint
}

// ReportTimeout returns the per-report timeout.
func (c *Config) ReportTimeout() time.Duration {
	return c.Project.Report.Timeout
}

// HeartbeatInterval returns the result screen pulse interval.
func (c *Config) HeartbeatInterval() time.Duration {
	return c.Project.Heartbeat.Interval
}

// SinkEnabled reports whether `tastematch serve` may bind. Unset means yes.
func (c *Config) SinkEnabled() bool {
	return c.Project.Sink.Enabled == nil || *c.Project.Sink.Enabled
}

// SinkAddress returns the sink bind address in host:port form.
func (c *Config) SinkAddress() string {
	host, port := c.Project.Sink.Host, c.Project.Sink.Port
	if host == "" {
		host = DefaultSinkHost
	}
	if port == 0 {
		port = DefaultSinkPort
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}

func (c *Config) applyEnvOverrides() error {
	if value, ok := os.LookupEnv("TASTEMATCH_REPORT_ENDPOINT"); ok {
		c.Project.Report.Endpoint = strings.TrimRight(strings.TrimSpace(value), "/")
	}
	if value := strings.TrimSpace(os.Getenv("TASTEMATCH_QUIZ_BANK")); value != "" {
		c.Project.Quiz.Bank = resolvePath(c.ProjectDir, value)
	}
	if value := strings.TrimSpace(os.Getenv("TASTEMATCH_SINK_ENABLED")); value != "" {
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("TASTEMATCH_SINK_ENABLED: %w", err)
		}
		c.Project.Sink.Enabled = &enabled
	}
	if value := strings.TrimSpace(os.Getenv("TASTEMATCH_SINK_HOST")); value != "" {
		c.Project.Sink.Host = value
	}
	if value := strings.TrimSpace(os.Getenv("TASTEMATCH_SINK_PORT")); value != "" {
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("TASTEMATCH_SINK_PORT: %w", err)
		}
		c.Project.Sink.Port = port
	}
	return nil
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

	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize(c.ProjectDir)
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

func defaultProjectConfig() ProjectConfig {
	pc := ProjectConfig{}
	pc.applyDefaults()
	return pc
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if pc.Report.Timeout == 0 {
		pc.Report.Timeout = DefaultReportTimeout
	}
	if pc.Heartbeat.Interval == 0 {
		pc.Heartbeat.Interval = DefaultHeartbeat
	}
	if pc.Sink.Host == "" {
		pc.Sink.Host = DefaultSinkHost
	}
	if pc.Sink.Port == 0 {
		pc.Sink.Port = DefaultSinkPort
	}
}

func (pc *ProjectConfig) normalize(base string) {
	pc.Quiz.Bank = resolvePath(base, pc.Quiz.Bank)
	pc.Report.Endpoint = strings.TrimRight(strings.TrimSpace(pc.Report.Endpoint), "/")
	pc.Sink.Host = strings.TrimSpace(pc.Sink.Host)
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if pc.Report.Timeout < 0 {
		return fmt.Errorf("report.timeout must not be negative")
	}
	if pc.Heartbeat.Interval < 0 {
		return fmt.Errorf("heartbeat.interval must not be negative")
	}
	if ep := pc.Report.Endpoint; ep != "" && !strings.HasPrefix(ep, "http://") && !strings.HasPrefix(ep, "https://") {
		return fmt.Errorf("report.endpoint must start with http:// or https://")
	}
	if pc.Sink.Port < 1 || pc.Sink.Port > 65535 {
		return fmt.Errorf("sink.port %d is out of range", pc.Sink.Port)
	}
	return nil
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0o644)
}
