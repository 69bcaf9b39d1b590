// Package config provides configuration management for clipper.
// Configuration is loaded from an optional YAML file and environment variables,
// with sensible defaults. Command-line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// Default values
	DefaultServiceURL = "http://127.0.0.1:5000"
	DefaultTimeout    = 10 * time.Minute
	DefaultPort       = 8788
	DefaultLogLevel   = "info"

	// Environment variable names
	EnvServiceURL = "CLIPPER_SERVICE_URL"
	EnvTimeout    = "CLIPPER_TIMEOUT"
	EnvPort       = "CLIPPER_PORT"
	EnvLogLevel   = "CLIPPER_LOG_LEVEL"
	EnvHeadless   = "CLIPPER_HEADLESS"
	EnvConfigFile = "CLIPPER_CONFIG"
)

// Config defines the application configuration interface
type Config interface {
	ServiceURL() string
	Timeout() time.Duration
	Port() int
	LogLevel() string
	Headless() bool
}

// fileConfig mirrors the YAML config file layout.
type fileConfig struct {
	ServiceURL string `yaml:"service_url"`
	Timeout    string `yaml:"timeout"`
	Port       int    `yaml:"port"`
	LogLevel   string `yaml:"log_level"`
	Headless   bool   `yaml:"headless"`
}

// EnvConfig reads configuration from a config file and environment variables
type EnvConfig struct {
	serviceURL string
	timeout    time.Duration
	port       int
	logLevel   string
	headless   bool
}

// New creates a new EnvConfig with defaults, then applies the config file named
// by path (or CLIPPER_CONFIG when path is empty) and environment overrides.
func New(path string) (*EnvConfig, error) {
	cfg := &EnvConfig{
		serviceURL: DefaultServiceURL,
		timeout:    DefaultTimeout,
		port:       DefaultPort,
		logLevel:   DefaultLogLevel,
	}

	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *EnvConfig) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if fc.ServiceURL != "" {
		if err := c.SetServiceURL(fc.ServiceURL); err != nil {
			return fmt.Errorf("invalid service_url in %s: %w", path, err)
		}
	}
	if fc.Timeout != "" {
		d, err := ParseTimeout(fc.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout in %s: %w", path, err)
		}
		c.timeout = d
	}
	if fc.Port != 0 {
		if err := c.SetPort(fc.Port); err != nil {
			return fmt.Errorf("invalid port in %s: %w", path, err)
		}
	}
	if fc.LogLevel != "" {
		c.logLevel = fc.LogLevel
	}
	c.headless = fc.Headless

	return nil
}

func (c *EnvConfig) loadEnv() error {
	if v := os.Getenv(EnvServiceURL); v != "" {
		if err := c.SetServiceURL(v); err != nil {
			return fmt.Errorf("invalid %s: %w", EnvServiceURL, err)
		}
	}

	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := ParseTimeout(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvTimeout, err)
		}
		c.timeout = d
	}

	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvPort, err)
		}
		if err := c.SetPort(port); err != nil {
			return fmt.Errorf("invalid %s: %w", EnvPort, err)
		}
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		c.logLevel = v
	}

	if v := os.Getenv(EnvHeadless); v != "" {
		headless, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvHeadless, err)
		}
		c.headless = headless
	}

	return nil
}

// ServiceURL returns the base URL of the clipping service
func (c *EnvConfig) ServiceURL() string {
	return c.serviceURL
}

// Timeout returns the deadline applied to each clip request
func (c *EnvConfig) Timeout() time.Duration {
	return c.timeout
}

// Port returns the port of the local web page
func (c *EnvConfig) Port() int {
	return c.port
}

// LogLevel returns the log level (debug, info, warn, error)
func (c *EnvConfig) LogLevel() string {
	return c.logLevel
}

// Headless reports whether the tray companion is disabled
func (c *EnvConfig) Headless() bool {
	return c.headless
}

// SetServiceURL validates and overrides the service base URL.
func (c *EnvConfig) SetServiceURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("host is required")
	}
	c.serviceURL = strings.TrimRight(raw, "/")
	return nil
}

// SetTimeout overrides the request deadline.
func (c *EnvConfig) SetTimeout(d time.Duration) error {
	if d <= 0 {
		return errors.New("timeout must be positive")
	}
	c.timeout = d
	return nil
}

// SetPort validates and overrides the web page port.
func (c *EnvConfig) SetPort(port int) error {
	if port < 1 || port > 65535 {
		return errors.New("port must be between 1 and 65535")
	}
	c.port = port
	return nil
}

func (c *EnvConfig) SetLogLevel(level string) {
	c.logLevel = level
}

func (c *EnvConfig) SetHeadless(headless bool) {
	c.headless = headless
}

// ParseTimeout accepts a Go duration ("90s", "10m") or a bare number of seconds.
func ParseTimeout(v string) (time.Duration, error) {
	if secs, err := strconv.Atoi(v); err == nil {
		if secs <= 0 {
			return 0, errors.New("timeout must be positive")
		}
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, errors.New("timeout must be positive")
	}
	return d, nil
}

// Version information (set at build time via ldflags)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)
