package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/awantoch/gemini-proxy/constants"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Upstream UpstreamConfig `json:"upstream" yaml:"upstream"`
	Secrets  SecretsConfig  `json:"secrets" yaml:"secrets"`
	HTTP     HTTPConfig     `json:"http" yaml:"http"`
	Log      LogConfig      `json:"log" yaml:"log"`
	Tracing  *TracingConfig `json:"tracing,omitempty" yaml:"tracing,omitempty"`
}

// UpstreamConfig describes the generative-language API the proxy forwards to.
// APIKeyName is the secret looked up on every request (the variable name for the
// env driver). Timeout is a Go duration string such as "45s".
type UpstreamConfig struct {
	BaseURL    string `json:"base_url" yaml:"base_url"`
	Model      string `json:"model" yaml:"model"`
	APIKeyName string `json:"api_key_name" yaml:"api_key_name"`
	Timeout    string `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

type SecretsConfig struct {
	Driver string `json:"driver" yaml:"driver"`
	Region string `json:"region,omitempty" yaml:"region,omitempty"`
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
}

type HTTPConfig struct {
	Host string `json:"host" yaml:"host"`
	Port int    `json:"port" yaml:"port"`
}

type LogConfig struct {
	Level string `json:"level" yaml:"level"`
}

type TracingConfig struct {
	ServiceName string `json:"service_name" yaml:"service_name"`
	Exporter    string `json:"exporter" yaml:"exporter"`
	Endpoint    string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
}

// LoadConfig reads a JSON config file, or YAML when the extension is .yaml/.yml.
// Defaults are applied to anything the file leaves unset.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FromEnv builds a config purely from environment variables. Serverless entry
// points use it since they have no config file.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Upstream: UpstreamConfig{
			BaseURL: os.Getenv(constants.EnvBaseURL),
			Model:   os.Getenv(constants.EnvModel),
			Timeout: os.Getenv(constants.EnvTimeout),
		},
		Secrets: SecretsConfig{
			Driver: os.Getenv(constants.EnvSecretsDriver),
			Region: os.Getenv(constants.EnvSecretsRegion),
			Prefix: os.Getenv(constants.EnvSecretsPrefix),
		},
	}
	if exporter := os.Getenv(constants.EnvTracingExport); exporter != "" {
		cfg.Tracing = &TracingConfig{
			Exporter: exporter,
			Endpoint: os.Getenv(constants.EnvTracingTarget),
		}
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyDefaults fills zero-valued fields with their defaults.
func (c *Config) ApplyDefaults() {
	if c.Upstream.BaseURL == "" {
		c.Upstream.BaseURL = constants.DefaultUpstreamBaseURL
	}
	c.Upstream.BaseURL = strings.TrimRight(c.Upstream.BaseURL, "/")
	if c.Upstream.Model == "" {
		c.Upstream.Model = constants.DefaultModel
	}
	if c.Upstream.APIKeyName == "" {
		c.Upstream.APIKeyName = constants.EnvAPIKey
	}
	if c.Secrets.Driver == "" {
		c.Secrets.Driver = constants.SecretsDriverEnv
	}
	if c.HTTP.Host == "" {
		c.HTTP.Host = constants.DefaultHTTPHost
	}
	if c.HTTP.Port == 0 {
		c.HTTP.Port = constants.DefaultHTTPPort
	}
	if c.Tracing != nil && c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = constants.DefaultServiceName
	}
}

// Validate reports settings that would make every request fail.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Upstream.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid upstream base_url %q: %w", c.Upstream.BaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid upstream base_url %q: scheme and host are required", c.Upstream.BaseURL)
	}
	if _, err := c.Upstream.TimeoutDuration(); err != nil {
		return err
	}
	return nil
}

// TimeoutDuration parses Timeout, defaulting when unset.
func (u UpstreamConfig) TimeoutDuration() (time.Duration, error) {
	if u.Timeout == "" {
		return constants.DefaultUpstreamTimeout, nil
	}
	d, err := time.ParseDuration(u.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid upstream timeout %q: %w", u.Timeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid upstream timeout %q: must not be negative", u.Timeout)
	}
	return d, nil
}

// Addr returns the host:port the local server listens on.
func (h HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}
