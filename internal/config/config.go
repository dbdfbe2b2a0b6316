// Package config holds the server settings and loads them from TOML or YAML
// files.
package config

import (
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so it can be written as "30s" in both TOML
// and YAML files.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config is the complete server configuration. It is read once at startup
// and never modified afterwards.
type Config struct {
	// Root is the directory tree being served.
	Root string `toml:"root" yaml:"root"`
	// IndexFile is served for directory targets that end in '/'.
	IndexFile string `toml:"index_file" yaml:"index_file"`
	Host      string `toml:"host" yaml:"host"`
	Port      int    `toml:"port" yaml:"port"`
	// ReadBufferSize caps the bytes read from a connection. The request line
	// must fit in a single read of this size.
	ReadBufferSize int      `toml:"read_buffer_size" yaml:"read_buffer_size"`
	ReadTimeout    Duration `toml:"read_timeout" yaml:"read_timeout"`
	// MaxConnections bounds concurrently served connections. 0 is unbounded.
	MaxConnections int `toml:"max_connections" yaml:"max_connections"`
	// StandardReasonPhrase sends "Moved Permanently" for 301 instead of the
	// legacy "Move Permanently".
	StandardReasonPhrase bool   `toml:"standard_reason_phrase" yaml:"standard_reason_phrase"`
	LogLevel             string `toml:"log_level" yaml:"log_level"`
	// LogFormat is "text" or "json".
	LogFormat string `toml:"log_format" yaml:"log_format"`
}

// Default returns the configuration used when no file or flag overrides it.
func Default() *Config {
	return &Config{
		Root:           "./www",
		IndexFile:      "index.html",
		Host:           "localhost",
		Port:           8080,
		ReadBufferSize: 1024,
		ReadTimeout:    Duration{30 * time.Second},
		LogLevel:       "info",
		LogFormat:      "text",
	}
}

// Load reads path over the defaults. The format is chosen by extension:
// .toml, .yaml or .yml.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, errors.Wrapf(err, "failed to parse TOML config %s", path)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "failed to parse YAML config %s", path)
		}
	default:
		return nil, errors.Errorf("unsupported config file extension %q", ext)
	}

	return cfg, nil
}

// Validate checks that the configuration can be served.
func (c *Config) Validate() error {
	info, err := os.Stat(c.Root)
	if err != nil {
		return errors.Wrapf(err, "invalid root %q", c.Root)
	}
	if !info.IsDir() {
		return errors.Errorf("root %q is not a directory", c.Root)
	}
	if c.IndexFile == "" || strings.ContainsAny(c.IndexFile, `/\`) {
		return errors.Errorf("index file %q must be a plain file name", c.IndexFile)
	}
	if c.Port < 0 || c.Port > 65535 {
		return errors.Errorf("port %d out of range", c.Port)
	}
	if c.ReadBufferSize <= 0 {
		return errors.Errorf("read buffer size must be positive, got %d", c.ReadBufferSize)
	}
	if c.ReadTimeout.Duration < 0 {
		return errors.Errorf("read timeout must not be negative, got %s", c.ReadTimeout)
	}
	if c.MaxConnections < 0 {
		return errors.Errorf("max connections must not be negative, got %d", c.MaxConnections)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "invalid log level")
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return errors.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}

// Addr returns the listen address in host:port form.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
