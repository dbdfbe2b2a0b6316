package main

import (
	"testing"
	"time"

	"github.com/f4ah6o/wwwserve-go/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
	"gotest.tools/v3/fs"
)

func defaultOptions(t *testing.T, args ...string) *options {
	t.Helper()
	opts := &options{cfg: config.Default(), flags: &pflag.FlagSet{}}
	installFlags(opts.flags, opts)
	assert.NilError(t, opts.flags.Parse(args))
	return opts
}

func TestLoadConfigFlagsOnly(t *testing.T) {
	root := fs.NewDir(t, "www")
	defer root.Remove()

	opts := defaultOptions(t, "--root", root.Path(), "--port", "9000", "--standard-reason-phrase")
	cfg, err := loadConfig(opts)
	assert.NilError(t, err)
	assert.Check(t, is.Equal(cfg.Root, root.Path()))
	assert.Check(t, is.Equal(cfg.Port, 9000))
	assert.Check(t, cfg.StandardReasonPhrase)
	assert.Check(t, is.Equal(cfg.Host, "localhost"))
}

func TestLoadConfigFlagsOverrideFile(t *testing.T) {
	root := fs.NewDir(t, "www")
	defer root.Remove()
	confDir := fs.NewDir(t, "conf", fs.WithFile("wwwserve.toml", `
root = "`+root.Path()+`"
host = "0.0.0.0"
port = 8000
read_timeout = "10s"
`))
	defer confDir.Remove()

	opts := defaultOptions(t, "--config", confDir.Join("wwwserve.toml"), "--port", "9001")
	cfg, err := loadConfig(opts)
	assert.NilError(t, err)
	assert.Check(t, is.Equal(cfg.Root, root.Path()))
	assert.Check(t, is.Equal(cfg.Addr(), "0.0.0.0:9001"))
	assert.Check(t, is.Equal(cfg.ReadTimeout.Duration, 10*time.Second))
}

func TestLoadConfigInvalid(t *testing.T) {
	opts := defaultOptions(t, "--root", "/definitely/not/here")
	_, err := loadConfig(opts)
	assert.Check(t, is.ErrorContains(err, "invalid root"))
}

func TestNewLogger(t *testing.T) {
	cfg := config.Default()
	cfg.LogLevel = "debug"
	cfg.LogFormat = "json"

	logger, err := newLogger(cfg)
	assert.NilError(t, err)
	assert.Check(t, is.Equal(logger.GetLevel(), logrus.DebugLevel))
	_, ok := logger.Formatter.(*logrus.JSONFormatter)
	assert.Check(t, ok)
}
