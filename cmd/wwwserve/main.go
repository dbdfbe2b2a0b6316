// Package main provides a small static file server for a local directory.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/f4ah6o/wwwserve-go/internal/config"
	"github.com/f4ah6o/wwwserve-go/internal/dispatch"
	"github.com/f4ah6o/wwwserve-go/internal/server"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type options struct {
	configFile string
	cfg        *config.Config
	flags      *pflag.FlagSet
}

func newRootCommand() *cobra.Command {
	opts := &options{cfg: config.Default()}

	cmd := &cobra.Command{
		Use:           "wwwserve [OPTIONS]",
		Short:         "Serve a directory over HTTP/1.1",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg)
		},
	}

	opts.flags = cmd.Flags()
	installFlags(opts.flags, opts)
	return cmd
}

func installFlags(flags *pflag.FlagSet, opts *options) {
	cfg := opts.cfg
	flags.StringVarP(&opts.configFile, "config", "c", "", "Path to a TOML or YAML config file")
	flags.StringVar(&cfg.Root, "root", cfg.Root, "Directory to serve")
	flags.StringVar(&cfg.IndexFile, "index", cfg.IndexFile, "File served for directory paths ending in /")
	flags.StringVar(&cfg.Host, "host", cfg.Host, "Host to listen on")
	flags.IntVarP(&cfg.Port, "port", "p", cfg.Port, "Port to listen on")
	flags.IntVar(&cfg.ReadBufferSize, "read-buffer-size", cfg.ReadBufferSize, "Bytes read from each connection")
	flags.DurationVar(&cfg.ReadTimeout.Duration, "read-timeout", cfg.ReadTimeout.Duration, "Time allowed for a client to send its request (0 disables)")
	flags.IntVar(&cfg.MaxConnections, "max-connections", cfg.MaxConnections, "Maximum connections served at once (0 is unlimited)")
	flags.BoolVar(&cfg.StandardReasonPhrase, "standard-reason-phrase", cfg.StandardReasonPhrase, `Send "Moved Permanently" instead of "Move Permanently" for 301`)
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, `Log level ("debug", "info", "warn", "error")`)
	flags.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, `Log format ("text", "json")`)
}

// loadConfig merges the config file under the flags that were set
// explicitly and validates the result.
func loadConfig(opts *options) (*config.Config, error) {
	cfg := opts.cfg
	if opts.configFile != "" {
		fileCfg, err := config.Load(opts.configFile)
		if err != nil {
			return nil, err
		}
		overrideFromFlags(fileCfg, cfg, opts.flags)
		cfg = fileCfg
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func overrideFromFlags(dst, flagCfg *config.Config, flags *pflag.FlagSet) {
	flags.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "root":
			dst.Root = flagCfg.Root
		case "index":
			dst.IndexFile = flagCfg.IndexFile
		case "host":
			dst.Host = flagCfg.Host
		case "port":
			dst.Port = flagCfg.Port
		case "read-buffer-size":
			dst.ReadBufferSize = flagCfg.ReadBufferSize
		case "read-timeout":
			dst.ReadTimeout = flagCfg.ReadTimeout
		case "max-connections":
			dst.MaxConnections = flagCfg.MaxConnections
		case "standard-reason-phrase":
			dst.StandardReasonPhrase = flagCfg.StandardReasonPhrase
		case "log-level":
			dst.LogLevel = flagCfg.LogLevel
		case "log-format":
			dst.LogFormat = flagCfg.LogFormat
		}
	})
}

func newLogger(cfg *config.Config) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := logrus.New()
	logger.SetLevel(level)
	if cfg.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger, nil
}

func run(ctx context.Context, cfg *config.Config) error {
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	absRoot, err := filepath.Abs(cfg.Root)
	if err != nil {
		return errors.Wrap(err, "failed to resolve directory")
	}

	d := dispatch.New(os.DirFS(absRoot),
		dispatch.WithIndexFile(cfg.IndexFile),
		dispatch.WithLogger(logger),
	)
	srv := server.New(d, server.Options{
		ReadBufferSize:       cfg.ReadBufferSize,
		ReadTimeout:          cfg.ReadTimeout.Duration,
		StandardReasonPhrase: cfg.StandardReasonPhrase,
		Logger:               logger,
	})

	ln, err := server.Listen(ctx, cfg.Addr(), cfg.MaxConnections)
	if err != nil {
		return err
	}

	fmt.Printf("🌐 Serving %s at %s\n", color.CyanString(absRoot), color.GreenString("http://%s/", ln.Addr()))
	fmt.Println(color.New(color.Faint).Sprint("Press Ctrl+C to stop"))

	srv.Serve(ctx, ln)
	logger.Info("server stopped")
	return nil
}

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		os.Exit(1)
	}
}
