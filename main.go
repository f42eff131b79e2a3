package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	app "github.com/rocketscienceinc/tictactoe-lan/internal"
	"github.com/rocketscienceinc/tictactoe-lan/internal/config"
)

const releaseVersion = "1.0.0"

// main - is the entry point of the application. It parses flags, loads the configuration and runs the game server.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCmd(&flags{}).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

type flags struct {
	configPath string
	host       string
	port       string
	logLevel   string
	eventLog   string
}

func newCmd(opts *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tictactoe",
		Short:         "Two-player tic-tac-toe served over the local network.",
		Args:          cobra.NoArgs,
		Version:       releaseVersion,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := initConfig(cmd.Flags(), opts)
			if err != nil {
				return err
			}

			logger := initLogger(conf)

			if err = app.RunApp(cmd.Context(), logger, conf); err != nil {
				return fmt.Errorf("app run failed: %w", err)
			}

			return nil
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&opts.configPath, "config", "c", "./config.yml", "path to the config file")
	fs.StringVarP(&opts.host, "host", "b", "", "address to bind to (overrides http-host)")
	fs.StringVarP(&opts.port, "port", "p", "", "port to listen on (overrides http-port)")
	fs.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error (overrides log-level)")
	fs.StringVar(&opts.eventLog, "event-log", "", "path of the game event log (overrides event-log-path)")

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("tictactoe v{{.Version}}\n")

	return cmd
}

// initialize config, flags set on the command line win over the file.
func initConfig(fs *pflag.FlagSet, opts *flags) (*config.Config, error) {
	conf, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	if fs.Changed("host") {
		conf.HTTPHost = opts.host
	}
	if fs.Changed("port") {
		conf.HTTPPort = opts.port
	}
	if fs.Changed("log-level") {
		conf.LogLevel = opts.logLevel
	}
	if fs.Changed("event-log") {
		conf.EventLogPath = opts.eventLog
	}

	if err = conf.Validate(); err != nil {
		return nil, err
	}

	return conf, nil
}

// initialize logger.
func initLogger(conf *config.Config) *slog.Logger {
	var level slog.Level

	switch conf.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
