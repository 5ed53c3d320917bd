// Package servecmder provides the serve command that runs the chat relay.
package servecmder

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/chatrelay/pkg/config"
	"github.com/papercomputeco/chatrelay/pkg/logger"
	"github.com/papercomputeco/chatrelay/relay"
)

// dotEnvFile is loaded from the working directory before configuration is
// resolved. Variables already present in the environment win.
const dotEnvFile = ".env"

type serveCommander struct {
	listen   string
	upstream string
	timeout  string
	logFile  string
	logJSON  bool
	debug    bool

	settings *config.Settings
	out      io.Writer
	logger   *slog.Logger
}

const serveLongDesc string = `Run the chat relay server.

The relay accepts POST /api/chat requests of the form
  {"messages": [{"role": "user", "content": "..."}]}
replaces any role the upstream would reject with "assistant" and forwards
the conversation to the OpenRouter chat completions API using the key in
OPENROUTER_API_KEY. The upstream reply is returned to the caller as-is.

Malformed requests are answered with 400 and never reach the upstream:
bodies that are not JSON, a missing or non-array "messages", an empty
"messages" array, or an entry that is not an object. An empty array is
rejected locally rather than forwarded for the upstream to refuse.

The server refuses to start when OPENROUTER_API_KEY is not set. A .env
file in the working directory is loaded first.`

const serveShortDesc string = "Run the chat relay server"

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.LoadDotEnv(dotEnvFile); err != nil {
				return err
			}

			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, config.RelayFlags, []string{
				config.FlagListen,
				config.FlagUpstream,
				config.FlagTimeout,
				config.FlagLogFile,
				config.FlagLogJSON,
			})

			cmder.settings, err = config.Resolve(v)
			if err != nil {
				return fmt.Errorf("resolving relay settings: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}
			cmder.out = cmd.OutOrStdout()

			return cmder.run()
		},
	}

	config.AddStringFlag(cmd, config.RelayFlags, config.FlagListen, &cmder.listen)
	config.AddStringFlag(cmd, config.RelayFlags, config.FlagUpstream, &cmder.upstream)
	config.AddStringFlag(cmd, config.RelayFlags, config.FlagTimeout, &cmder.timeout)
	config.AddStringFlag(cmd, config.RelayFlags, config.FlagLogFile, &cmder.logFile)
	config.AddBoolFlag(cmd, config.RelayFlags, config.FlagLogJSON, &cmder.logJSON)

	return cmd
}

func (c *serveCommander) run() error {
	closeLog, err := c.setupLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	r, err := relay.New(relay.Config{
		ListenAddr:  c.settings.Listen,
		UpstreamURL: c.settings.Upstream,
		Credential:  c.settings.Credential,
		Timeout:     c.settings.Timeout,
	}, c.logger)
	if err != nil {
		return fmt.Errorf("creating relay: %w", err)
	}
	defer r.Close()

	// Channel to capture errors from the server goroutine
	errChan := make(chan error, 1)

	go func() {
		if err := r.Run(); err != nil {
			errChan <- fmt.Errorf("relay error: %w", err)
		}
	}()

	// Wait for interrupt signal or error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", "signal", sig.String())
		return nil
	}
}

// setupLogger builds the serve logger: pretty output by default, JSON with
// --log-json, plus a JSON copy in --log-file when set. The returned func
// closes the log file.
func (c *serveCommander) setupLogger() (func(), error) {
	stdout := logger.New(
		logger.WithDebug(c.debug),
		logger.WithPretty(!c.settings.LogJSON),
		logger.WithJSON(c.settings.LogJSON),
		logger.WithWriter(c.out),
	)

	if c.settings.LogFile == "" {
		c.logger = stdout
		return func() {}, nil
	}

	f, err := os.OpenFile(c.settings.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	c.logger = logger.Multi(stdout, logger.New(
		logger.WithDebug(c.debug),
		logger.WithJSON(true),
		logger.WithWriter(f),
	))
	return func() { _ = f.Close() }, nil
}
