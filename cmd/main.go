package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"plexloc/internal/services"
	"plexloc/internal/shared"
)

// loadStartupConfig reads the config file when one exists, falling back to the
// embedded defaults plus env overrides. A parse error is returned for logging;
// the defaults still apply so an env-only deployment keeps working.
func loadStartupConfig(path string) (*shared.Config, error) {
	if _, err := os.Stat(path); err != nil {
		return shared.DefaultConfig(), nil
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		return shared.DefaultConfig(), err
	}
	return config, nil
}

func main() {
	config, configErr := loadStartupConfig("config.toml")

	var logWriter io.Writer
	var logCloser io.Closer
	if config.Logging.Dir != "" {
		w, c, err := shared.OpenLogWriter(config.Logging.Dir)
		if err == nil {
			logWriter = w
			logCloser = c
		}
	}
	logger := shared.NewLogger(logWriter)
	if logCloser != nil {
		defer logCloser.Close()
	}
	if configErr != nil {
		logger.Warn("ignoring malformed config.toml, using defaults", "error", configErr)
	}

	plex := services.NewPlexService(config.Plex.Host, config.Plex.Token, nil)

	runner := NewRunner(RunnerOpts{
		Config: config,
		Plex:   plex,
		Logger: logger,
	})

	app := &cli.Command{
		Name:    "plexloc",
		Usage:   "Localize Plex metadata: phonetic sort titles and translated tags",
		Version: "1.0.0",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("verbose") {
				shared.SetLogLevel(logger, log.DebugLevel)
			}
			return ctx, nil
		},
		Commands: runner.register(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
