package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/iw2rmb/tokenfield"
	"github.com/iw2rmb/tokenfield/internal/config"
	"github.com/iw2rmb/tokenfield/internal/logging"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("tokenfield-demo", flag.ContinueOnError)
	settingsPath := fs.String("config", "tokenfield.toml", "settings file (.toml, .yaml or .yml)")
	logPath := fs.String("log", "", "log file (default: no logging)")
	level := fs.String("level", "info", "log level")
	showVersion := fs.Bool("version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		_, err := fmt.Fprintln(stdout, tokenfield.VersionTag())
		return err
	}

	settings, err := config.Load(*settingsPath)
	if err != nil {
		return err
	}

	var logOut io.Writer = io.Discard
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	log := logging.New(logOut, *level, false)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)
	ctx, cancel := context.WithCancel(ctx)

	p := tea.NewProgram(newModel(ctx, settings, &log), tea.WithContext(ctx))

	g.Go(func() error {
		defer cancel()
		_, err := p.Run()
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	})

	g.Go(func() error {
		err := config.Watch(ctx, *settingsPath,
			func(s config.Settings) {
				log.Info().Str("path", *settingsPath).Int("recipients", len(s.Recipients)).Msg("settings reloaded")
				p.Send(settingsMsg{settings: s})
			},
			func(err error) { log.Warn().Err(err).Msg("settings reload failed") },
		)
		if err != nil {
			// The demo still runs without live reload.
			log.Warn().Err(err).Msg("watch disabled")
		}
		return nil
	})

	logStart(log, settings)
	return g.Wait()
}

func logStart(log zerolog.Logger, s config.Settings) {
	log.Info().
		Str("version", tokenfield.Version()).
		Int("recipients", len(s.Recipients)).
		Dur("latency", s.Latency()).
		Bool("force_pick", s.ForcePick).
		Msg("starting")
}
