// Command fieldview draws the portfolio's particle background in a terminal.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chetan079bca005-code/ck-protocol/internal/config"
	"github.com/chetan079bca005-code/ck-protocol/internal/content"
	"github.com/chetan079bca005-code/ck-protocol/internal/observability"
	"github.com/chetan079bca005-code/ck-protocol/internal/particles"
	"github.com/chetan079bca005-code/ck-protocol/internal/termview"
	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type options struct {
	configFile string
	logFile    string
	count      int
	seed       int64
	fps        int
	noIntro    bool
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:           "fieldview",
		Short:         "Draw the CK // PROTOCOL particle field in the terminal.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolve(cmd, opts)
			if err != nil {
				return err
			}
			// The terminal belongs to the view; logs only go to the file sink.
			observability.Initialize(cfg.Logger, zapcore.AddSync(io.Discard))
			defer observability.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg.Field, !opts.noIntro, observability.GetLogger())
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configFile, "config", "c", "", "config file")
	f.StringVar(&opts.logFile, "log-file", "", "write JSON logs to this file")
	f.IntVarP(&opts.count, "count", "n", particles.DefaultCount, "number of particles (default from config)")
	f.Int64Var(&opts.seed, "seed", 0, "layout seed (0 picks one from the clock)")
	f.IntVar(&opts.fps, "fps", 60, "frames per second (default from config)")
	f.BoolVar(&opts.noIntro, "no-intro", false, "skip the boot screen")
	return cmd
}

// resolve loads the shared configuration and applies flag overrides.
func resolve(cmd *cobra.Command, opts options) (*config.Config, error) {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("count") {
		cfg.Field.Count = opts.count
	}
	if flags.Changed("seed") {
		cfg.Field.Seed = opts.seed
	}
	if flags.Changed("fps") {
		cfg.Field.FPS = opts.fps
	}
	if opts.logFile != "" {
		cfg.Logger.LogFile = opts.logFile
	}

	// Lines grow with the square of the count; keep the server's ceiling.
	if cfg.Field.Count < 0 || cfg.Field.Count > cfg.Field.MaxCount {
		return nil, fmt.Errorf("--count must be between 0 and %d, got %d", cfg.Field.MaxCount, cfg.Field.Count)
	}
	if cfg.Field.FPS < 1 || cfg.Field.FPS > 120 {
		return nil, fmt.Errorf("--fps must be between 1 and 120, got %d", cfg.Field.FPS)
	}
	return cfg, nil
}

func run(ctx context.Context, fc config.FieldConfig, intro bool, logger *zap.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer screen.Fini()

	pcfg := particles.DefaultConfig()
	pcfg.Count = fc.Count
	pcfg.Seed = fc.Seed
	profile := content.Default()

	view := termview.New(screen, termview.Options{
		Field:    pcfg,
		Interval: time.Second / time.Duration(fc.FPS),
		Intro:    intro,
		Name:     profile.Name,
		Initials: profile.Initials,
		Titles:   profile.Titles,
	}, logger)

	return view.Run(ctx)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
