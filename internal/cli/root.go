package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/livepose/internal/config"
	"github.com/roach88/livepose/internal/posing"
)

// RootOptions holds global flags for all commands, plus the state
// PersistentPreRunE derives from them.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string

	Logger *slog.Logger
	Config config.Config
	loader *config.Loader
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the livepose CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "livepose",
		Short: "LivePose - live skeletal pose editing",
		Long: `Pose documents, undo/redo history and mirroring for posable entities.

Commands run a headless tick engine so imports, reconciles and snapshots
settle exactly as they would in a live session.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			opts.Logger = newLogger(cmd.ErrOrStderr(), opts.Verbose)
			return opts.loadConfig()
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default $LIVEPOSE_CONFIG or <user config dir>/livepose/config.yaml)")

	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewMirrorCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewLibraryCommand(opts))
	cmd.AddCommand(NewSessionCommand(opts))
	cmd.AddCommand(NewConfigCommand(opts))

	return cmd
}

func (o *RootOptions) loadConfig() error {
	if err := o.readConfig(); err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	o.logger().Debug("config loaded", "file", o.loader.File())
	return nil
}

func (o *RootOptions) readConfig() error {
	o.loader = config.NewLoader(o.ConfigPath)
	c, err := o.loader.Load()
	if err != nil {
		return err
	}
	o.Config = c
	return nil
}

// posingSettings returns the configured capability settings, or the
// defaults when no config was loaded.
func (o *RootOptions) posingSettings() posing.Settings {
	if o.loader == nil {
		return posing.DefaultSettings()
	}
	return o.Config.PosingSettings()
}

// logger returns the configured logger, or a discarding one when the
// command runs without the root pre-run.
func (o *RootOptions) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.Logger
}

// newLogger writes diagnostics to w at debug level when verbose and at warn
// level otherwise.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
