package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/livepose/internal/config"
	"github.com/roach88/livepose/internal/engine"
	"github.com/roach88/livepose/internal/posing"
	"github.com/roach88/livepose/internal/rig"
	"github.com/roach88/livepose/internal/store"
)

// SessionOptions holds flags for the session command.
type SessionOptions struct {
	*RootOptions
	Rig      string
	In       string
	DB       string
	SaveAs   string
	Resume   bool
	Journal  bool
	Duration time.Duration
}

// SessionResult summarises a finished live session.
type SessionResult struct {
	Entity     string `json:"entity"`
	Ticks      int64  `json:"ticks"`
	UndoDepth  int    `json:"undo_depth"`
	RedoDepth  int    `json:"redo_depth"`
	Overridden int    `json:"overridden"`
	Resumed    bool   `json:"resumed"`
	SavedPose  string `json:"saved_pose,omitempty"`
	Journal    bool   `json:"journal_saved"`
}

// NewSessionCommand creates the session command.
func NewSessionCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SessionOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "session --rig <rig.cue> [--in <pose.json>]",
		Short: "Run a live posing session on the tick engine",
		Long: `Run the engine at engine.tick_interval until interrupted or until
--duration elapses.

Changes to the config file are applied to the running session; an undo
stack size of zero clears history. With --resume the entity's history
journal is loaded from the library first, and with --journal it is written
back on exit.

Examples:
  livepose session --rig humanoid.cue --in wave.json --duration 2s --save-as wave
  livepose session --rig humanoid.cue --resume --journal`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Rig, "rig", "", "rig definition (CUE)")
	cmd.Flags().StringVar(&opts.In, "in", "", "pose file to import at start")
	cmd.Flags().StringVar(&opts.DB, "db", "", "pose library database (default store.path)")
	cmd.Flags().StringVar(&opts.SaveAs, "save-as", "", "save the final pose to the library under this name")
	cmd.Flags().BoolVar(&opts.Resume, "resume", false, "restore the entity's history journal from the library")
	cmd.Flags().BoolVar(&opts.Journal, "journal", false, "write the entity's history journal to the library on exit")
	cmd.Flags().DurationVar(&opts.Duration, "duration", 0, "stop after this long (default: run until interrupted)")
	_ = cmd.MarkFlagRequired("rig")

	return cmd
}

func (o *SessionOptions) needsLibrary() bool {
	return o.Resume || o.Journal || o.SaveAs != ""
}

func (o *SessionOptions) dbPath() string {
	if o.DB != "" {
		return o.DB
	}
	return o.Config.Store.Path
}

func (o *SessionOptions) tickInterval() time.Duration {
	if o.Config.Engine.TickInterval > 0 {
		return o.Config.Engine.TickInterval
	}
	return 16 * time.Millisecond
}

func runSession(opts *SessionOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	log := opts.logger()
	ctx := cmdContext(cmd)

	def, lerr := loadRig(opts.Rig)
	if lerr != nil {
		return lerr.fail(formatter)
	}

	var st *store.Store
	if opts.needsLibrary() {
		st, lerr = openLibrary(opts.dbPath())
		if lerr != nil {
			return lerr.fail(formatter)
		}
		defer st.Close()
	}

	fw := engine.NewFramework(engine.WithLogger(log))
	r := rig.New(def, rig.WithLogger(log))
	c := posing.New(r, fw,
		posing.WithSettings(opts.posingSettings()),
		posing.WithLogger(log),
	)
	r.Attach(fw, c.Info)
	result := SessionResult{Entity: r.ID()}

	if opts.Resume {
		h, err := st.LoadHistory(ctx, r.ID(), c.Settings().UndoStackSize)
		switch {
		case errors.Is(err, store.ErrNotFound):
			log.Info("no history journal to resume", "entity", r.ID())
		case err != nil:
			return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
		default:
			c.RestoreHistory(h)
			result.Resumed = true
		}
	}

	if opts.In != "" {
		p, lerr := loadNative(opts.In)
		if lerr != nil {
			return lerr.fail(formatter)
		}
		if !c.ImportPose(p, posing.DefaultImportOptions()) {
			return formatter.Fail(ExitFailure, ErrCodeRejected, "rig rejected the pose", opts.In)
		}
	}

	if opts.loader != nil && opts.loader.File() != "" {
		opts.loader.Watch(func(cfg config.Config, err error) {
			if err != nil {
				log.Warn("config reload rejected", "error", err)
				return
			}
			fw.Post(func() { c.ApplySettings(cfg.PosingSettings()) })
		})
	}

	runCtx := ctx
	if opts.Duration > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, opts.Duration)
		defer cancel()
	}
	formatter.VerboseLog("session %s running every %s", r.ID(), opts.tickInterval())

	err := fw.Run(runCtx, opts.tickInterval())
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}

	saveCtx := context.WithoutCancel(ctx)
	if opts.SaveAs != "" {
		if _, err := st.SavePose(saveCtx, opts.SaveAs, c.ExportPose()); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
		}
		result.SavedPose = opts.SaveAs
	}
	if opts.Journal {
		if err := st.SaveHistory(saveCtx, r.ID(), c.History()); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
		}
		result.Journal = true
	}

	result.Ticks = fw.CurrentTick()
	result.UndoDepth, result.RedoDepth = c.History().Depth()
	result.Overridden = len(c.Info().Addresses())

	if formatter.JSON() {
		return formatter.Success(result)
	}
	return formatter.Success(fmt.Sprintf("✓ session %s: %d ticks, undo %d, redo %d, %d bones overridden",
		result.Entity, result.Ticks, result.UndoDepth, result.RedoDepth, result.Overridden))
}
