package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/livepose/internal/document"
	"github.com/roach88/livepose/internal/engine"
	"github.com/roach88/livepose/internal/posing"
	"github.com/roach88/livepose/internal/rig"
)

// MirrorOptions holds flags for the mirror command.
type MirrorOptions struct {
	*RootOptions
	Rig string
	In  string
	Out string
}

// MirrorResult summarises a mirrored pose written to a file.
type MirrorResult struct {
	Out   string `json:"out"`
	Bones int    `json:"bones"`
	Ticks int    `json:"ticks"`
}

// NewMirrorCommand creates the mirror command.
func NewMirrorCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MirrorOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "mirror --rig <rig.cue> --in <pose.json> [--out <pose.json>]",
		Short: "Mirror a pose across the rig's left/right axis",
		Long: `Apply a pose to a rig, mirror it and export the settled result.

The pose is imported with every component, mirrored the same way the
live editor does it, and exported once the engine has settled. Without
--out the mirrored document is written to stdout.

Examples:
  livepose mirror --rig humanoid.cue --in wave.json
  livepose mirror --rig humanoid.cue --in wave.json --out wave-mirrored.json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMirror(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Rig, "rig", "", "rig definition (CUE)")
	cmd.Flags().StringVar(&opts.In, "in", "", "pose file to mirror")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "output file (default stdout)")
	_ = cmd.MarkFlagRequired("rig")
	_ = cmd.MarkFlagRequired("in")

	return cmd
}

func runMirror(opts *MirrorOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	log := opts.logger()

	def, lerr := loadRig(opts.Rig)
	if lerr != nil {
		return lerr.fail(formatter)
	}
	p, lerr := loadNative(opts.In)
	if lerr != nil {
		return lerr.fail(formatter)
	}

	fw := engine.NewFramework(engine.WithLogger(log))
	r := rig.New(def, rig.WithLogger(log))
	c := posing.New(r, fw,
		posing.WithSettings(opts.posingSettings()),
		posing.WithLogger(log),
	)
	r.Attach(fw, c.Info)

	if !c.ImportPose(p, posing.ImportOptions{Preset: posing.PresetIPC, ModelTransform: true}) {
		return formatter.Fail(ExitFailure, ErrCodeRejected, "rig rejected the pose", opts.In)
	}
	fw.Tick()
	formatter.VerboseLog("imported %s onto %s", opts.In, r.ID())

	if !c.MirrorPose() {
		return formatter.Fail(ExitFailure, ErrCodeRejected, "rig has no bones to mirror", opts.Rig)
	}
	ticks, err := fw.Settle(0)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeNotSettled, err.Error(), nil)
	}
	fw.Tick()
	formatter.VerboseLog("mirrored in %d ticks", ticks+1)

	out := c.ExportPose()
	data, err := document.Encode(out)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeGeneric, err.Error(), nil)
	}

	if opts.Out == "" {
		if formatter.JSON() {
			return formatter.Success(json.RawMessage(data))
		}
		if lerr := writeOutput(formatter, "", data); lerr != nil {
			return lerr.fail(formatter)
		}
		return nil
	}

	if lerr := writeOutput(formatter, opts.Out, data); lerr != nil {
		return lerr.fail(formatter)
	}
	result := MirrorResult{Out: opts.Out, Bones: len(out.Bones), Ticks: ticks + 1}
	if formatter.JSON() {
		return formatter.Success(result)
	}
	return formatter.Success(fmt.Sprintf("✓ mirrored %d bones to %s", result.Bones, result.Out))
}
