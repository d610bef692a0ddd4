package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/livepose/internal/document"
)

// ValidationResult describes an importable pose file.
type ValidationResult struct {
	File     string `json:"file"`
	Kind     string `json:"kind"`
	Bones    int    `json:"bones"`
	MainHand int    `json:"main_hand"`
	OffHand  int    `json:"off_hand"`
	Hash     string `json:"hash"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <pose-file>",
		Short: "Check that a pose file can be imported",
		Long: `Decode a pose file and report its variant and bone counts.

Native and legacy documents are accepted; legacy documents are upgraded
before counting. Scene documents and poses without bones are rejected.

Exit codes:
  0 - Pose file is importable
  1 - Pose file was rejected
  2 - Command error (file not found, unreadable)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)
	formatter.VerboseLog("validating %s", path)

	doc, lerr := loadDocument(path)
	if lerr != nil {
		return lerr.fail(formatter)
	}
	kind := doc.Kind()

	p, lerr := resolveNative(doc)
	if lerr != nil {
		return lerr.fail(formatter)
	}

	hash, err := document.Hash(p)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeDecode, err.Error(), nil)
	}

	result := ValidationResult{
		File:     filepath.Base(path),
		Kind:     string(kind),
		Bones:    len(p.Bones),
		MainHand: len(p.MainHand),
		OffHand:  len(p.OffHand),
		Hash:     hash,
	}

	if formatter.JSON() {
		return formatter.Success(result)
	}
	return formatter.Success(fmt.Sprintf("✓ %s: %s pose, %d bones, %d main hand, %d off hand\n  hash: %s",
		result.File, result.Kind, result.Bones, result.MainHand, result.OffHand, result.Hash))
}
