package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// ConfigResult is the effective configuration and where it came from.
type ConfigResult struct {
	File     string         `json:"file"`
	Settings map[string]any `json:"settings"`
}

// NewConfigCommand creates the config command.
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print every configuration key after defaults, the config file and
LIVEPOSE_* environment overrides have been merged.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfig(rootOpts, cmd)
		},
	}

	return cmd
}

func runConfig(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	if opts.loader == nil {
		if err := opts.readConfig(); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
		}
	}

	result := ConfigResult{
		File:     opts.loader.File(),
		Settings: opts.loader.AllSettings(),
	}
	if formatter.JSON() {
		return formatter.Success(result)
	}

	data, err := yaml.Marshal(result.Settings)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeGeneric, err.Error(), nil)
	}
	file := result.File
	if file == "" {
		file = "(defaults)"
	}
	return formatter.Success(fmt.Sprintf("# %s\n%s", file, strings.TrimRight(string(data), "\n")))
}
