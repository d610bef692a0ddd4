package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/livepose/internal/document"
	"github.com/roach88/livepose/internal/store"
)

// LibraryOptions holds flags shared by the library subcommands.
type LibraryOptions struct {
	*RootOptions
	DB  string
	Out string
}

// LibraryEntry is one stored pose as reported by the CLI.
type LibraryEntry struct {
	Name        string `json:"name"`
	ID          string `json:"id"`
	ContentHash string `json:"content_hash"`
	Bones       int    `json:"bones"`
	Seq         int64  `json:"seq"`
}

func toEntry(r store.PoseRecord) LibraryEntry {
	return LibraryEntry{
		Name:        r.Name,
		ID:          r.ID,
		ContentHash: r.ContentHash,
		Bones:       r.BoneCount,
		Seq:         r.Seq,
	}
}

// NewLibraryCommand creates the library command and its subcommands.
func NewLibraryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LibraryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "library",
		Short: "Manage the saved pose library",
		Long: `Save, load, list and delete named poses in the sqlite pose library.

The library path defaults to store.path from the configuration.`,
	}
	cmd.PersistentFlags().StringVar(&opts.DB, "db", "", "pose library database (default store.path)")

	cmd.AddCommand(&cobra.Command{
		Use:           "save <name> <pose.json>",
		Short:         "Store a pose file under a name",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLibrarySave(opts, args[0], args[1], cmd)
		},
	})

	load := &cobra.Command{
		Use:           "load <name>",
		Short:         "Write a stored pose as a native pose file",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLibraryLoad(opts, args[0], cmd)
		},
	}
	load.Flags().StringVarP(&opts.Out, "out", "o", "", "output file (default stdout)")
	cmd.AddCommand(load)

	cmd.AddCommand(&cobra.Command{
		Use:           "list",
		Short:         "List stored poses",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLibraryList(opts, cmd)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:           "delete <name>",
		Short:         "Remove a stored pose",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLibraryDelete(opts, args[0], cmd)
		},
	})

	return cmd
}

func (o *LibraryOptions) dbPath() string {
	if o.DB != "" {
		return o.DB
	}
	return o.Config.Store.Path
}

// withLibrary opens the library, runs fn and closes it.
func withLibrary(opts *LibraryOptions, f *OutputFormatter, fn func(*store.Store) error) error {
	st, lerr := openLibrary(opts.dbPath())
	if lerr != nil {
		return lerr.fail(f)
	}
	defer st.Close()
	f.VerboseLog("library: %s", opts.dbPath())
	return fn(st)
}

func runLibrarySave(opts *LibraryOptions, name, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	p, lerr := loadNative(path)
	if lerr != nil {
		return lerr.fail(formatter)
	}

	return withLibrary(opts, formatter, func(st *store.Store) error {
		rec, err := st.SavePose(cmdContext(cmd), name, p)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
		}
		opts.logger().Info("pose saved", "name", rec.Name, "seq", rec.Seq)

		entry := toEntry(rec)
		if formatter.JSON() {
			return formatter.Success(entry)
		}
		return formatter.Success(fmt.Sprintf("✓ saved %s (%d bones)", entry.Name, entry.Bones))
	})
}

func runLibraryLoad(opts *LibraryOptions, name string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	return withLibrary(opts, formatter, func(st *store.Store) error {
		p, err := st.LoadPose(cmdContext(cmd), name)
		if errors.Is(err, store.ErrNotFound) {
			return formatter.Fail(ExitFailure, ErrCodeNotFound, fmt.Sprintf("pose not found: %s", name), nil)
		}
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
		}

		data, err := document.Encode(p)
		if err != nil {
			return formatter.Fail(ExitFailure, ErrCodeGeneric, err.Error(), nil)
		}
		if opts.Out == "" && formatter.JSON() {
			return formatter.Success(json.RawMessage(data))
		}
		if lerr := writeOutput(formatter, opts.Out, data); lerr != nil {
			return lerr.fail(formatter)
		}
		if opts.Out != "" {
			return formatter.Success(fmt.Sprintf("✓ wrote %s to %s", name, opts.Out))
		}
		return nil
	})
}

func runLibraryList(opts *LibraryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	return withLibrary(opts, formatter, func(st *store.Store) error {
		recs, err := st.ListPoses(cmdContext(cmd))
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
		}

		entries := make([]LibraryEntry, 0, len(recs))
		for _, r := range recs {
			entries = append(entries, toEntry(r))
		}
		if formatter.JSON() {
			return formatter.Success(entries)
		}
		if len(entries) == 0 {
			return formatter.Success("No poses saved.")
		}

		var b strings.Builder
		for i, e := range entries {
			if i > 0 {
				b.WriteByte('\n')
			}
			fmt.Fprintf(&b, "%-24s %3d bones  %s", e.Name, e.Bones, shortHash(e.ContentHash))
		}
		return formatter.Success(b.String())
	})
}

func runLibraryDelete(opts *LibraryOptions, name string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	return withLibrary(opts, formatter, func(st *store.Store) error {
		err := st.DeletePose(cmdContext(cmd), name)
		if errors.Is(err, store.ErrNotFound) {
			return formatter.Fail(ExitFailure, ErrCodeNotFound, fmt.Sprintf("pose not found: %s", name), nil)
		}
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
		}
		if formatter.JSON() {
			return formatter.Success(map[string]string{"deleted": name})
		}
		return formatter.Success(fmt.Sprintf("✓ deleted %s", name))
	})
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
