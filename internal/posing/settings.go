package posing

import "github.com/roach88/livepose/internal/history"

// Settings are the tunables a Capability reads from configuration.
type Settings struct {
	UndoStackSize       int
	ReconcileDelay      int
	SnapshotDelay       int
	ApplyModelTransform bool
}

// DefaultSettings returns the built-in tunables.
func DefaultSettings() Settings {
	return Settings{
		UndoStackSize:  history.DefaultCapacity,
		ReconcileDelay: 2,
		SnapshotDelay:  4,
	}
}
