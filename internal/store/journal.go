package store

import (
	"context"
	"fmt"

	"github.com/roach88/livepose/internal/history"
)

const (
	stackUndo = "undo"
	stackRedo = "redo"
)

// SaveHistory replaces the stored journal of entityID with h's stacks.
func (s *Store) SaveHistory(ctx context.Context, entityID string, h *history.History) error {
	undo, redo := h.Entries()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save history %q: %w", entityID, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM history_entries WHERE entity_id = ?`, entityID); err != nil {
		return fmt.Errorf("save history %q: clear: %w", entityID, err)
	}

	for _, stack := range []struct {
		name    string
		entries []history.Entry
	}{{stackUndo, undo}, {stackRedo, redo}} {
		for pos, e := range stack.entries {
			info, err := marshalInfo(e.Info)
			if err != nil {
				return fmt.Errorf("save history %q: %w", entityID, err)
			}
			mt, err := marshalTransform(e.ModelTransform)
			if err != nil {
				return fmt.Errorf("save history %q: %w", entityID, err)
			}

			_, err = tx.ExecContext(ctx, `
				INSERT INTO history_entries
				(id, entity_id, stack, position, info, model_transform, seq)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`,
				s.ids.Generate(),
				entityID,
				stack.name,
				pos,
				info,
				mt,
				s.clock.Next(),
			)
			if err != nil {
				return fmt.Errorf("save history %q: insert: %w", entityID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save history %q: commit: %w", entityID, err)
	}
	return nil
}

// LoadHistory rebuilds the history of entityID with the given capacity.
// Returns ErrNotFound when no journal exists.
func (s *Store) LoadHistory(ctx context.Context, entityID string, capacity int) (*history.History, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT stack, info, model_transform
		FROM history_entries
		WHERE entity_id = ?
		ORDER BY stack ASC COLLATE BINARY, position ASC
	`, entityID)
	if err != nil {
		return nil, fmt.Errorf("load history %q: %w", entityID, err)
	}
	defer rows.Close()

	var undo, redo []history.Entry
	found := false
	for rows.Next() {
		found = true
		var (
			stack string
			info  []byte
			mt    string
		)
		if err := rows.Scan(&stack, &info, &mt); err != nil {
			return nil, fmt.Errorf("load history %q: scan: %w", entityID, err)
		}

		e := history.Entry{}
		if e.Info, err = unmarshalInfo(info); err != nil {
			return nil, fmt.Errorf("load history %q: %w", entityID, err)
		}
		if e.ModelTransform, err = unmarshalTransform(mt); err != nil {
			return nil, fmt.Errorf("load history %q: %w", entityID, err)
		}

		switch stack {
		case stackUndo:
			undo = append(undo, e)
		case stackRedo:
			redo = append(redo, e)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load history %q: %w", entityID, err)
	}
	if !found {
		return nil, fmt.Errorf("load history %q: %w", entityID, ErrNotFound)
	}

	h := history.New(capacity)
	h.Restore(undo, redo)
	return h, nil
}

// DeleteHistory drops the stored journal of entityID.
func (s *Store) DeleteHistory(ctx context.Context, entityID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM history_entries WHERE entity_id = ?`, entityID); err != nil {
		return fmt.Errorf("delete history %q: %w", entityID, err)
	}
	return nil
}
