package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/livepose/internal/document"
)

// PoseRecord describes one library entry.
type PoseRecord struct {
	ID          string
	Name        string
	ContentHash string
	BoneCount   int
	Seq         int64
}

// SavePose stores p under name, replacing any previous content. Saving
// identical content again leaves the row untouched, including its seq.
func (s *Store) SavePose(ctx context.Context, name string, p *document.Pose) (PoseRecord, error) {
	if name == "" {
		return PoseRecord{}, errors.New("save pose: empty name")
	}

	body, err := document.Encode(p)
	if err != nil {
		return PoseRecord{}, fmt.Errorf("save pose %q: %w", name, err)
	}
	hash, err := document.Hash(p)
	if err != nil {
		return PoseRecord{}, fmt.Errorf("save pose %q: %w", name, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO poses (id, name, content_hash, body, bone_count, seq)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			content_hash = excluded.content_hash,
			body = excluded.body,
			bone_count = excluded.bone_count,
			seq = excluded.seq
		WHERE poses.content_hash != excluded.content_hash
	`,
		s.ids.Generate(),
		name,
		hash,
		body,
		len(p.Bones),
		s.clock.Next(),
	)
	if err != nil {
		return PoseRecord{}, fmt.Errorf("save pose %q: %w", name, err)
	}

	return s.poseRecord(ctx, name)
}

// LoadPose returns the pose stored under name.
func (s *Store) LoadPose(ctx context.Context, name string) (*document.Pose, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx, `SELECT body FROM poses WHERE name = ?`, name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load pose %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load pose %q: %w", name, err)
	}

	doc, err := document.Decode(body)
	if err != nil {
		return nil, fmt.Errorf("load pose %q: %w", name, err)
	}
	p, err := document.Native(doc)
	if err != nil {
		return nil, fmt.Errorf("load pose %q: %w", name, err)
	}
	return p, nil
}

// ListPoses returns every library entry ordered by name.
func (s *Store) ListPoses(ctx context.Context) ([]PoseRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, content_hash, bone_count, seq
		FROM poses
		ORDER BY name ASC COLLATE BINARY
	`)
	if err != nil {
		return nil, fmt.Errorf("list poses: %w", err)
	}
	defer rows.Close()

	var out []PoseRecord
	for rows.Next() {
		var r PoseRecord
		if err := rows.Scan(&r.ID, &r.Name, &r.ContentHash, &r.BoneCount, &r.Seq); err != nil {
			return nil, fmt.Errorf("list poses: scan: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list poses: %w", err)
	}
	return out, nil
}

// DeletePose removes the pose stored under name.
func (s *Store) DeletePose(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM poses WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete pose %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete pose %q: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("delete pose %q: %w", name, ErrNotFound)
	}
	return nil
}

func (s *Store) poseRecord(ctx context.Context, name string) (PoseRecord, error) {
	var r PoseRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, content_hash, bone_count, seq FROM poses WHERE name = ?
	`, name).Scan(&r.ID, &r.Name, &r.ContentHash, &r.BoneCount, &r.Seq)
	if err != nil {
		return PoseRecord{}, fmt.Errorf("read pose %q: %w", name, err)
	}
	return r, nil
}
