package persist

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/blake2b"
)

// SnapshotRow is one stored entity archive. Document is the YAML written
// by ecs.Manager.Serialize.
type SnapshotRow struct {
	UUID     uuid.UUID
	Scene    string
	Name     string
	Digest   []byte
	Document []byte
	SavedAt  time.Time
}

// Digest is the content hash used to skip unchanged saves.
func Digest(doc []byte) []byte {
	sum := blake2b.Sum256(doc)
	return sum[:]
}

type SnapshotRepo struct {
	db   *DB
	seen digestCache
}

func NewSnapshotRepo(db *DB) *SnapshotRepo {
	return &SnapshotRepo{db: db, seen: digestCache{}}
}

// digestCache remembers the last digest written per entity so unchanged
// archives skip the round trip entirely.
type digestCache map[uuid.UUID][]byte

func (c digestCache) changed(id uuid.UUID, digest []byte) bool {
	prev, ok := c[id]
	return !ok || !bytes.Equal(prev, digest)
}

func (c digestCache) remember(id uuid.UUID, digest []byte) { c[id] = digest }
func (c digestCache) forget(id uuid.UUID)                  { delete(c, id) }

// Save upserts the archive of one root entity and journals the write in the
// same transaction. It returns false when the document is unchanged since
// the last save.
func (r *SnapshotRepo) Save(ctx context.Context, scene, name string, id uuid.UUID, doc []byte) (bool, error) {
	digest := Digest(doc)
	if !r.seen.changed(id, digest) {
		return false, nil
	}

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("snapshot begin: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`INSERT INTO snapshots (uuid, scene, name, digest, document, saved_at)
		 VALUES ($1::uuid, $2, $3, $4, $5, NOW())
		 ON CONFLICT (uuid) DO UPDATE
		 SET scene = EXCLUDED.scene, name = EXCLUDED.name, digest = EXCLUDED.digest,
		     document = EXCLUDED.document, saved_at = EXCLUDED.saved_at
		 WHERE snapshots.digest <> EXCLUDED.digest OR snapshots.scene <> EXCLUDED.scene`,
		id.String(), scene, name, digest, string(doc),
	)
	if err != nil {
		return false, fmt.Errorf("snapshot upsert: %w", err)
	}
	if tag.RowsAffected() == 0 {
		r.seen.remember(id, digest)
		return false, nil
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO snapshot_journal (uuid, scene, digest) VALUES ($1::uuid, $2, $3)`,
		id.String(), scene, digest,
	); err != nil {
		return false, fmt.Errorf("snapshot journal: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("snapshot commit: %w", err)
	}
	r.seen.remember(id, digest)
	return true, nil
}

// Load returns the stored snapshot for id, or nil if there is none.
func (r *SnapshotRepo) Load(ctx context.Context, id uuid.UUID) (*SnapshotRow, error) {
	var (
		row SnapshotRow
		raw string
		doc string
	)
	err := r.db.Pool.QueryRow(ctx,
		`SELECT uuid::text, scene, name, digest, document, saved_at
		 FROM snapshots WHERE uuid = $1::uuid`, id.String(),
	).Scan(&raw, &row.Scene, &row.Name, &row.Digest, &doc, &row.SavedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if row.UUID, err = uuid.Parse(raw); err != nil {
		return nil, fmt.Errorf("snapshot uuid %q: %w", raw, err)
	}
	row.Document = []byte(doc)
	return &row, nil
}

// List returns every snapshot of a scene, oldest first. An empty scene
// lists all scenes.
func (r *SnapshotRepo) List(ctx context.Context, scene string) ([]SnapshotRow, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT uuid::text, scene, name, digest, document, saved_at
		 FROM snapshots
		 WHERE $1::text = '' OR scene = $1::text
		 ORDER BY saved_at, uuid`, scene,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []SnapshotRow
	for rows.Next() {
		var (
			row SnapshotRow
			raw string
			doc string
		)
		if err := rows.Scan(&raw, &row.Scene, &row.Name, &row.Digest, &doc, &row.SavedAt); err != nil {
			return nil, err
		}
		if row.UUID, err = uuid.Parse(raw); err != nil {
			return nil, fmt.Errorf("snapshot uuid %q: %w", raw, err)
		}
		row.Document = []byte(doc)
		result = append(result, row)
	}
	return result, rows.Err()
}

// Delete removes the snapshot of id.
func (r *SnapshotRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.seen.forget(id)
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM snapshots WHERE uuid = $1::uuid`, id.String())
	return err
}

// History returns how many times id was written.
func (r *SnapshotRepo) History(ctx context.Context, id uuid.UUID) (int, error) {
	var n int
	err := r.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM snapshot_journal WHERE uuid = $1::uuid`, id.String(),
	).Scan(&n)
	return n, err
}
