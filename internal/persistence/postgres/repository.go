package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/TheOneWhoCameBefore/fsy-navigator-sub000/internal/domain"
	"github.com/TheOneWhoCameBefore/fsy-navigator-sub000/internal/observability"
	"github.com/TheOneWhoCameBefore/fsy-navigator-sub000/internal/roster"
)

// DefaultRetain is how many revisions are kept when no other value is set.
const DefaultRetain = 5

// Repository provides Postgres-backed storage for roster snapshots.
type Repository struct {
	pool   *pgxpool.Pool
	retain int
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool, retain: DefaultRetain}
}

// WithRetain sets how many revisions ReplaceSnapshot keeps, the current one included.
func (r *Repository) WithRetain(n int) *Repository {
	if n > 0 {
		r.retain = n
	}
	return r
}

// ReplaceSnapshot stores snap and makes it the current revision. Storing a
// revision that already exists only moves the current marker. It reports
// whether the revision was new.
func (r *Repository) ReplaceSnapshot(ctx context.Context, snap roster.Snapshot) (created bool, err error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	tag, err := tx.Exec(ctx,
		`INSERT INTO roster_snapshots (revision, received_at) VALUES ($1, $2) ON CONFLICT (revision) DO NOTHING`,
		snap.Revision, snap.ReceivedAt)
	if err != nil {
		return false, err
	}
	created = tag.RowsAffected() == 1

	if created {
		if err = insertContents(ctx, tx, snap); err != nil {
			return false, err
		}
	}

	if _, err = tx.Exec(ctx, `UPDATE roster_snapshots SET is_current = FALSE WHERE is_current AND revision <> $1`, snap.Revision); err != nil {
		return false, err
	}
	if _, err = tx.Exec(ctx, `UPDATE roster_snapshots SET is_current = TRUE WHERE revision = $1`, snap.Revision); err != nil {
		return false, err
	}

	const prune = `DELETE FROM roster_snapshots
        WHERE NOT is_current AND revision NOT IN (
            SELECT revision FROM roster_snapshots ORDER BY received_at DESC LIMIT $1)`
	if _, err = tx.Exec(ctx, prune, r.retain); err != nil {
		return false, err
	}

	if err = tx.Commit(ctx); err != nil {
		return false, err
	}
	observability.RecordSnapshotStored(snap.ReceivedAt)
	return created, nil
}

func insertContents(ctx context.Context, tx pgx.Tx, snap roster.Snapshot) error {
	batch := &pgx.Batch{}
	for i, rec := range snap.Records {
		body, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encode event %d: %w", i, err)
		}
		batch.Queue(`INSERT INTO roster_events (revision, position, payload) VALUES ($1, $2, $3::jsonb)`,
			snap.Revision, i, string(body))
	}
	for role, people := range snap.RoleAssignments {
		if people == nil {
			people = []string{}
		}
		batch.Queue(`INSERT INTO role_assignments (revision, role, people) VALUES ($1, $2, $3)`,
			snap.Revision, role, people)
	}
	if batch.Len() == 0 {
		return nil
	}
	return tx.SendBatch(ctx, batch).Close()
}

// CurrentRevision returns the revision marked current, or roster.ErrNoSnapshot.
func (r *Repository) CurrentRevision(ctx context.Context) (string, error) {
	var revision string
	err := r.pool.QueryRow(ctx, `SELECT revision FROM roster_snapshots WHERE is_current`).Scan(&revision)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", roster.ErrNoSnapshot
		}
		return "", err
	}
	return revision, nil
}

// LoadSnapshot reads a stored revision with its rows in original order.
func (r *Repository) LoadSnapshot(ctx context.Context, revision string) (*roster.Snapshot, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	tx, err := conn.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly, IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	snap := roster.Snapshot{Revision: revision, RoleAssignments: map[string][]string{}}
	err = tx.QueryRow(ctx, `SELECT received_at FROM roster_snapshots WHERE revision = $1`, revision).Scan(&snap.ReceivedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, roster.ErrNoSnapshot
		}
		return nil, err
	}

	rows, err := tx.Query(ctx, `SELECT payload FROM roster_events WHERE revision = $1 ORDER BY position`, revision)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			rows.Close()
			return nil, err
		}
		var rec domain.RawRecord
		if err := json.Unmarshal(payload, &rec); err != nil {
			rows.Close()
			return nil, fmt.Errorf("decode event payload: %w", err)
		}
		snap.Records = append(snap.Records, rec)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	roleRows, err := tx.Query(ctx, `SELECT role, people FROM role_assignments WHERE revision = $1`, revision)
	if err != nil {
		return nil, err
	}
	defer roleRows.Close()
	for roleRows.Next() {
		var role string
		var people []string
		if err := roleRows.Scan(&role, &people); err != nil {
			return nil, err
		}
		snap.RoleAssignments[role] = people
	}
	if err := roleRows.Err(); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &snap, nil
}
