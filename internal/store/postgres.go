package store

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/campuspulse/activity-rank/internal/db"
	"github.com/campuspulse/activity-rank/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"get_activity":    `SELECT id, title, address, start_raw, end_raw, start_at, end_at, time_zone, sign_status FROM activities WHERE id = $1`,
	"set_sign_status": `UPDATE activities SET sign_status = $1, updated_at = $2 WHERE id = $3`,
	"prune_ended":     `DELETE FROM activities WHERE end_at IS NOT NULL AND end_at < $1`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	// Apply pool sizing from config with sensible defaults.
	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	// Prepare frequently-used statements on each new connection.
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// Pool returns the underlying database pool for subsystems that need
// direct query access.
func (s *PostgresStore) Pool() db.Pool {
	return s.pool
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS activities (
	id          TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	title       TEXT NOT NULL,
	address     TEXT NOT NULL DEFAULT '',
	start_raw   TEXT NOT NULL DEFAULT '',
	end_raw     TEXT NOT NULL DEFAULT '',
	start_at    TIMESTAMPTZ,
	end_at      TIMESTAMPTZ,
	time_zone   TEXT NOT NULL DEFAULT '',
	sign_status INTEGER,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_activities_title ON activities(title);
CREATE INDEX IF NOT EXISTS idx_activities_end_at ON activities(end_at);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

// activityColumns is the column order used by the bulk upsert path.
var activityColumns = []string{
	"id", "title", "address", "start_raw", "end_raw",
	"start_at", "end_at", "time_zone", "sign_status", "updated_at",
}

// UpsertActivities bulk-loads a snapshot through a temp table and
// INSERT ... ON CONFLICT, assigning IDs to records that lack one.
func (s *PostgresStore) UpsertActivities(ctx context.Context, records []model.ActivityRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	rows := make([][]any, 0, len(records))
	for _, rec := range records {
		id := rec.ID
		if id == "" {
			id = uuid.New().String()
		}
		rows = append(rows, []any{
			id, rec.Title, rec.AddressText, rec.StartRaw, rec.EndRaw,
			timeOrNil(rec.StartInstant), timeOrNil(rec.EndInstant),
			rec.TimeZone, rec.SignStatus, now,
		})
	}

	n, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "activities",
		Columns:      activityColumns,
		ConflictKeys: []string{"id"},
	}, rows)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: upsert activities")
	}
	return int(n), nil
}

func (s *PostgresStore) GetActivity(ctx context.Context, id string) (*model.ActivityRecord, error) {
	var rec model.ActivityRecord
	var startAt, endAt *time.Time
	var signStatus *int

	err := s.pool.QueryRow(ctx,
		`SELECT id, title, address, start_raw, end_raw, start_at, end_at, time_zone, sign_status FROM activities WHERE id = $1`,
		id,
	).Scan(&rec.ID, &rec.Title, &rec.AddressText, &rec.StartRaw, &rec.EndRaw,
		&startAt, &endAt, &rec.TimeZone, &signStatus)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get activity %s", id)
	}

	if startAt != nil {
		rec.StartInstant = *startAt
	}
	if endAt != nil {
		rec.EndInstant = *endAt
	}
	rec.SignStatus = signStatus
	return &rec, nil
}

func (s *PostgresStore) ListActivities(ctx context.Context, filter ActivityFilter) ([]model.ActivityRecord, error) {
	query := `SELECT id, title, address, start_raw, end_raw, start_at, end_at, time_zone, sign_status FROM activities`
	var args []any

	if filter.TitleContains != "" {
		args = append(args, "%"+filter.TitleContains+"%")
		query += ` WHERE title ILIKE $1`
	}
	query += ` ORDER BY start_at DESC NULLS LAST, id`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list activities")
	}
	defer rows.Close()

	var out []model.ActivityRecord
	for rows.Next() {
		var rec model.ActivityRecord
		var startAt, endAt *time.Time
		var signStatus *int
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.AddressText, &rec.StartRaw, &rec.EndRaw,
			&startAt, &endAt, &rec.TimeZone, &signStatus); err != nil {
			return nil, eris.Wrap(err, "postgres: scan activity")
		}
		if startAt != nil {
			rec.StartInstant = *startAt
		}
		if endAt != nil {
			rec.EndInstant = *endAt
		}
		rec.SignStatus = signStatus
		out = append(out, rec)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate activities")
}

func (s *PostgresStore) SetSignStatus(ctx context.Context, activityID string, code int) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE activities SET sign_status = $1, updated_at = $2 WHERE id = $3`,
		code, time.Now().UTC(), activityID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: set sign status %s", activityID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("activity not found: %s", activityID)
	}
	return nil
}

func (s *PostgresStore) PruneEndedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM activities WHERE end_at IS NOT NULL AND end_at < $1`,
		cutoff.UTC(),
	)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: prune ended activities")
	}
	return int(tag.RowsAffected()), nil
}

// IsNotFound reports whether err represents a missing row.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

func timeOrNil(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	u := t.UTC()
	return &u
}
