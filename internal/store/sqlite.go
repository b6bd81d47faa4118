package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/campuspulse/activity-rank/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS activities (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	address     TEXT NOT NULL DEFAULT '',
	start_raw   TEXT NOT NULL DEFAULT '',
	end_raw     TEXT NOT NULL DEFAULT '',
	start_at    DATETIME,
	end_at      DATETIME,
	time_zone   TEXT NOT NULL DEFAULT '',
	sign_status INTEGER,
	created_at  DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_activities_title ON activities(title);
CREATE INDEX IF NOT EXISTS idx_activities_end_at ON activities(end_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// UpsertActivities inserts or refreshes a batch of records in one
// transaction. Records without an ID are assigned one.
func (s *SQLiteStore) UpsertActivities(ctx context.Context, records []model.ActivityRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO activities (id, title, address, start_raw, end_raw, start_at, end_at, time_zone, sign_status, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			address = excluded.address,
			start_raw = excluded.start_raw,
			end_raw = excluded.end_raw,
			start_at = excluded.start_at,
			end_at = excluded.end_at,
			time_zone = excluded.time_zone,
			sign_status = excluded.sign_status,
			updated_at = excluded.updated_at`,
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare upsert")
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, rec := range records {
		id := rec.ID
		if id == "" {
			id = uuid.New().String()
		}
		_, err := stmt.ExecContext(ctx,
			id, rec.Title, rec.AddressText, rec.StartRaw, rec.EndRaw,
			nullTime(rec.StartInstant), nullTime(rec.EndInstant),
			rec.TimeZone, nullInt(rec.SignStatus), now,
		)
		if err != nil {
			return 0, eris.Wrapf(err, "sqlite: upsert activity %s", id)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit upsert")
	}
	return len(records), nil
}

func (s *SQLiteStore) GetActivity(ctx context.Context, id string) (*model.ActivityRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, address, start_raw, end_raw, start_at, end_at, time_zone, sign_status FROM activities WHERE id = ?`,
		id,
	)
	rec, err := scanActivity(row)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get activity %s", id)
	}
	return rec, nil
}

func (s *SQLiteStore) ListActivities(ctx context.Context, filter ActivityFilter) ([]model.ActivityRecord, error) {
	query := `SELECT id, title, address, start_raw, end_raw, start_at, end_at, time_zone, sign_status FROM activities`
	var args []any

	if filter.TitleContains != "" {
		query += ` WHERE title LIKE ?`
		args = append(args, "%"+filter.TitleContains+"%")
	}
	query += ` ORDER BY start_at DESC, id`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list activities")
	}
	defer rows.Close()

	var out []model.ActivityRecord
	for rows.Next() {
		rec, err := scanActivity(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan activity")
		}
		out = append(out, *rec)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate activities")
}

func (s *SQLiteStore) SetSignStatus(ctx context.Context, activityID string, code int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE activities SET sign_status = ?, updated_at = ? WHERE id = ?`,
		code, time.Now().UTC(), activityID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: set sign status %s", activityID)
	}
	return checkRowsAffected(res, "activity", activityID)
}

// PruneEndedBefore deletes activities whose end instant falls before
// the cutoff. Records with no parsed end time are never pruned.
func (s *SQLiteStore) PruneEndedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM activities WHERE end_at IS NOT NULL AND end_at < ?`,
		cutoff.UTC(),
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prune ended activities")
	}
	n, err := res.RowsAffected()
	return int(n), eris.Wrap(err, "sqlite: rows affected")
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanActivity(row scannable) (*model.ActivityRecord, error) {
	var rec model.ActivityRecord
	var startAt, endAt sql.NullTime
	var signStatus sql.NullInt64

	err := row.Scan(&rec.ID, &rec.Title, &rec.AddressText, &rec.StartRaw, &rec.EndRaw,
		&startAt, &endAt, &rec.TimeZone, &signStatus)
	if err == sql.ErrNoRows {
		return nil, eris.New("activity not found")
	}
	if err != nil {
		return nil, err
	}

	if startAt.Valid {
		rec.StartInstant = startAt.Time
	}
	if endAt.Valid {
		rec.EndInstant = endAt.Time
	}
	if signStatus.Valid {
		code := int(signStatus.Int64)
		rec.SignStatus = &code
	}
	return &rec, nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t.UTC(), Valid: !t.IsZero()}
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}
