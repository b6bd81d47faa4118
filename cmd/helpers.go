package main

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/rotisserie/eris"

	"github.com/campuspulse/activity-rank/internal/importer"
	"github.com/campuspulse/activity-rank/internal/model"
	"github.com/campuspulse/activity-rank/internal/registry"
	"github.com/campuspulse/activity-rank/internal/store"
)

// loadRegistry returns the embedded registries unless an override
// directory is configured.
func loadRegistry() (*registry.Registry, error) {
	if cfg.Registry.Dir != "" {
		return registry.LoadFromDir(cfg.Registry.Dir)
	}
	return registry.Load()
}

// openStore opens the configured persistence backend.
func openStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		return store.NewSQLite(cfg.Store.SQLitePath)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		})
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// loadRecords reads activity records from a snapshot source, or from
// the store when source is empty.
func loadRecords(ctx context.Context, source string) ([]model.ActivityRecord, error) {
	if source != "" {
		return importer.New().Load(ctx, source)
	}

	st, err := openStore(ctx)
	if err != nil {
		return nil, err
	}
	defer st.Close() //nolint:errcheck

	return st.ListActivities(ctx, store.ActivityFilter{})
}

// resolveNow parses an optional RFC 3339 override of the evaluation
// instant.
func resolveNow(at string) (time.Time, error) {
	if at == "" {
		return time.Now(), nil
	}
	t, err := time.Parse(time.RFC3339, at)
	if err != nil {
		return time.Time{}, eris.Wrapf(err, "parse --at %q", at)
	}
	return t, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(v), "encode output")
}
