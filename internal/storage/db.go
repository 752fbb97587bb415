package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"orkg/internal/graph"
)

type DB struct {
	Pool *pgxpool.Pool

	schemaMu    sync.Mutex
	schemaReady bool
}

// querier is what GraphRepo needs from either the pool or a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func NewDB(ctx context.Context, dsn string) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &DB{Pool: pool}, nil
}

func (d *DB) Close() {
	if d != nil && d.Pool != nil {
		d.Pool.Close()
	}
}

// InTx runs fn with a GraphRepo bound to a fresh transaction. The
// transaction commits only if fn succeeds.
func (d *DB) InTx(ctx context.Context, fn func(GraphStore) error) error {
	if err := d.EnsureSchema(ctx); err != nil {
		return err
	}
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin graph tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	if err := fn(&GraphRepo{q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit graph tx: %w", err)
	}
	return nil
}

// EnsureSchema creates the graph tables and seeds the vocabulary once per
// process.
func (d *DB) EnsureSchema(ctx context.Context) error {
	d.schemaMu.Lock()
	defer d.schemaMu.Unlock()

	if d.schemaReady {
		return nil
	}
	ddl := `
CREATE SEQUENCE IF NOT EXISTS thing_id_seq;

CREATE TABLE IF NOT EXISTS things (
  thing_id TEXT PRIMARY KEY,
  kind TEXT NOT NULL CHECK (kind IN ('resource','literal','predicate','class')),
  label TEXT NOT NULL,
  classes TEXT[] NOT NULL DEFAULT '{}',
  datatype TEXT NOT NULL DEFAULT '',
  uri TEXT,
  extraction_method TEXT NOT NULL DEFAULT 'UNKNOWN',
  created_by TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_things_class_uri ON things(uri) WHERE kind = 'class' AND uri IS NOT NULL;

CREATE TABLE IF NOT EXISTS statements (
  seq BIGSERIAL,
  statement_id TEXT PRIMARY KEY,
  subject_id TEXT NOT NULL REFERENCES things(thing_id),
  predicate_id TEXT NOT NULL REFERENCES things(thing_id),
  object_id TEXT NOT NULL REFERENCES things(thing_id),
  list_index INT NOT NULL DEFAULT 0,
  created_by TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_statements_subject ON statements(subject_id, predicate_id);
CREATE INDEX IF NOT EXISTS idx_statements_object ON statements(object_id);

CREATE TABLE IF NOT EXISTS curators (
  contributor_id TEXT PRIMARY KEY
);
`
	if _, err := d.Pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensure graph schema: %w", err)
	}
	for _, p := range graph.VocabularyPredicates {
		if _, err := d.Pool.Exec(ctx, `
INSERT INTO things(thing_id, kind, label) VALUES ($1, 'predicate', $1)
ON CONFLICT (thing_id) DO NOTHING`, string(p)); err != nil {
			return fmt.Errorf("seed predicate %s: %w", p, err)
		}
	}
	for _, c := range graph.VocabularyClasses {
		if _, err := d.Pool.Exec(ctx, `
INSERT INTO things(thing_id, kind, label) VALUES ($1, 'class', $1)
ON CONFLICT (thing_id) DO NOTHING`, string(c)); err != nil {
			return fmt.Errorf("seed class %s: %w", c, err)
		}
	}
	d.schemaReady = true
	return nil
}

// AddCurators registers contributors allowed to delete resources they did
// not create.
func (d *DB) AddCurators(ctx context.Context, ids ...graph.ContributorID) error {
	if err := d.EnsureSchema(ctx); err != nil {
		return err
	}
	for _, id := range ids {
		if _, err := d.Pool.Exec(ctx, `INSERT INTO curators(contributor_id) VALUES ($1) ON CONFLICT DO NOTHING`, string(id)); err != nil {
			return fmt.Errorf("add curator: %w", err)
		}
	}
	return nil
}
