package pgstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/proyectos-app/proyectos-backend/internal/storage/docstore"
)

// Collections created by the embedded migrations.
var knownCollections = map[string]bool{
	"proyectos": true,
	"piezas":    true,
}

type Options struct {
	DSN       string
	MaxConns  int32
	ConnectTO time.Duration
	PingTO    time.Duration
}

// Store keeps documents in jsonb columns, one table per collection.
type Store struct {
	pool *pgxpool.Pool
}

var _ docstore.Store = (*Store)(nil)

// Open runs migrations and opens a pgx pool.
func Open(ctx context.Context, opt Options) (*Store, error) {
	if opt.DSN == "" {
		return nil, fmt.Errorf("DB_DSN is not set")
	}
	if opt.ConnectTO == 0 {
		opt.ConnectTO = 5 * time.Second
	}
	if opt.PingTO == 0 {
		opt.PingTO = 2 * time.Second
	}

	if err := Migrate(opt.DSN); err != nil {
		return nil, err
	}

	cfg, err := pgxpool.ParseConfig(opt.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if opt.MaxConns > 0 {
		cfg.MaxConns = opt.MaxConns
	}
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second

	cctx, cancel := context.WithTimeout(ctx, opt.ConnectTO)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(cctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}

	pctx, pcancel := context.WithTimeout(ctx, opt.PingTO)
	defer pcancel()
	if err := pool.Ping(pctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	return New(pool), nil
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Insert(ctx context.Context, collection string, doc docstore.Document) (docstore.Document, error) {
	table, err := tableName(collection)
	if err != nil {
		return nil, err
	}
	body, err := docstore.MarshalBody(doc)
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`
INSERT INTO %s (id, doc)
VALUES ($1::uuid, $2::jsonb)
RETURNING id::text, doc;
`, table)
	return scanDoc(s.pool.QueryRow(ctx, q, uuid.New().String(), string(body)))
}

func (s *Store) Find(ctx context.Context, collection string, q docstore.Query) ([]docstore.Document, error) {
	table, err := tableName(collection)
	if err != nil {
		return nil, err
	}

	sql, args := buildSelect(table, q)
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]docstore.Document, 0, 16)
	for rows.Next() {
		doc, err := scanDoc(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

func (s *Store) FindByID(ctx context.Context, collection, id string) (docstore.Document, error) {
	table, id, err := target(collection, id)
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`SELECT id::text, doc FROM %s WHERE id = $1::uuid;`, table)
	doc, err := scanDoc(s.pool.QueryRow(ctx, q, id))
	return doc, noRows(err)
}

func (s *Store) UpdateByID(ctx context.Context, collection, id string, set docstore.Document) (docstore.Document, error) {
	table, id, err := target(collection, id)
	if err != nil {
		return nil, err
	}
	patch, err := docstore.MarshalBody(set)
	if err != nil {
		return nil, err
	}

	// jsonb || replaces top-level keys, which is $set semantics
	q := fmt.Sprintf(`
UPDATE %s
SET doc = doc || $2::jsonb
WHERE id = $1::uuid
RETURNING id::text, doc;
`, table)
	doc, err := scanDoc(s.pool.QueryRow(ctx, q, id, string(patch)))
	return doc, noRows(err)
}

func (s *Store) DeleteByID(ctx context.Context, collection, id string) (docstore.Document, error) {
	table, id, err := target(collection, id)
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`DELETE FROM %s WHERE id = $1::uuid RETURNING id::text, doc;`, table)
	doc, err := scanDoc(s.pool.QueryRow(ctx, q, id))
	return doc, noRows(err)
}

func (s *Store) PushByID(ctx context.Context, collection, id, field string, values []interface{}) (docstore.PushResult, error) {
	table, id, err := target(collection, id)
	if err != nil {
		return docstore.PushResult{}, err
	}

	if len(values) > 0 {
		items, err := docstore.MarshalValues(values)
		if err != nil {
			return docstore.PushResult{}, err
		}
		q := fmt.Sprintf(`
UPDATE %s
SET doc = jsonb_set(doc, ARRAY[$2::text], COALESCE(doc->$2::text, '[]'::jsonb) || $3::jsonb, true)
WHERE id = $1::uuid
  AND (NOT (doc ? $2::text) OR jsonb_typeof(doc->$2::text) = 'array');
`, table)
		ct, err := s.pool.Exec(ctx, q, id, field, string(items))
		if err != nil {
			return docstore.PushResult{}, err
		}
		if ct.RowsAffected() > 0 {
			return docstore.PushResult{Matched: true, Modified: true}, nil
		}
	}

	// Nothing written: either the row is missing, the values were empty, or the
	// field holds something other than an array.
	var isArray *bool
	q := fmt.Sprintf(`
SELECT CASE WHEN doc ? $2::text THEN jsonb_typeof(doc->$2::text) = 'array' END
FROM %s WHERE id = $1::uuid;
`, table)
	err = s.pool.QueryRow(ctx, q, id, field).Scan(&isArray)
	if errors.Is(err, pgx.ErrNoRows) {
		return docstore.PushResult{}, nil
	}
	if err != nil {
		return docstore.PushResult{}, err
	}
	if len(values) > 0 && isArray != nil && !*isArray {
		return docstore.PushResult{}, fmt.Errorf("field %q is not an array", field)
	}
	return docstore.PushResult{Matched: true}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close(context.Context) error {
	s.pool.Close()
	return nil
}

func scanDoc(row pgx.Row) (docstore.Document, error) {
	var (
		id   string
		body []byte
	)
	if err := row.Scan(&id, &body); err != nil {
		return nil, err
	}
	return docstore.UnmarshalBody(body, id)
}

func noRows(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return docstore.ErrNotFound
	}
	return err
}

func tableName(collection string) (string, error) {
	if !knownCollections[collection] {
		return "", fmt.Errorf("unknown collection %q", collection)
	}
	return pgx.Identifier{collection}.Sanitize(), nil
}

func target(collection, id string) (string, string, error) {
	table, err := tableName(collection)
	if err != nil {
		return "", "", err
	}
	u, err := uuid.Parse(id)
	if err != nil {
		return "", "", fmt.Errorf("%w: %q", docstore.ErrInvalidID, id)
	}
	return table, u.String(), nil
}
