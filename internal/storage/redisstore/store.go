package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/proyectos-app/proyectos-backend/internal/storage/docstore"
)

const (
	keyPrefix  = "docs:" // docs:{collection}:{id} holds the JSON body
	indexKey   = ":ids"  // docs:{collection}:ids is a sorted set scored by insertion order
	seqKey     = ":seq"  // docs:{collection}:seq is the insertion counter
	maxRetries = 5
)

// Store keeps each document as a JSON string and filters in process.
type Store struct {
	client *redis.Client
}

var _ docstore.Store = (*Store)(nil)

type Options struct {
	Addr      string
	Password  string
	DB        int
	ConnectTO time.Duration
}

// Open connects to redis and verifies the connection.
func Open(ctx context.Context, opt Options) (*Store, error) {
	if opt.Addr == "" {
		return nil, fmt.Errorf("REDIS_ADDR is not set")
	}
	if opt.ConnectTO == 0 {
		opt.ConnectTO = 5 * time.Second
	}
	client := redis.NewClient(&redis.Options{
		Addr:     opt.Addr,
		Password: opt.Password,
		DB:       opt.DB,
	})

	pctx, cancel := context.WithTimeout(ctx, opt.ConnectTO)
	defer cancel()
	if err := client.Ping(pctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return New(client), nil
}

func New(client *redis.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Insert(ctx context.Context, collection string, doc docstore.Document) (docstore.Document, error) {
	id := uuid.New().String()
	data, err := docstore.MarshalBody(doc)
	if err != nil {
		return nil, err
	}

	seq, err := s.client.Incr(ctx, s.seqKey(collection)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to allocate sequence: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.docKey(collection, id), data, 0)
		pipe.ZAdd(ctx, s.indexKey(collection), redis.Z{Score: float64(seq), Member: id})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert document: %w", err)
	}

	return docstore.UnmarshalBody(data, id)
}

func (s *Store) Find(ctx context.Context, collection string, q docstore.Query) ([]docstore.Document, error) {
	ids, err := s.client.ZRange(ctx, s.indexKey(collection), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	out := make([]docstore.Document, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.docKey(collection, id)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load documents: %w", err)
	}

	for i, v := range vals {
		raw, ok := v.(string)
		if !ok {
			// deleted between ZRANGE and MGET
			continue
		}
		doc, err := docstore.UnmarshalBody([]byte(raw), ids[i])
		if err != nil {
			return nil, err
		}
		if q.Matches(doc) {
			out = append(out, doc)
		}
	}
	q.SortDocuments(out)
	return out, nil
}

func (s *Store) FindByID(ctx context.Context, collection, id string) (docstore.Document, error) {
	id, err := canonicalID(id)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, s.client, s.docKey(collection, id), id)
}

func (s *Store) UpdateByID(ctx context.Context, collection, id string, set docstore.Document) (docstore.Document, error) {
	id, err := canonicalID(id)
	if err != nil {
		return nil, err
	}
	key := s.docKey(collection, id)

	var out docstore.Document
	err = s.watch(ctx, key, func(tx *redis.Tx) error {
		doc, err := s.load(ctx, tx, key, id)
		if err != nil {
			return err
		}
		for k, v := range set {
			if k == docstore.IDField {
				continue
			}
			doc[k] = v
		}
		data, err := docstore.MarshalBody(doc)
		if err != nil {
			return err
		}
		if _, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		}); err != nil {
			return err
		}
		out, err = docstore.UnmarshalBody(data, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) DeleteByID(ctx context.Context, collection, id string) (docstore.Document, error) {
	id, err := canonicalID(id)
	if err != nil {
		return nil, err
	}
	key := s.docKey(collection, id)

	var out docstore.Document
	err = s.watch(ctx, key, func(tx *redis.Tx) error {
		doc, err := s.load(ctx, tx, key, id)
		if err != nil {
			return err
		}
		if _, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			pipe.ZRem(ctx, s.indexKey(collection), id)
			return nil
		}); err != nil {
			return err
		}
		out = doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) PushByID(ctx context.Context, collection, id, field string, values []interface{}) (docstore.PushResult, error) {
	id, err := canonicalID(id)
	if err != nil {
		return docstore.PushResult{}, err
	}
	key := s.docKey(collection, id)

	var res docstore.PushResult
	err = s.watch(ctx, key, func(tx *redis.Tx) error {
		res = docstore.PushResult{}
		doc, err := s.load(ctx, tx, key, id)
		if errors.Is(err, docstore.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		res.Matched = true

		var current []interface{}
		switch existing := doc[field].(type) {
		case nil:
		case []interface{}:
			current = existing
		default:
			return fmt.Errorf("field %q is not an array", field)
		}
		if len(values) == 0 {
			return nil
		}

		doc[field] = append(current, values...)
		data, err := docstore.MarshalBody(doc)
		if err != nil {
			return err
		}
		if _, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		}); err != nil {
			return err
		}
		res.Modified = true
		return nil
	})
	if err != nil {
		return docstore.PushResult{}, err
	}
	return res, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close(context.Context) error {
	return s.client.Close()
}

// watch runs fn under WATCH on key, retrying when another client changed it.
func (s *Store) watch(ctx context.Context, key string, fn func(tx *redis.Tx) error) error {
	for i := 0; i < maxRetries; i++ {
		err := s.client.Watch(ctx, fn, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("document %s changed concurrently, giving up after %d attempts", key, maxRetries)
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (s *Store) load(ctx context.Context, c getter, key, id string) (docstore.Document, error) {
	data, err := c.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, docstore.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return docstore.UnmarshalBody(data, id)
}

func canonicalID(id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("%w: %q", docstore.ErrInvalidID, id)
	}
	return u.String(), nil
}

// Helper methods for key generation
func (s *Store) docKey(collection, id string) string {
	return fmt.Sprintf("%s%s:%s", keyPrefix, collection, id)
}

func (s *Store) indexKey(collection string) string {
	return keyPrefix + collection + indexKey
}

func (s *Store) seqKey(collection string) string {
	return keyPrefix + collection + seqKey
}
