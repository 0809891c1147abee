package docstore

import (
	"context"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
)

// Redis is a Store backed by a Redis server. Documents are hashes with
// "data" and "updated_at" fields; collections are lists of JSON records.
type Redis struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// NewRedis connects to the server described by a redis:// URL and pings it.
func NewRedis(ctx context.Context, url string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, unavailable("parse redis url", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, unavailable("ping", err)
	}
	return &Redis{client: client, prefix: "folio:", now: time.Now}, nil
}

// Close closes the client connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) docKey(p Path) string {
	return r.prefix + "doc:" + p.String()
}

func (r *Redis) listKey(p Path) string {
	return r.prefix + "col:" + p.String()
}

// GetDocument returns the document at path or ErrNotFound.
func (r *Redis) GetDocument(ctx context.Context, path Path) (Document, error) {
	if err := documentPath(path); err != nil {
		return Document{}, err
	}
	vals, err := r.client.HGetAll(ctx, r.docKey(path)).Result()
	if err != nil {
		return Document{}, unavailable("get document", err)
	}
	data, ok := vals["data"]
	if !ok {
		return Document{}, ErrNotFound
	}
	doc := Document{Path: path, Data: []byte(data)}
	if t, err := time.Parse(time.RFC3339Nano, vals["updated_at"]); err == nil {
		doc.UpdatedAt = t
	}
	return doc, nil
}

// SetDocument replaces the document at path with v.
func (r *Redis) SetDocument(ctx context.Context, path Path, v any) error {
	if err := documentPath(path); err != nil {
		return err
	}
	data, err := encodeObject(v)
	if err != nil {
		return err
	}
	if err := r.client.HSet(ctx, r.docKey(path), "data", string(data), "updated_at", r.stamp()).Err(); err != nil {
		return unavailable("set document", err)
	}
	return nil
}

// UpdateDocument merges fields into the existing document at path. The
// read-merge-write runs under WATCH and is retried when another writer
// touches the key in between.
func (r *Redis) UpdateDocument(ctx context.Context, path Path, fields map[string]any) error {
	if err := documentPath(path); err != nil {
		return err
	}
	key := r.docKey(path)
	update := func(tx *redis.Tx) error {
		data, err := tx.HGet(ctx, key, "data").Result()
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		merged, err := mergeFields([]byte(data), fields)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, "data", string(merged), "updated_at", r.stamp())
			return nil
		})
		return err
	}
	for attempt := 0; attempt < 3; attempt++ {
		err := r.client.Watch(ctx, update, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err == nil || errors.Is(err, ErrNotFound) {
			return err
		}
		return unavailable("update document", err)
	}
	return unavailable("update document", redis.TxFailedErr)
}

// AppendToCollection pushes record onto the collection list at path.
func (r *Redis) AppendToCollection(ctx context.Context, path Path, record map[string]any) (string, error) {
	if err := collectionPath(path); err != nil {
		return "", err
	}
	id := ulid.Make().String()
	rec := resolveServerValues(record, r.now())
	rec["id"] = id
	data, err := encodeObject(rec)
	if err != nil {
		return "", err
	}
	if err := r.client.RPush(ctx, r.listKey(path), string(data)).Err(); err != nil {
		return "", unavailable("append record", err)
	}
	return id, nil
}

func (r *Redis) stamp() string {
	return r.now().UTC().Format(time.RFC3339Nano)
}
