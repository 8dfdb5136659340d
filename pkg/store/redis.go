package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"
)

// Redis is a Store backed by a redis server. Key locks live in the process,
// so only one Moderator may write a namespace at a time; running several
// would need a single sweeper and a lock held in redis.
type Redis struct {
	client    *redis.Client
	namespace string
}

var _ Store = (*Redis)(nil)

// NewRedis connects to redisURL. Keys are stored as "<namespace>:<key>".
func NewRedis(ctx context.Context, redisURL, namespace string) (*Redis, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opt)
	// check redis connection
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("store: redis ping: %w", err)
	}
	if namespace == "" {
		namespace = "moderator"
	}
	return &Redis{client: rdb, namespace: namespace}, nil
}

func (r *Redis) key(k string) string {
	return r.namespace + ":" + k
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return v, err
}

func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, r.key(key), value, 0).Err()
}

func (r *Redis) Delete(ctx context.Context, key string) (bool, error) {
	keys, err := r.scan(ctx, key)
	if err != nil {
		return false, err
	}
	if len(keys) == 0 {
		return false, nil
	}
	n, err := r.client.Del(ctx, keys...).Result()
	return n > 0, err
}

func (r *Redis) Keys(ctx context.Context, prefix string) ([]string, error) {
	raw, err := r.scan(ctx, prefix)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(raw))
	for _, k := range raw {
		keys = append(keys, strings.TrimPrefix(k, r.namespace+":"))
	}
	sort.Strings(keys)
	return keys, nil
}

// scan returns the namespaced redis keys for prefix and its children
func (r *Redis) scan(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	if prefix == "" {
		return r.scanPattern(ctx, escapeGlob(r.namespace)+":*")
	}

	n, err := r.client.Exists(ctx, r.key(prefix)).Result()
	if err != nil {
		return nil, err
	}
	if n > 0 {
		keys = append(keys, r.key(prefix))
	}

	children, err := r.scanPattern(ctx, escapeGlob(r.key(prefix))+".*")
	if err != nil {
		return nil, err
	}
	return append(keys, children...), nil
}

func (r *Redis) scanPattern(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	iter := r.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	return keys, iter.Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

func escapeGlob(s string) string {
	return globEscaper.Replace(s)
}
