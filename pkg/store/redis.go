package store

import (
	"context"
	stderrors "errors"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/nodegraph/pkg/cache"
	"github.com/matzehuels/nodegraph/pkg/errors"
)

// DefaultRedisPrefix namespaces document keys.
const DefaultRedisPrefix = "nodegraph:graph:"

// RedisStore stores each document as a plain string value under
// prefix+id.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to addr, retrying transient failures.
func NewRedisStore(ctx context.Context, addr, prefix string) (*RedisStore, error) {
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	err := cache.RetryWithBackoff(ctx, 200*time.Millisecond, func() error {
		return cache.Retryable(client.Ping(ctx).Err())
	})
	if err != nil {
		_ = client.Close()
		return nil, errors.Wrap(errors.ErrCodeIO, err, "connect to redis at %s", addr)
	}
	return NewRedisStoreFromClient(client, prefix), nil
}

// NewRedisStoreFromClient wraps an existing client. An empty prefix means
// DefaultRedisPrefix.
func NewRedisStoreFromClient(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(id string) string { return s.prefix + id }

func (s *RedisStore) idFromKey(key string) (string, bool) {
	return strings.CutPrefix(key, s.prefix)
}

// pattern matches every document key. Glob metacharacters in the prefix
// are escaped.
func (s *RedisStore) pattern() string {
	var b strings.Builder
	for _, r := range s.prefix {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('*')
	return b.String()
}

func (s *RedisStore) Put(ctx context.Context, id string, data []byte) error {
	if err := errors.ValidateGraphID(id); err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key(id), data, 0).Err(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "redis set %s", id)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "redis get %s", id)
	}
	return data, nil
}

func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	var ids []string
	iter := s.client.Scan(ctx, 0, s.pattern(), 100).Iterator()
	for iter.Next(ctx) {
		if id, ok := s.idFromKey(iter.Val()); ok {
			ids = append(ids, id)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "redis scan")
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	n, err := s.client.Del(ctx, s.key(id)).Result()
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "redis del %s", id)
	}
	if n == 0 {
		return notFound(id)
	}
	return nil
}

func (s *RedisStore) Close() error { return s.client.Close() }

var _ Store = (*RedisStore)(nil)
