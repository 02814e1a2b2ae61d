package redis

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/psconsole/internal/model"
	"github.com/mcoot/psconsole/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) GetItem(ctx context.Context, origin model.Origin, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, itemKey(origin, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrItemNotFound
		}
		return nil, err
	}
	return data, nil
}

func (s *Storage) SetItem(ctx context.Context, origin model.Origin, key string, value []byte) error {
	ttl := s.cfg.ttlFor(string(origin))
	indexKey := originKeysIndexKey(origin)

	// Use pipeline for atomic save + index update
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, itemKey(origin, key), value, ttl)
	pipe.SAdd(ctx, indexKey, key)
	if ttl > 0 {
		pipe.Expire(ctx, indexKey, ttl) // Keep index TTL in sync
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) RemoveItem(ctx context.Context, origin model.Origin, key string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, itemKey(origin, key))
	pipe.SRem(ctx, originKeysIndexKey(origin), key)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) Keys(ctx context.Context, origin model.Origin) ([]string, error) {
	members, err := s.client.SMembers(ctx, originKeysIndexKey(origin)).Result()
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return []string{}, nil
	}

	// Drop index entries whose item has already expired
	pipe := s.client.Pipeline()
	cmds := make([]*redis.IntCmd, len(members))
	for i, k := range members {
		cmds[i] = pipe.Exists(ctx, itemKey(origin, k))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(members))
	for i, cmd := range cmds {
		if cmd.Val() > 0 {
			keys = append(keys, members[i])
		}
	}
	sort.Strings(keys)
	return keys, nil
}
