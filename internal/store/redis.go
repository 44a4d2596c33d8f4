package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jo-hoe/bodymark/internal/markers"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps entries in Redis, an operator opt-in for setups where the
// service itself should stay stateless. Per session it holds a list of entry
// IDs (save order) and one hash per entry.
type RedisStore struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisStore(connectionString string) (*RedisStore, error) {
	options, err := redis.ParseURL(connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis connection string: %w", err)
	}

	ctx := context.Background()
	client := redis.NewClient(options)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{
		client: client,
		ctx:    ctx,
	}, nil
}

func entryListKey(sessionID string) string {
	return "bodymark:entries:" + sessionID
}

func entryKey(sessionID, entryID string) string {
	return "bodymark:entry:" + sessionID + ":" + entryID
}

func (s *RedisStore) Append(sessionID string, entry *markers.Entry) error {
	fields := map[string]any{
		"created_at": entry.CreatedAt.Format(time.RFC3339Nano),
		"label":      entry.Label,
		"dot_size":   entry.DotSize,
		"image":      entry.Image,
	}
	if err := s.client.HSet(s.ctx, entryKey(sessionID, entry.ID), fields).Err(); err != nil {
		return err
	}
	return s.client.RPush(s.ctx, entryListKey(sessionID), entry.ID).Err()
}

func (s *RedisStore) List(sessionID string) ([]*markers.Entry, error) {
	ids, err := s.client.LRange(s.ctx, entryListKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	var entries []*markers.Entry
	for _, id := range ids {
		entry, err := s.Get(sessionID, id)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *RedisStore) Get(sessionID, entryID string) (*markers.Entry, error) {
	fields, err := s.client.HGetAll(s.ctx, entryKey(sessionID, entryID)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, ErrEntryNotFound
	}

	createdAt, err := time.Parse(time.RFC3339Nano, fields["created_at"])
	if err != nil {
		return nil, fmt.Errorf("failed to parse stored timestamp %q: %w", fields["created_at"], err)
	}
	dotSize, err := strconv.Atoi(fields["dot_size"])
	if err != nil {
		return nil, fmt.Errorf("failed to parse stored dot size %q: %w", fields["dot_size"], err)
	}

	return &markers.Entry{
		ID:        entryID,
		CreatedAt: createdAt,
		Label:     fields["label"],
		Image:     []byte(fields["image"]),
		DotSize:   dotSize,
	}, nil
}

func (s *RedisStore) Delete(sessionID, entryID string) error {
	removed, err := s.client.LRem(s.ctx, entryListKey(sessionID), 1, entryID).Result()
	if err != nil {
		return err
	}
	if removed == 0 {
		return ErrEntryNotFound
	}
	return s.client.Del(s.ctx, entryKey(sessionID, entryID)).Err()
}

func (s *RedisStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

var _ EntryStore = (*RedisStore)(nil)
