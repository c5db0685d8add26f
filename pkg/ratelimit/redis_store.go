package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix     = "ratelimit:"
	redisMaxCASRetries = 10
)

var ErrContention = errors.New("rate limit record busy, too many concurrent updates")

// RedisStore keeps each record in a hash and updates it with WATCH/MULTI, retrying
// when another writer got there first. Keys expire after the retention period.
type RedisStore struct {
	client    *redis.Client
	retention time.Duration
}

func NewRedisStore(client *redis.Client, retention time.Duration) *RedisStore {
	return &RedisStore{client: client, retention: retention}
}

func redisKey(id string) string {
	return redisKeyPrefix + id
}

func (s *RedisStore) Update(ctx context.Context, id string, seed Record, fn func(rec *Record)) error {
	key := redisKey(id)

	txf := func(tx *redis.Tx) error {
		fields, err := tx.HGetAll(ctx, key).Result()
		if err != nil {
			return err
		}

		rec := seed
		rec.Identifier = id
		if len(fields) > 0 {
			decoded, err := decodeRecord(id, fields)
			if err != nil {
				return err
			}
			rec = *decoded
		}

		fn(&rec)

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, encodeRecord(rec))
			if s.retention > 0 {
				pipe.Expire(ctx, key, s.retention)
			}
			return nil
		})
		return err
	}

	for i := 0; i < redisMaxCASRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return ErrContention
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Record, error) {
	fields, err := s.client.HGetAll(ctx, redisKey(id)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, nil
	}
	return decodeRecord(id, fields)
}

// DeleteOlderThan walks the key space with SCAN. Expiry normally removes stale
// keys first; this catches keys written without a TTL.
func (s *RedisStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	var deleted int64
	iter := s.client.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		raw, err := s.client.HGet(ctx, key, "window_start").Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return deleted, err
		}
		start, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || time.Unix(0, start).Before(cutoff) {
			n, err := s.client.Del(ctx, key).Result()
			if err != nil {
				return deleted, err
			}
			deleted += n
		}
	}
	return deleted, iter.Err()
}

func encodeRecord(rec Record) map[string]interface{} {
	return map[string]interface{}{
		"request_count": rec.RequestCount,
		"window_start":  rec.WindowStart.UnixNano(),
		"last_request":  rec.LastRequest.UnixNano(),
	}
}

func decodeRecord(id string, fields map[string]string) (*Record, error) {
	count, err := strconv.Atoi(fields["request_count"])
	if err != nil {
		return nil, fmt.Errorf("decode request_count: %w", err)
	}
	start, err := strconv.ParseInt(fields["window_start"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("decode window_start: %w", err)
	}
	last, err := strconv.ParseInt(fields["last_request"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("decode last_request: %w", err)
	}
	return &Record{
		Identifier:   id,
		RequestCount: count,
		WindowStart:  time.Unix(0, start).UTC(),
		LastRequest:  time.Unix(0, last).UTC(),
	}, nil
}
