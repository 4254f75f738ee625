package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mintly/mintly-api/internal/config"
	"github.com/mintly/mintly-api/internal/domain"
)

const keyPrefix = "mintly:idempotency:"

// Connect opens a client and pings it once.
func Connect(ctx context.Context, conf *config.RedisConfig) (redis.UniversalClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         conf.Addr,
		Password:     conf.Password,
		DB:           conf.DB,
		DialTimeout:  time.Second,
		ReadTimeout:  400 * time.Millisecond,
		WriteTimeout: 400 * time.Millisecond,
		OnConnect: func(ctx context.Context, cn *redis.Conn) error {
			_ = cn.ClientSetName(ctx, "mintly-api").Err()
			return nil
		},
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("rdb.Ping -> %w", err)
	}

	return rdb, nil
}

// IdempotencyStore keeps the first response for each Idempotency-Key until
// the TTL expires.
type IdempotencyStore struct {
	rdb redis.UniversalClient
	ttl time.Duration
}

func NewIdempotencyStore(rdb redis.UniversalClient, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{
		rdb: rdb,
		ttl: ttl,
	}
}

// Reserve claims key with a pending marker through SETNX, so only one replica
// runs the request. When the key is already held it returns the stored entry.
func (s *IdempotencyStore) Reserve(ctx context.Context, entry domain.IdempotentResponse) (domain.IdempotentResponse, bool, error) {
	entry.Status = 0
	entry.Body = ""
	raw, err := json.Marshal(entry)
	if err != nil {
		return domain.IdempotentResponse{}, false, fmt.Errorf("json.Marshal -> %w", err)
	}

	for attempt := 0; attempt < 2; attempt++ {
		reserved, err := s.rdb.SetNX(ctx, keyPrefix+entry.Key, raw, domain.IdempotencyPendingTimeout).Result()
		if err != nil {
			return domain.IdempotentResponse{}, false, fmt.Errorf("s.rdb.SetNX -> %w", err)
		}
		if reserved {
			return entry, true, nil
		}

		held, found, err := s.find(ctx, entry.Key)
		if err != nil {
			return domain.IdempotentResponse{}, false, err
		}
		if found {
			return held, false, nil
		}
	}

	return entry, false, nil
}

// Complete replaces the pending marker with the response for the full TTL.
func (s *IdempotencyStore) Complete(ctx context.Context, resp domain.IdempotentResponse) error {
	raw, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("json.Marshal -> %w", err)
	}

	if err = s.rdb.SetXX(ctx, keyPrefix+resp.Key, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("s.rdb.SetXX -> %w", err)
	}

	return nil
}

func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("s.rdb.Del -> %w", err)
	}

	return nil
}

func (s *IdempotencyStore) find(ctx context.Context, key string) (domain.IdempotentResponse, bool, error) {
	raw, err := s.rdb.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.IdempotentResponse{}, false, nil
		}

		return domain.IdempotentResponse{}, false, fmt.Errorf("s.rdb.Get -> %w", err)
	}

	var resp domain.IdempotentResponse
	if err = json.Unmarshal(raw, &resp); err != nil {
		return domain.IdempotentResponse{}, false, fmt.Errorf("json.Unmarshal -> %w", err)
	}

	return resp, true, nil
}
