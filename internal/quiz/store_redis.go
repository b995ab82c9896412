package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each quiz as a JSON value under "quiz:<id>".
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration // 0 = no expiry
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

// DialRedis connects and pings so misconfiguration fails at startup.
func DialRedis(ctx context.Context, addr, password string, dbIndex int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       dbIndex,
	})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return rdb, nil
}

func quizKey(id string) string { return fmt.Sprintf("quiz:%s", id) }

func (s *RedisStore) Put(ctx context.Context, q PublishedQuiz) error {
	data, err := json.Marshal(q)
	if err != nil {
		return err
	}
	ok, err := s.rdb.SetNX(ctx, quizKey(q.ID), data, s.ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrQuizExists
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (PublishedQuiz, error) {
	raw, err := s.rdb.Get(ctx, quizKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return PublishedQuiz{}, ErrQuizNotFound
	}
	if err != nil {
		return PublishedQuiz{}, err
	}
	var q PublishedQuiz
	if err := json.Unmarshal(raw, &q); err != nil {
		return PublishedQuiz{}, err
	}
	return q, nil
}
