// Package redisstore keeps wizard sessions in Redis so an in-flight
// submission survives a bot restart. Sessions expire after the idle TTL.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"fargona_jobs_bot/wizard"
)

const keyPrefix = "wizard:session:"

type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func New(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func key(userID int64) string {
	return keyPrefix + strconv.FormatInt(userID, 10)
}

func (s *Store) Get(ctx context.Context, userID int64) (wizard.Session, error) {
	data, err := s.client.Get(ctx, key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return wizard.Session{State: wizard.StateIdle}, nil
	}
	if err != nil {
		return wizard.Session{}, err
	}

	var sess wizard.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return wizard.Session{}, err
	}
	return sess, nil
}

func (s *Store) Set(ctx context.Context, userID int64, sess wizard.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key(userID), data, s.ttl).Err()
}

func (s *Store) Clear(ctx context.Context, userID int64) error {
	return s.client.Del(ctx, key(userID)).Err()
}
