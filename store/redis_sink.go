package store

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisSink keeps the snapshot under a single key. SET is atomic, which
// gives the same old-or-new guarantee as the file sink's rename.
type RedisSink struct {
	client *redis.Client
	key    string
}

func NewRedisSink(addr, password string, db int, key string) (*RedisSink, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisSink{client: rdb, key: key}, nil
}

func (r *RedisSink) Load(ctx context.Context) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (r *RedisSink) Save(ctx context.Context, data []byte) error {
	return r.client.Set(ctx, r.key, data, 0).Err()
}

func (r *RedisSink) Backup(ctx context.Context) error {
	backupKey := fmt.Sprintf("%s:bak_%s", r.key, time.Now().Format("20060102_150405"))
	err := r.client.Rename(ctx, r.key, backupKey).Err()
	if err == redis.Nil {
		return nil
	}
	return err
}

func (r *RedisSink) Close() error {
	return r.client.Close()
}
