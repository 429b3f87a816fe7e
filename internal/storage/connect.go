package storage

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Options selects the backends to connect to. Empty values leave a backend
// disabled.
type Options struct {
	PostgresDSN   string
	RedisAddress  string
	RedisPassword string
	RedisDB       int
}

// Connect opens the configured backends and checks that they answer.
func Connect(ctx context.Context, opts Options) (*Service, error) {
	s := &Service{}

	if opts.PostgresDSN != "" {
		db, err := gorm.Open(postgres.Open(opts.PostgresDSN), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		s.DB = db
	}

	if opts.RedisAddress != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     opts.RedisAddress,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			s.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		s.Redis = rdb
	}

	return s, nil
}
