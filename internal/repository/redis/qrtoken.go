package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/qrattendance"
	goredis "github.com/redis/go-redis/v9"
)

const (
	issuedPrefix   = "qr:token:"
	consumedPrefix = "qr:used:"
)

type qrTokenStoreImpl struct {
	client *goredis.Client
}

func NewQRTokenStore(client *goredis.Client) qrattendance.TokenStore {
	return &qrTokenStoreImpl{client: client}
}

func (s *qrTokenStoreImpl) Issue(ctx context.Context, token, locationID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, issuedPrefix+token, locationID, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store qr token: %w", err)
	}
	return nil
}

func (s *qrTokenStoreImpl) Lookup(ctx context.Context, token string) (string, time.Duration, error) {
	key := issuedPrefix + token

	locationID, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", 0, qrattendance.ErrInvalidQRToken
		}
		return "", 0, fmt.Errorf("failed to look up qr token: %w", err)
	}

	ttl, err := s.client.TTL(ctx, key).Result()
	if err != nil {
		return "", 0, fmt.Errorf("failed to read qr token ttl: %w", err)
	}
	return locationID, ttl, nil
}

func (s *qrTokenStoreImpl) Consume(ctx context.Context, token, employeeID string, action qrattendance.Action, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = time.Minute
	}
	key := consumedKey(token, employeeID, action)

	ok, err := s.client.SetNX(ctx, key, time.Now().Unix(), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to consume qr token: %w", err)
	}
	return ok, nil
}

func (s *qrTokenStoreImpl) Release(ctx context.Context, token, employeeID string, action qrattendance.Action) error {
	if err := s.client.Del(ctx, consumedKey(token, employeeID, action)).Err(); err != nil {
		return fmt.Errorf("failed to release qr token: %w", err)
	}
	return nil
}

func consumedKey(token, employeeID string, action qrattendance.Action) string {
	return fmt.Sprintf("%s%s:%s:%s", consumedPrefix, token, employeeID, action)
}

// NewClient connects to Redis and verifies the connection.
func NewClient(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}
