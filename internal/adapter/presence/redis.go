// Package presence хранит в Redis то, что должно быть общим для всех
// экземпляров сервера: снимок "онлайн" пользователей и отозванные токены сессий.
package presence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"

	"github.com/GoArmGo/PasteApp/internal/config"
)

const (
	onlineKey        = "presence:online"
	revokedKeyPrefix = "session:revoked:"
)

// Client — Redis-адаптер для ports.PresenceStore и ports.TokenDenylist.
type Client struct {
	rdb       redis.Cmdable
	logger    *slog.Logger
	onlineTTL time.Duration
}

// NewRedisClient подключается к Redis и проверяет соединение.
func NewRedisClient(cfg *config.Config, logger *slog.Logger) (*Client, *redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
	}

	logger.Info("connected to redis", "addr", cfg.Redis.Addr, "db", cfg.Redis.DB)
	return New(rdb, logger, 4*cfg.PresenceInterval), rdb, nil
}

// New оборачивает готовый клиент. Снимок живет onlineTTL, чтобы остановленный
// опрос не оставлял в Redis вечных "онлайн" пользователей.
func New(rdb redis.Cmdable, logger *slog.Logger, onlineTTL time.Duration) *Client {
	return &Client{rdb: rdb, logger: logger, onlineTTL: onlineTTL}
}

// SaveOnline заменяет снимок целиком.
func (c *Client) SaveOnline(ctx context.Context, ids []uuid.UUID) error {
	body, err := encodeIDs(ids)
	if err != nil {
		return err
	}
	if err := c.rdb.Set(ctx, onlineKey, body, c.onlineTTL).Err(); err != nil {
		return fmt.Errorf("save presence snapshot: %w", err)
	}
	return nil
}

// LoadOnline возвращает последний снимок; пустой, если его еще нет.
func (c *Client) LoadOnline(ctx context.Context) ([]uuid.UUID, error) {
	body, err := c.rdb.Get(ctx, onlineKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return []uuid.UUID{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load presence snapshot: %w", err)
	}
	return decodeIDs(body)
}

// Revoke помечает токен отозванным до истечения его срока.
func (c *Client) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := c.rdb.Set(ctx, revokedKeyPrefix+tokenID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	c.logger.Info("session token revoked", "token_id", tokenID, "ttl", ttl.String())
	return nil
}

func (c *Client) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := c.rdb.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return n > 0, nil
}

func encodeIDs(ids []uuid.UUID) ([]byte, error) {
	if ids == nil {
		ids = []uuid.UUID{}
	}
	body, err := json.Marshal(ids)
	if err != nil {
		return nil, fmt.Errorf("encode presence snapshot: %w", err)
	}
	return body, nil
}

func decodeIDs(body []byte) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := json.Unmarshal(body, &ids); err != nil {
		return nil, fmt.Errorf("decode presence snapshot: %w", err)
	}
	return ids, nil
}
