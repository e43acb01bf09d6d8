// Package cache реализует JSON-кеш поверх Redis для профилей пользователей
// и списка инструментов. Nop — реализация-заглушка, когда Redis не настроен.
//
// Записи кешируются под версионированным ключом VersionedKey(key, Version(key)).
// Читатель узнаёт версию до чтения из хранилища, писатель повышает её через
// Bump после записи. Значение, прочитанное до записи, попадает под старую
// версию, и его больше никто не читает.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/ai-tools-catalog/internal/config"
)

// Ключи кеша.
const (
	ToolListKey = "aitools:list"
	userKeyFmt  = "user:%s"

	versionSuffix = ":version"
)

// UserKey возвращает ключ кеша для пользователя.
func UserKey(userUID string) string {
	return fmt.Sprintf(userKeyFmt, userUID)
}

// VersionedKey возвращает ключ значения для версии version.
func VersionedKey(key string, version int64) string {
	return fmt.Sprintf("%s:v%d", key, version)
}

// Cache хранит клиент Redis.
type Cache struct {
	Db *redis.Client
}

// InitServer подключается к Redis и проверяет соединение.
func InitServer(ctx context.Context, cfg config.RedisConnection) (*Cache, error) {
	const op = "cache.InitServer"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Cache{Db: db}, nil
}

// Get читает значение по ключу в result. Возвращает false, если ключа нет.
func (c *Cache) Get(ctx context.Context, key string, result any) (bool, error) {
	const op = "cache.Get"
	val, err := c.Db.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if err = json.Unmarshal(val, result); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// Set сохраняет значение в JSON с временем жизни expiration.
func (c *Cache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	const op = "cache.Set"
	jsonData, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err = c.Db.Set(ctx, key, jsonData, expiration).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Version возвращает текущую версию key; 0, если версия ещё не выставлялась.
func (c *Cache) Version(ctx context.Context, key string) (int64, error) {
	const op = "cache.Version"
	version, err := c.Db.Get(ctx, key+versionSuffix).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return version, nil
}

// Bump повышает версию key, делая все ранее закешированные значения недостижимыми.
func (c *Cache) Bump(ctx context.Context, key string) error {
	const op = "cache.Bump"
	if err := c.Db.Incr(ctx, key+versionSuffix).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close закрывает соединение с Redis.
func (c *Cache) Close() error {
	return c.Db.Close()
}

// Nop — кеш, который ничего не хранит.
type Nop struct{}

// Get всегда сообщает об отсутствии значения.
func (Nop) Get(context.Context, string, any) (bool, error) { return false, nil }

// Set ничего не делает.
func (Nop) Set(context.Context, string, any, time.Duration) error { return nil }

// Version всегда возвращает 0.
func (Nop) Version(context.Context, string) (int64, error) { return 0, nil }

// Bump ничего не делает.
func (Nop) Bump(context.Context, string) error { return nil }
