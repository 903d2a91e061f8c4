// Package cache содержит два уровня кэширования решения о подписке:
// обёртку над Redis для долговременного состояния арендатора
// (последняя известная запись для отображения, отметка о скрытии баннера)
// и внутрипроцессный TTL-кэш записей подписки.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rade-studio/printing-cost-app/internal/config"
)

// Ключи долговременного состояния арендатора.
const (
	// KeyDisplayRecord — последняя известная запись подписки, только для отображения.
	// Никогда не используется для решения о доступе.
	KeyDisplayRecord = "subscription:data:%s"
	// KeyNotificationClosed — отметка времени скрытия баннера напоминания.
	KeyNotificationClosed = "subscription:notification:closed:%s"
	// KeyReminderSent — суточный ограничитель публикации напоминаний.
	KeyReminderSent = "subscription:reminder:sent:%s"
)

// Cache обёртка над клиентом Redis.
type Cache struct {
	Db *redis.Client
}

// InitServer создаёт клиент Redis и проверяет соединение.
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
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Cache{Db: db}, nil
}

// Get пытается получить значение по ключу. Возвращает false, если ключа нет.
func (c *Cache) Get(ctx context.Context, key string, result any) (bool, error) {
	const op = "cache.Get"
	val, err := c.Db.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	err = json.Unmarshal([]byte(val), result)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// Set сохраняет значение с временем жизни. Нулевое expiration — без срока.
func (c *Cache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Db.Set(ctx, key, jsonData, expiration).Err()
}

// SetNX сохраняет значение, только если ключа ещё нет.
// Возвращает true, если запись произошла.
func (c *Cache) SetNX(ctx context.Context, key string, value any, expiration time.Duration) (bool, error) {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return false, err
	}
	return c.Db.SetNX(ctx, key, jsonData, expiration).Result()
}

// Invalidate удаляет значение по ключу.
func (c *Cache) Invalidate(ctx context.Context, key string) error {
	return c.Db.Del(ctx, key).Err()
}
