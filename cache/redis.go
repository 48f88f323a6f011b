package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/battle-system/models"
	"github.com/redis/go-redis/v9"
)

const (
	tournamentKey = "battle-system:tournament"
	generationKey = "battle-system:tournament:generation"
)

// NewRedisClient разбирает REDIS_URL и проверяет соединение.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// TournamentCache хранит собранный снимок турнира целиком.
// Любое изменение сетки сбрасывает ключ и увеличивает поколение; снимок
// записывается только если поколение не менялось с начала его сборки.
type TournamentCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewTournamentCache(client *redis.Client, ttl time.Duration) *TournamentCache {
	return &TournamentCache{client: client, ttl: ttl}
}

// GetTournament возвращает (nil, nil), если в кеше ничего нет.
func (c *TournamentCache) GetTournament(ctx context.Context) (*models.Event, error) {
	raw, err := c.client.Get(ctx, tournamentKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read tournament from cache: %w", err)
	}

	var event models.Event
	if err := json.Unmarshal(raw, &event); err != nil {
		return nil, fmt.Errorf("failed to decode cached tournament: %w", err)
	}
	return &event, nil
}

// Generation возвращает текущее поколение снимка. Пока ключа нет, это 0.
func (c *TournamentCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read tournament cache generation: %w", err)
	}
	return gen, nil
}

// SetTournament пишет снимок под WATCH ключа поколения. Если поколение
// уже другое или сменилось до EXEC, запись пропускается.
func (c *TournamentCache) SetTournament(ctx context.Context, generation int64, event *models.Event) error {
	raw, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode tournament for cache: %w", err)
	}

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, generationKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != generation {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, tournamentKey, raw, c.ttl)
			return nil
		})
		return err
	}, generationKey)
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to write tournament to cache: %w", err)
	}
	return nil
}

func (c *TournamentCache) Invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey)
		pipe.Del(ctx, tournamentKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate tournament cache: %w", err)
	}
	return nil
}
