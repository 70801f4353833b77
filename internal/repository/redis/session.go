package redisRepository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/google/uuid"

	"boletimCampo/internal/domain/models"
)

var ErrSessionNotFound = errors.New("session not found")

type Config struct {
	Address    string        `yaml:"address" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password   string        `yaml:"password" env:"REDIS_PASS" env-default:""`
	SessionTTL time.Duration `yaml:"session_ttl" env:"REDIS_SESSION_TTL" env-default:"168h"`
}

type SessionRepository struct {
	pool *redis.Pool
	ttl  time.Duration
}

func NewPool(redisAddr, redisPassword string) *redis.Pool {
	return &redis.Pool{
		MaxIdle:     3,
		IdleTimeout: 240 * time.Second,
		DialContext: func(ctx context.Context) (redis.Conn, error) {
			c, err := redis.DialContext(ctx, "tcp", redisAddr)
			if err != nil {
				return nil, err
			}
			if redisPassword != "" {
				if _, err := c.Do("AUTH", redisPassword); err != nil {
					c.Close()
					return nil, err
				}
			}
			return c, err
		},
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			_, err := c.Do("PING")
			return err
		},
	}
}

func NewSessionRepository(pool *redis.Pool, ttl time.Duration) *SessionRepository {
	return &SessionRepository{pool: pool, ttl: ttl}
}

func sessionKey(id uuid.UUID) string {
	return fmt.Sprintf("session:%s", id)
}

func (r *SessionRepository) SaveSession(ctx context.Context, session models.Session) error {
	const op = "redisRepository.SaveSession"

	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer conn.Close()

	sessionData, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("%s: failed to marshal session: %w", op, err)
	}

	_, err = redis.DoContext(conn, ctx, "SETEX", sessionKey(session.ID), int64(r.ttl.Seconds()), sessionData)
	if err != nil {
		return fmt.Errorf("%s: failed to save session to redis: %w", op, err)
	}

	return nil
}

func (r *SessionRepository) GetSession(ctx context.Context, id uuid.UUID) (models.Session, error) {
	const op = "redisRepository.GetSession"

	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}
	defer conn.Close()

	data, err := redis.Bytes(redis.DoContext(conn, ctx, "GET", sessionKey(id)))
	if err != nil {
		if errors.Is(err, redis.ErrNil) {
			return models.Session{}, fmt.Errorf("%s: %w", op, ErrSessionNotFound)
		}
		return models.Session{}, fmt.Errorf("%s: failed to get session from redis: %w", op, err)
	}

	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return models.Session{}, fmt.Errorf("%s: failed to unmarshal session: %w", op, err)
	}

	return session, nil
}

func (r *SessionRepository) DeleteSession(ctx context.Context, id uuid.UUID) error {
	const op = "redisRepository.DeleteSession"

	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer conn.Close()

	if _, err := redis.DoContext(conn, ctx, "DEL", sessionKey(id)); err != nil {
		return fmt.Errorf("%s: failed to delete session from redis: %w", op, err)
	}

	return nil
}

func (r *SessionRepository) Close() error {
	return r.pool.Close()
}
