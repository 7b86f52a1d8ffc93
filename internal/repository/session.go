package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/gridplayinc/tictactoe-engine/internal/apperror"
	"github.com/gridplayinc/tictactoe-engine/internal/entity"
)

var ErrSessionNotFound = errors.New("session not found")

// activeSessionKey points at the session of the series currently in flight,
// so an interrupted series can be found again on the next start.
const activeSessionKey = "session:active"

type SessionRepository interface {
	CreateOrUpdate(ctx context.Context, session *entity.GameSession) error
	GetByID(ctx context.Context, id string) (*entity.GameSession, error)
	GetActive(ctx context.Context) (*entity.GameSession, error)
	DeleteByID(ctx context.Context, id string) error
}

type dbSession struct {
	client *redis.Client
}

func NewSessionRepository(client *redis.Client) SessionRepository {
	return &dbSession{
		client: client,
	}
}

// CreateOrUpdate - stores the session and marks it as the active one.
func (that *dbSession) CreateOrUpdate(ctx context.Context, session *entity.GameSession) error {
	sessionJSON, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	sessionKey := "session:" + session.ID
	if err = that.client.Set(ctx, sessionKey, sessionJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}

	if err = that.client.Set(ctx, activeSessionKey, session.ID, 0).Err(); err != nil {
		return fmt.Errorf("failed to set active session pointer: %w", err)
	}

	return nil
}

func (that *dbSession) GetByID(ctx context.Context, id string) (*entity.GameSession, error) {
	sessionKey := "session:" + id

	response, err := that.client.Get(ctx, sessionKey).Result()

	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get session by ID: %w", err)
	}

	var existingSession entity.GameSession
	if err = json.Unmarshal([]byte(response), &existingSession); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &existingSession, nil
}

// GetActive - loads the session the active pointer names. A missing or
// dangling pointer means there is nothing to resume.
func (that *dbSession) GetActive(ctx context.Context) (*entity.GameSession, error) {
	id, err := that.client.Get(ctx, activeSessionKey).Result()

	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrNoActiveSession
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get active session pointer: %w", err)
	}

	activeSession, err := that.GetByID(ctx, id)
	if errors.Is(err, ErrSessionNotFound) {
		return nil, apperror.ErrNoActiveSession
	}

	if err != nil {
		return nil, err
	}

	return activeSession, nil
}

// DeleteByID - removes the session together with the active pointer.
func (that *dbSession) DeleteByID(ctx context.Context, id string) error {
	sessionKey := "session:" + id

	if err := that.client.Del(ctx, sessionKey, activeSessionKey).Err(); err != nil {
		return fmt.Errorf("failed to delete session by ID: %w", err)
	}

	return nil
}
