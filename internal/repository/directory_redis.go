package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/gridmatch-backend/internal/apperror"
	"github.com/rocketscienceinc/gridmatch-backend/internal/entity"
)

const userKeyPrefix = "user:"

type redisDirectory struct {
	client *redis.Client
}

func NewRedisDirectory(client *redis.Client) DirectoryRepository {
	return &redisDirectory{
		client: client,
	}
}

func (that *redisDirectory) LookupPushTarget(ctx context.Context, userID string) (*entity.PushTarget, error) {
	response, err := that.client.Get(ctx, userKeyPrefix+userID).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: user %s", apperror.ErrPushTargetNotFound, userID)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", userID, err)
	}

	var target entity.PushTarget
	if err = json.Unmarshal([]byte(response), &target); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}

	if target.Token == "" {
		return nil, fmt.Errorf("%w: user %s has no token", apperror.ErrPushTargetNotFound, userID)
	}

	if target.UserID == "" {
		target.UserID = userID
	}

	return &target, nil
}

func (that *redisDirectory) RegisterPushTarget(ctx context.Context, userID, token string) error {
	targetJSON, err := json.Marshal(entity.PushTarget{UserID: userID, Token: token})
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	if err = that.client.Set(ctx, userKeyPrefix+userID, targetJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set user: %w", err)
	}

	return nil
}

func (that *redisDirectory) Ping(ctx context.Context) error {
	if err := that.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}

	return nil
}
