package repository

import (
	"context"

	"github.com/rocketscienceinc/gridmatch-backend/internal/entity"
)

// DirectoryRepository - resolves where a user receives push notifications.
type DirectoryRepository interface {
	LookupPushTarget(ctx context.Context, userID string) (*entity.PushTarget, error)
	RegisterPushTarget(ctx context.Context, userID, token string) error
	Ping(ctx context.Context) error
}
