package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rocketscienceinc/gridmatch-backend/internal/apperror"
	"github.com/rocketscienceinc/gridmatch-backend/internal/entity"
)

const (
	usersTable   = "users"
	colID        = "id"
	colPushToken = "push_token"
)

const createUsersTable = `CREATE TABLE IF NOT EXISTS users (
	id         TEXT PRIMARY KEY,
	push_token TEXT
)`

// PostgresDirectory - push targets stored in the users table.
type PostgresDirectory struct {
	pool    *pgxpool.Pool
	builder sq.StatementBuilderType
}

func NewPostgresDirectory(pool *pgxpool.Pool) *PostgresDirectory {
	return &PostgresDirectory{
		pool:    pool,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Init - creates the users table when it does not exist yet.
func (that *PostgresDirectory) Init(ctx context.Context) error {
	if _, err := that.pool.Exec(ctx, createUsersTable); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}

	return nil
}

func (that *PostgresDirectory) LookupPushTarget(ctx context.Context, userID string) (*entity.PushTarget, error) {
	query := that.builder.Select(colID, colPushToken).
		From(usersTable).
		Where(sq.Eq{colID: userID})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var (
		target entity.PushTarget
		token  *string
	)

	err = that.pool.QueryRow(ctx, sqlStr, args...).Scan(&target.UserID, &token)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %s", apperror.ErrPushTargetNotFound, userID)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", userID, err)
	}

	if token == nil || *token == "" {
		return nil, fmt.Errorf("%w: user %s has no token", apperror.ErrPushTargetNotFound, userID)
	}

	target.Token = *token

	return &target, nil
}

func (that *PostgresDirectory) RegisterPushTarget(ctx context.Context, userID, token string) error {
	query := that.builder.Insert(usersTable).
		Columns(colID, colPushToken).
		Values(userID, token).
		Suffix("ON CONFLICT (" + colID + ") DO UPDATE SET " + colPushToken + " = EXCLUDED." + colPushToken)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err = that.pool.Exec(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("failed to upsert user %s: %w", userID, err)
	}

	return nil
}

func (that *PostgresDirectory) Ping(ctx context.Context) error {
	if err := that.pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping postgres: %w", err)
	}

	return nil
}
