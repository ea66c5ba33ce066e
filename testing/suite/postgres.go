package suite

import (
	"context"
	"log/slog"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

const (
	postgresImage    = "postgres:16-alpine"
	postgresDatabase = "gridmatch"
	postgresUser     = "gridmatch"
	postgresPassword = "gridmatch"
)

type PostgresSuite struct {
	*testing.T
	Logger *slog.Logger

	Pool *pgxpool.Pool
}

// NewPostgres - starts a throwaway postgres container. The test is skipped when docker is not reachable.
func NewPostgres(t *testing.T) (context.Context, *PostgresSuite) {
	t.Helper()

	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx, cancel := context.WithTimeout(context.Background(), maxWaitDuration)
	t.Cleanup(cancel)

	container, err := tcpostgres.Run(ctx, postgresImage,
		tcpostgres.WithDatabase(postgresDatabase),
		tcpostgres.WithUsername(postgresUser),
		tcpostgres.WithPassword(postgresPassword),
		tcpostgres.BasicWaitStrategies(),
	)
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Errorf("could not terminate container: %v", err)
		}
	})
	if err != nil {
		t.Fatalf("could not start postgres: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("could not build connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("could not connect to postgres: %v", err)
	}
	t.Cleanup(pool.Close)

	if err = pool.Ping(ctx); err != nil {
		t.Fatalf("could not ping postgres: %v", err)
	}

	return ctx, &PostgresSuite{
		T:      t,
		Logger: NewLogger(),
		Pool:   pool,
	}
}
