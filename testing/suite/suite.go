package suite

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
)

const maxWaitDuration = 120 * time.Second

// RedisAddrEnv - points the suite at a running redis instead of a container.
const RedisAddrEnv = "GRIDMATCH_TEST_REDIS_ADDR"

type Suite struct {
	*testing.T
	Logger *slog.Logger

	Storage *redis.Client
}

// RedisOptions - the container New starts when RedisAddrEnv is unset.
type RedisOptions struct {
	Image string
	Tag   string
	Port  string
	// Expire - seconds docker keeps the container if cleanup never runs.
	Expire uint
}

func DefaultRedisOptions() RedisOptions {
	return RedisOptions{
		Image:  "redis",
		Tag:    "7-alpine",
		Port:   "6379/tcp",
		Expire: 120,
	}
}

// New - a flushed redis client for one test, skipped when neither RedisAddrEnv nor docker is available.
func New(t *testing.T) (context.Context, *Suite) {
	return NewWithOptions(t, DefaultRedisOptions())
}

func NewWithOptions(t *testing.T, opts RedisOptions) (context.Context, *Suite) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), maxWaitDuration)
	t.Cleanup(cancel)

	addr := os.Getenv(RedisAddrEnv)
	if addr == "" {
		addr = startRedis(t, opts)
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() {
		_ = client.Close()
	})

	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("could not flush redis at %s: %v", addr, err)
	}

	return ctx, &Suite{
		T:       t,
		Logger:  NewLogger(),
		Storage: client,
	}
}

// startRedis - runs a container, waits until it answers PING and returns its host address.
func startRedis(t *testing.T, opts RedisOptions) string {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker is not available: %v", err)
	}

	if err = pool.Client.Ping(); err != nil {
		t.Skipf("docker is not reachable: %v", err)
	}

	pool.MaxWait = maxWaitDuration

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: opts.Image,
		Tag:        opts.Tag,
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("could not start %s:%s: %v", opts.Image, opts.Tag, err)
	}

	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Errorf("could not purge redis container: %v", err)
		}
	})

	_ = resource.Expire(opts.Expire)

	addr := resource.GetHostPort(opts.Port)

	err = pool.Retry(func() error {
		probe := redis.NewClient(&redis.Options{Addr: addr})
		defer probe.Close()

		if err := probe.Ping(context.Background()).Err(); err != nil {
			return fmt.Errorf("redis at %s is not ready: %w", addr, err)
		}

		return nil
	})
	if err != nil {
		t.Fatalf("could not connect to redis: %v", err)
	}

	return addr
}

func NewLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
}
