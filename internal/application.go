package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/gridmatch-backend/internal/config"
	"github.com/rocketscienceinc/gridmatch-backend/internal/repository"
	"github.com/rocketscienceinc/gridmatch-backend/internal/repository/storage"
	"github.com/rocketscienceinc/gridmatch-backend/internal/service"
	"github.com/rocketscienceinc/gridmatch-backend/internal/tictactoe"
	"github.com/rocketscienceinc/gridmatch-backend/internal/usecase"
	"github.com/rocketscienceinc/gridmatch-backend/transport/rest"
	"github.com/rocketscienceinc/gridmatch-backend/transport/websocket"
)

const shutdownTimeout = 10 * time.Second

var ErrDSNNotFound = errors.New("postgres dsn is empty")

// RunApp - runs the application until SIGINT/SIGTERM or a server failure.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rules, err := conf.GameRules()
	if err != nil {
		return err
	}

	directory, closer, err := newDirectory(ctx, conf)
	if err != nil {
		return err
	}

	defer func() {
		if err := closer.Close(); err != nil {
			log.Error("could not close directory storage", "error", err)
		}
	}()

	hub := websocket.NewHub(logger, conf.Transport.SendQueue, conf.Transport.WriteTimeout)

	sessions := usecase.NewSessionManager(
		logger,
		rules,
		repository.NewRoomRepository(),
		directory,
		newNotifier(logger, conf),
		tictactoe.NewTurnClock(conf.Game.TurnTimeout),
		hub,
		usecase.Options{
			MaxIdleTurns:  conf.Game.MaxIdleTurns,
			NotifyTimeout: conf.Push.Timeout,
		},
	)

	restServer := rest.New(logger, sessions, directory, conf.AllowedOrigins)
	wsServer := websocket.New(logger, hub, sessions, conf.AllowedOrigins)

	log.Info("starting",
		"boardSize", rules.BoardSize,
		"seats", rules.Seats,
		"turnTimeout", conf.Game.TurnTimeout.String(),
		"directory", conf.Directory.Driver,
	)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return restServer.Start(conf.HTTPPort)
	})

	group.Go(func() error {
		return wsServer.Start(conf.SocketPort)
	})

	group.Go(func() error {
		<-groupCtx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return errors.Join(
			wsServer.Shutdown(shutdownCtx),
			restServer.Shutdown(shutdownCtx),
			sessions.Shutdown(shutdownCtx),
		)
	})

	if err = group.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

func newDirectory(ctx context.Context, conf *config.Config) (repository.DirectoryRepository, io.Closer, error) {
	if conf.Directory.Driver == config.DriverPostgres {
		if conf.Postgres.DSN == "" {
			return nil, nil, ErrDSNNotFound
		}

		pgStorage, err := storage.NewPostgresStorage(ctx, conf.Postgres.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to postgres storage: %w", err)
		}

		directory := repository.NewPostgresDirectory(pgStorage.Pool)
		if err = directory.Init(ctx); err != nil {
			_ = pgStorage.Close()
			return nil, nil, err
		}

		return directory, pgStorage, nil
	}

	redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr())
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	return repository.NewRedisDirectory(redisStorage.Connection), redisStorage, nil
}

func newNotifier(logger *slog.Logger, conf *config.Config) service.Notifier {
	if !conf.Push.Enabled {
		return service.NewLogNotifier(logger)
	}

	return service.NewExpoNotifier(logger, conf.Push.Endpoint, conf.Push.AccessToken, conf.Push.Timeout)
}
