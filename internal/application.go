package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-lan/internal/config"
	"github.com/rocketscienceinc/tictactoe-lan/internal/journal"
	"github.com/rocketscienceinc/tictactoe-lan/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-lan/internal/repository"
	"github.com/rocketscienceinc/tictactoe-lan/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-lan/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-lan/internal/transport/rest"
	"github.com/rocketscienceinc/tictactoe-lan/internal/transport/websocket"
	"github.com/rocketscienceinc/tictactoe-lan/internal/usecase"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application until ctx is canceled.
func RunApp(ctx context.Context, logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fileLog, err := journal.OpenFileLog(conf.EventLogPath)
	if err != nil {
		return fmt.Errorf("could not open event log: %w", err)
	}

	defer func() {
		if err = fileLog.Close(); err != nil {
			log.Error("could not close event log", "error", err)
		}
	}()

	recorders := []journal.Recorder{fileLog}

	if conf.Redis.Enabled {
		if conf.Redis.Host == "" {
			return ErrAddrNotFound
		}

		redisStorage, err := storage.New(ctx, conf.Redis.GetRedisAddr())
		if err != nil {
			return fmt.Errorf("could not connect to redis storage: %w", err)
		}

		defer func() {
			if err = redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}()

		eventRepo := repository.NewEventRepository(redisStorage, conf.Redis.Key)
		logLastEvent(ctx, log, eventRepo)

		recorders = append(recorders, journal.NewRepositoryRecorder(eventRepo))
	}

	hub := websocket.NewHub(logger)
	hubDone := make(chan struct{})
	go func() {
		defer close(hubDone)
		hub.Run(ctx)
	}()

	gameState := tictactoe.NewGameState(pkg.GenerateRoundID)
	gameUseCase := usecase.NewGameManager(logger, gameState, journal.Multi(recorders...), hub, !conf.KeepMarksOnReset)

	router, err := rest.NewRouter(logger, gameUseCase, hub, !conf.IgnoreForwardedFor)
	if err != nil {
		return fmt.Errorf("could not build router: %w", err)
	}

	log.Info("Game ready", "round", gameState.Snapshot().RoundID)

	httpErr := rest.NewServer(logger, conf.GetHTTPAddr(), router).Start(ctx)

	cancel()
	<-hubDone

	if httpErr != nil {
		return fmt.Errorf("HTTP server error: %w", httpErr)
	}

	log.Info("Application context canceled, shutting down")

	return nil
}

// logLastEvent reports where a journal shared with earlier runs left off.
func logLastEvent(ctx context.Context, log *slog.Logger, repo repository.EventRepository) {
	events, err := repo.List(ctx, 1)
	if err != nil {
		log.Warn("could not read event journal", "error", err)
		return
	}

	if len(events) == 0 {
		log.Info("Event journal is empty")
		return
	}

	log.Info("Event journal resumes", "last_event", events[0].Kind, "last_round", events[0].RoundID, "at", events[0].At)
}
