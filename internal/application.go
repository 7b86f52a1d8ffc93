package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gridplayinc/tictactoe-engine/internal/apperror"
	"github.com/gridplayinc/tictactoe-engine/internal/config"
	"github.com/gridplayinc/tictactoe-engine/internal/entity"
	"github.com/gridplayinc/tictactoe-engine/internal/pkg"
	"github.com/gridplayinc/tictactoe-engine/internal/repository"
	"github.com/gridplayinc/tictactoe-engine/internal/repository/storage"
	"github.com/gridplayinc/tictactoe-engine/internal/service"
	"github.com/gridplayinc/tictactoe-engine/internal/transport/console"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application: wires storage, services and the console
// transport, then plays one best-of-N series against the configured bot.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	sqliteStorage, err := storage.NewSQLiteStorage(conf.StatsStoragePath)
	if err != nil {
		return fmt.Errorf("could not open stats storage: %w", err)
	}

	defer func() {
		if err = sqliteStorage.Close(); err != nil {
			log.Error("could not close stats storage", "error", err)
		}
	}()

	if err = sqliteStorage.Init(ctx); err != nil {
		return fmt.Errorf("could not init stats storage: %w", err)
	}

	statsRepo := repository.NewStatsRepository(sqliteStorage.Connection)
	sessionRepo := repository.NewSessionRepository(redisStorage.Connection)

	statsService, err := service.NewStatsService(ctx, statsRepo)
	if err != nil {
		return fmt.Errorf("could not create stats service: %w", err)
	}

	transport := console.New(logger, os.Stdin, os.Stdout)
	gamePlayService := service.NewGamePlayService(logger, statsService, sessionRepo, transport, conf.Game.TurnTimeout())

	errCh := make(chan error, 1)
	go func() {
		errCh <- playSeries(ctx, log, conf, statsService, gamePlayService, sessionRepo, transport)
	}()

	select {
	case err = <-errCh:
		if err != nil {
			return fmt.Errorf("game loop error: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

func playSeries(
	ctx context.Context,
	log *slog.Logger,
	conf *config.Config,
	statsService service.StatsService,
	gamePlayService service.GamePlayService,
	sessionRepo repository.SessionRepository,
	transport *console.Transport,
) error {
	session, err := resumeOrCreateSession(ctx, log, conf, sessionRepo)
	if err != nil {
		return err
	}

	bot, err := service.NewBotService(session.Difficulty, session.BotMark, session.HumanMark)
	if err != nil {
		return fmt.Errorf("could not create bot: %w", err)
	}

	providers := map[string]service.MoveProvider{
		session.HumanMark: transport,
		session.BotMark:   service.NewBotMoveProvider(bot),
	}

	winner, err := gamePlayService.PlaySeries(ctx, session, providers[entity.PlayerX], providers[entity.PlayerO])
	if err != nil {
		return err
	}

	log.Info("Series finished", "winner", winner, "totalGames", statsService.TotalGames())

	if suggestion := statsService.SuggestDifficultyChange(session.Difficulty); suggestion != "" {
		log.Info("Difficulty suggestion", "difficulty", session.Difficulty, "suggestion", suggestion)
	}

	return nil
}

// activeSessionSource is the slice of the session repository the resume
// check needs.
type activeSessionSource interface {
	GetActive(ctx context.Context) (*entity.GameSession, error)
}

// resumeOrCreateSession - picks up the persisted series if one was left
// ongoing mid-way, otherwise deals a fresh session from the config.
func resumeOrCreateSession(ctx context.Context, log *slog.Logger, conf *config.Config, sessions activeSessionSource) (*entity.GameSession, error) {
	session, err := sessions.GetActive(ctx)
	if err != nil {
		if !errors.Is(err, apperror.ErrNoActiveSession) {
			log.Warn("could not load previous session, starting fresh", "error", err)
		}
		return newSession(conf)
	}

	if !session.IsOngoing() || !session.IsSinglePlayer() || session.Tournament == nil || session.Tournament.IsOver() {
		return newSession(conf)
	}

	log.Info("Resuming interrupted series", "sessionID", session.ID, "round", session.Tournament.Round)

	return session, nil
}

func newSession(conf *config.Config) (*entity.GameSession, error) {
	tournament, err := entity.NewTournament(conf.Game.SeriesLength)
	if err != nil {
		return nil, fmt.Errorf("could not create tournament: %w", err)
	}

	humanMark, botMark := entity.RandomMarks()

	session := entity.NewGameSession(pkg.GenerateSessionID(), entity.ModeSinglePlayer)
	session.Difficulty = conf.Game.Difficulty
	session.HumanMark = humanMark
	session.BotMark = botMark
	session.Tournament = tournament

	return session, nil
}
