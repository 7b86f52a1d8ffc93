package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/gridplayinc/tictactoe-engine/internal/apperror"
	"github.com/gridplayinc/tictactoe-engine/internal/entity"
)

// MoveProvider supplies the next move for one side. A human-backed provider
// may block on input; the gameplay service bounds that wait with the turn
// budget and substitutes a random legal move when it elapses.
type MoveProvider interface {
	NextMove(ctx context.Context, board *entity.Board) (entity.Position, error)
}

// explainer is implemented by providers that can say why they moved.
type explainer interface {
	Explanation() string
}

// Presenter receives everything the core exposes after each ply.
type Presenter interface {
	ShowBoard(board *entity.Board)
	ShowMove(mark string, position entity.Position, explanation string)
	ShowResult(winner string, line []entity.Position)
	ShowSeriesStatus(tournament *entity.Tournament)
}

// BotMoveProvider adapts a BotService to the MoveProvider contract.
type BotMoveProvider struct {
	bot BotService
}

func NewBotMoveProvider(bot BotService) *BotMoveProvider {
	return &BotMoveProvider{bot: bot}
}

func (that *BotMoveProvider) NextMove(_ context.Context, board *entity.Board) (entity.Position, error) {
	return that.bot.Decide(board)
}

func (that *BotMoveProvider) Explanation() string {
	return that.bot.Explanation()
}

type GamePlayService interface {
	PlayGame(ctx context.Context, providerX, providerO MoveProvider) (string, error)
	PlaySingle(ctx context.Context, session *entity.GameSession, providerX, providerO MoveProvider) (string, error)
	PlaySeries(ctx context.Context, session *entity.GameSession, providerX, providerO MoveProvider) (string, error)
}

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, session *entity.GameSession) error
	DeleteByID(ctx context.Context, id string) error
}

type gamePlayService struct {
	logger *slog.Logger

	statsService StatsService
	sessionRepo  sessionRepo
	presenter    Presenter

	turnTimeout time.Duration
}

func NewGamePlayService(logger *slog.Logger, statsService StatsService, sessionRepo sessionRepo, presenter Presenter, turnTimeout time.Duration) GamePlayService {
	return &gamePlayService{
		logger:       logger.With("component", "gameplay"),
		statsService: statsService,
		sessionRepo:  sessionRepo,
		presenter:    presenter,
		turnTimeout:  turnTimeout,
	}
}

// PlayGame - runs one game from an empty board, X first, until it is over.
// Returns the winning mark, or PlayerTie.
func (that *gamePlayService) PlayGame(ctx context.Context, providerX, providerO MoveProvider) (string, error) {
	log := that.logger.With("method", "PlayGame")

	board := entity.NewBoard()
	providers := map[string]MoveProvider{
		entity.PlayerX: providerX,
		entity.PlayerO: providerO,
	}
	turn := entity.PlayerX

	that.presenter.ShowBoard(board)

	for !board.IsOver() {
		provider := providers[turn]

		position, err := that.collectMove(ctx, provider, board)
		if err != nil {
			return "", fmt.Errorf("failed to collect move for %s: %w", turn, err)
		}

		// An illegal answer is locally recoverable: ask the same side again.
		if !board.Place(position.Row, position.Col, turn) {
			log.Debug("illegal move, asking again", "mark", turn, "row", position.Row, "col", position.Col)
			continue
		}

		explanation := ""
		if source, ok := provider.(explainer); ok {
			explanation = source.Explanation()
		}

		that.presenter.ShowMove(turn, position, explanation)
		that.presenter.ShowBoard(board)

		turn = toggleMark(turn)
	}

	winner := board.Winner()
	that.presenter.ShowResult(winner, board.WinningLine())

	if winner == "" {
		return entity.PlayerTie, nil
	}

	return winner, nil
}

// PlaySingle - runs one game and records its outcome under the session's
// mode and difficulty.
func (that *gamePlayService) PlaySingle(ctx context.Context, session *entity.GameSession, providerX, providerO MoveProvider) (string, error) {
	if session.IsFinished() {
		return "", apperror.ErrGameFinished
	}

	session.Status = entity.StatusOngoing

	winner, err := that.PlayGame(ctx, providerX, providerO)
	if err != nil {
		return "", err
	}

	if err = that.statsService.RecordGame(ctx, session.Mode, session.Difficulty, winner); err != nil {
		return "", fmt.Errorf("failed to record game: %w", err)
	}

	session.Status = entity.StatusFinished

	return winner, nil
}

// PlaySeries - runs games under the session's tournament until it is over,
// persisting the session after every round so an interrupted series can be
// resumed. Returns the series winner, or "" for an undecided series.
func (that *gamePlayService) PlaySeries(ctx context.Context, session *entity.GameSession, providerX, providerO MoveProvider) (string, error) {
	log := that.logger.With("method", "PlaySeries", "sessionID", session.ID)

	if session.Tournament == nil || session.Tournament.IsOver() {
		return "", apperror.ErrSeriesFinished
	}

	session.Status = entity.StatusOngoing

	for !session.Tournament.IsOver() {
		winner, err := that.PlayGame(ctx, providerX, providerO)
		if err != nil {
			return "", err
		}

		session.Tournament.RecordRound(winner)
		that.presenter.ShowSeriesStatus(session.Tournament)

		if err = that.statsService.RecordGame(ctx, session.Mode, session.Difficulty, winner); err != nil {
			return "", fmt.Errorf("failed to record game: %w", err)
		}

		if err = that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
			return "", fmt.Errorf("failed to persist session: %w", err)
		}
	}

	session.Status = entity.StatusFinished

	if err := that.sessionRepo.DeleteByID(ctx, session.ID); err != nil {
		log.Error("failed to delete finished session", "error", err)
	}

	return session.Tournament.SeriesWinner(), nil
}

// collectMove - asks the provider for a move within the turn budget. On
// timeout a uniform random legal move is substituted and the pending request
// is abandoned; a late answer lands in the buffered slot and is discarded.
// The provider sees a clone, so late writes cannot corrupt the live board.
func (that *gamePlayService) collectMove(ctx context.Context, provider MoveProvider, board *entity.Board) (entity.Position, error) {
	type answer struct {
		position entity.Position
		err      error
	}

	requestCtx := ctx
	cancel := context.CancelFunc(func() {})
	if that.turnTimeout > 0 {
		requestCtx, cancel = context.WithTimeout(ctx, that.turnTimeout)
	}
	defer cancel()

	answers := make(chan answer, 1)
	go func() {
		position, err := provider.NextMove(requestCtx, board.Clone())
		answers <- answer{position: position, err: err}
	}()

	select {
	case result := <-answers:
		if result.err != nil {
			return entity.Position{}, result.err
		}
		return result.position, nil
	case <-requestCtx.Done():
		if ctx.Err() != nil {
			return entity.Position{}, fmt.Errorf("move collection canceled: %w", ctx.Err())
		}

		that.logger.Debug("turn budget elapsed, substituting a random move")

		return randomLegalMove(board)
	}
}

func randomLegalMove(board *entity.Board) (entity.Position, error) {
	open := board.OpenPositions()
	if len(open) == 0 {
		return entity.Position{}, apperror.ErrNoAvailableMoves
	}

	return open[rand.Intn(len(open))], nil //nolint: gosec // it's ok
}

func toggleMark(currentMark string) string {
	if currentMark == entity.PlayerX {
		return entity.PlayerO
	}
	return entity.PlayerX
}
