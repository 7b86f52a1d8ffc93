package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gridplayinc/tictactoe-engine/internal/entity"
)

const (
	SuggestionUpgrade   = "upgrade"
	SuggestionDowngrade = "downgrade"
)

// Suggestion thresholds: below minSampleSize games the sample says nothing;
// between the two rates the difficulty is considered balanced.
const (
	minSampleSize    = 5
	upgradeWinRate   = 0.7
	downgradeWinRate = 0.3
)

var ErrUnknownGameMode = errors.New("unknown game mode")

// StatsService keeps the win/loss/tie aggregate and writes it back to
// durable storage in full after every recorded game.
type StatsService interface {
	RecordGame(ctx context.Context, mode, difficulty, winner string) error
	TotalGames() int
	Snapshot() *entity.Stats
	SuggestDifficultyChange(difficulty string) string
}

type statsRepo interface {
	Load(ctx context.Context) (*entity.Stats, error)
	Save(ctx context.Context, stats *entity.Stats) error
}

type statsService struct {
	statsRepo statsRepo
	stats     *entity.Stats
}

func NewStatsService(ctx context.Context, statsRepo statsRepo) (StatsService, error) {
	stats, err := statsRepo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}

	return &statsService{
		statsRepo: statsRepo,
		stats:     stats,
	}, nil
}

// RecordGame - counts one finished game into its bucket and persists the
// whole aggregate. Winner is a mark, or anything else for a tie.
func (that *statsService) RecordGame(ctx context.Context, mode, difficulty, winner string) error {
	switch mode {
	case entity.ModeSinglePlayer:
		bucket, ok := that.stats.SinglePlayer[difficulty]
		if !ok {
			bucket = &entity.TierStats{}
			that.stats.SinglePlayer[difficulty] = bucket
		}

		switch winner {
		case entity.PlayerX:
			bucket.Wins++
		case entity.PlayerO:
			bucket.Losses++
		default:
			bucket.Ties++
		}
	case entity.ModeTwoPlayer:
		switch winner {
		case entity.PlayerX:
			that.stats.TwoPlayer.WinsX++
		case entity.PlayerO:
			that.stats.TwoPlayer.WinsO++
		default:
			that.stats.TwoPlayer.Ties++
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownGameMode, mode)
	}

	if err := that.statsRepo.Save(ctx, that.stats); err != nil {
		return fmt.Errorf("failed to save stats: %w", err)
	}

	return nil
}

func (that *statsService) TotalGames() int {
	return that.stats.TotalGames()
}

func (that *statsService) Snapshot() *entity.Stats {
	return that.stats
}

// SuggestDifficultyChange - "upgrade" when the human keeps beating this
// difficulty and a stronger one exists, "downgrade" when they keep losing and
// a weaker one exists, "" otherwise. Needs minSampleSize recorded games.
func (that *statsService) SuggestDifficultyChange(difficulty string) string {
	bucket, ok := that.stats.SinglePlayer[difficulty]
	if !ok {
		return ""
	}

	total := bucket.Wins + bucket.Losses + bucket.Ties
	if total < minSampleSize {
		return ""
	}

	winRate := float64(bucket.Wins) / float64(total)

	switch {
	case winRate > upgradeWinRate && difficulty != DifficultyImpossible:
		return SuggestionUpgrade
	case winRate < downgradeWinRate && difficulty != DifficultyEasy:
		return SuggestionDowngrade
	default:
		return ""
	}
}
