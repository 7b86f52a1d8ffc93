package service

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridplayinc/tictactoe-engine/internal/apperror"
	"github.com/gridplayinc/tictactoe-engine/internal/entity"
)

func TestNewBotService(t *testing.T) {
	t.Run("Recognised difficulties", func(t *testing.T) {
		for _, difficulty := range Difficulties {
			bot, err := NewBotService(difficulty, entity.PlayerO, entity.PlayerX)
			require.NoError(t, err)
			require.NotNil(t, bot)
			assert.Equal(t, difficulty, bot.Difficulty())
			assert.Equal(t, entity.PlayerO, bot.Mark())
		}
	})

	t.Run("Unknown difficulty", func(t *testing.T) {
		bot, err := NewBotService("extreme", entity.PlayerO, entity.PlayerX)
		require.ErrorIs(t, err, ErrUnknownDifficulty)
		assert.Nil(t, bot)
	})
}

func TestBotService_Easy(t *testing.T) {
	t.Run("Returns a legal move and an explanation", func(t *testing.T) {
		// Given: an easy bot on an empty board
		board := entity.NewBoard()
		bot, err := NewBotService(DifficultyEasy, entity.PlayerO, entity.PlayerX)
		require.NoError(t, err)

		// When: the bot decides
		position, err := bot.Decide(board)

		// Then: the move is legal and the explanation is set
		require.NoError(t, err)
		assert.True(t, board.IsLegalMove(position.Row, position.Col))
		assert.Equal(t, explanationRandom, bot.Explanation())
	})

	t.Run("Fails on a full board", func(t *testing.T) {
		// Given: a tied full board
		board := entity.NewBoard()
		playTie(t, board)

		bot, err := NewBotService(DifficultyEasy, entity.PlayerO, entity.PlayerX)
		require.NoError(t, err)

		// When: the bot decides
		_, err = bot.Decide(board)

		// Then: there are no available moves
		require.ErrorIs(t, err, apperror.ErrNoAvailableMoves)
	})
}

func TestBotService_Medium(t *testing.T) {
	// Given: a medium bot
	board := entity.NewBoard()
	bot, err := NewBotService(DifficultyMedium, entity.PlayerO, entity.PlayerX)
	require.NoError(t, err)

	// When: the bot decides many times on a fresh board
	for range 20 {
		position, err := bot.Decide(board)

		// Then: every move is legal and explained
		require.NoError(t, err)
		assert.True(t, board.IsLegalMove(position.Row, position.Col))
		assert.NotEmpty(t, bot.Explanation())
	}
}

func TestBotService_Hard(t *testing.T) {
	t.Run("Takes the winning move", func(t *testing.T) {
		// Given: O can complete the top row
		board := entity.NewBoard()
		board.Place(0, 0, entity.PlayerO)
		board.Place(0, 1, entity.PlayerO)

		bot, err := NewBotService(DifficultyHard, entity.PlayerO, entity.PlayerX)
		require.NoError(t, err)

		// When: the bot decides
		position, err := bot.Decide(board)

		// Then: it completes the row over any other option
		require.NoError(t, err)
		assert.Equal(t, entity.Position{Row: 0, Col: 2}, position)
		assert.Equal(t, explanationWin, bot.Explanation())
	})

	t.Run("Blocks the opponent's winning move", func(t *testing.T) {
		// Given: X threatens the top row
		board := entity.NewBoard()
		board.Place(0, 0, entity.PlayerX)
		board.Place(0, 1, entity.PlayerX)

		bot, err := NewBotService(DifficultyHard, entity.PlayerO, entity.PlayerX)
		require.NoError(t, err)

		// When: the bot decides
		position, err := bot.Decide(board)

		// Then: it occupies the threatened cell
		require.NoError(t, err)
		assert.Equal(t, entity.Position{Row: 0, Col: 2}, position)
		assert.Equal(t, explanationBlock, bot.Explanation())
	})

	t.Run("Prefers the center", func(t *testing.T) {
		// Given: no win or block is available
		board := entity.NewBoard()
		board.Place(0, 0, entity.PlayerX)

		bot, err := NewBotService(DifficultyHard, entity.PlayerO, entity.PlayerX)
		require.NoError(t, err)

		// When: the bot decides
		position, err := bot.Decide(board)

		// Then: it takes the center
		require.NoError(t, err)
		assert.Equal(t, entity.Position{Row: 1, Col: 1}, position)
		assert.Equal(t, explanationCenter, bot.Explanation())
	})

	t.Run("Falls back to a corner", func(t *testing.T) {
		// Given: the center is gone and nothing is threatened
		board := entity.NewBoard()
		board.Place(1, 1, entity.PlayerX)

		bot, err := NewBotService(DifficultyHard, entity.PlayerO, entity.PlayerX)
		require.NoError(t, err)

		// When: the bot decides
		position, err := bot.Decide(board)

		// Then: it takes one of the open corners
		require.NoError(t, err)
		assert.Contains(t, []entity.Position{
			{Row: 0, Col: 0}, {Row: 0, Col: 2}, {Row: 2, Col: 0}, {Row: 2, Col: 2},
		}, position)
		assert.Equal(t, explanationCorner, bot.Explanation())
	})

	t.Run("Takes an open spot when nothing better is left", func(t *testing.T) {
		// Given: center and all corners occupied, no line threatened
		//   X O X
		//   . X .
		//   O X O
		board := entity.NewBoard()
		board.Place(0, 0, entity.PlayerX)
		board.Place(0, 2, entity.PlayerX)
		board.Place(1, 1, entity.PlayerX)
		board.Place(2, 1, entity.PlayerX)
		board.Place(0, 1, entity.PlayerO)
		board.Place(2, 0, entity.PlayerO)
		board.Place(2, 2, entity.PlayerO)

		bot, err := NewBotService(DifficultyHard, entity.PlayerO, entity.PlayerX)
		require.NoError(t, err)

		// When: the bot decides
		position, err := bot.Decide(board)

		// Then: it takes one of the remaining edges
		require.NoError(t, err)
		assert.Contains(t, []entity.Position{{Row: 1, Col: 0}, {Row: 1, Col: 2}}, position)
		assert.Equal(t, explanationOpenSpot, bot.Explanation())
	})
}

func TestBotService_Impossible(t *testing.T) {
	t.Run("Takes the winning move", func(t *testing.T) {
		// Given: O can complete the top row
		board := entity.NewBoard()
		board.Place(0, 0, entity.PlayerO)
		board.Place(0, 1, entity.PlayerO)
		board.Place(1, 0, entity.PlayerX)
		board.Place(1, 1, entity.PlayerX)

		bot, err := NewBotService(DifficultyImpossible, entity.PlayerO, entity.PlayerX)
		require.NoError(t, err)

		// When: the bot decides
		position, err := bot.Decide(board)

		// Then: it wins now
		require.NoError(t, err)
		assert.Equal(t, entity.Position{Row: 0, Col: 2}, position)
		assert.Equal(t, explanationWin, bot.Explanation())
	})

	t.Run("Blocks the opponent's winning move", func(t *testing.T) {
		// Given: X threatens the top row
		board := entity.NewBoard()
		board.Place(0, 0, entity.PlayerX)
		board.Place(0, 1, entity.PlayerX)

		bot, err := NewBotService(DifficultyImpossible, entity.PlayerO, entity.PlayerX)
		require.NoError(t, err)

		// When: the bot decides
		position, err := bot.Decide(board)

		// Then: it occupies the threatened cell
		require.NoError(t, err)
		assert.Equal(t, entity.Position{Row: 0, Col: 2}, position)
	})

	t.Run("Never mutates the caller's board", func(t *testing.T) {
		// Given: a board mid-game
		board := entity.NewBoard()
		board.Place(0, 0, entity.PlayerX)
		before := *board.Clone()

		bot, err := NewBotService(DifficultyImpossible, entity.PlayerO, entity.PlayerX)
		require.NoError(t, err)

		// When: the bot decides
		_, err = bot.Decide(board)

		// Then: the board is exactly as it was
		require.NoError(t, err)
		assert.Equal(t, before.Cells, board.Cells)
		assert.Equal(t, before.History, board.History)
	})

	t.Run("Never loses going second", func(t *testing.T) {
		assertNeverLoses(t, entity.PlayerX)
	})

	t.Run("Never loses going first", func(t *testing.T) {
		assertNeverLoses(t, entity.PlayerO)
	})

	t.Run("Explanation set on an empty board", func(t *testing.T) {
		board := entity.NewBoard()

		bot, err := NewBotService(DifficultyImpossible, entity.PlayerO, entity.PlayerX)
		require.NoError(t, err)

		_, err = bot.Decide(board)
		require.NoError(t, err)
		assert.NotEmpty(t, bot.Explanation())
	})
}

// assertNeverLoses plays 50 games of random X against an impossible O,
// with firstMark opening, and requires that O draws or wins every one.
func assertNeverLoses(t *testing.T, firstMark string) {
	t.Helper()

	for game := range 50 {
		board := entity.NewBoard()

		bot, err := NewBotService(DifficultyImpossible, entity.PlayerO, entity.PlayerX)
		require.NoError(t, err)

		current := firstMark
		for !board.IsOver() {
			var position entity.Position

			if current == entity.PlayerO {
				position, err = bot.Decide(board)
				require.NoError(t, err)
			} else {
				open := board.OpenPositions()
				position = open[rand.Intn(len(open))]
			}

			require.True(t, board.Place(position.Row, position.Col, current))
			current = toggleMark(current)
		}

		require.NotEqual(t, entity.PlayerX, board.Winner(), "bot lost game %d: %v", game, board.History)
	}
}

// playTie fills the board with a winnerless pattern.
func playTie(t *testing.T, board *entity.Board) {
	t.Helper()

	for i, mark := range []string{
		entity.PlayerX, entity.PlayerO, entity.PlayerX,
		entity.PlayerX, entity.PlayerX, entity.PlayerO,
		entity.PlayerO, entity.PlayerX, entity.PlayerO,
	} {
		position := entity.SpotToCoords(i + 1)
		require.True(t, board.Place(position.Row, position.Col, mark))
	}
}
