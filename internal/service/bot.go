package service

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/gridplayinc/tictactoe-engine/internal/apperror"
	"github.com/gridplayinc/tictactoe-engine/internal/entity"
)

const (
	DifficultyEasy       = "easy"
	DifficultyMedium     = "medium"
	DifficultyHard       = "hard"
	DifficultyImpossible = "impossible"
)

// Difficulties - the recognised difficulties, weakest first.
var Difficulties = []string{DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyImpossible}

var ErrUnknownDifficulty = errors.New("unknown difficulty")

const (
	explanationRandom          = "Picking a random spot"
	explanationWin             = "Going for the win!"
	explanationBlock           = "Blocking your winning move"
	explanationCenter          = "Taking the center"
	explanationCorner          = "Taking a corner"
	explanationOpenSpot        = "Taking an open spot"
	explanationStrategicCorner = "Taking a strategic corner"
	explanationOptimal         = "Playing the optimal move"
)

// Terminal score for the search tier before the depth bias is applied.
const winScore = 10

var corners = []entity.Position{
	{Row: 0, Col: 0},
	{Row: 0, Col: 2},
	{Row: 2, Col: 0},
	{Row: 2, Col: 2},
}

// BotService picks moves for a computer player. Decide never leaves the
// caller's board mutated; every exploratory placement happens on a clone.
// Explanation returns the rationale for the most recent Decide call.
type BotService interface {
	Decide(board *entity.Board) (entity.Position, error)
	Explanation() string
	Mark() string
	Difficulty() string
}

// strategy is one difficulty tier. The set is closed: exactly four tiers
// exist and each is exhaustively tested.
type strategy interface {
	decide(board *entity.Board) (entity.Position, string, error)
}

type botService struct {
	difficulty  string
	mark        string
	explanation string
	strategy    strategy
}

func NewBotService(difficulty, mark, opponentMark string) (BotService, error) {
	that := &botService{
		difficulty: difficulty,
		mark:       mark,
	}

	heuristic := &heuristicStrategy{mark: mark, opponent: opponentMark}

	switch difficulty {
	case DifficultyEasy:
		that.strategy = &randomStrategy{}
	case DifficultyMedium:
		that.strategy = &hybridStrategy{heuristic: heuristic, random: &randomStrategy{}}
	case DifficultyHard:
		that.strategy = heuristic
	case DifficultyImpossible:
		that.strategy = &minimaxStrategy{mark: mark, opponent: opponentMark}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDifficulty, difficulty)
	}

	return that, nil
}

func (that *botService) Decide(board *entity.Board) (entity.Position, error) {
	position, explanation, err := that.strategy.decide(board)
	if err != nil {
		return entity.Position{}, fmt.Errorf("bot failed to decide: %w", err)
	}

	that.explanation = explanation

	return position, nil
}

func (that *botService) Explanation() string {
	return that.explanation
}

func (that *botService) Mark() string {
	return that.mark
}

func (that *botService) Difficulty() string {
	return that.difficulty
}

// randomStrategy - uniform choice among the open positions.
type randomStrategy struct{}

func (that *randomStrategy) decide(board *entity.Board) (entity.Position, string, error) {
	open := board.OpenPositions()
	if len(open) == 0 {
		return entity.Position{}, "", apperror.ErrNoAvailableMoves
	}

	return open[rand.Intn(len(open))], explanationRandom, nil //nolint: gosec // it's ok
}

// hybridStrategy - a coin flip between the priority heuristic and pure
// chance. The strong branch deliberately uses the heuristic, not the search;
// "medium" is never a flip between random and unbeatable play.
type hybridStrategy struct {
	heuristic *heuristicStrategy
	random    *randomStrategy
}

func (that *hybridStrategy) decide(board *entity.Board) (entity.Position, string, error) {
	if rand.Float64() < 0.5 { //nolint: gosec // it's ok
		return that.heuristic.decide(board)
	}

	return that.random.decide(board)
}

// heuristicStrategy - strict priority order: win, block, center, a random
// open corner, then any open spot.
type heuristicStrategy struct {
	mark     string
	opponent string
}

func (that *heuristicStrategy) decide(board *entity.Board) (entity.Position, string, error) {
	open := board.OpenPositions()
	if len(open) == 0 {
		return entity.Position{}, "", apperror.ErrNoAvailableMoves
	}

	if winning, ok := findWinningMove(board, that.mark); ok {
		return winning, explanationWin, nil
	}

	if blocking, ok := findWinningMove(board, that.opponent); ok {
		return blocking, explanationBlock, nil
	}

	if board.IsLegalMove(1, 1) {
		return entity.Position{Row: 1, Col: 1}, explanationCenter, nil
	}

	openCorners := make([]entity.Position, 0, len(corners))
	for _, corner := range corners {
		if board.IsLegalMove(corner.Row, corner.Col) {
			openCorners = append(openCorners, corner)
		}
	}

	if len(openCorners) > 0 {
		return openCorners[rand.Intn(len(openCorners))], explanationCorner, nil //nolint: gosec // it's ok
	}

	return open[rand.Intn(len(open))], explanationOpenSpot, nil //nolint: gosec // it's ok
}

// findWinningMove - returns the position that completes a line for mark this
// turn, if one exists. Simulation runs on clones in board order.
func findWinningMove(board *entity.Board, mark string) (entity.Position, bool) {
	for _, position := range board.OpenPositions() {
		probe := board.Clone()
		probe.Place(position.Row, position.Col, mark)

		if probe.Winner() == mark {
			return position, true
		}
	}

	return entity.Position{}, false
}

// minimaxStrategy - exhaustive adversarial search. An own win scores
// winScore-depth, an opponent win depth-winScore, a tie zero, so faster wins
// and slower losses are preferred. Ties between candidates go to the first
// open position in board order.
type minimaxStrategy struct {
	mark     string
	opponent string
}

func (that *minimaxStrategy) decide(board *entity.Board) (entity.Position, string, error) {
	open := board.OpenPositions()
	if len(open) == 0 {
		return entity.Position{}, "", apperror.ErrNoAvailableMoves
	}

	bestScore := math.MinInt
	var bestMove entity.Position

	for _, position := range open {
		probe := board.Clone()
		probe.Place(position.Row, position.Col, that.mark)

		if score := that.minimax(probe, false, 0); score > bestScore {
			bestScore = score
			bestMove = position
		}
	}

	return bestMove, that.explain(board, bestMove), nil
}

func (that *minimaxStrategy) minimax(board *entity.Board, maximizing bool, depth int) int {
	switch board.Winner() {
	case that.mark:
		return winScore - depth
	case that.opponent:
		return depth - winScore
	}

	if board.IsFull() {
		return 0
	}

	if maximizing {
		best := math.MinInt
		for _, position := range board.OpenPositions() {
			probe := board.Clone()
			probe.Place(position.Row, position.Col, that.mark)

			if score := that.minimax(probe, false, depth+1); score > best {
				best = score
			}
		}

		return best
	}

	best := math.MaxInt
	for _, position := range board.OpenPositions() {
		probe := board.Clone()
		probe.Place(position.Row, position.Col, that.opponent)

		if score := that.minimax(probe, true, depth+1); score < best {
			best = score
		}
	}

	return best
}

// explain - classifies the chosen move with the same priority checks the
// heuristic tier uses. Tagging only; it never influences the search result.
func (that *minimaxStrategy) explain(board *entity.Board, move entity.Position) string {
	probe := board.Clone()
	probe.Place(move.Row, move.Col, that.mark)
	if probe.Winner() == that.mark {
		return explanationWin
	}

	probe = board.Clone()
	probe.Place(move.Row, move.Col, that.opponent)
	if probe.Winner() == that.opponent {
		return explanationBlock
	}

	if move == (entity.Position{Row: 1, Col: 1}) {
		return explanationCenter
	}

	for _, corner := range corners {
		if move == corner {
			return explanationStrategicCorner
		}
	}

	return explanationOptimal
}
