package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/gridplayinc/tictactoe-engine/internal/entity"
)

var ErrInputClosed = errors.New("input stream closed")

// Transport is the terminal collaborator: it collects human moves from an
// input stream and renders engine output. It implements the gameplay
// service's MoveProvider and Presenter contracts.
//
// A single goroutine owns the input stream and pumps lines into a channel,
// so a turn that runs out of budget never leaves a second reader behind on
// the same stream.
type Transport struct {
	logger *slog.Logger
	writer io.Writer

	lines   chan string
	readErr error // set by the pump before lines is closed
}

func New(logger *slog.Logger, in io.Reader, out io.Writer) *Transport {
	that := &Transport{
		logger: logger.With("component", "console"),
		writer: out,
		lines:  make(chan string),
	}

	go that.pump(bufio.NewReader(in))

	return that
}

// pump - the only reader of the input stream. Forwards lines until the
// stream errors, then records the error and closes the channel.
func (that *Transport) pump(reader *bufio.Reader) {
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			that.readErr = err
			close(that.lines)
			return
		}

		that.lines <- line
	}
}

// NextMove - prompts for a spot label 1-9 until a legal one arrives. When the
// context expires mid-prompt, the call backs out cooperatively: a line the
// pump already read for the expired prompt is drained and discarded so it
// never counts for a later turn.
func (that *Transport) NextMove(ctx context.Context, board *entity.Board) (entity.Position, error) {
	for {
		if err := ctx.Err(); err != nil {
			return entity.Position{}, fmt.Errorf("input canceled: %w", err)
		}

		fmt.Fprint(that.writer, "Your move (1-9): ")

		var line string
		select {
		case <-ctx.Done():
			that.discardPending()
			return entity.Position{}, fmt.Errorf("input canceled: %w", ctx.Err())
		case received, ok := <-that.lines:
			if !ok {
				if errors.Is(that.readErr, io.EOF) {
					return entity.Position{}, ErrInputClosed
				}
				return entity.Position{}, fmt.Errorf("failed to read input: %w", that.readErr)
			}
			line = received
		}

		spot, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil || spot < 1 || spot > 9 {
			fmt.Fprintln(that.writer, "Pick a number 1-9.")
			continue
		}

		position := entity.SpotToCoords(spot)
		if !board.IsLegalMove(position.Row, position.Col) {
			fmt.Fprintf(that.writer, "Spot %d is taken.\n", spot)
			continue
		}

		return position, nil
	}
}

// discardPending - swallows the answer for a prompt that was given up on, if
// the pump already read one.
func (that *Transport) discardPending() {
	select {
	case line, ok := <-that.lines:
		if ok {
			that.logger.Debug("discarding input for an abandoned prompt", "line", strings.TrimSpace(line))
		}
	default:
	}
}

// ShowBoard - prints the grid with spot labels in unfilled cells.
func (that *Transport) ShowBoard(board *entity.Board) {
	fmt.Fprintln(that.writer)
	for row := range 3 {
		fmt.Fprintf(that.writer, "  %s | %s | %s\n", board.Cell(row, 0), board.Cell(row, 1), board.Cell(row, 2))
		if row < 2 {
			fmt.Fprintln(that.writer, "  ---------")
		}
	}
	fmt.Fprintln(that.writer)
}

func (that *Transport) ShowMove(mark string, position entity.Position, explanation string) {
	if explanation == "" {
		fmt.Fprintf(that.writer, "%s takes spot %d\n", mark, entity.CoordsToSpot(position.Row, position.Col))
		return
	}

	fmt.Fprintf(that.writer, "%s takes spot %d (%s)\n", mark, entity.CoordsToSpot(position.Row, position.Col), explanation)
}

func (that *Transport) ShowResult(winner string, line []entity.Position) {
	if winner == "" {
		fmt.Fprintln(that.writer, "It's a tie!")
		return
	}

	spots := make([]string, 0, len(line))
	for _, position := range line {
		spots = append(spots, strconv.Itoa(entity.CoordsToSpot(position.Row, position.Col)))
	}

	fmt.Fprintf(that.writer, "%s wins! Line: %s\n", winner, strings.Join(spots, "-"))
}

func (that *Transport) ShowSeriesStatus(tournament *entity.Tournament) {
	fmt.Fprintln(that.writer, tournament.Status())
}
