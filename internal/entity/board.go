package entity

import "strconv"

const (
	PlayerX   = "X"
	PlayerO   = "O"
	PlayerTie = "-"

	boardSize = 3
)

// Position is a (row, col) coordinate on the board.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Move is one entry of the board's move history.
type Move struct {
	Mark string `json:"mark"`
	Spot int    `json:"spot"`
}

// Board is a 3x3 grid. An unfilled cell carries its 1-based spot label
// ("1".."9"), an occupied cell carries a player mark. The move history is
// append-only and used only for display, never for game logic.
type Board struct {
	Cells   [boardSize][boardSize]string `json:"cells"`
	History []Move                       `json:"history,omitempty"`
}

func NewBoard() *Board {
	board := &Board{}
	board.Reset()

	return board
}

// Reset - clears every cell back to its spot label and empties the move history.
func (that *Board) Reset() {
	for row := range boardSize {
		for col := range boardSize {
			that.Cells[row][col] = strconv.Itoa(CoordsToSpot(row, col))
		}
	}

	that.History = nil
}

// Cell - returns the raw cell value: a mark or a spot label.
func (that *Board) Cell(row, col int) string {
	return that.Cells[row][col]
}

// Place - writes a mark into an unfilled cell and appends it to the move
// history. Returns false without mutating anything if the cell is occupied
// or out of range.
func (that *Board) Place(row, col int, mark string) bool {
	if !that.IsLegalMove(row, col) {
		return false
	}

	that.Cells[row][col] = mark
	that.History = append(that.History, Move{Mark: mark, Spot: CoordsToSpot(row, col)})

	return true
}

// IsLegalMove - reports whether (row, col) is on the board and unoccupied.
func (that *Board) IsLegalMove(row, col int) bool {
	if row < 0 || row >= boardSize || col < 0 || col >= boardSize {
		return false
	}

	return !that.isMark(row, col)
}

// OpenPositions - returns every unoccupied position in row-major order.
// The order is load-bearing: the search tier breaks score ties by taking
// the first open position that reaches the maximum.
func (that *Board) OpenPositions() []Position {
	positions := make([]Position, 0, boardSize*boardSize)

	for row := range boardSize {
		for col := range boardSize {
			if !that.isMark(row, col) {
				positions = append(positions, Position{Row: row, Col: col})
			}
		}
	}

	return positions
}

// Winner - returns the mark holding a completed line, or "" when there is none.
func (that *Board) Winner() string {
	line := that.WinningLine()
	if line == nil {
		return ""
	}

	return that.Cells[line[0].Row][line[0].Col]
}

// WinningLine - returns the three positions of the first completed line, or
// nil. Rows are checked first, then columns, then the two diagonals.
func (that *Board) WinningLine() []Position {
	for row := range boardSize {
		if that.isMark(row, 0) && that.Cells[row][0] == that.Cells[row][1] && that.Cells[row][1] == that.Cells[row][2] {
			return []Position{{Row: row, Col: 0}, {Row: row, Col: 1}, {Row: row, Col: 2}}
		}
	}

	for col := range boardSize {
		if that.isMark(0, col) && that.Cells[0][col] == that.Cells[1][col] && that.Cells[1][col] == that.Cells[2][col] {
			return []Position{{Row: 0, Col: col}, {Row: 1, Col: col}, {Row: 2, Col: col}}
		}
	}

	if that.isMark(0, 0) && that.Cells[0][0] == that.Cells[1][1] && that.Cells[1][1] == that.Cells[2][2] {
		return []Position{{Row: 0, Col: 0}, {Row: 1, Col: 1}, {Row: 2, Col: 2}}
	}

	if that.isMark(0, 2) && that.Cells[0][2] == that.Cells[1][1] && that.Cells[1][1] == that.Cells[2][0] {
		return []Position{{Row: 0, Col: 2}, {Row: 1, Col: 1}, {Row: 2, Col: 0}}
	}

	return nil
}

// IsFull - reports whether every cell holds a mark.
func (that *Board) IsFull() bool {
	for row := range boardSize {
		for col := range boardSize {
			if !that.isMark(row, col) {
				return false
			}
		}
	}

	return true
}

// IsOver - reports whether the game has ended by win or by a full board.
func (that *Board) IsOver() bool {
	return that.Winner() != "" || that.IsFull()
}

// Clone - returns an independent copy of the board. Mutating the copy never
// affects the original, which lets the search tier explore hypothetical
// futures on clones.
func (that *Board) Clone() *Board {
	clone := &Board{Cells: that.Cells}

	if that.History != nil {
		clone.History = make([]Move, len(that.History))
		copy(clone.History, that.History)
	}

	return clone
}

func (that *Board) isMark(row, col int) bool {
	return that.Cells[row][col] == PlayerX || that.Cells[row][col] == PlayerO
}

// SpotToCoords - converts a 1-based spot label to board coordinates.
func SpotToCoords(spot int) Position {
	return Position{Row: (spot - 1) / boardSize, Col: (spot - 1) % boardSize}
}

// CoordsToSpot - converts board coordinates to the 1-based spot label.
func CoordsToSpot(row, col int) int {
	return row*boardSize + col + 1
}
