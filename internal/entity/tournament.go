package entity

import (
	"errors"
	"fmt"
)

var ErrInvalidSeriesLength = errors.New("series length must be 3, 5 or 7")

// Tournament tracks a best-of-N series. N is always odd, so a series is
// clinched as soon as one mark takes (N+1)/2 rounds; ties can absorb enough
// rounds that the series ends at round N with no winner at all.
type Tournament struct {
	Length  int            `json:"length"`
	Round   int            `json:"round"`
	Wins    map[string]int `json:"wins"`
	Ties    int            `json:"ties"`
	Results []string       `json:"results,omitempty"`
}

func NewTournament(length int) (*Tournament, error) {
	switch length {
	case 3, 5, 7:
	default:
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSeriesLength, length)
	}

	return &Tournament{
		Length: length,
		Wins:   map[string]int{PlayerX: 0, PlayerO: 0},
	}, nil
}

// WinsNeeded - rounds a mark must take to clinch the series.
func (that *Tournament) WinsNeeded() int {
	return (that.Length + 1) / 2
}

// RecordRound - records one finished round. Outcome is a winning mark, or
// anything else for a tie.
func (that *Tournament) RecordRound(outcome string) {
	that.Round++

	switch outcome {
	case PlayerX, PlayerO:
		that.Wins[outcome]++
	default:
		that.Ties++
	}

	that.Results = append(that.Results, outcome)
}

// IsOver - reports whether a mark has clinched the series or the round cap
// has been reached.
func (that *Tournament) IsOver() bool {
	if that.Wins[PlayerX] >= that.WinsNeeded() || that.Wins[PlayerO] >= that.WinsNeeded() {
		return true
	}

	return that.Round >= that.Length
}

// SeriesWinner - returns the mark that clinched the series, or "" while the
// series runs or when it exhausted its rounds with nobody at the threshold.
func (that *Tournament) SeriesWinner() string {
	for _, mark := range []string{PlayerX, PlayerO} {
		if that.Wins[mark] >= that.WinsNeeded() {
			return mark
		}
	}

	return ""
}

// Status - one-line progress summary for display.
func (that *Tournament) Status() string {
	winsX, winsO := that.Wins[PlayerX], that.Wins[PlayerO]

	switch {
	case winsX > winsO:
		return fmt.Sprintf("%s leads %d-%d", PlayerX, winsX, winsO)
	case winsO > winsX:
		return fmt.Sprintf("%s leads %d-%d", PlayerO, winsO, winsX)
	default:
		return fmt.Sprintf("Round %d/%d", that.Round, that.Length)
	}
}
