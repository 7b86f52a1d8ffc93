package apperror

import "errors"

var (
	ErrGameFinished     = errors.New("game is already finished")
	ErrSeriesFinished   = errors.New("series is already finished")
	ErrNoActiveSession  = errors.New("no active session")
	ErrNoAvailableMoves = errors.New("no available moves")
)
