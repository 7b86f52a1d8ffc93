package entity

import "math/rand"

const (
	StatusWaiting  = "waiting"
	StatusOngoing  = "ongoing"
	StatusFinished = "finished"
)

// GameSession is a resumable match in progress: who plays, at which
// difficulty, and how far the series has come. It is persisted after every
// finished round.
type GameSession struct {
	ID         string      `json:"id"`
	Mode       string      `json:"mode"`
	Difficulty string      `json:"difficulty,omitempty"`
	HumanMark  string      `json:"human_mark,omitempty"`
	BotMark    string      `json:"bot_mark,omitempty"`
	Status     string      `json:"status"`
	Tournament *Tournament `json:"tournament,omitempty"`
}

func NewGameSession(id, mode string) *GameSession {
	return &GameSession{
		ID:     id,
		Mode:   mode,
		Status: StatusWaiting,
	}
}

func (that *GameSession) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *GameSession) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *GameSession) IsSinglePlayer() bool {
	return that.Mode == ModeSinglePlayer
}

// RandomMarks - deals the marks for a new single-player session: (human, bot).
func RandomMarks() (string, string) {
	if rand.Intn(2) == 0 { //nolint: gosec // it's ok
		return PlayerX, PlayerO
	}
	return PlayerO, PlayerX
}
