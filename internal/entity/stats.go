package entity

const (
	ModeSinglePlayer = "single"
	ModeTwoPlayer    = "two"
)

// TierStats holds the counters for one difficulty bucket of single-player
// games. Wins belong to the human side (X), losses to the bot side (O).
type TierStats struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Ties   int `json:"ties"`
}

// TwoPlayerStats holds the counters for symmetric two-human games.
type TwoPlayerStats struct {
	WinsX int `json:"wins_x"`
	WinsO int `json:"wins_o"`
	Ties  int `json:"ties"`
}

// Stats is the full persistent aggregate. It is always saved and loaded as
// one record.
type Stats struct {
	SinglePlayer map[string]*TierStats `json:"single_player"`
	TwoPlayer    TwoPlayerStats        `json:"two_player"`
}

func NewStats() *Stats {
	return &Stats{
		SinglePlayer: make(map[string]*TierStats),
	}
}

// TotalGames - sums every recorded outcome across all buckets.
func (that *Stats) TotalGames() int {
	total := that.TwoPlayer.WinsX + that.TwoPlayer.WinsO + that.TwoPlayer.Ties

	for _, bucket := range that.SinglePlayer {
		total += bucket.Wins + bucket.Losses + bucket.Ties
	}

	return total
}
