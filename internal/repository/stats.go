package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gridplayinc/tictactoe-engine/internal/entity"
)

type StatsRepository interface {
	Load(ctx context.Context) (*entity.Stats, error)
	Save(ctx context.Context, stats *entity.Stats) error
}

type dbStats struct {
	conn *sql.DB
}

func NewStatsRepository(conn *sql.DB) StatsRepository {
	return &dbStats{
		conn: conn,
	}
}

// Load - reads the full aggregate. A missing or unreadable record starts a
// fresh aggregate rather than failing.
func (that *dbStats) Load(ctx context.Context) (*entity.Stats, error) {
	var payload string

	err := that.conn.QueryRowContext(ctx, `SELECT payload FROM stats WHERE id = 1`).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.NewStats(), nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}

	stats := entity.NewStats()
	if err = json.Unmarshal([]byte(payload), stats); err != nil {
		return entity.NewStats(), nil
	}

	if stats.SinglePlayer == nil {
		stats.SinglePlayer = make(map[string]*entity.TierStats)
	}

	return stats, nil
}

// Save - overwrites the aggregate in full.
func (that *dbStats) Save(ctx context.Context, stats *entity.Stats) error {
	payload, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}

	query := `INSERT INTO stats (id, payload) VALUES (1, ?)
		ON CONFLICT (id) DO UPDATE SET payload = excluded.payload`

	if _, err = that.conn.ExecContext(ctx, query, string(payload)); err != nil {
		return fmt.Errorf("failed to save stats: %w", err)
	}

	return nil
}
