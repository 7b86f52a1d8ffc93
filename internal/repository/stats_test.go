package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridplayinc/tictactoe-engine/internal/entity"
	"github.com/gridplayinc/tictactoe-engine/internal/repository/storage"
)

func newStatsStorage(t *testing.T) (context.Context, *storage.SQLiteStorage) {
	t.Helper()

	ctx := context.Background()

	sqliteStorage, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "stats.db"))
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, sqliteStorage.Close())
	})

	require.NoError(t, sqliteStorage.Init(ctx))

	return ctx, sqliteStorage
}

func TestStatsRepository_Load(t *testing.T) {
	t.Run("Empty store yields an empty aggregate", func(t *testing.T) {
		ctx, sqliteStorage := newStatsStorage(t)
		statsRepo := NewStatsRepository(sqliteStorage.Connection)

		// When: loading before anything was saved
		stats, err := statsRepo.Load(ctx)

		// Then: an empty aggregate comes back, not an error
		require.NoError(t, err)
		require.NotNil(t, stats)
		assert.Zero(t, stats.TotalGames())
		assert.NotNil(t, stats.SinglePlayer)
	})

	t.Run("Corrupt payload yields an empty aggregate", func(t *testing.T) {
		ctx, sqliteStorage := newStatsStorage(t)
		statsRepo := NewStatsRepository(sqliteStorage.Connection)

		// Given: garbage in the stats row
		_, err := sqliteStorage.Connection.ExecContext(ctx, `INSERT INTO stats (id, payload) VALUES (1, 'not json')`)
		require.NoError(t, err)

		// When: loading
		stats, err := statsRepo.Load(ctx)

		// Then: the repository starts fresh instead of failing
		require.NoError(t, err)
		assert.Zero(t, stats.TotalGames())
	})
}

func TestStatsRepository_SaveLoadRoundTrip(t *testing.T) {
	ctx, sqliteStorage := newStatsStorage(t)
	statsRepo := NewStatsRepository(sqliteStorage.Connection)

	// Given: an aggregate with games in both modes
	stats := entity.NewStats()
	stats.SinglePlayer["easy"] = &entity.TierStats{Wins: 1, Losses: 1, Ties: 1}
	stats.SinglePlayer["impossible"] = &entity.TierStats{Losses: 4}
	stats.TwoPlayer = entity.TwoPlayerStats{WinsX: 2, WinsO: 1, Ties: 3}

	// When: saving and loading it back
	require.NoError(t, statsRepo.Save(ctx, stats))

	loaded, err := statsRepo.Load(ctx)

	// Then: the aggregate round-trips exactly
	require.NoError(t, err)
	assert.Equal(t, stats, loaded)
	assert.Equal(t, 13, loaded.TotalGames())
}

func TestStatsRepository_SaveOverwritesInFull(t *testing.T) {
	ctx, sqliteStorage := newStatsStorage(t)
	statsRepo := NewStatsRepository(sqliteStorage.Connection)

	// Given: a saved aggregate
	first := entity.NewStats()
	first.SinglePlayer["hard"] = &entity.TierStats{Wins: 3}
	require.NoError(t, statsRepo.Save(ctx, first))

	// When: a different aggregate is saved after it
	second := entity.NewStats()
	second.TwoPlayer = entity.TwoPlayerStats{Ties: 1}
	require.NoError(t, statsRepo.Save(ctx, second))

	// Then: only the latest full aggregate survives
	loaded, err := statsRepo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, loaded)
	assert.Empty(t, loaded.SinglePlayer)
}
