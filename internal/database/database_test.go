package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/database"
)

func TestMigrate(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	t.Run("applies schema", func(t *testing.T) {
		version, err := database.Migrate(ctx, db)

		require.NoError(t, err)
		assert.Equal(t, int64(1), version)

		for _, table := range []string{"portfolio", "portfolio_bond"} {
			var name string
			err := db.QueryRowContext(ctx,
				"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
			require.NoError(t, err, table)
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		version, err := database.Migrate(ctx, db)

		require.NoError(t, err)
		assert.Equal(t, int64(1), version)
	})

	t.Run("reports schema version", func(t *testing.T) {
		version, err := database.SchemaVersion(ctx, db)

		require.NoError(t, err)
		assert.Equal(t, int64(1), version)
	})

	t.Run("enforces foreign keys", func(t *testing.T) {
		_, err := db.ExecContext(ctx,
			"INSERT INTO portfolio_bond (portfolio_id, secid, quantity) VALUES ('missing', 'SU26238RMFS4', 1)")

		assert.Error(t, err)
	})

	t.Run("health check", func(t *testing.T) {
		assert.NoError(t, database.HealthCheck(ctx, db))
	})
}
