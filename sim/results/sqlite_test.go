package results

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SaveAndQuery(t *testing.T) {
	// GIVEN a fresh database
	ctx := context.Background()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "out", "league.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	// WHEN a run is saved
	seasons, salaries := Rows(fixtureRun())
	require.NoError(t, store.Save(ctx, seasons, salaries))

	// THEN rows and championships can be read back
	n, err := store.CountSeasonRows(ctx, "run-a")
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	titles, err := store.ChampionCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"team_2": 1}, titles)
}

func TestStore_DuplicateRowsRollBack(t *testing.T) {
	ctx := context.Background()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "league.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	seasons, salaries := Rows(fixtureRun())
	require.NoError(t, store.Save(ctx, seasons, salaries))

	// saving the same run again violates the primary key and leaves nothing behind
	extra := append([]SeasonRow{{RunID: "run-c", Season: 1, Team: "team_1"}}, seasons...)
	assert.Error(t, store.Save(ctx, extra, nil))

	n, err := store.CountSeasonRows(ctx, "run-c")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestOpenSQLite_EmptyPath(t *testing.T) {
	_, err := OpenSQLite("")
	assert.Error(t, err)
}
