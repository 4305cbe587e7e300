package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *SQLiteDB {
	t.Helper()
	db, err := NewSQLiteDB(filepath.Join(t.TempDir(), "killzone.db"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { db.Close() })
	return db
}

func testRun() *Run {
	return &Run{
		Model:          "base",
		ParamsJSON:     `{"u":1,"b":0.5,"small_delta":0.5,"delta":0.51,"k":0.2,"beta":0.5}`,
		AMax:           0.6,
		FMax:           2.3,
		Steps:          40,
		TotalEvaluated: 1681,
		KillZoneShare:  0.12,
		EngineVersion:  "killzone-1.0.0",
	}
}

func TestSaveAndGetRun(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	run := testRun()
	require.NoError(t, db.SaveRun(ctx, run))
	require.NotEmpty(t, run.ID, "SaveRun should assign an ID")

	got, err := db.GetRun(ctx, run.ID)
	require.NoError(t, err)
	require.Equal(t, run.Model, got.Model)
	require.Equal(t, run.ParamsJSON, got.ParamsJSON)
	require.Equal(t, run.Steps, got.Steps)
	require.Equal(t, run.TotalEvaluated, got.TotalEvaluated)
	require.InDelta(t, run.KillZoneShare, got.KillZoneShare, 1e-12)
	require.False(t, got.CreatedAt.IsZero())
}

func TestGetRunNotFound(t *testing.T) {
	db := newTestDB(t)
	_, err := db.GetRun(context.Background(), "no-such-run")
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestSaveAndGetCells(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	run := testRun()
	require.NoError(t, db.SaveRun(ctx, run))

	cells := []Cell{
		{A: 0.0, F: 0.1, Entrant: "E_C/E_P", Incumbent: "©", Development: "N"},
		{A: 0.1, F: 0.5, Entrant: "E_C", Incumbent: "Ø", Development: "Y"},
		{A: 0.5, F: 0.1, Entrant: "E_P", Incumbent: "©", Development: "Y", Ownership: "M"},
	}
	require.NoError(t, db.SaveCells(ctx, run.ID, cells))

	got, err := db.GetCells(ctx, run.ID, 100, 0)
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Ordered by (a, f)
	require.Equal(t, "E_C/E_P", got[0].Entrant)
	require.Equal(t, "E_C", got[1].Entrant)
	require.Equal(t, "M", got[2].Ownership)
	// Default ownership is separate entities
	require.Equal(t, "E", got[0].Ownership)

	page, err := db.GetCells(ctx, run.ID, 2, 1)
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Equal(t, "E_C", page[0].Entrant)
}

func TestSaveCellsEmpty(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.SaveCells(context.Background(), "whatever", nil))
}

func TestListRuns(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	for _, model := range []string{"base", "bargaining", "acquisition"} {
		run := testRun()
		run.Model = model
		require.NoError(t, db.SaveRun(ctx, run))
	}

	runs, err := db.ListRuns(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)

	page, err := db.ListRuns(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
}

func TestMigrateIdempotent(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Migrate())
}
