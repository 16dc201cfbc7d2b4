package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dedupkit/dedup-engine/pkg/apperrors"
	"github.com/dedupkit/dedup-engine/pkg/models"
	"github.com/dedupkit/dedup-engine/pkg/testhelpers"
)

func testRun(filename string) *models.CleaningRun {
	return &models.CleaningRun{
		Filename:         filename,
		Format:           "xlsx",
		InputRows:        100,
		CleanedRows:      80,
		RowsRemoved:      20,
		DuplicateGroups:  15,
		UnparseableDates: 3,
		IdentifierColumn: "DOCUMENTO",
		DateColumn:       "F_INGRESO",
	}
}

func TestRunRepository_CreateAndGet(t *testing.T) {
	db := testhelpers.GetTestDB(t)
	repo := NewRunRepository(db.DB)
	ctx := context.Background()

	run := testRun("padron.xlsx")
	require.NoError(t, repo.Create(ctx, run))
	assert.NotEqual(t, uuid.Nil, run.ID)
	assert.False(t, run.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, "padron.xlsx", got.Filename)
	assert.Equal(t, 100, got.InputRows)
	assert.Equal(t, 80, got.CleanedRows)
	assert.Equal(t, 20, got.RowsRemoved)
	assert.Equal(t, "DOCUMENTO", got.IdentifierColumn)
	assert.Equal(t, "F_INGRESO", got.DateColumn)
}

func TestRunRepository_GetByID_NotFound(t *testing.T) {
	db := testhelpers.GetTestDB(t)
	repo := NewRunRepository(db.DB)

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrRunNotFound)
}

func TestRunRepository_List_NewestFirst(t *testing.T) {
	db := testhelpers.GetTestDB(t)
	repo := NewRunRepository(db.DB)
	ctx := context.Background()

	older := testRun("older.csv")
	older.CreatedAt = time.Now().Add(-time.Hour)
	require.NoError(t, repo.Create(ctx, older))

	newer := testRun("newer.csv")
	require.NoError(t, repo.Create(ctx, newer))

	runs, err := repo.List(ctx, 50)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(runs), 2)

	var olderIdx, newerIdx int = -1, -1
	for i, r := range runs {
		switch r.ID {
		case older.ID:
			olderIdx = i
		case newer.ID:
			newerIdx = i
		}
	}
	require.NotEqual(t, -1, olderIdx)
	require.NotEqual(t, -1, newerIdx)
	assert.Less(t, newerIdx, olderIdx)
}

func TestRunRepository_List_RespectsLimit(t *testing.T) {
	db := testhelpers.GetTestDB(t)
	repo := NewRunRepository(db.DB)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, testRun("limit.csv")))
	}

	runs, err := repo.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}
