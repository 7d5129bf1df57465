package repository

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lingxi-lab/lingxi_go_server/internal/model"
	"github.com/lingxi-lab/lingxi_go_server/internal/testutil"
)

func TestUsageRepository_GetCount_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUsageRepository(db)

	count, err := repo.GetCount(1, model.KindWorks, "2024-05-17")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestUsageRepository_Increment_Upsert(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUsageRepository(db)

	// first increment inserts, following ones update the same row
	for i := 1; i <= 3; i++ {
		require.NoError(t, repo.Increment(1, model.KindWorks, "2024-05-17"))
	}

	count, err := repo.GetCount(1, model.KindWorks, "2024-05-17")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	var rows int64
	require.NoError(t, db.Model(&model.UsageCounter{}).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
}

func TestUsageRepository_Increment_KeysIndependent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUsageRepository(db)

	require.NoError(t, repo.Increment(1, model.KindWorks, "2024-05-17"))
	require.NoError(t, repo.Increment(1, model.KindWorks, "2024-05-18"))
	require.NoError(t, repo.Increment(1, model.KindPosts, "2024-05"))
	require.NoError(t, repo.Increment(2, model.KindWorks, "2024-05-17"))

	count, err := repo.GetCount(1, model.KindWorks, "2024-05-17")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestUsageRepository_Increment_Concurrent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	// single connection keeps the in-memory SQLite shared across goroutines
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	repo := NewUsageRepository(db)

	// the database-level upsert must not lose counts under concurrency
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.Increment(1, model.KindWorks, "2024-05-17")
		}()
	}
	wg.Wait()

	count, countErr := repo.GetCount(1, model.KindWorks, "2024-05-17")
	require.NoError(t, countErr)
	assert.Equal(t, 10, count)
}

func TestUsageRepository_Decrement_FloorsAtZero(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUsageRepository(db)

	require.NoError(t, repo.Increment(1, model.KindWorks, "2024-05-17"))
	require.NoError(t, repo.Decrement(1, model.KindWorks, "2024-05-17"))
	// decrementing an empty counter is a no-op
	require.NoError(t, repo.Decrement(1, model.KindWorks, "2024-05-17"))

	count, err := repo.GetCount(1, model.KindWorks, "2024-05-17")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
