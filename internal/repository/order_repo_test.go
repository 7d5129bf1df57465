package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lingxi-lab/lingxi_go_server/internal/model"
	"github.com/lingxi-lab/lingxi_go_server/internal/testutil"
)

func TestOrderRepository_MarkVerified_Once(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewOrderRepository(db)
	user := testutil.TestUser(t, db)
	order := testutil.TestOrder(t, db, user.ID)

	ok, err := repo.MarkVerified(order.ID, "pay_1")
	require.NoError(t, err)
	assert.True(t, ok)

	// second transition attempt loses
	ok, err = repo.MarkVerified(order.ID, "pay_2")
	require.NoError(t, err)
	assert.False(t, ok)

	stored, err := repo.GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderVerified, stored.Status)
	// the winning payment id sticks
	assert.Equal(t, "pay_1", stored.GatewayPaymentID)
}

func TestOrderRepository_MarkFailed_OnlyFromCreated(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewOrderRepository(db)
	user := testutil.TestUser(t, db)
	order := testutil.TestOrder(t, db, user.ID)

	ok, err := repo.MarkVerified(order.ID, "pay_1")
	require.NoError(t, err)
	require.True(t, ok)

	// a late failure report must not clobber the verified state
	require.NoError(t, repo.MarkFailed(order.ID))

	stored, err := repo.GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderVerified, stored.Status)
}

func TestOrderRepository_CancelStaleCreated(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewOrderRepository(db)
	user := testutil.TestUser(t, db)

	stale := testutil.TestOrder(t, db, user.ID)
	require.NoError(t, db.Model(stale).
		Update("created_at", time.Now().Add(-4*24*time.Hour)).Error)

	fresh := testutil.TestOrder(t, db, user.ID)
	verified := testutil.TestOrder(t, db, user.ID, testutil.WithOrderStatus(model.OrderVerified))
	require.NoError(t, db.Model(verified).
		Update("created_at", time.Now().Add(-10*24*time.Hour)).Error)

	listed, err := repo.ListStaleCreated(3 * 24 * time.Hour)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, stale.ID, listed[0].ID)

	cancelled, err := repo.CancelStaleCreated(3 * 24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), cancelled)

	storedStale, err := repo.GetByID(stale.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderCancelled, storedStale.Status)

	// fresh created orders and terminal orders are untouched
	storedFresh, err := repo.GetByID(fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderCreated, storedFresh.Status)

	storedVerified, err := repo.GetByID(verified.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderVerified, storedVerified.Status)
}
