package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lingxi-lab/lingxi_go_server/internal/model"
	"github.com/lingxi-lab/lingxi_go_server/internal/repository"
	"github.com/lingxi-lab/lingxi_go_server/internal/testutil"
)

func setupQuotaService(t *testing.T) (*QuotaService, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	return NewQuotaService(
		repository.NewUsageRepository(db),
		repository.NewPlanRepository(db),
		repository.NewSubscriptionRepository(db),
	), db
}

func TestPeriodKey_DailyAndMonthly(t *testing.T) {
	now := time.Date(2024, 5, 17, 23, 30, 0, 0, time.UTC)

	assert.Equal(t, "2024-05-17", PeriodKey(model.KindWorks, now))
	assert.Equal(t, "2024-05", PeriodKey(model.KindPosts, now))
	assert.Equal(t, "2024-05", PeriodKey(model.KindCourses, now))
}

func TestPeriodKey_UsesUTC(t *testing.T) {
	// 23:30 in UTC+8 on May 17 is 15:30 UTC the same day,
	// but 07:30 in UTC+8 on May 18 is still May 17 in UTC
	loc := time.FixedZone("UTC+8", 8*3600)
	early := time.Date(2024, 5, 18, 7, 30, 0, 0, loc)

	assert.Equal(t, "2024-05-17", PeriodKey(model.KindWorks, early))
}

func TestQuotaService_CanConsume_WithinLimit(t *testing.T) {
	service, db := setupQuotaService(t)

	user := testutil.TestUser(t, db)
	plan := testutil.TestPlan(t, db, testutil.WithLimits(model.LimitMap{model.KindWorks: 3}))

	decision, err := service.CanConsume(user.ID, model.KindWorks, plan)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Equal(t, 3, decision.Limit)
	assert.Equal(t, 0, decision.Used)
	assert.Equal(t, 3, decision.Remaining)
}

func TestQuotaService_CanConsume_AtLimit(t *testing.T) {
	service, db := setupQuotaService(t)

	user := testutil.TestUser(t, db)
	plan := testutil.TestPlan(t, db, testutil.WithLimits(model.LimitMap{model.KindWorks: 2}))

	require.NoError(t, service.CommitConsumption(user.ID, model.KindWorks))
	require.NoError(t, service.CommitConsumption(user.ID, model.KindWorks))

	decision, err := service.CanConsume(user.ID, model.KindWorks, plan)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, 2, decision.Used)
	assert.NotEmpty(t, decision.Reason)
}

func TestQuotaService_CanConsume_UnlimitedWhenUnconfigured(t *testing.T) {
	service, db := setupQuotaService(t)

	user := testutil.TestUser(t, db)
	// plan has no limit entry for posts
	plan := testutil.TestPlan(t, db, testutil.WithLimits(model.LimitMap{model.KindWorks: 1}))

	decision, err := service.CanConsume(user.ID, model.KindPosts, plan)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.True(t, decision.Unlimited)
}

func TestQuotaService_CanConsume_UnlimitedSentinel(t *testing.T) {
	service, db := setupQuotaService(t)

	user := testutil.TestUser(t, db)
	plan := testutil.TestPlan(t, db, testutil.WithLimits(model.LimitMap{model.KindWorks: model.UnlimitedQuota}))

	// even with prior usage, -1 means no cap
	for i := 0; i < 10; i++ {
		require.NoError(t, service.CommitConsumption(user.ID, model.KindWorks))
	}

	decision, err := service.CanConsume(user.ID, model.KindWorks, plan)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.True(t, decision.Unlimited)
}

func TestQuotaService_CanConsume_DefaultFreeLimits(t *testing.T) {
	service, db := setupQuotaService(t)

	user := testutil.TestUser(t, db)

	// nil plan falls back to the default free tier
	decision, err := service.CanConsume(user.ID, model.KindWorks, nil)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Equal(t, DefaultFreeLimits[model.KindWorks], decision.Limit)
}

func TestQuotaService_CanConsume_UnknownKind(t *testing.T) {
	service, db := setupQuotaService(t)

	user := testutil.TestUser(t, db)

	_, err := service.CanConsume(user.ID, "videos", nil)
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestQuotaService_CommitConsumption_Monotonic(t *testing.T) {
	service, db := setupQuotaService(t)

	user := testutil.TestUser(t, db)
	usageRepo := repository.NewUsageRepository(db)

	for i := 1; i <= 5; i++ {
		require.NoError(t, service.CommitConsumption(user.ID, model.KindPosts))

		count, err := usageRepo.GetCount(user.ID, model.KindPosts, PeriodKey(model.KindPosts, time.Now()))
		require.NoError(t, err)
		assert.Equal(t, i, count)
	}
}

func TestQuotaService_PeriodIsolation(t *testing.T) {
	service, db := setupQuotaService(t)

	user := testutil.TestUser(t, db)
	usageRepo := repository.NewUsageRepository(db)

	// usage recorded under an old period key must not affect the current one
	require.NoError(t, usageRepo.Increment(user.ID, model.KindPosts, "2020-01"))
	require.NoError(t, usageRepo.Increment(user.ID, model.KindPosts, "2020-01"))

	plan := testutil.TestPlan(t, db, testutil.WithLimits(model.LimitMap{model.KindPosts: 2}))
	decision, err := service.CanConsume(user.ID, model.KindPosts, plan)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Equal(t, 0, decision.Used)
}

func TestQuotaService_UsersIsolated(t *testing.T) {
	service, db := setupQuotaService(t)

	alice := testutil.TestUser(t, db)
	bob := testutil.TestUser(t, db)
	plan := testutil.TestPlan(t, db, testutil.WithLimits(model.LimitMap{model.KindWorks: 1}))

	require.NoError(t, service.CommitConsumption(alice.ID, model.KindWorks))

	decision, err := service.CanConsume(bob.ID, model.KindWorks, plan)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
}

func TestQuotaService_GetQuotaInfo(t *testing.T) {
	service, db := setupQuotaService(t)

	user := testutil.TestUser(t, db)
	plan := testutil.TestPlan(t, db,
		testutil.WithRole(model.RoleArtist),
		testutil.WithLimits(model.LimitMap{model.KindWorks: 2, model.KindPosts: 5}))
	testutil.TestSubscription(t, db, user.ID, plan)

	require.NoError(t, service.CommitConsumption(user.ID, model.KindWorks))

	info, err := service.GetQuotaInfo(user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleArtist, info.Role)
	assert.Equal(t, plan.Name, info.PlanName)

	// artist kinds are works and posts
	require.Len(t, info.Decisions, 2)
	byKind := map[string]int{}
	for _, d := range info.Decisions {
		byKind[d.Kind] = d.Used
	}
	assert.Equal(t, 1, byKind[model.KindWorks])
	assert.Equal(t, 0, byKind[model.KindPosts])
}

func TestQuotaService_CheckCreate(t *testing.T) {
	service, db := setupQuotaService(t)

	user := testutil.TestUser(t, db)
	plan := testutil.TestPlan(t, db, testutil.WithLimits(model.LimitMap{model.KindWorks: 1}))
	testutil.TestSubscription(t, db, user.ID, plan)

	check, err := service.CheckCreate(user.ID, model.KindWorks)
	require.NoError(t, err)
	assert.True(t, check.CanCreate)
	require.NotNil(t, check.Decision)
	assert.Equal(t, 1, check.Decision.Limit)

	require.NoError(t, service.CommitConsumption(user.ID, model.KindWorks))

	check, err = service.CheckCreate(user.ID, model.KindWorks)
	require.NoError(t, err)
	assert.False(t, check.CanCreate)
	assert.NotEmpty(t, check.Reason)
}

func TestQuotaService_CheckCreate_NotEntitled(t *testing.T) {
	service, db := setupQuotaService(t)

	user := testutil.TestUser(t, db)

	// no subscription row at all: answer is no, without an error
	check, err := service.CheckCreate(user.ID, model.KindWorks)
	require.NoError(t, err)
	assert.False(t, check.CanCreate)
	assert.Equal(t, ErrNotEntitled.Error(), check.Reason)
}

func TestQuotaService_CheckCreate_UnknownKind(t *testing.T) {
	service, db := setupQuotaService(t)

	user := testutil.TestUser(t, db)

	_, err := service.CheckCreate(user.ID, "videos")
	assert.ErrorIs(t, err, ErrUnknownKind)
}
