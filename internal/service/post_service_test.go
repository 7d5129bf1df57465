package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lingxi-lab/lingxi_go_server/config"
	"github.com/lingxi-lab/lingxi_go_server/internal/model"
	"github.com/lingxi-lab/lingxi_go_server/internal/model/dto"
	"github.com/lingxi-lab/lingxi_go_server/internal/repository"
	"github.com/lingxi-lab/lingxi_go_server/internal/testutil"
)

func setupPostService(t *testing.T) (*PostService, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	subRepo := repository.NewSubscriptionRepository(db)
	quota := NewQuotaService(
		repository.NewUsageRepository(db),
		repository.NewPlanRepository(db),
		subRepo,
	)
	service := NewPostService(
		db,
		repository.NewPostRepository(db),
		NewEntitlementService(subRepo),
		quota,
		NewSafetyService(&config.Config{}),
	)
	return service, db
}

func publishRequest() *dto.PublishPostRequest {
	return &dto.PublishPostRequest{
		Title:   "新作品上线",
		Content: "欢迎大家来听我的新歌",
		Tags:    []string{"原创", "音乐"},
	}
}

func TestPostService_Publish(t *testing.T) {
	service, db := setupPostService(t)

	user := testutil.TestUser(t, db)
	plan := testutil.TestPlan(t, db, testutil.WithLimits(model.LimitMap{model.KindPosts: 3}))
	testutil.TestSubscription(t, db, user.ID, plan)

	post, _, err := service.Publish(user.ID, publishRequest())
	require.NoError(t, err)
	assert.Equal(t, plan.Role, post.Role)

	// publication consumes one unit of the monthly quota
	count, err := repository.NewUsageRepository(db).GetCount(
		user.ID, model.KindPosts, PeriodKey(model.KindPosts, time.Now()))
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestPostService_Publish_NotEntitled(t *testing.T) {
	service, db := setupPostService(t)

	user := testutil.TestUser(t, db)

	_, _, err := service.Publish(user.ID, publishRequest())
	assert.ErrorIs(t, err, ErrNotEntitled)

	// no post and no consumption on denial
	var posts []model.Post
	require.NoError(t, db.Find(&posts).Error)
	assert.Empty(t, posts)
}

func TestPostService_Publish_QuotaExceeded(t *testing.T) {
	service, db := setupPostService(t)

	user := testutil.TestUser(t, db)
	plan := testutil.TestPlan(t, db, testutil.WithLimits(model.LimitMap{model.KindPosts: 1}))
	testutil.TestSubscription(t, db, user.ID, plan)

	_, _, err := service.Publish(user.ID, publishRequest())
	require.NoError(t, err)

	_, decision, err := service.Publish(user.ID, publishRequest())
	assert.ErrorIs(t, err, ErrQuotaExceeded)
	require.NotNil(t, decision)
	assert.Equal(t, 1, decision.Used)
	assert.Equal(t, 1, decision.Limit)

	// the denied attempt must not bump the counter
	count, err := repository.NewUsageRepository(db).GetCount(
		user.ID, model.KindPosts, PeriodKey(model.KindPosts, time.Now()))
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestPostService_Publish_ContentRejected(t *testing.T) {
	service, db := setupPostService(t)

	user := testutil.TestUser(t, db)
	plan := testutil.TestPlan(t, db, testutil.WithLimits(model.LimitMap{model.KindPosts: 3}))
	testutil.TestSubscription(t, db, user.ID, plan)

	req := publishRequest()
	req.Content = "这套疗法包治百病"

	_, _, err := service.Publish(user.ID, req)
	assert.ErrorIs(t, err, ErrContentRejected)

	// rejection happens before consumption
	count, err := repository.NewUsageRepository(db).GetCount(
		user.ID, model.KindPosts, PeriodKey(model.KindPosts, time.Now()))
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestPostService_List(t *testing.T) {
	service, db := setupPostService(t)

	user := testutil.TestUser(t, db)
	plan := testutil.TestPlan(t, db, testutil.WithLimits(model.LimitMap{model.KindPosts: 10}))
	testutil.TestSubscription(t, db, user.ID, plan)

	for i := 0; i < 3; i++ {
		_, _, err := service.Publish(user.ID, publishRequest())
		require.NoError(t, err)
	}

	items, total, err := service.List(user.ID, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, items, 2)
}
