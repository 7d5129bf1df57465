package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lingxi-lab/lingxi_go_server/internal/model"
	"github.com/lingxi-lab/lingxi_go_server/internal/repository"
	"github.com/lingxi-lab/lingxi_go_server/internal/testutil"
)

func TestRoleService_UnlockRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	service := NewRoleService(repository.NewUserRoleRepository(db))
	user := testutil.TestUser(t, db)

	already, err := service.UnlockRole(user.ID, model.RoleDoctor, 1)
	require.NoError(t, err)
	assert.False(t, already)

	roles, err := service.ListRoles(user.ID)
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, model.RoleDoctor, roles[0].Role)
}

func TestRoleService_UnlockRole_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	service := NewRoleService(repository.NewUserRoleRepository(db))
	user := testutil.TestUser(t, db)

	_, err := service.UnlockRole(user.ID, model.RoleTeacher, 1)
	require.NoError(t, err)

	// unlocking again reports already unlocked, no duplicate rows
	already, err := service.UnlockRole(user.ID, model.RoleTeacher, 2)
	require.NoError(t, err)
	assert.True(t, already)

	roles, err := service.ListRoles(user.ID)
	require.NoError(t, err)
	assert.Len(t, roles, 1)
}

func TestRoleService_UnlockRole_InvalidRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	service := NewRoleService(repository.NewUserRoleRepository(db))
	user := testutil.TestUser(t, db)

	_, err := service.UnlockRole(user.ID, "hacker", 1)
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestRoleService_RedirectRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	service := NewRoleService(repository.NewUserRoleRepository(db))

	assert.Equal(t, model.RoleDashboards[model.RoleAstrologer], service.RedirectRole(model.RoleAstrologer))
	assert.Empty(t, service.RedirectRole("unknown"))
}
