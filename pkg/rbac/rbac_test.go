package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission(RoleViewer, PermissionReadAny))
	assert.False(t, HasPermission(RoleViewer, PermissionCreateWorkOrder))

	assert.True(t, HasPermission(RoleTechnician, PermissionUpdateWorkOrder))
	assert.False(t, HasPermission(RoleTechnician, PermissionDeleteWorkOrder))
	assert.False(t, HasPermission(RoleTechnician, PermissionCreatePlan))

	assert.True(t, HasPermission(RoleManager, PermissionCreatePlan))
	assert.False(t, HasPermission(RoleManager, PermissionDeletePlan))
	assert.False(t, HasPermission(RoleManager, PermissionManageUsers))

	assert.True(t, HasPermission(RoleAdmin, PermissionManageUsers))
	assert.True(t, HasPermission(RoleAdmin, PermissionReplayOutbox))

	assert.False(t, HasPermission("intruder", PermissionReadAny))
}

func TestCheckPermission(t *testing.T) {
	require.NoError(t, CheckPermission(RoleAdmin, PermissionDeleteAsset))

	err := CheckPermission(RoleViewer, PermissionDeleteAsset)
	require.Error(t, err)

	var denied *PermissionDeniedError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, RoleViewer, denied.Role)
	assert.Equal(t, PermissionDeleteAsset, denied.Permission)
}

func TestIsValidRole(t *testing.T) {
	for _, role := range []string{RoleAdmin, RoleManager, RoleTechnician, RoleViewer} {
		assert.True(t, IsValidRole(role))
	}
	assert.False(t, IsValidRole("superuser"))
	assert.False(t, IsValidRole(""))
}
