package rbac

// Permission constants.
const (
	PermissionReadAny = "any:read"

	PermissionCreateAsset = "asset:create"
	PermissionUpdateAsset = "asset:update"
	PermissionDeleteAsset = "asset:delete"

	PermissionCreatePlan = "plan:create"
	PermissionUpdatePlan = "plan:update"
	PermissionDeletePlan = "plan:delete"

	PermissionCreateWorkOrder = "workorder:create"
	PermissionUpdateWorkOrder = "workorder:update"
	PermissionDeleteWorkOrder = "workorder:delete"

	PermissionCreatePart = "part:create"
	PermissionUpdatePart = "part:update"
	PermissionDeletePart = "part:delete"

	PermissionCreateLocation = "location:create"
	PermissionUpdateLocation = "location:update"
	PermissionDeleteLocation = "location:delete"

	PermissionManageUsers  = "user:manage"
	PermissionReplayOutbox = "outbox:replay"
)

// Role constants.
const (
	RoleAdmin      = "admin"
	RoleManager    = "manager"
	RoleTechnician = "technician"
	RoleViewer     = "viewer"
)

var rolePermissions = map[string][]string{
	RoleViewer: {
		PermissionReadAny,
	},
	RoleTechnician: {
		PermissionReadAny,
		PermissionCreateWorkOrder,
		PermissionUpdateWorkOrder,
	},
	RoleManager: {
		PermissionReadAny,
		PermissionCreateAsset,
		PermissionUpdateAsset,
		PermissionCreatePlan,
		PermissionUpdatePlan,
		PermissionCreateWorkOrder,
		PermissionUpdateWorkOrder,
		PermissionDeleteWorkOrder,
		PermissionCreatePart,
		PermissionUpdatePart,
		PermissionCreateLocation,
		PermissionUpdateLocation,
	},
	RoleAdmin: {
		PermissionReadAny,
		PermissionCreateAsset,
		PermissionUpdateAsset,
		PermissionDeleteAsset,
		PermissionCreatePlan,
		PermissionUpdatePlan,
		PermissionDeletePlan,
		PermissionCreateWorkOrder,
		PermissionUpdateWorkOrder,
		PermissionDeleteWorkOrder,
		PermissionCreatePart,
		PermissionUpdatePart,
		PermissionDeletePart,
		PermissionCreateLocation,
		PermissionUpdateLocation,
		PermissionDeleteLocation,
		PermissionManageUsers,
		PermissionReplayOutbox,
	},
}

// IsValidRole reports whether role is a known role.
func IsValidRole(role string) bool {
	_, ok := rolePermissions[role]
	return ok
}

// HasPermission checks whether the role grants the permission.
func HasPermission(role string, permission string) bool {
	permissions, ok := rolePermissions[role]
	if !ok {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// CheckPermission returns an error when the role lacks the permission.
func CheckPermission(role string, permission string) error {
	if !HasPermission(role, permission) {
		return &PermissionDeniedError{
			Role:       role,
			Permission: permission,
		}
	}
	return nil
}

// PermissionDeniedError indicates a missing permission.
type PermissionDeniedError struct {
	Role       string
	Permission string
}

func (e *PermissionDeniedError) Error() string {
	return "insufficient permissions"
}
