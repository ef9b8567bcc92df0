package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPolicyGuardGrantsByRole(t *testing.T) {
	guard := NewPolicyGuard(testLogger())
	ctx := context.Background()

	cases := []struct {
		role       string
		permission string
		allowed    bool
	}{
		{"admin", PermissionAssignEquipment, true},
		{"admin", PermissionManageRegistry, true},
		{"admin", PermissionViewAudit, true},
		{"it_staff", PermissionAssignEquipment, true},
		{"it_staff", PermissionManageRegistry, true},
		{"it_staff", PermissionViewAudit, false},
		{"viewer", PermissionAssignEquipment, false},
		{"viewer", PermissionManageRegistry, false},
		{"viewer", PermissionViewAudit, false},
		{"", PermissionAssignEquipment, false},
		{"intern", PermissionAssignEquipment, false},
	}

	for _, tc := range cases {
		err := guard.Authorize(ctx, Actor{ID: 1, Role: tc.role}, tc.permission)
		if tc.allowed {
			require.NoError(t, err, "%s should hold %s", tc.role, tc.permission)
		} else {
			require.True(t, IsUnauthorized(err), "%s should be denied %s", tc.role, tc.permission)
		}
	}
}

func TestPolicyGuardNormalisesRoleCasing(t *testing.T) {
	guard := NewPolicyGuard(testLogger())

	err := guard.Authorize(context.Background(), Actor{ID: 1, Role: " Admin "}, PermissionViewAudit)
	require.NoError(t, err)
}
