package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

// Permissions consulted before mutations.
const (
	PermissionAssignEquipment = "equipment:assign"
	PermissionManageRegistry  = "registry:write"
	PermissionViewAudit       = "audit:read"
)

// Actor identifies the authenticated caller of an operation.
type Actor struct {
	ID   uint
	Role string
}

// AccessGuard authorizes an actor for a named permission. A denial must
// short-circuit before any validation or persistence happens.
type AccessGuard interface {
	Authorize(ctx context.Context, actor Actor, permission string) error
}

// PolicyGuard grants permissions from a static role policy table.
type PolicyGuard struct {
	policies map[string]map[string]struct{}
	logger   zerolog.Logger
}

// NewPolicyGuard builds the default role policy: admins hold every permission,
// IT staff manage equipment and registries, viewers read only.
func NewPolicyGuard(logger zerolog.Logger) *PolicyGuard {
	grants := map[string][]string{
		"admin":    {PermissionAssignEquipment, PermissionManageRegistry, PermissionViewAudit},
		"it_staff": {PermissionAssignEquipment, PermissionManageRegistry},
		"viewer":   {},
	}

	policies := make(map[string]map[string]struct{}, len(grants))
	for role, permissions := range grants {
		set := make(map[string]struct{}, len(permissions))
		for _, permission := range permissions {
			set[permission] = struct{}{}
		}
		policies[role] = set
	}

	return &PolicyGuard{
		policies: policies,
		logger:   logger.With().Str("component", "access_guard").Logger(),
	}
}

// Authorize returns an unauthorized error unless the actor's role grants the
// permission.
func (g *PolicyGuard) Authorize(_ context.Context, actor Actor, permission string) error {
	role := strings.ToLower(strings.TrimSpace(actor.Role))
	if granted, ok := g.policies[role]; ok {
		if _, allowed := granted[permission]; allowed {
			return nil
		}
	}

	g.logger.Warn().
		Uint("actor_id", actor.ID).
		Str("role", role).
		Str("permission", permission).
		Msg("permission denied")

	return newUnauthorized("actor lacks permission " + permission)
}
