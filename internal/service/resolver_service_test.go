package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/assetdesk-io/assetdesk-api/internal/dto"
	"github.com/assetdesk-io/assetdesk-api/internal/models"
)

func appendLedger(t *testing.T, svc LedgerService, payload dto.AppendAssignmentRequest) dto.AssignmentEventResponse {
	t.Helper()
	response, err := svc.Append(context.Background(), Actor{ID: 1, Role: "admin"}, payload)
	require.NoError(t, err)
	return response
}

func TestResolveOnePicksWinnerNotLastInsert(t *testing.T) {
	env := newLedgerEnv(t)
	ledger := env.newService(allowAllGuard{})
	resolver := NewResolverService(env.events, nil, testLogger())
	ctx := context.Background()

	appendLedger(t, ledger, dto.AppendAssignmentRequest{
		ComputerID: uintPtr(1),
		ActionType: models.ActionAssignToLocation,
		LocationID: uintPtr(1),
		OccurredAt: "2024-06-01T00:00:00Z",
	})
	// A correction recorded later but dated earlier must not win.
	appendLedger(t, ledger, dto.AppendAssignmentRequest{
		ComputerID: uintPtr(1),
		ActionType: models.ActionAssignToEmployee,
		EmployeeID: uintPtr(1),
		OccurredAt: "2024-01-01T00:00:00Z",
	})

	current, err := resolver.ResolveOne(ctx, models.KindComputer, 1)
	require.NoError(t, err)
	require.True(t, current.Assigned)
	require.NotNil(t, current.Event)
	require.Equal(t, models.ActionAssignToLocation, current.Event.ActionType)
	require.True(t, current.Event.OccurredAt.Equal(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))
}

func TestResolveOneEmptyHistoryIsAnAnswer(t *testing.T) {
	env := newLedgerEnv(t)
	resolver := NewResolverService(env.events, nil, testLogger())

	current, err := resolver.ResolveOne(context.Background(), models.KindDevice, 1)
	require.NoError(t, err)
	require.False(t, current.Assigned)
	require.Nil(t, current.Event)
	require.Equal(t, uint(1), current.EquipmentID)
	require.Equal(t, "device", current.Kind)
}

func TestResolveOneRejectsUnknownKind(t *testing.T) {
	env := newLedgerEnv(t)
	resolver := NewResolverService(env.events, nil, testLogger())

	_, err := resolver.ResolveOne(context.Background(), models.EquipmentKind("printer"), 1)
	require.True(t, IsInvalidAction(err))
}

func TestResolveAllKeepsPartitionsApart(t *testing.T) {
	env := newLedgerEnv(t)
	ledger := env.newService(allowAllGuard{})
	resolver := NewResolverService(env.events, nil, testLogger())

	appendLedger(t, ledger, dto.AppendAssignmentRequest{
		ComputerID: uintPtr(1),
		ActionType: models.ActionAssignToEmployee,
		EmployeeID: uintPtr(1),
		OccurredAt: "2024-01-01T00:00:00Z",
	})
	appendLedger(t, ledger, dto.AppendAssignmentRequest{
		DeviceID:   uintPtr(1),
		ActionType: models.ActionAssignToLocation,
		LocationID: uintPtr(1),
		OccurredAt: "2024-02-01T00:00:00Z",
	})

	current, err := resolver.ResolveAll(context.Background())
	require.NoError(t, err)
	require.Len(t, current, 2)

	byKind := map[string]dto.CurrentAssignmentResponse{}
	for _, item := range current {
		byKind[item.Kind] = item
	}
	require.Equal(t, models.ActionAssignToEmployee, byKind["computer"].Event.ActionType)
	require.Equal(t, models.ActionAssignToLocation, byKind["device"].Event.ActionType)
}

func TestResolveOneReadsThroughCacheAndAppendInvalidates(t *testing.T) {
	env := newLedgerEnv(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewCurrentAssignmentCache(client, time.Minute, testLogger())

	ledger := NewLedgerService(
		env.events,
		env.registry.computers,
		env.registry.devices,
		env.registry.locations,
		env.registry.employees,
		allowAllGuard{},
		env.sink,
		cache,
		env.validator,
		testLogger(),
	)
	resolver := NewResolverService(env.events, cache, testLogger())
	ctx := context.Background()

	appendLedger(t, ledger, dto.AppendAssignmentRequest{
		ComputerID: uintPtr(1),
		ActionType: models.ActionAssignToEmployee,
		EmployeeID: uintPtr(1),
		OccurredAt: "2024-01-01T00:00:00Z",
	})

	first, err := resolver.ResolveOne(ctx, models.KindComputer, 1)
	require.NoError(t, err)
	require.True(t, first.Assigned)

	cachedRaw, err := mr.Get("current:computer:1")
	require.NoError(t, err, "resolution must land in the cache")
	require.Contains(t, cachedRaw, models.ActionAssignToEmployee)

	cached, ok := cache.Get(ctx, models.KindComputer, 1)
	require.True(t, ok)
	require.Equal(t, first, cached)

	appendLedger(t, ledger, dto.AppendAssignmentRequest{
		ComputerID: uintPtr(1),
		ActionType: models.ActionReturn,
		OccurredAt: "2024-03-01T00:00:00Z",
	})
	require.False(t, mr.Exists("current:computer:1"), "append must drop the stale entry")

	second, err := resolver.ResolveOne(ctx, models.KindComputer, 1)
	require.NoError(t, err)
	require.Equal(t, models.ActionReturn, second.Event.ActionType)
}

func TestNilCacheAlwaysMisses(t *testing.T) {
	var cache *CurrentAssignmentCache
	ctx := context.Background()

	_, ok := cache.Get(ctx, models.KindComputer, 1)
	require.False(t, ok)

	// Set and Invalidate on a nil cache are no-ops, not panics.
	cache.Set(ctx, models.KindComputer, 1, dto.CurrentAssignmentResponse{})
	cache.Invalidate(ctx, models.KindComputer, 1)
}
