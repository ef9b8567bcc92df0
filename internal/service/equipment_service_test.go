package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/assetdesk-io/assetdesk-api/internal/dto"
	"github.com/assetdesk-io/assetdesk-api/internal/models"
)

func (env ledgerEnv) newEquipmentService(guard AccessGuard) EquipmentService {
	return NewEquipmentService(
		env.registry.computers,
		env.registry.devices,
		env.events,
		guard,
		env.sink,
		env.validator,
		testLogger(),
	)
}

func TestCreateComputerRecordsAudit(t *testing.T) {
	env := newLedgerEnv(t)
	svc := env.newEquipmentService(allowAllGuard{})

	computer, err := svc.CreateComputer(context.Background(), Actor{ID: 2, Role: "it_staff"}, dto.ComputerCreateRequest{
		Serial:   "C-0002",
		Hostname: "wks-02",
	})
	require.NoError(t, err)
	require.NotZero(t, computer.ID)
	require.Equal(t, "C-0002", computer.Serial)

	require.Len(t, env.sink.entries, 1)
	require.Equal(t, "computer", env.sink.entries[0].EntityType)
	require.Equal(t, AuditActionCreate, env.sink.entries[0].Action)
}

func TestCreateComputerDeniedForViewers(t *testing.T) {
	env := newLedgerEnv(t)
	svc := env.newEquipmentService(denyAllGuard{})

	_, err := svc.CreateComputer(context.Background(), Actor{ID: 2, Role: "viewer"}, dto.ComputerCreateRequest{Serial: "C-0003"})
	require.True(t, IsUnauthorized(err))
	require.Empty(t, env.sink.entries)
}

func TestUpdateComputerAppliesPartialPatch(t *testing.T) {
	env := newLedgerEnv(t)
	svc := env.newEquipmentService(allowAllGuard{})
	hostname := "wks-renamed"

	computer, err := svc.UpdateComputer(context.Background(), Actor{ID: 2, Role: "admin"}, 1, dto.ComputerUpdateRequest{
		Hostname: &hostname,
	})
	require.NoError(t, err)
	require.Equal(t, "wks-renamed", computer.Hostname)
	require.Equal(t, "C-0001", computer.Serial, "fields not in the patch stay untouched")
}

func TestDeleteComputerBlockedByLedgerHistory(t *testing.T) {
	env := newLedgerEnv(t)
	equipment := env.newEquipmentService(allowAllGuard{})
	ledger := env.newService(allowAllGuard{})
	ctx := context.Background()
	actor := Actor{ID: 1, Role: "admin"}

	_, err := ledger.Append(ctx, actor, dto.AppendAssignmentRequest{
		ComputerID: uintPtr(1),
		ActionType: models.ActionAssignToEmployee,
		EmployeeID: uintPtr(1),
	})
	require.NoError(t, err)

	err = equipment.DeleteComputer(ctx, actor, 1)
	require.True(t, IsConflict(err), "referenced equipment must stay registered")

	_, err = equipment.GetComputer(ctx, 1)
	require.NoError(t, err)
}

func TestDeleteUnreferencedDevice(t *testing.T) {
	env := newLedgerEnv(t)
	svc := env.newEquipmentService(allowAllGuard{})
	ctx := context.Background()

	require.NoError(t, svc.DeleteDevice(ctx, Actor{ID: 1, Role: "admin"}, 1))

	_, err := svc.GetDevice(ctx, 1)
	require.True(t, IsNotFound(err))

	err = svc.DeleteDevice(ctx, Actor{ID: 1, Role: "admin"}, 1)
	require.True(t, IsNotFound(err))
}
