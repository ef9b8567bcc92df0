package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/assetdesk-io/assetdesk-api/internal/dto"
	"github.com/assetdesk-io/assetdesk-api/internal/models"
	"github.com/assetdesk-io/assetdesk-api/internal/repository"
)

type memoryAuditRepo struct {
	entries []models.AuditLog
	err     error
}

func (r *memoryAuditRepo) Create(_ context.Context, entry *models.AuditLog) error {
	if r.err != nil {
		return r.err
	}
	entry.ID = uint(len(r.entries) + 1)
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *memoryAuditRepo) List(_ context.Context, filter repository.AuditLogFilter) ([]models.AuditLog, int64, error) {
	matched := make([]models.AuditLog, 0, len(r.entries))
	for _, entry := range r.entries {
		if filter.Action != "" && entry.Action != filter.Action {
			continue
		}
		if filter.EntityType != "" && entry.EntityType != filter.EntityType {
			continue
		}
		if filter.ActorID != nil && (entry.ActorID == nil || *entry.ActorID != *filter.ActorID) {
			continue
		}
		matched = append(matched, entry)
	}
	return matched, int64(len(matched)), nil
}

type countingPublisher struct {
	published int
	err       error
}

func (p *countingPublisher) Publish(interface{}) error {
	if p.err != nil {
		return p.err
	}
	p.published++
	return nil
}

func TestAuditRecordPersistsAndPublishes(t *testing.T) {
	repo := &memoryAuditRepo{}
	publisher := &countingPublisher{}
	svc := NewAuditService(repo, publisher, testLogger())

	actorID := uint(4)
	err := svc.Record(context.Background(), AuditEntry{
		EntityType:  "computer",
		EntityID:    7,
		Action:      AuditActionUpdate,
		Description: "computer 7 updated",
		ActorID:     &actorID,
		Metadata:    map[string]interface{}{"hostname": "wks-07"},
	})
	require.NoError(t, err)

	require.Len(t, repo.entries, 1)
	require.Equal(t, "computer", repo.entries[0].EntityType)
	require.Equal(t, AuditActionUpdate, repo.entries[0].Action)
	require.Equal(t, 1, publisher.published)
}

func TestAuditRecordToleratesBrokerFailure(t *testing.T) {
	repo := &memoryAuditRepo{}
	publisher := &countingPublisher{err: errors.New("nats: connection closed")}
	svc := NewAuditService(repo, publisher, testLogger())

	err := svc.Record(context.Background(), AuditEntry{
		EntityType: "device",
		EntityID:   1,
		Action:     AuditActionDelete,
	})
	require.NoError(t, err, "a broken broker never fails the persisted trail")
	require.Len(t, repo.entries, 1)
}

func TestAuditRecordWithoutPublisher(t *testing.T) {
	repo := &memoryAuditRepo{}
	svc := NewAuditService(repo, nil, testLogger())

	err := svc.Record(context.Background(), AuditEntry{
		EntityType: "location",
		EntityID:   2,
		Action:     AuditActionCreate,
	})
	require.NoError(t, err)
	require.Len(t, repo.entries, 1)
}

func TestAuditRecordSurfacesStoreFailure(t *testing.T) {
	repo := &memoryAuditRepo{err: errors.New("disk full")}
	svc := NewAuditService(repo, nil, testLogger())

	err := svc.Record(context.Background(), AuditEntry{EntityType: "computer", EntityID: 1, Action: AuditActionCreate})
	require.Error(t, err)
}

func TestAuditListAppliesFilters(t *testing.T) {
	repo := &memoryAuditRepo{}
	svc := NewAuditService(repo, nil, testLogger())
	ctx := context.Background()

	actorA, actorB := uint(1), uint(2)
	require.NoError(t, svc.Record(ctx, AuditEntry{EntityType: "computer", EntityID: 1, Action: AuditActionCreate, ActorID: &actorA}))
	require.NoError(t, svc.Record(ctx, AuditEntry{EntityType: "device", EntityID: 1, Action: AuditActionDelete, ActorID: &actorB}))

	entries, total, err := svc.List(ctx, dto.AuditListRequest{Action: AuditActionDelete})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, entries, 1)
	require.Equal(t, "device", entries[0].EntityType)

	entries, total, err = svc.List(ctx, dto.AuditListRequest{ActorID: &actorA})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "computer", entries[0].EntityType)
}
