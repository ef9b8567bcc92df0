package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/assetdesk-io/assetdesk-api/internal/dto"
	"github.com/assetdesk-io/assetdesk-api/internal/models"
)

// CurrentAssignmentCache is a read-through cache over resolver lookups. The
// ledger invalidates entries on every successful append; cached values are
// recomputed from the event log, never hand-edited.
type CurrentAssignmentCache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewCurrentAssignmentCache wraps a Redis client. A nil client yields a cache
// that always misses.
func NewCurrentAssignmentCache(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *CurrentAssignmentCache {
	return &CurrentAssignmentCache{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "current_cache").Logger(),
	}
}

func currentCacheKey(kind models.EquipmentKind, equipmentID uint) string {
	return fmt.Sprintf("current:%s:%d", kind, equipmentID)
}

// Get returns the cached resolution for one equipment item, if present.
func (c *CurrentAssignmentCache) Get(ctx context.Context, kind models.EquipmentKind, equipmentID uint) (dto.CurrentAssignmentResponse, bool) {
	if c == nil || c.client == nil {
		return dto.CurrentAssignmentResponse{}, false
	}

	cached, err := c.client.Get(ctx, currentCacheKey(kind, equipmentID)).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn().Err(err).Msg("failed to read current-assignment cache")
		}
		return dto.CurrentAssignmentResponse{}, false
	}

	var response dto.CurrentAssignmentResponse
	if err := json.Unmarshal([]byte(cached), &response); err != nil {
		return dto.CurrentAssignmentResponse{}, false
	}

	return response, true
}

// Set stores the resolution for the equipment item it describes.
func (c *CurrentAssignmentCache) Set(ctx context.Context, kind models.EquipmentKind, equipmentID uint, response dto.CurrentAssignmentResponse) {
	if c == nil || c.client == nil {
		return
	}

	payload, err := json.Marshal(response)
	if err != nil {
		return
	}

	if err := c.client.Set(ctx, currentCacheKey(kind, equipmentID), payload, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Msg("failed to store current-assignment cache")
	}
}

// Invalidate drops the cached resolution for one equipment item.
func (c *CurrentAssignmentCache) Invalidate(ctx context.Context, kind models.EquipmentKind, equipmentID uint) {
	if c == nil || c.client == nil {
		return
	}

	if err := c.client.Del(ctx, currentCacheKey(kind, equipmentID)).Err(); err != nil {
		c.logger.Warn().Err(err).Msg("failed to invalidate current-assignment cache")
	}
}
