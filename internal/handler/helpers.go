package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/assetdesk-io/assetdesk-api/internal/models"
	"github.com/assetdesk-io/assetdesk-api/internal/service"
	"github.com/assetdesk-io/assetdesk-api/internal/utils"
)

func parseUintParam(c *fiber.Ctx, name string) (uint, error) {
	value := c.Params(name)
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, errors.New("invalid identifier")
	}
	return uint(parsed), nil
}

func parseKindParam(c *fiber.Ctx) (models.EquipmentKind, error) {
	kind := models.EquipmentKind(c.Params("kind"))
	if !kind.Valid() {
		return "", errors.New("invalid equipment kind")
	}
	return kind, nil
}

// actorFromContext rebuilds the acting identity bound by the auth middleware.
func actorFromContext(c *fiber.Ctx) service.Actor {
	actor := service.Actor{}
	if id, ok := c.Locals("user_id").(uint); ok {
		actor.ID = id
	}
	if role, ok := c.Locals("user_role").(string); ok {
		actor.Role = role
	}
	return actor
}

// sendDomainError maps structured service errors onto stable response codes.
func sendDomainError(c *fiber.Ctx, logger zerolog.Logger, err error) error {
	switch {
	case service.IsUnauthorized(err):
		return utils.SendError(c, fiber.StatusForbidden, err.Error())
	case service.IsNotFound(err):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	case service.IsInvalidAction(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case service.IsConflict(err):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	default:
		logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
