package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/assetdesk-io/assetdesk-api/internal/dto"
	"github.com/assetdesk-io/assetdesk-api/internal/service"
	"github.com/assetdesk-io/assetdesk-api/internal/utils"
)

// LocationHandler wires location registry HTTP routes.
type LocationHandler struct {
	service service.LocationService
	logger  zerolog.Logger
}

// NewLocationHandler constructs the handler.
func NewLocationHandler(service service.LocationService, logger zerolog.Logger) *LocationHandler {
	return &LocationHandler{
		service: service,
		logger:  logger.With().Str("component", "location_handler").Logger(),
	}
}

// Register attaches location endpoints to the router group.
func (h *LocationHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("", h.create)
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *LocationHandler) list(c *fiber.Ctx) error {
	locations, err := h.service.List(c.Context())
	if err != nil {
		return sendDomainError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "locations retrieved", locations)
}

func (h *LocationHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	location, err := h.service.Get(c.Context(), id)
	if err != nil {
		return sendDomainError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "location retrieved", location)
}

func (h *LocationHandler) create(c *fiber.Ctx) error {
	payload := dto.LocationCreateRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	location, err := h.service.Create(c.Context(), actorFromContext(c), payload)
	if err != nil {
		return sendDomainError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "location created", location)
}

func (h *LocationHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	payload := dto.LocationUpdateRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	location, err := h.service.Update(c.Context(), actorFromContext(c), id, payload)
	if err != nil {
		return sendDomainError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "location updated", location)
}

func (h *LocationHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), actorFromContext(c), id); err != nil {
		return sendDomainError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "location deleted", fiber.Map{"id": id})
}
