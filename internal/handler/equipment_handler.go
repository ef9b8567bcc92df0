package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/assetdesk-io/assetdesk-api/internal/dto"
	"github.com/assetdesk-io/assetdesk-api/internal/service"
	"github.com/assetdesk-io/assetdesk-api/internal/utils"
)

// EquipmentHandler wires computer and device registry HTTP routes.
type EquipmentHandler struct {
	service service.EquipmentService
	logger  zerolog.Logger
}

// NewEquipmentHandler constructs the handler.
func NewEquipmentHandler(service service.EquipmentService, logger zerolog.Logger) *EquipmentHandler {
	return &EquipmentHandler{
		service: service,
		logger:  logger.With().Str("component", "equipment_handler").Logger(),
	}
}

// Register attaches registry endpoints to the router group.
func (h *EquipmentHandler) Register(router fiber.Router) {
	computers := router.Group("/computers")
	computers.Get("", h.listComputers)
	computers.Get("/:id", h.getComputer)
	computers.Post("", h.createComputer)
	computers.Patch("/:id", h.updateComputer)
	computers.Delete("/:id", h.deleteComputer)

	devices := router.Group("/devices")
	devices.Get("", h.listDevices)
	devices.Get("/:id", h.getDevice)
	devices.Post("", h.createDevice)
	devices.Patch("/:id", h.updateDevice)
	devices.Delete("/:id", h.deleteDevice)
}

func (h *EquipmentHandler) listComputers(c *fiber.Ctx) error {
	computers, err := h.service.ListComputers(c.Context())
	if err != nil {
		return sendDomainError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "computers retrieved", computers)
}

func (h *EquipmentHandler) getComputer(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	computer, err := h.service.GetComputer(c.Context(), id)
	if err != nil {
		return sendDomainError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "computer retrieved", computer)
}

func (h *EquipmentHandler) createComputer(c *fiber.Ctx) error {
	payload := dto.ComputerCreateRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	computer, err := h.service.CreateComputer(c.Context(), actorFromContext(c), payload)
	if err != nil {
		return sendDomainError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "computer registered", computer)
}

func (h *EquipmentHandler) updateComputer(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	payload := dto.ComputerUpdateRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	computer, err := h.service.UpdateComputer(c.Context(), actorFromContext(c), id, payload)
	if err != nil {
		return sendDomainError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "computer updated", computer)
}

func (h *EquipmentHandler) deleteComputer(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.DeleteComputer(c.Context(), actorFromContext(c), id); err != nil {
		return sendDomainError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "computer deleted", fiber.Map{"id": id})
}

func (h *EquipmentHandler) listDevices(c *fiber.Ctx) error {
	devices, err := h.service.ListDevices(c.Context())
	if err != nil {
		return sendDomainError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "devices retrieved", devices)
}

func (h *EquipmentHandler) getDevice(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	device, err := h.service.GetDevice(c.Context(), id)
	if err != nil {
		return sendDomainError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "device retrieved", device)
}

func (h *EquipmentHandler) createDevice(c *fiber.Ctx) error {
	payload := dto.DeviceCreateRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	device, err := h.service.CreateDevice(c.Context(), actorFromContext(c), payload)
	if err != nil {
		return sendDomainError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "device registered", device)
}

func (h *EquipmentHandler) updateDevice(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	payload := dto.DeviceUpdateRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	device, err := h.service.UpdateDevice(c.Context(), actorFromContext(c), id, payload)
	if err != nil {
		return sendDomainError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "device updated", device)
}

func (h *EquipmentHandler) deleteDevice(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.DeleteDevice(c.Context(), actorFromContext(c), id); err != nil {
		return sendDomainError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "device deleted", fiber.Map{"id": id})
}
