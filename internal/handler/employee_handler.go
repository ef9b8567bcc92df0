package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/assetdesk-io/assetdesk-api/internal/dto"
	"github.com/assetdesk-io/assetdesk-api/internal/service"
	"github.com/assetdesk-io/assetdesk-api/internal/utils"
)

// EmployeeHandler wires employee registry HTTP routes.
type EmployeeHandler struct {
	service service.EmployeeService
	logger  zerolog.Logger
}

// NewEmployeeHandler constructs the handler.
func NewEmployeeHandler(service service.EmployeeService, logger zerolog.Logger) *EmployeeHandler {
	return &EmployeeHandler{
		service: service,
		logger:  logger.With().Str("component", "employee_handler").Logger(),
	}
}

// Register attaches employee endpoints to the router group.
func (h *EmployeeHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("", h.create)
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *EmployeeHandler) list(c *fiber.Ctx) error {
	employees, err := h.service.List(c.Context())
	if err != nil {
		return sendDomainError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "employees retrieved", employees)
}

func (h *EmployeeHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	employee, err := h.service.Get(c.Context(), id)
	if err != nil {
		return sendDomainError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "employee retrieved", employee)
}

func (h *EmployeeHandler) create(c *fiber.Ctx) error {
	payload := dto.EmployeeCreateRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	employee, err := h.service.Create(c.Context(), actorFromContext(c), payload)
	if err != nil {
		return sendDomainError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "employee created", employee)
}

func (h *EmployeeHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	payload := dto.EmployeeUpdateRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	employee, err := h.service.Update(c.Context(), actorFromContext(c), id, payload)
	if err != nil {
		return sendDomainError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "employee updated", employee)
}

func (h *EmployeeHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), actorFromContext(c), id); err != nil {
		return sendDomainError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "employee deleted", fiber.Map{"id": id})
}
