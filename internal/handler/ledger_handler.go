package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/assetdesk-io/assetdesk-api/internal/dto"
	"github.com/assetdesk-io/assetdesk-api/internal/service"
	"github.com/assetdesk-io/assetdesk-api/internal/utils"
)

// LedgerHandler wires the assignment ledger and resolver HTTP routes.
type LedgerHandler struct {
	ledger   service.LedgerService
	resolver service.ResolverService
	logger   zerolog.Logger
}

// NewLedgerHandler constructs the handler.
func NewLedgerHandler(ledger service.LedgerService, resolver service.ResolverService, logger zerolog.Logger) *LedgerHandler {
	return &LedgerHandler{
		ledger:   ledger,
		resolver: resolver,
		logger:   logger.With().Str("component", "ledger_handler").Logger(),
	}
}

// Register attaches ledger endpoints to the router group.
func (h *LedgerHandler) Register(router fiber.Router) {
	router.Post("/events", h.append)
	router.Get("/events/:kind/:id", h.history)
	router.Get("/current", h.resolveAll)
	router.Get("/current/:kind/:id", h.resolveOne)
}

func (h *LedgerHandler) append(c *fiber.Ctx) error {
	payload := dto.AppendAssignmentRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	event, err := h.ledger.Append(c.Context(), actorFromContext(c), payload)
	if err != nil {
		return sendDomainError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "assignment event appended", event)
}

func (h *LedgerHandler) history(c *fiber.Ctx) error {
	kind, err := parseKindParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	events, err := h.ledger.History(c.Context(), kind, id)
	if err != nil {
		return sendDomainError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "assignment history retrieved", events)
}

func (h *LedgerHandler) resolveOne(c *fiber.Ctx) error {
	kind, err := parseKindParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	current, err := h.resolver.ResolveOne(c.Context(), kind, id)
	if err != nil {
		return sendDomainError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "current assignment resolved", current)
}

func (h *LedgerHandler) resolveAll(c *fiber.Ctx) error {
	current, err := h.resolver.ResolveAll(c.Context())
	if err != nil {
		return sendDomainError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "current assignments resolved", current)
}
