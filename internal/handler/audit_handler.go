package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/assetdesk-io/assetdesk-api/internal/dto"
	"github.com/assetdesk-io/assetdesk-api/internal/service"
	"github.com/assetdesk-io/assetdesk-api/internal/utils"
)

// AuditHandler serves the audit trail.
type AuditHandler struct {
	service service.AuditService
	logger  zerolog.Logger
}

// NewAuditHandler constructs the handler.
func NewAuditHandler(service service.AuditService, logger zerolog.Logger) *AuditHandler {
	return &AuditHandler{
		service: service,
		logger:  logger.With().Str("component", "audit_handler").Logger(),
	}
}

// Register attaches the audit trail endpoint to the router group.
func (h *AuditHandler) Register(router fiber.Router) {
	router.Get("", h.list)
}

func (h *AuditHandler) list(c *fiber.Ctx) error {
	filter := dto.AuditListRequest{}
	if err := c.QueryParser(&filter); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}

	entries, total, err := h.service.List(c.Context(), filter)
	if err != nil {
		return sendDomainError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "audit trail retrieved", fiber.Map{
		"items": entries,
		"total": total,
	})
}
