package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/assetdesk-io/assetdesk-api/internal/config"
	"github.com/assetdesk-io/assetdesk-api/internal/handler"
	"github.com/assetdesk-io/assetdesk-api/internal/models"
	"github.com/assetdesk-io/assetdesk-api/internal/repository"
	"github.com/assetdesk-io/assetdesk-api/internal/router"
	"github.com/assetdesk-io/assetdesk-api/internal/service"
	"github.com/assetdesk-io/assetdesk-api/internal/utils"
)

// stubAuth binds the acting identity from the X-Role header, standing in for
// the JWT middleware.
func stubAuth(c *fiber.Ctx) error {
	role := c.Get("X-Role")
	if role == "" {
		role = "admin"
	}
	c.Locals("user_id", uint(1))
	c.Locals("user_role", role)
	return c.Next()
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Computer{},
		&models.Device{},
		&models.Location{},
		&models.Employee{},
		&models.AssignmentEvent{},
		&models.AuditLog{},
	))

	ctx := context.Background()
	computerRepo := repository.NewComputerRepository(db)
	deviceRepo := repository.NewDeviceRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	eventRepo := repository.NewAssignmentEventRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	require.NoError(t, computerRepo.Create(ctx, &models.Computer{Serial: "C-0001", Hostname: "wks-01"}))
	require.NoError(t, deviceRepo.Create(ctx, &models.Device{Serial: "D-0001", Name: "Monitor 27"}))
	require.NoError(t, locationRepo.Create(ctx, &models.Location{Name: "HQ storage"}))
	require.NoError(t, employeeRepo.Create(ctx, &models.Employee{Name: "Dana Miles", Email: "dana@corp.test"}))

	logger := zerolog.New(io.Discard)
	validate := validator.New(validator.WithRequiredStructEnabled())
	guard := service.NewPolicyGuard(logger)
	auditService := service.NewAuditService(auditRepo, nil, logger)
	ledgerService := service.NewLedgerService(eventRepo, computerRepo, deviceRepo, locationRepo, employeeRepo, guard, auditService, nil, validate, logger)
	resolverService := service.NewResolverService(eventRepo, nil, logger)
	equipmentService := service.NewEquipmentService(computerRepo, deviceRepo, eventRepo, guard, auditService, validate, logger)
	locationService := service.NewLocationService(locationRepo, eventRepo, guard, auditService, validate, logger)
	employeeService := service.NewEmployeeService(employeeRepo, eventRepo, guard, auditService, validate, logger)

	app := fiber.New()
	router.Register(app, config.Config{AppName: "AssetDesk API"}, router.Dependencies{
		EquipmentHandler: handler.NewEquipmentHandler(equipmentService, logger),
		LocationHandler:  handler.NewLocationHandler(locationService, logger),
		EmployeeHandler:  handler.NewEmployeeHandler(employeeService, logger),
		LedgerHandler:    handler.NewLedgerHandler(ledgerService, resolverService, logger),
		AuditHandler:     handler.NewAuditHandler(auditService, logger),
		JWTMiddleware:    stubAuth,
	})

	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target, role string, payload interface{}) (*http.Response, utils.APIResponse) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, target, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.Header.Set("X-Role", role)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	decoded := utils.APIResponse{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &decoded))

	return resp, decoded
}

func TestAppendAssignmentEventEndpoint(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/ledger/events", "it_staff", fiber.Map{
		"computer_id": 1,
		"action_type": "assign_to_employee",
		"employee_id": 1,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.True(t, body.Success)

	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/ledger/events/computer/1", "viewer", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.True(t, body.Success)

	events, ok := body.Data.([]interface{})
	require.True(t, ok)
	require.Len(t, events, 1)
}

func TestAppendDeniedForViewerRole(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/ledger/events", "viewer", fiber.Map{
		"computer_id": 1,
		"action_type": "assign_to_employee",
		"employee_id": 1,
	})
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	require.False(t, body.Success)
}

func TestAppendValidationFailuresMapToBadRequest(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/ledger/events", "admin", fiber.Map{
		"computer_id": 1,
		"device_id":   1,
		"action_type": "assign_to_employee",
		"employee_id": 1,
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/ledger/events", "admin", fiber.Map{
		"computer_id": 1,
		"action_type": "misplace",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAppendUnknownEquipmentMapsToNotFound(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/ledger/events", "admin", fiber.Map{
		"computer_id": 99,
		"action_type": "return",
	})
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestResolveCurrentAssignmentEndpoints(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/ledger/events", "admin", fiber.Map{
		"computer_id": 1,
		"action_type": "assign_to_location",
		"location_id": 1,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/ledger/current/computer/1", "viewer", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	current, ok := body.Data.(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, true, current["assigned"])

	// Never-assigned equipment resolves to an unassigned answer, not an error.
	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/ledger/current/device/1", "viewer", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	current, ok = body.Data.(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, false, current["assigned"])

	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/ledger/current", "viewer", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	all, ok := body.Data.([]interface{})
	require.True(t, ok)
	require.Len(t, all, 1)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/ledger/current/printer/1", "viewer", nil)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAuditTrailRequiresAdminRole(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/v1/audit", "viewer", nil)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/ledger/events", "admin", fiber.Map{
		"computer_id": 1,
		"action_type": "retire",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/audit", "admin", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.True(t, body.Success)

	trail, ok := body.Data.(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, float64(1), trail["total"])
}

func TestRegistryDeleteConflictsWhileReferenced(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/ledger/events", "admin", fiber.Map{
		"computer_id": 1,
		"action_type": "assign_to_employee",
		"employee_id": 1,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodDelete, "/api/v1/registry/computers/1", "admin", nil)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodDelete, "/api/v1/registry/employees/1", "admin", nil)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
}
