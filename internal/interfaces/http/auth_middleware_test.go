package http

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plotmaster/plotmaster-api/internal/application/dto"
	"github.com/plotmaster/plotmaster-api/pkg/jwt"
)

const testSecret = "secreto-de-test"

func buildTestApp(handlers ...fiber.Handler) *fiber.App {
	app := fiber.New()
	chain := append([]fiber.Handler{AuthMiddleware(testSecret)}, handlers...)
	chain = append(chain, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id": GetUserID(c),
			"ci_ruc":  GetCIRuc(c),
			"role":    GetRole(c),
		})
	})
	app.Get("/protegido", chain...)
	return app
}

func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	token, err := jwt.Generate(testSecret, 7, "1234567-8", "María González", role, "plotmaster-api", 60)
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) (int, dto.ErrorResponse, []byte) {
	t.Helper()
	req := httptest.NewRequest("GET", "/protegido", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var errResp dto.ErrorResponse
	_ = json.Unmarshal(body, &errResp)
	return resp.StatusCode, errResp, body
}

func TestAuthMiddleware_SinHeader(t *testing.T) {
	app := buildTestApp()
	status, errResp, _ := doRequest(t, app, "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "MISSING_TOKEN", errResp.Code)
}

func TestAuthMiddleware_FormatoInvalido(t *testing.T) {
	app := buildTestApp()
	status, errResp, _ := doRequest(t, app, "Token abc123")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "INVALID_TOKEN", errResp.Code)
}

func TestAuthMiddleware_TokenInvalido(t *testing.T) {
	app := buildTestApp()
	status, errResp, _ := doRequest(t, app, "Bearer no-es-un-jwt")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "INVALID_TOKEN", errResp.Code)
}

func TestAuthMiddleware_FirmaAjena(t *testing.T) {
	token, err := jwt.Generate("otro-secreto", 7, "1234567-8", "María González", jwt.RoleVendedor, "plotmaster-api", 60)
	require.NoError(t, err)

	app := buildTestApp()
	status, errResp, _ := doRequest(t, app, "Bearer "+token)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "INVALID_TOKEN", errResp.Code)
}

func TestAuthMiddleware_CargaIdentidad(t *testing.T) {
	app := buildTestApp()
	status, _, body := doRequest(t, app, "Bearer "+tokenForRole(t, jwt.RoleVendedor))
	require.Equal(t, fiber.StatusOK, status)

	var got struct {
		UserID int64  `json:"user_id"`
		CIRuc  string `json:"ci_ruc"`
		Role   string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, int64(7), got.UserID)
	assert.Equal(t, "1234567-8", got.CIRuc)
	assert.Equal(t, jwt.RoleVendedor, got.Role)
}

func TestRequireRole_AdminPermitido(t *testing.T) {
	app := buildTestApp(RequireRole(jwt.RoleAdmin))
	status, _, _ := doRequest(t, app, "Bearer "+tokenForRole(t, jwt.RoleAdmin))
	assert.Equal(t, fiber.StatusOK, status)
}

func TestRequireRole_VendedorRechazado(t *testing.T) {
	app := buildTestApp(RequireRole(jwt.RoleAdmin))
	status, errResp, _ := doRequest(t, app, "Bearer "+tokenForRole(t, jwt.RoleVendedor))
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", errResp.Code)
}

func TestRequireRole_RolDelTokenNoDelCliente(t *testing.T) {
	// Mandar un header con rol "admin" no cambia nada: el rol sale del token.
	app := fiber.New()
	app.Get("/protegido", AuthMiddleware(testSecret), RequireRole(jwt.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	req := httptest.NewRequest("GET", "/protegido", nil)
	req.Header.Set("Authorization", "Bearer "+tokenForRole(t, jwt.RoleVendedor))
	req.Header.Set("X-Role", "admin")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequireRole_VariosRoles(t *testing.T) {
	app := buildTestApp(RequireRole(jwt.RoleAdmin, jwt.RoleVendedor))
	status, _, _ := doRequest(t, app, "Bearer "+tokenForRole(t, jwt.RoleVendedor))
	assert.Equal(t, fiber.StatusOK, status)
}
