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
	"github.com/plotmaster/plotmaster-api/pkg/logger"
)

func buildRouterApp() *fiber.App {
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	app := fiber.New()
	SetupRoutes(app, RouterDeps{
		JWTSecret: testSecret,
		Auth:      NewAuthHandler(nil, log),
		Clientes:  NewClienteHandler(nil, log),
		Ordenes:   NewOrdenHandler(nil, log),
		Usuarios:  NewUsuarioHandler(nil, log),
		Reportes:  NewReporteHandler(nil, log),
	})
	return app
}

// Las mutaciones exclusivas del administrador deben rechazar el token de un
// vendedor antes de llegar al handler.
func TestRouter_MutacionesExclusivasDelAdmin(t *testing.T) {
	app := buildRouterApp()
	token := tokenForRole(t, jwt.RoleVendedor)

	rutas := []struct {
		metodo string
		ruta   string
	}{
		{"POST", "/api/v1/ordenes/1001/abonos"},
		{"POST", "/api/v1/ordenes/1001/aprobar"},
		{"POST", "/api/v1/ordenes/1001/rechazar"},
		{"POST", "/api/v1/ordenes/1001/entregar"},
		{"POST", "/api/v1/ordenes/1001/finalizar"},
		{"POST", "/api/v1/ordenes/1001/cancelar"},
		{"DELETE", "/api/v1/ordenes/1001/abonos/5"},
		{"DELETE", "/api/v1/ordenes/1001"},
		{"DELETE", "/api/v1/clientes/1-1"},
		{"GET", "/api/v1/usuarios/"},
		{"POST", "/api/v1/auth/register/vendedor"},
	}
	for _, r := range rutas {
		req := httptest.NewRequest(r.metodo, r.ruta, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode, "%s %s", r.metodo, r.ruta)
		var errResp dto.ErrorResponse
		require.NoError(t, json.Unmarshal(body, &errResp), "%s %s", r.metodo, r.ruta)
		assert.Equal(t, "FORBIDDEN", errResp.Code, "%s %s", r.metodo, r.ruta)
	}
}

func TestRouter_SinTokenTodoProtegido(t *testing.T) {
	app := buildRouterApp()

	req := httptest.NewRequest("GET", "/api/v1/ordenes/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_HealthEsPublico(t *testing.T) {
	app := buildRouterApp()

	req := httptest.NewRequest("GET", "/health", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
