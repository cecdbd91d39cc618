package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/plotmaster/plotmaster-api/internal/application/dto"
	"github.com/plotmaster/plotmaster-api/internal/application/usecases"
	"github.com/plotmaster/plotmaster-api/pkg/logger"
)

// AuthHandler expone login y registro de vendedores y administradores.
type AuthHandler struct {
	auth *usecases.AuthUseCase
	log  *logger.Logger
}

func NewAuthHandler(auth *usecases.AuthUseCase, log *logger.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, log: log}
}

// LoginVendedor POST /api/v1/auth/login/vendedor
func (h *AuthHandler) LoginVendedor(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	resp, err := h.auth.LoginVendedor(req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// LoginAdmin POST /api/v1/auth/login/admin
func (h *AuthHandler) LoginAdmin(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	resp, err := h.auth.LoginAdmin(req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// RegisterVendedor POST /api/v1/auth/register/vendedor
func (h *AuthHandler) RegisterVendedor(c *fiber.Ctx) error {
	var req dto.RegisterUsuarioRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	resp, err := h.auth.RegisterVendedor(req)
	if err != nil {
		return respondError(c, err)
	}
	h.log.Info().Str("ci_ruc", req.CIRuc).Msg("vendedor registrado")
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// RegisterAdmin POST /api/v1/auth/register/admin
func (h *AuthHandler) RegisterAdmin(c *fiber.Ctx) error {
	var req dto.RegisterUsuarioRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	resp, err := h.auth.RegisterAdmin(req)
	if err != nil {
		return respondError(c, err)
	}
	h.log.Info().Str("ci_ruc", req.CIRuc).Msg("administrador registrado")
	return c.Status(fiber.StatusCreated).JSON(resp)
}
