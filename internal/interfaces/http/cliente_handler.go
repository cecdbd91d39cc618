package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/plotmaster/plotmaster-api/internal/application/dto"
	"github.com/plotmaster/plotmaster-api/internal/application/usecases"
	"github.com/plotmaster/plotmaster-api/pkg/logger"
)

// ClienteHandler CRUD de clientes de la imprenta.
type ClienteHandler struct {
	clientes *usecases.ClienteUseCase
	log      *logger.Logger
}

func NewClienteHandler(clientes *usecases.ClienteUseCase, log *logger.Logger) *ClienteHandler {
	return &ClienteHandler{clientes: clientes, log: log}
}

// NextNumber GET /api/v1/clientes/next-number
// El número es sugerido: la unicidad la garantiza la base al insertar.
func (h *ClienteHandler) NextNumber(c *fiber.Ctx) error {
	next, err := h.clientes.NextClientNumber()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NextNumberResponse{Next: next})
}

// Register POST /api/v1/clientes
func (h *ClienteHandler) Register(c *fiber.Ctx) error {
	var req dto.CreateClienteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	resp, err := h.clientes.Register(req)
	if err != nil {
		return respondError(c, err)
	}
	h.log.Info().Str("ci_ruc", resp.CIRuc).Msg("cliente registrado")
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Find GET /api/v1/clientes/:ciRuc
func (h *ClienteHandler) Find(c *fiber.Ctx) error {
	resp, err := h.clientes.Find(c.Params("ciRuc"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// List GET /api/v1/clientes
func (h *ClienteHandler) List(c *fiber.Ctx) error {
	resp, err := h.clientes.List()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// Update PUT /api/v1/clientes/:ciRuc
func (h *ClienteHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateClienteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	resp, err := h.clientes.Update(c.Params("ciRuc"), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// Delete DELETE /api/v1/clientes/:ciRuc (solo admin)
func (h *ClienteHandler) Delete(c *fiber.Ctx) error {
	ciRuc := c.Params("ciRuc")
	if err := h.clientes.Delete(ciRuc); err != nil {
		return respondError(c, err)
	}
	h.log.Info().Str("ci_ruc", ciRuc).Msg("cliente eliminado")
	return c.JSON(dto.MessageResponse{Message: "cliente eliminado"})
}
