package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/plotmaster/plotmaster-api/internal/application/dto"
	"github.com/plotmaster/plotmaster-api/internal/application/usecases"
	"github.com/plotmaster/plotmaster-api/pkg/logger"
)

// UsuarioHandler administración de vendedores (solo admin).
type UsuarioHandler struct {
	usuarios *usecases.UsuarioUseCase
	log      *logger.Logger
}

func NewUsuarioHandler(usuarios *usecases.UsuarioUseCase, log *logger.Logger) *UsuarioHandler {
	return &UsuarioHandler{usuarios: usuarios, log: log}
}

// List GET /api/v1/usuarios
func (h *UsuarioHandler) List(c *fiber.Ctx) error {
	resp, err := h.usuarios.List()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// UpdateEstado PUT /api/v1/usuarios/:id/estado
func (h *UsuarioHandler) UpdateEstado(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return badRequest(c, "id inválido")
	}
	var req dto.UpdateEstadoRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	resp, err := h.usuarios.UpdateEstado(id, req.Estado)
	if err != nil {
		return respondError(c, err)
	}
	h.log.Info().Int64("usuario_id", id).Str("estado", req.Estado).Msg("estado de vendedor actualizado")
	return c.JSON(resp)
}
