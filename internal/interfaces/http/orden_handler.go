package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/plotmaster/plotmaster-api/internal/application/dto"
	"github.com/plotmaster/plotmaster-api/internal/application/usecases"
	"github.com/plotmaster/plotmaster-api/pkg/logger"
)

// OrdenHandler ciclo de vida completo de las órdenes de trabajo: alta,
// consulta, transiciones de estado, abonos y correcciones.
type OrdenHandler struct {
	ordenes *usecases.OrdenUseCase
	log     *logger.Logger
}

func NewOrdenHandler(ordenes *usecases.OrdenUseCase, log *logger.Logger) *OrdenHandler {
	return &OrdenHandler{ordenes: ordenes, log: log}
}

func parseOtNro(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("otNro"), 10, 64)
}

// NextNumber GET /api/v1/ordenes/next-number
func (h *OrdenHandler) NextNumber(c *fiber.Ctx) error {
	next, err := h.ordenes.NextOtNumber()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NextNumberResponse{Next: next})
}

// Create POST /api/v1/ordenes
func (h *OrdenHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateOrdenRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	resp, err := h.ordenes.Create(req, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	h.log.Info().Int64("ot_nro", resp.OtNro).Msg("orden creada")
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// List GET /api/v1/ordenes
// Filtros opcionales por query: vendedor_id, cliente_ci_ruc.
func (h *OrdenHandler) List(c *fiber.Ctx) error {
	if v := c.Query("vendedor_id"); v != "" {
		vendedorID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return badRequest(c, "vendedor_id inválido")
		}
		resp, err := h.ordenes.ListByVendedor(vendedorID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(resp)
	}
	if ciRuc := c.Query("cliente_ci_ruc"); ciRuc != "" {
		resp, err := h.ordenes.ListByCliente(ciRuc)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(resp)
	}
	resp, err := h.ordenes.List()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// Get GET /api/v1/ordenes/:otNro
func (h *OrdenHandler) Get(c *fiber.Ctx) error {
	otNro, err := parseOtNro(c)
	if err != nil {
		return badRequest(c, "número de OT inválido")
	}
	resp, err := h.ordenes.GetByOtNro(otNro)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// Approve POST /api/v1/ordenes/:otNro/aprobar
func (h *OrdenHandler) Approve(c *fiber.Ctx) error {
	otNro, err := parseOtNro(c)
	if err != nil {
		return badRequest(c, "número de OT inválido")
	}
	resp, err := h.ordenes.Approve(otNro)
	if err != nil {
		return respondError(c, err)
	}
	h.log.Info().Int64("ot_nro", otNro).Msg("orden aprobada")
	return c.JSON(resp)
}

// Reject POST /api/v1/ordenes/:otNro/rechazar
func (h *OrdenHandler) Reject(c *fiber.Ctx) error {
	otNro, err := parseOtNro(c)
	if err != nil {
		return badRequest(c, "número de OT inválido")
	}
	resp, err := h.ordenes.Reject(otNro)
	if err != nil {
		return respondError(c, err)
	}
	h.log.Info().Int64("ot_nro", otNro).Msg("orden rechazada")
	return c.JSON(resp)
}

// Deliver POST /api/v1/ordenes/:otNro/entregar
func (h *OrdenHandler) Deliver(c *fiber.Ctx) error {
	otNro, err := parseOtNro(c)
	if err != nil {
		return badRequest(c, "número de OT inválido")
	}
	var req dto.DeliverRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	resp, err := h.ordenes.Deliver(otNro, req.FechaEntrega)
	if err != nil {
		return respondError(c, err)
	}
	h.log.Info().Int64("ot_nro", otNro).Msg("orden entregada")
	return c.JSON(resp)
}

// Finalize POST /api/v1/ordenes/:otNro/finalizar
func (h *OrdenHandler) Finalize(c *fiber.Ctx) error {
	otNro, err := parseOtNro(c)
	if err != nil {
		return badRequest(c, "número de OT inválido")
	}
	resp, err := h.ordenes.Finalize(otNro)
	if err != nil {
		return respondError(c, err)
	}
	h.log.Info().Int64("ot_nro", otNro).Msg("orden finalizada")
	return c.JSON(resp)
}

// Cancel POST /api/v1/ordenes/:otNro/cancelar
func (h *OrdenHandler) Cancel(c *fiber.Ctx) error {
	otNro, err := parseOtNro(c)
	if err != nil {
		return badRequest(c, "número de OT inválido")
	}
	var req dto.CancelRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	resp, err := h.ordenes.Cancel(otNro, req, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	h.log.Info().Int64("ot_nro", otNro).Str("motivo", req.Motivo).Msg("orden cancelada")
	return c.JSON(resp)
}

// RegisterPayment POST /api/v1/ordenes/:otNro/abonos
func (h *OrdenHandler) RegisterPayment(c *fiber.Ctx) error {
	otNro, err := parseOtNro(c)
	if err != nil {
		return badRequest(c, "número de OT inválido")
	}
	var req dto.AbonoRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	resp, err := h.ordenes.RegisterPayment(otNro, req, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	h.log.Info().Int64("ot_nro", otNro).Str("monto", req.Monto.String()).Msg("abono registrado")
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// DeletePayment DELETE /api/v1/ordenes/:otNro/abonos/:abonoID (solo admin)
func (h *OrdenHandler) DeletePayment(c *fiber.Ctx) error {
	otNro, err := parseOtNro(c)
	if err != nil {
		return badRequest(c, "número de OT inválido")
	}
	abonoID, err := strconv.ParseInt(c.Params("abonoID"), 10, 64)
	if err != nil {
		return badRequest(c, "id de abono inválido")
	}
	resp, err := h.ordenes.DeletePayment(otNro, abonoID)
	if err != nil {
		return respondError(c, err)
	}
	h.log.Info().Int64("ot_nro", otNro).Int64("abono_id", abonoID).Msg("abono eliminado")
	return c.JSON(resp)
}

// UpdateValor PUT /api/v1/ordenes/:otNro/valor
func (h *OrdenHandler) UpdateValor(c *fiber.Ctx) error {
	otNro, err := parseOtNro(c)
	if err != nil {
		return badRequest(c, "número de OT inválido")
	}
	var req dto.UpdateValorRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	resp, err := h.ordenes.UpdateValor(otNro, req.ValorTotal)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// UpdateDetalles PUT /api/v1/ordenes/:otNro
func (h *OrdenHandler) UpdateDetalles(c *fiber.Ctx) error {
	otNro, err := parseOtNro(c)
	if err != nil {
		return badRequest(c, "número de OT inválido")
	}
	var req dto.UpdateDetallesRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	resp, err := h.ordenes.UpdateDetalles(otNro, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// Delete DELETE /api/v1/ordenes/:otNro (solo admin)
func (h *OrdenHandler) Delete(c *fiber.Ctx) error {
	otNro, err := parseOtNro(c)
	if err != nil {
		return badRequest(c, "número de OT inválido")
	}
	if err := h.ordenes.Delete(otNro); err != nil {
		return respondError(c, err)
	}
	h.log.Info().Int64("ot_nro", otNro).Msg("orden eliminada")
	return c.JSON(dto.MessageResponse{Message: "orden eliminada"})
}
