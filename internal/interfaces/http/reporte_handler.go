package http

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/plotmaster/plotmaster-api/internal/application/dto"
	"github.com/plotmaster/plotmaster-api/internal/application/usecases"
	"github.com/plotmaster/plotmaster-api/pkg/logger"
)

// ReporteHandler listados filtrados y exportaciones CSV y PDF.
type ReporteHandler struct {
	reportes *usecases.ReporteUseCase
	log      *logger.Logger
}

func NewReporteHandler(reportes *usecases.ReporteUseCase, log *logger.Logger) *ReporteHandler {
	return &ReporteHandler{reportes: reportes, log: log}
}

// filterFromQuery arma el filtro desde la query string. Fechas en formato
// YYYY-MM-DD; los textos viajan tal cual, la normalización es del caso de uso.
func filterFromQuery(c *fiber.Ctx) (dto.ReporteFilter, error) {
	var f dto.ReporteFilter
	if v := c.Query("desde"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return f, fmt.Errorf("desde inválida: %s", v)
		}
		f.Desde = &t
	}
	if v := c.Query("hasta"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return f, fmt.Errorf("hasta inválida: %s", v)
		}
		f.Hasta = &t
	}
	f.Cliente = c.Query("cliente")
	f.Vendedor = c.Query("vendedor")
	f.Status = c.Query("status")
	f.FormaPago = c.Query("forma_pago")
	f.Ascendente = c.QueryBool("ascendente")
	return f, nil
}

// Filter GET /api/v1/reportes/ordenes
func (h *ReporteHandler) Filter(c *fiber.Ctx) error {
	f, err := filterFromQuery(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	resp, err := h.reportes.FilterOrders(f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// ExportCSV GET /api/v1/reportes/ordenes/csv
// Descarga el listado filtrado como CSV con BOM para Excel.
func (h *ReporteHandler) ExportCSV(c *fiber.Ctx) error {
	f, err := filterFromQuery(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	data, err := h.reportes.ExportCSV(f)
	if err != nil {
		return respondError(c, err)
	}
	filename := fmt.Sprintf("ordenes_%s.csv", time.Now().Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

// ExportMonthlyPDF GET /api/v1/reportes/ordenes/pdf/:anio/:mes
func (h *ReporteHandler) ExportMonthlyPDF(c *fiber.Ctx) error {
	anio, err := strconv.Atoi(c.Params("anio"))
	if err != nil || anio < 2000 || anio > 2100 {
		return badRequest(c, "año inválido")
	}
	mes, err := strconv.Atoi(c.Params("mes"))
	if err != nil || mes < 1 || mes > 12 {
		return badRequest(c, "mes inválido")
	}
	data, err := h.reportes.ExportMonthlyPDF(anio, time.Month(mes))
	if err != nil {
		return respondError(c, err)
	}
	h.log.Info().Int("anio", anio).Int("mes", mes).Msg("reporte mensual PDF generado")
	filename := fmt.Sprintf("reporte_%04d_%02d.pdf", anio, mes)
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}
