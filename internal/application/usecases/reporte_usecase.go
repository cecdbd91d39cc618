package usecases

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/plotmaster/plotmaster-api/internal/application/dto"
	"github.com/plotmaster/plotmaster-api/internal/domain"
	"github.com/plotmaster/plotmaster-api/internal/domain/entity"
	"github.com/plotmaster/plotmaster-api/internal/domain/ot"
	"github.com/plotmaster/plotmaster-api/internal/domain/repository"
	"github.com/plotmaster/plotmaster-api/pkg/logger"
)

// PDFGenerator genera el reporte imprimible de órdenes.
type PDFGenerator interface {
	OrdersReport(titulo string, ordenes []dto.OrdenResponse) ([]byte, error)
}

// ReporteUseCase arma listados filtrados y sus exportaciones (CSV y PDF).
type ReporteUseCase struct {
	ordenes repository.OrdenRepository
	ordenUC *OrdenUseCase
	pdf     PDFGenerator
	log     *logger.Logger
}

func NewReporteUseCase(ordenes repository.OrdenRepository, ordenUC *OrdenUseCase, pdf PDFGenerator, log *logger.Logger) *ReporteUseCase {
	return &ReporteUseCase{ordenes: ordenes, ordenUC: ordenUC, pdf: pdf, log: log}
}

// FilterOrders devuelve las órdenes que cumplen todos los criterios a la vez.
// El rango de fechas es inclusivo a nivel día; los filtros de texto comparan
// contra nombre y ci_ruc sin distinguir mayúsculas ni acentos.
func (uc *ReporteUseCase) FilterOrders(f dto.ReporteFilter) ([]dto.OrdenResponse, error) {
	var (
		rows []*entity.OrdenTrabajo
		err  error
	)
	if f.Desde != nil || f.Hasta != nil {
		desde := time.Time{}
		if f.Desde != nil {
			y, m, d := f.Desde.Date()
			desde = time.Date(y, m, d, 0, 0, 0, 0, f.Desde.Location())
		}
		hasta := time.Now()
		if f.Hasta != nil {
			y, m, d := f.Hasta.Date()
			hasta = time.Date(y, m, d, 23, 59, 59, 999999999, f.Hasta.Location())
		}
		if hasta.Before(desde) {
			return nil, fmt.Errorf("%w: el rango de fechas está invertido", domain.ErrValidation)
		}
		rows, err = uc.ordenes.ListByFechaCreacion(desde, hasta, f.Ascendente)
	} else {
		rows, err = uc.ordenes.List()
	}
	if err != nil {
		if errors.Is(err, domain.ErrConnectionUnavailable) {
			return []dto.OrdenResponse{}, nil
		}
		return nil, err
	}

	enriquecidas := uc.ordenUC.enriquecerLote(rows)

	out := enriquecidas[:0]
	cliente := ot.Fold(f.Cliente)
	vendedor := ot.Fold(f.Vendedor)
	formaPago := ot.Fold(f.FormaPago)
	var status ot.Status
	if strings.TrimSpace(f.Status) != "" {
		status = ot.Normalize(f.Status)
	}
	for _, o := range enriquecidas {
		if cliente != "" &&
			!strings.Contains(ot.Fold(o.ClienteNombre), cliente) &&
			!strings.Contains(ot.Fold(o.ClienteCIRuc), cliente) {
			continue
		}
		if vendedor != "" &&
			!strings.Contains(ot.Fold(o.VendedorNombre), vendedor) &&
			!strings.Contains(ot.Fold(o.VendedorCIRuc), vendedor) {
			continue
		}
		if status != "" && ot.Normalize(o.Status) != status {
			continue
		}
		// Igualdad exacta pero sin acentos ni mayúsculas: "CRÉDITO" encuentra
		// las órdenes a crédito.
		if formaPago != "" && ot.Fold(o.FormaPago) != formaPago {
			continue
		}
		out = append(out, o)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if f.Ascendente {
			return out[i].FechaCreacion.Before(out[j].FechaCreacion)
		}
		return out[j].FechaCreacion.Before(out[i].FechaCreacion)
	})
	return out, nil
}

// Encabezado del CSV exportado. El orden de columnas es parte del contrato
// con las planillas que consumen el archivo.
var csvHeader = []string{
	"ot_nro", "fecha_creacion", "cliente", "cliente_ci_ruc",
	"vendedor", "vendedor_ci_ruc", "descripcion", "valor_total",
	"abonado_total", "forma_pago", "solicita_envio", "fecha_entrega",
}

// ExportCSV filtra y serializa a CSV con BOM UTF-8, para que Excel abra el
// archivo con los acentos intactos.
func (uc *ReporteUseCase) ExportCSV(f dto.ReporteFilter) ([]byte, error) {
	ordenes, err := uc.FilterOrders(f)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString("\xEF\xBB\xBF")

	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("escribir encabezado csv: %w", err)
	}
	for _, o := range ordenes {
		envio := "Sin Envío"
		if o.SolicitaEnvio {
			envio = "Con Envío"
		}
		entrega := ""
		if o.FechaEntrega != nil {
			entrega = o.FechaEntrega.Format("2006-01-02")
		}
		record := []string{
			fmt.Sprintf("%d", o.OtNro),
			o.FechaCreacion.Format("2006-01-02"),
			o.ClienteNombre,
			o.ClienteCIRuc,
			o.VendedorNombre,
			o.VendedorCIRuc,
			o.Descripcion,
			o.ValorTotal.String(),
			o.AbonadoTotal.String(),
			o.FormaPago,
			envio,
			entrega,
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("escribir fila csv: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("volcar csv: %w", err)
	}

	uc.log.Info().Int("filas", len(ordenes)).Msg("csv exportado")
	return buf.Bytes(), nil
}

// ExportMonthlyPDF genera el reporte imprimible de un mes calendario.
func (uc *ReporteUseCase) ExportMonthlyPDF(anio int, mes time.Month) ([]byte, error) {
	if uc.pdf == nil {
		return nil, fmt.Errorf("%w: el generador de PDF no está configurado", domain.ErrValidation)
	}
	if anio < 2000 || anio > 2200 {
		return nil, fmt.Errorf("%w: año fuera de rango", domain.ErrValidation)
	}

	desde := time.Date(anio, mes, 1, 0, 0, 0, 0, time.Local)
	hasta := desde.AddDate(0, 1, -1)
	ordenes, err := uc.FilterOrders(dto.ReporteFilter{Desde: &desde, Hasta: &hasta, Ascendente: true})
	if err != nil {
		return nil, err
	}

	titulo := fmt.Sprintf("Órdenes de Trabajo %02d/%d", mes, anio)
	pdfBytes, err := uc.pdf.OrdersReport(titulo, ordenes)
	if err != nil {
		return nil, fmt.Errorf("generar pdf: %w", err)
	}

	uc.log.Info().Int("filas", len(ordenes)).Str("periodo", titulo).Msg("pdf generado")
	return pdfBytes, nil
}
