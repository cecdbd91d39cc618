package usecases_test

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plotmaster/plotmaster-api/internal/application/dto"
	"github.com/plotmaster/plotmaster-api/internal/domain/entity"
	"github.com/plotmaster/plotmaster-api/internal/domain/ot"
)

// sembrarReporte carga dos clientes, dos vendedores y tres órdenes con fechas
// y estados distintos.
func sembrarReporte(t *testing.T, e *entorno) {
	t.Helper()

	c1, err := e.clientes.Create(&entity.Cliente{CIRuc: "1-1", Nombre: "Imprenta Ñandutí"})
	require.NoError(t, err)
	c2, err := e.clientes.Create(&entity.Cliente{CIRuc: "2-2", Nombre: "Gráfica Central"})
	require.NoError(t, err)
	v1, err := e.usuarios.Create(&entity.Usuario{CIRuc: "10-1", Nombre: "María González", Estado: entity.EstadoActivo})
	require.NoError(t, err)
	v2, err := e.usuarios.Create(&entity.Usuario{CIRuc: "20-2", Nombre: "Pedro Benítez", Estado: entity.EstadoActivo})
	require.NoError(t, err)

	fecha := func(d int) time.Time { return time.Date(2026, 5, d, 10, 0, 0, 0, time.Local) }
	entrega := fecha(20)

	ordenes := []*entity.OrdenTrabajo{
		{OtNro: 1001, ClienteID: c1.ID, VendedorID: v1.ID, Descripcion: "Lona frontal",
			ValorTotal: gs(500_000), AbonadoTotal: gs(200_000), FormaPago: entity.FormaPagoContado,
			Status: ot.StatusAprobado, FechaCreacion: fecha(5)},
		{OtNro: 1002, ClienteID: c2.ID, VendedorID: v2.ID, Descripcion: "Vinilos vidriera",
			ValorTotal: gs(300_000), FormaPago: entity.FormaPagoCredito, SolicitaEnvio: true,
			Status: ot.StatusEntregado, FechaCreacion: fecha(12), FechaEntrega: &entrega},
		{OtNro: 1003, ClienteID: c1.ID, VendedorID: v2.ID, Descripcion: "Tarjetas personales",
			ValorTotal: gs(80_000), FormaPago: entity.FormaPagoContado,
			Status: ot.StatusPendiente, FechaCreacion: time.Date(2026, 6, 2, 9, 0, 0, 0, time.Local)},
	}
	for _, o := range ordenes {
		_, err := e.ordenes.Create(o)
		require.NoError(t, err)
	}
}

func TestFilterOrders_RangoDeFechasInclusivo(t *testing.T) {
	e := nuevoEntorno()
	sembrarReporte(t, e)

	// el límite superior cae justo el día de la segunda orden
	desde := time.Date(2026, 5, 5, 0, 0, 0, 0, time.Local)
	hasta := time.Date(2026, 5, 12, 0, 0, 0, 0, time.Local)
	out, err := e.reporte.FilterOrders(dto.ReporteFilter{Desde: &desde, Hasta: &hasta, Ascendente: true})
	require.NoError(t, err)
	require.Len(t, out, 2, "ambos extremos del rango son inclusivos")
	assert.Equal(t, int64(1001), out[0].OtNro)
	assert.Equal(t, int64(1002), out[1].OtNro)
}

func TestFilterOrders_RangoInvertido(t *testing.T) {
	e := nuevoEntorno()
	sembrarReporte(t, e)

	desde := time.Date(2026, 6, 1, 0, 0, 0, 0, time.Local)
	hasta := time.Date(2026, 5, 1, 0, 0, 0, 0, time.Local)
	_, err := e.reporte.FilterOrders(dto.ReporteFilter{Desde: &desde, Hasta: &hasta})
	assert.Error(t, err)
}

func TestFilterOrders_TextoSinAcentosNiMayusculas(t *testing.T) {
	e := nuevoEntorno()
	sembrarReporte(t, e)

	// "nanduti" debe encontrar a "Imprenta Ñandutí"
	out, err := e.reporte.FilterOrders(dto.ReporteFilter{Cliente: "NANDUTI"})
	require.NoError(t, err)
	assert.Len(t, out, 2)

	out, err = e.reporte.FilterOrders(dto.ReporteFilter{Vendedor: "benitez"})
	require.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestFilterOrders_CriteriosCombinadosConAND(t *testing.T) {
	e := nuevoEntorno()
	sembrarReporte(t, e)

	out, err := e.reporte.FilterOrders(dto.ReporteFilter{
		Cliente:  "nanduti",
		Vendedor: "benitez",
	})
	require.NoError(t, err)
	require.Len(t, out, 1, "los filtros se combinan con AND")
	assert.Equal(t, int64(1003), out[0].OtNro)

	out, err = e.reporte.FilterOrders(dto.ReporteFilter{Status: "entregada"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, int64(1002), out[0].OtNro)
}

func TestFilterOrders_PorFormaPago(t *testing.T) {
	e := nuevoEntorno()
	sembrarReporte(t, e)

	// Igualdad exacta, sin distinguir acentos ni mayúsculas.
	out, err := e.reporte.FilterOrders(dto.ReporteFilter{FormaPago: "CRÉDITO"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, int64(1002), out[0].OtNro)

	out, err = e.reporte.FilterOrders(dto.ReporteFilter{FormaPago: "contado"})
	require.NoError(t, err)
	require.Len(t, out, 2)

	// Combinado con estado: ambos criterios deben cumplirse.
	out, err = e.reporte.FilterOrders(dto.ReporteFilter{Status: "Entregado", FormaPago: "credito"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, int64(1002), out[0].OtNro)

	out, err = e.reporte.FilterOrders(dto.ReporteFilter{Status: "Aprobado", FormaPago: "credito"})
	require.NoError(t, err)
	assert.Empty(t, out, "ninguna orden aprobada es a crédito")
}

func TestFilterOrders_OrdenPorFecha(t *testing.T) {
	e := nuevoEntorno()
	sembrarReporte(t, e)

	out, err := e.reporte.FilterOrders(dto.ReporteFilter{})
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, int64(1003), out[0].OtNro, "por defecto la más nueva primero")

	out, err = e.reporte.FilterOrders(dto.ReporteFilter{Ascendente: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1001), out[0].OtNro)
}

func TestExportCSV(t *testing.T) {
	e := nuevoEntorno()
	sembrarReporte(t, e)

	raw, err := e.reporte.ExportCSV(dto.ReporteFilter{Ascendente: true})
	require.NoError(t, err)

	require.True(t, bytes.HasPrefix(raw, []byte("\xEF\xBB\xBF")),
		"el archivo arranca con BOM UTF-8 para Excel")

	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(raw, []byte("\xEF\xBB\xBF"))))
	records, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4, "encabezado más tres filas")

	assert.Equal(t, []string{
		"ot_nro", "fecha_creacion", "cliente", "cliente_ci_ruc",
		"vendedor", "vendedor_ci_ruc", "descripcion", "valor_total",
		"abonado_total", "forma_pago", "solicita_envio", "fecha_entrega",
	}, records[0])

	primera := records[1]
	assert.Equal(t, "1001", primera[0])
	assert.Equal(t, "2026-05-05", primera[1])
	assert.Equal(t, "Imprenta Ñandutí", primera[2])
	assert.Equal(t, "María González", primera[4])
	assert.Equal(t, "500000", primera[7])
	assert.Equal(t, "Sin Envío", primera[10])
	assert.Equal(t, "", primera[11])

	segunda := records[2]
	assert.Equal(t, "Con Envío", segunda[10])
	assert.Equal(t, "2026-05-20", segunda[11])
}

func TestExportCSV_SinFilas(t *testing.T) {
	e := nuevoEntorno()

	raw, err := e.reporte.ExportCSV(dto.ReporteFilter{})
	require.NoError(t, err)

	texto := strings.TrimPrefix(string(raw), "\xEF\xBB\xBF")
	lineas := strings.Split(strings.TrimSpace(texto), "\n")
	assert.Len(t, lineas, 1, "solo el encabezado")
}
