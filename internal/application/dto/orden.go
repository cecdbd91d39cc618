package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/plotmaster/plotmaster-api/internal/domain/entity"
)

// VendedorRef identifica al vendedor de una OT nueva. Se resuelve en orden:
// primero por id, después por ci_ruc, por último por nombre.
type VendedorRef struct {
	ID     int64  `json:"id,omitempty"`
	CIRuc  string `json:"ci_ruc,omitempty"`
	Nombre string `json:"nombre,omitempty"`
}

// CreateOrdenRequest alta de orden de trabajo. La seña, si viene, queda
// registrada como primer abono del libro.
type CreateOrdenRequest struct {
	ClienteCIRuc  string          `json:"cliente_ci_ruc"`
	Vendedor      VendedorRef     `json:"vendedor"`
	Descripcion   string          `json:"descripcion"`
	ValorTotal    decimal.Decimal `json:"valor_total"`
	Sena          decimal.Decimal `json:"sena"`
	FormaPago     string          `json:"forma_pago"`
	SolicitaEnvio bool            `json:"solicita_envio"`
	FechaEntrega  *time.Time      `json:"fecha_entrega"`
}

// OrdenResponse vista enriquecida de una OT: además de los ids trae los
// nombres resueltos de cliente y vendedor y el saldo derivado.
type OrdenResponse struct {
	ID             int64           `json:"id"`
	OtNro          int64           `json:"ot_nro"`
	ClienteID      int64           `json:"cliente_id"`
	ClienteNombre  string          `json:"cliente_nombre,omitempty"`
	ClienteCIRuc   string          `json:"cliente_ci_ruc,omitempty"`
	VendedorID     int64           `json:"vendedor_id"`
	VendedorNombre string          `json:"vendedor_nombre,omitempty"`
	VendedorCIRuc  string          `json:"vendedor_ci_ruc,omitempty"`
	Descripcion    string          `json:"descripcion"`
	ValorTotal     decimal.Decimal `json:"valor_total"`
	AbonadoTotal   decimal.Decimal `json:"abonado_total"`
	Saldo          decimal.Decimal `json:"saldo"`
	FormaPago      string          `json:"forma_pago"`
	SolicitaEnvio  bool            `json:"solicita_envio"`
	Status         string          `json:"status"`
	FechaCreacion  time.Time       `json:"fecha_creacion"`
	FechaEntrega   *time.Time      `json:"fecha_entrega,omitempty"`
	Abonos         []AbonoResponse `json:"abonos,omitempty"`
}

// OrdenToResponse arma la vista base de una OT; los nombres de cliente y
// vendedor los completa el caso de uso con el cache referencial.
func OrdenToResponse(o *entity.OrdenTrabajo) OrdenResponse {
	return OrdenResponse{
		ID:            o.ID,
		OtNro:         o.OtNro,
		ClienteID:     o.ClienteID,
		VendedorID:    o.VendedorID,
		Descripcion:   o.Descripcion,
		ValorTotal:    o.ValorTotal,
		AbonadoTotal:  o.AbonadoTotal,
		Saldo:         o.Saldo(),
		FormaPago:     o.FormaPago,
		SolicitaEnvio: o.SolicitaEnvio,
		Status:        string(o.Status),
		FechaCreacion: o.FechaCreacion,
		FechaEntrega:  o.FechaEntrega,
	}
}

// AbonoRequest registra un pago parcial sobre una OT.
type AbonoRequest struct {
	Monto       decimal.Decimal `json:"monto"`
	Observacion string          `json:"observacion"`
}

type AbonoResponse struct {
	ID          int64           `json:"id"`
	OtID        int64           `json:"ot_id"`
	Monto       decimal.Decimal `json:"monto"`
	FechaAbono  time.Time       `json:"fecha_abono"`
	Observacion string          `json:"observacion,omitempty"`
}

func AbonoToResponse(a *entity.Abono) AbonoResponse {
	return AbonoResponse{
		ID:          a.ID,
		OtID:        a.OtID,
		Monto:       a.Monto,
		FechaAbono:  a.FechaAbono,
		Observacion: a.Observacion,
	}
}

// DeliverRequest marca la entrega; la fecha es obligatoria.
type DeliverRequest struct {
	FechaEntrega *time.Time `json:"fecha_entrega"`
}

// CancelRequest anula una OT. El motivo es obligatorio.
type CancelRequest struct {
	Motivo    string          `json:"motivo"`
	Reembolso decimal.Decimal `json:"reembolso"`
}

// UpdateValorRequest corrige el valor total de una OT abierta.
type UpdateValorRequest struct {
	ValorTotal decimal.Decimal `json:"valor_total"`
}

// UpdateDetallesRequest edición parcial de campos comerciales.
type UpdateDetallesRequest struct {
	FormaPago     *string `json:"forma_pago"`
	SolicitaEnvio *bool   `json:"solicita_envio"`
	Descripcion   *string `json:"descripcion"`
}
