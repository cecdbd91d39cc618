package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/plotmaster/plotmaster-api/internal/domain/ot"
)

// Formas de pago reconocidas.
const (
	FormaPagoContado = "Contado"
	FormaPagoCredito = "Crédito"
)

// OrdenTrabajo es el registro central del negocio: un trabajo de impresión.
// OtNro es el número visible (secuencial, único, arranca en 1001); el ID es la
// clave interna del servidor. AbonadoTotal se mantiene igual a la suma de los
// abonos no eliminados; el saldo nunca se persiste, se deriva.
type OrdenTrabajo struct {
	ID            int64
	OtNro         int64
	ClienteID     int64
	VendedorID    int64
	Descripcion   string
	ValorTotal    decimal.Decimal
	Sena          decimal.Decimal // seña inicial heredada, superada por el libro de abonos
	AbonadoTotal  decimal.Decimal
	FormaPago     string
	SolicitaEnvio bool
	Status        ot.Status
	FechaCreacion time.Time
	FechaEntrega  *time.Time // solo cuando el estado llegó a Entregado
	CreatedAt     time.Time
}

// Saldo devuelve el saldo pendiente (valor total menos abonado).
func (o OrdenTrabajo) Saldo() decimal.Decimal {
	return o.ValorTotal.Sub(o.AbonadoTotal)
}

// Abono es un pago parcial aplicado a una orden de trabajo. Solo se crea por
// la operación de registrar abono y solo lo elimina un administrador.
type Abono struct {
	ID          int64
	OtID        int64
	Monto       decimal.Decimal
	FechaAbono  time.Time
	CreadoPor   *int64
	Observacion string
}

// Cancelacion es la instantánea que se escribe al cancelar una orden, antes de
// mover el estado a Cancelado. Existe a lo sumo una por orden.
type Cancelacion struct {
	ID               int64
	OtID             int64
	ClienteID        int64
	VendedorID       int64
	Descripcion      string
	Motivo           string
	Reembolso        decimal.Decimal
	EstadoAnterior   ot.Status
	CanceladoPor     int64 // id del administrador autenticado
	FechaCreacionOt  time.Time
	FechaCancelacion time.Time
}
