package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/plotmaster/plotmaster-api/internal/domain/entity"
	"github.com/plotmaster/plotmaster-api/internal/domain/ot"
)

// OrdenUpdate campos editables de una orden fuera del ciclo de estados (nil = sin cambio).
type OrdenUpdate struct {
	FormaPago     *string
	SolicitaEnvio *bool
	Descripcion   *string
}

// OrdenRepository define el puerto de persistencia para órdenes de trabajo.
// La unicidad de ot_nro la garantiza el almacén: un insert con número repetido
// devuelve domain.ErrConflict (la numeración del cliente es solo orientativa).
type OrdenRepository interface {
	Create(o *entity.OrdenTrabajo) (*entity.OrdenTrabajo, error)
	GetByOtNro(otNro int64) (*entity.OrdenTrabajo, error)
	// List devuelve todas las órdenes, ot_nro descendente.
	List() ([]*entity.OrdenTrabajo, error)
	ListByVendedor(vendedorID int64) ([]*entity.OrdenTrabajo, error)
	ListByCliente(clienteID int64) ([]*entity.OrdenTrabajo, error)
	// ListByFechaCreacion devuelve las órdenes con fecha_creacion dentro de
	// [desde, hasta] (ambos inclusive), ordenadas por fecha_creacion.
	ListByFechaCreacion(desde, hasta time.Time, asc bool) ([]*entity.OrdenTrabajo, error)
	// UpdateStatus persiste el estado; fechaEntrega solo acompaña a Entregado.
	UpdateStatus(otNro int64, status ot.Status, fechaEntrega *time.Time) error
	UpdateValor(otNro int64, valor decimal.Decimal) error
	UpdateDetalles(otNro int64, upd OrdenUpdate) error
	UpdateAbonadoTotal(id int64, total decimal.Decimal) error
	Delete(otNro int64) error
	// MaxOtNro devuelve el mayor ot_nro existente, 0 si no hay órdenes.
	MaxOtNro() (int64, error)
}
