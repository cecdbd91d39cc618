package supabase

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/plotmaster/plotmaster-api/internal/domain"
	"github.com/plotmaster/plotmaster-api/internal/domain/entity"
	"github.com/plotmaster/plotmaster-api/internal/domain/ot"
	"github.com/plotmaster/plotmaster-api/internal/domain/repository"
)

const tablaOrdenes = "ordenes_trabajo"

type ordenRow struct {
	ID            int64           `json:"id"`
	OtNro         int64           `json:"ot_nro"`
	ClienteID     int64           `json:"cliente_id"`
	VendedorID    int64           `json:"vendedor_id"`
	Descripcion   string          `json:"descripcion"`
	ValorTotal    decimal.Decimal `json:"valor_total"`
	Sena          decimal.Decimal `json:"sena"`
	AbonadoTotal  decimal.Decimal `json:"abonado_total"`
	FormaPago     string          `json:"forma_pago"`
	SolicitaEnvio bool            `json:"solicita_envio"`
	Status        string          `json:"status"`
	FechaCreacion string          `json:"fecha_creacion"`
	FechaEntrega  *string         `json:"fecha_entrega"`
	CreatedAt     string          `json:"created_at"`
}

func (r ordenRow) toEntity() *entity.OrdenTrabajo {
	return &entity.OrdenTrabajo{
		ID:            r.ID,
		OtNro:         r.OtNro,
		ClienteID:     r.ClienteID,
		VendedorID:    r.VendedorID,
		Descripcion:   r.Descripcion,
		ValorTotal:    r.ValorTotal,
		Sena:          r.Sena,
		AbonadoTotal:  r.AbonadoTotal,
		FormaPago:     r.FormaPago,
		SolicitaEnvio: r.SolicitaEnvio,
		// los estados guardados por versiones viejas del sistema vienen
		// en texto libre
		Status:        ot.Normalize(r.Status),
		FechaCreacion: parseFecha(r.FechaCreacion),
		FechaEntrega:  parseFechaPtr(r.FechaEntrega),
		CreatedAt:     parseFecha(r.CreatedAt),
	}
}

type ordenInsert struct {
	OtNro         int64           `json:"ot_nro"`
	ClienteID     int64           `json:"cliente_id"`
	VendedorID    int64           `json:"vendedor_id"`
	Descripcion   string          `json:"descripcion"`
	ValorTotal    decimal.Decimal `json:"valor_total"`
	Sena          decimal.Decimal `json:"sena"`
	AbonadoTotal  decimal.Decimal `json:"abonado_total"`
	FormaPago     string          `json:"forma_pago"`
	SolicitaEnvio bool            `json:"solicita_envio"`
	Status        string          `json:"status"`
	FechaCreacion string          `json:"fecha_creacion"`
	FechaEntrega  *string         `json:"fecha_entrega"`
}

// OrdenRepository persiste órdenes de trabajo.
type OrdenRepository struct {
	store *Store
}

var _ repository.OrdenRepository = (*OrdenRepository)(nil)

func NewOrdenRepository(store *Store) *OrdenRepository {
	return &OrdenRepository{store: store}
}

func (r *OrdenRepository) Create(o *entity.OrdenTrabajo) (*entity.OrdenTrabajo, error) {
	db, err := r.store.cliente()
	if err != nil {
		return nil, err
	}

	var entrega *string
	if o.FechaEntrega != nil {
		s := formatFecha(*o.FechaEntrega)
		entrega = &s
	}
	ins := ordenInsert{
		OtNro:         o.OtNro,
		ClienteID:     o.ClienteID,
		VendedorID:    o.VendedorID,
		Descripcion:   o.Descripcion,
		ValorTotal:    o.ValorTotal,
		Sena:          o.Sena,
		AbonadoTotal:  o.AbonadoTotal,
		FormaPago:     o.FormaPago,
		SolicitaEnvio: o.SolicitaEnvio,
		Status:        string(o.Status),
		FechaCreacion: formatFecha(o.FechaCreacion),
		FechaEntrega:  entrega,
	}

	var rows []ordenRow
	if err := db.DB.From(tablaOrdenes).Insert(ins).Execute(&rows); err != nil {
		return nil, mapError("crear orden", err)
	}
	if len(rows) == 0 {
		return nil, mapError("crear orden", domain.ErrConflict)
	}
	return rows[0].toEntity(), nil
}

func (r *OrdenRepository) GetByOtNro(otNro int64) (*entity.OrdenTrabajo, error) {
	db, err := r.store.cliente()
	if err != nil {
		return nil, err
	}

	var rows []ordenRow
	if err := db.DB.From(tablaOrdenes).Select("*").Eq("ot_nro", itoa(otNro)).Execute(&rows); err != nil {
		return nil, mapError("buscar orden", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].toEntity(), nil
}

func (r *OrdenRepository) listar(filtro func(*entity.OrdenTrabajo) bool) ([]*entity.OrdenTrabajo, error) {
	db, err := r.store.cliente()
	if err != nil {
		return nil, err
	}

	var rows []ordenRow
	if err := db.DB.From(tablaOrdenes).Select("*").Execute(&rows); err != nil {
		return nil, mapError("listar ordenes", err)
	}
	out := make([]*entity.OrdenTrabajo, 0, len(rows))
	for _, row := range rows {
		o := row.toEntity()
		if filtro == nil || filtro(o) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *OrdenRepository) List() ([]*entity.OrdenTrabajo, error) {
	out, err := r.listar(nil)
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OtNro > out[j].OtNro })
	return out, nil
}

func (r *OrdenRepository) ListByVendedor(vendedorID int64) ([]*entity.OrdenTrabajo, error) {
	db, err := r.store.cliente()
	if err != nil {
		return nil, err
	}

	var rows []ordenRow
	if err := db.DB.From(tablaOrdenes).Select("*").Eq("vendedor_id", itoa(vendedorID)).Execute(&rows); err != nil {
		return nil, mapError("listar ordenes por vendedor", err)
	}
	out := make([]*entity.OrdenTrabajo, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OtNro > out[j].OtNro })
	return out, nil
}

func (r *OrdenRepository) ListByCliente(clienteID int64) ([]*entity.OrdenTrabajo, error) {
	db, err := r.store.cliente()
	if err != nil {
		return nil, err
	}

	var rows []ordenRow
	if err := db.DB.From(tablaOrdenes).Select("*").Eq("cliente_id", itoa(clienteID)).Execute(&rows); err != nil {
		return nil, mapError("listar ordenes por cliente", err)
	}
	out := make([]*entity.OrdenTrabajo, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OtNro > out[j].OtNro })
	return out, nil
}

func (r *OrdenRepository) ListByFechaCreacion(desde, hasta time.Time, asc bool) ([]*entity.OrdenTrabajo, error) {
	out, err := r.listar(func(o *entity.OrdenTrabajo) bool {
		return !o.FechaCreacion.Before(desde) && !o.FechaCreacion.After(hasta)
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if asc {
			return out[i].FechaCreacion.Before(out[j].FechaCreacion)
		}
		return out[j].FechaCreacion.Before(out[i].FechaCreacion)
	})
	return out, nil
}

func (r *OrdenRepository) UpdateStatus(otNro int64, status ot.Status, fechaEntrega *time.Time) error {
	db, err := r.store.cliente()
	if err != nil {
		return err
	}

	cambios := map[string]interface{}{"status": string(status)}
	if fechaEntrega != nil {
		cambios["fecha_entrega"] = formatFecha(*fechaEntrega)
	}

	var rows []ordenRow
	if err := db.DB.From(tablaOrdenes).Update(cambios).Eq("ot_nro", itoa(otNro)).Execute(&rows); err != nil {
		return mapError("actualizar estado de orden", err)
	}
	if len(rows) == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OrdenRepository) UpdateValor(otNro int64, valor decimal.Decimal) error {
	db, err := r.store.cliente()
	if err != nil {
		return err
	}

	var rows []ordenRow
	cambios := map[string]interface{}{"valor_total": valor}
	if err := db.DB.From(tablaOrdenes).Update(cambios).Eq("ot_nro", itoa(otNro)).Execute(&rows); err != nil {
		return mapError("actualizar valor de orden", err)
	}
	if len(rows) == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OrdenRepository) UpdateDetalles(otNro int64, upd repository.OrdenUpdate) error {
	db, err := r.store.cliente()
	if err != nil {
		return err
	}

	cambios := make(map[string]interface{})
	if upd.FormaPago != nil {
		cambios["forma_pago"] = *upd.FormaPago
	}
	if upd.SolicitaEnvio != nil {
		cambios["solicita_envio"] = *upd.SolicitaEnvio
	}
	if upd.Descripcion != nil {
		cambios["descripcion"] = *upd.Descripcion
	}
	if len(cambios) == 0 {
		return nil
	}

	var rows []ordenRow
	if err := db.DB.From(tablaOrdenes).Update(cambios).Eq("ot_nro", itoa(otNro)).Execute(&rows); err != nil {
		return mapError("actualizar detalles de orden", err)
	}
	if len(rows) == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OrdenRepository) UpdateAbonadoTotal(id int64, total decimal.Decimal) error {
	db, err := r.store.cliente()
	if err != nil {
		return err
	}

	var rows []ordenRow
	cambios := map[string]interface{}{"abonado_total": total}
	if err := db.DB.From(tablaOrdenes).Update(cambios).Eq("id", itoa(id)).Execute(&rows); err != nil {
		return mapError("actualizar abonado de orden", err)
	}
	if len(rows) == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OrdenRepository) Delete(otNro int64) error {
	db, err := r.store.cliente()
	if err != nil {
		return err
	}

	var rows []ordenRow
	if err := db.DB.From(tablaOrdenes).Delete().Eq("ot_nro", itoa(otNro)).Execute(&rows); err != nil {
		return mapError("eliminar orden", err)
	}
	if len(rows) == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OrdenRepository) MaxOtNro() (int64, error) {
	db, err := r.store.cliente()
	if err != nil {
		return 0, err
	}

	var rows []struct {
		OtNro int64 `json:"ot_nro"`
	}
	if err := db.DB.From(tablaOrdenes).Select("ot_nro").Execute(&rows); err != nil {
		return 0, mapError("máximo ot_nro", err)
	}
	var max int64
	for _, row := range rows {
		if row.OtNro > max {
			max = row.OtNro
		}
	}
	return max, nil
}
