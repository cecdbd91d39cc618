package supabase

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/plotmaster/plotmaster-api/internal/domain"
	"github.com/plotmaster/plotmaster-api/internal/domain/entity"
	"github.com/plotmaster/plotmaster-api/internal/domain/ot"
	"github.com/plotmaster/plotmaster-api/internal/domain/repository"
)

const (
	tablaAbonos        = "abonos"
	tablaCancelaciones = "cancelaciones"
)

type abonoRow struct {
	ID          int64           `json:"id"`
	OtID        int64           `json:"ot_id"`
	Monto       decimal.Decimal `json:"monto"`
	FechaAbono  string          `json:"fecha_abono"`
	CreadoPor   *int64          `json:"creado_por"`
	Observacion string          `json:"observacion"`
}

func (r abonoRow) toEntity() *entity.Abono {
	return &entity.Abono{
		ID:          r.ID,
		OtID:        r.OtID,
		Monto:       r.Monto,
		FechaAbono:  parseFecha(r.FechaAbono),
		CreadoPor:   r.CreadoPor,
		Observacion: r.Observacion,
	}
}

type abonoInsert struct {
	OtID        int64           `json:"ot_id"`
	Monto       decimal.Decimal `json:"monto"`
	FechaAbono  string          `json:"fecha_abono"`
	CreadoPor   *int64          `json:"creado_por"`
	Observacion string          `json:"observacion"`
}

// AbonoRepository persiste el libro de abonos.
type AbonoRepository struct {
	store *Store
}

var _ repository.AbonoRepository = (*AbonoRepository)(nil)

func NewAbonoRepository(store *Store) *AbonoRepository {
	return &AbonoRepository{store: store}
}

func (r *AbonoRepository) Create(a *entity.Abono) (*entity.Abono, error) {
	db, err := r.store.cliente()
	if err != nil {
		return nil, err
	}

	ins := abonoInsert{
		OtID:        a.OtID,
		Monto:       a.Monto,
		FechaAbono:  formatFecha(a.FechaAbono),
		CreadoPor:   a.CreadoPor,
		Observacion: a.Observacion,
	}
	var rows []abonoRow
	if err := db.DB.From(tablaAbonos).Insert(ins).Execute(&rows); err != nil {
		return nil, mapError("crear abono", err)
	}
	if len(rows) == 0 {
		return nil, mapError("crear abono", domain.ErrConflict)
	}
	return rows[0].toEntity(), nil
}

func (r *AbonoRepository) GetByID(id int64) (*entity.Abono, error) {
	db, err := r.store.cliente()
	if err != nil {
		return nil, err
	}

	var rows []abonoRow
	if err := db.DB.From(tablaAbonos).Select("*").Eq("id", itoa(id)).Execute(&rows); err != nil {
		return nil, mapError("buscar abono", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].toEntity(), nil
}

func (r *AbonoRepository) ListByOtID(otID int64) ([]*entity.Abono, error) {
	db, err := r.store.cliente()
	if err != nil {
		return nil, err
	}

	var rows []abonoRow
	if err := db.DB.From(tablaAbonos).Select("*").Eq("ot_id", itoa(otID)).Execute(&rows); err != nil {
		return nil, mapError("listar abonos", err)
	}
	out := make([]*entity.Abono, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *AbonoRepository) Delete(id int64) error {
	db, err := r.store.cliente()
	if err != nil {
		return err
	}

	var rows []abonoRow
	if err := db.DB.From(tablaAbonos).Delete().Eq("id", itoa(id)).Execute(&rows); err != nil {
		return mapError("eliminar abono", err)
	}
	if len(rows) == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type cancelacionRow struct {
	ID               int64           `json:"id"`
	OtID             int64           `json:"ot_id"`
	ClienteID        int64           `json:"cliente_id"`
	VendedorID       int64           `json:"vendedor_id"`
	Descripcion      string          `json:"descripcion"`
	Motivo           string          `json:"motivo"`
	Reembolso        decimal.Decimal `json:"reembolso"`
	EstadoAnterior   string          `json:"estado_anterior"`
	CanceladoPor     int64           `json:"cancelado_por"`
	FechaCreacionOt  string          `json:"fecha_creacion_ot"`
	FechaCancelacion string          `json:"fecha_cancelacion"`
}

func (r cancelacionRow) toEntity() *entity.Cancelacion {
	return &entity.Cancelacion{
		ID:               r.ID,
		OtID:             r.OtID,
		ClienteID:        r.ClienteID,
		VendedorID:       r.VendedorID,
		Descripcion:      r.Descripcion,
		Motivo:           r.Motivo,
		Reembolso:        r.Reembolso,
		EstadoAnterior:   ot.Normalize(r.EstadoAnterior),
		CanceladoPor:     r.CanceladoPor,
		FechaCreacionOt:  parseFecha(r.FechaCreacionOt),
		FechaCancelacion: parseFecha(r.FechaCancelacion),
	}
}

type cancelacionInsert struct {
	OtID             int64           `json:"ot_id"`
	ClienteID        int64           `json:"cliente_id"`
	VendedorID       int64           `json:"vendedor_id"`
	Descripcion      string          `json:"descripcion"`
	Motivo           string          `json:"motivo"`
	Reembolso        decimal.Decimal `json:"reembolso"`
	EstadoAnterior   string          `json:"estado_anterior"`
	CanceladoPor     int64           `json:"cancelado_por"`
	FechaCreacionOt  string          `json:"fecha_creacion_ot"`
	FechaCancelacion string          `json:"fecha_cancelacion"`
}

// CancelacionRepository persiste las instantáneas de cancelación.
type CancelacionRepository struct {
	store *Store
}

var _ repository.CancelacionRepository = (*CancelacionRepository)(nil)

func NewCancelacionRepository(store *Store) *CancelacionRepository {
	return &CancelacionRepository{store: store}
}

func (r *CancelacionRepository) Create(c *entity.Cancelacion) (*entity.Cancelacion, error) {
	db, err := r.store.cliente()
	if err != nil {
		return nil, err
	}

	ins := cancelacionInsert{
		OtID:             c.OtID,
		ClienteID:        c.ClienteID,
		VendedorID:       c.VendedorID,
		Descripcion:      c.Descripcion,
		Motivo:           c.Motivo,
		Reembolso:        c.Reembolso,
		EstadoAnterior:   string(c.EstadoAnterior),
		CanceladoPor:     c.CanceladoPor,
		FechaCreacionOt:  formatFecha(c.FechaCreacionOt),
		FechaCancelacion: formatFecha(c.FechaCancelacion),
	}
	var rows []cancelacionRow
	if err := db.DB.From(tablaCancelaciones).Insert(ins).Execute(&rows); err != nil {
		return nil, mapError("crear cancelación", err)
	}
	if len(rows) == 0 {
		return nil, mapError("crear cancelación", domain.ErrConflict)
	}
	return rows[0].toEntity(), nil
}

func (r *CancelacionRepository) GetByOtID(otID int64) (*entity.Cancelacion, error) {
	db, err := r.store.cliente()
	if err != nil {
		return nil, err
	}

	var rows []cancelacionRow
	if err := db.DB.From(tablaCancelaciones).Select("*").Eq("ot_id", itoa(otID)).Execute(&rows); err != nil {
		return nil, mapError("buscar cancelación", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].toEntity(), nil
}
