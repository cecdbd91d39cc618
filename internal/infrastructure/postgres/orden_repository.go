package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/plotmaster/plotmaster-api/internal/domain"
	"github.com/plotmaster/plotmaster-api/internal/domain/entity"
	"github.com/plotmaster/plotmaster-api/internal/domain/ot"
	"github.com/plotmaster/plotmaster-api/internal/domain/repository"
)

var _ repository.OrdenRepository = (*OrdenRepo)(nil)

const ordenColumns = `id, ot_nro, cliente_id, vendedor_id, descripcion, valor_total, sena,
	abonado_total, forma_pago, solicita_envio, status, fecha_creacion, fecha_entrega, created_at`

// OrdenRepo implementación de OrdenRepository sobre PostgreSQL.
type OrdenRepo struct {
	q Querier
}

// NewOrdenRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrdenRepository(q Querier) *OrdenRepo {
	return &OrdenRepo{q: q}
}

func scanOrden(row pgx.Row) (*entity.OrdenTrabajo, error) {
	var (
		o      entity.OrdenTrabajo
		status string
	)
	err := row.Scan(
		&o.ID, &o.OtNro, &o.ClienteID, &o.VendedorID, &o.Descripcion, &o.ValorTotal, &o.Sena,
		&o.AbonadoTotal, &o.FormaPago, &o.SolicitaEnvio, &status, &o.FechaCreacion, &o.FechaEntrega, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan orden: %w", err)
	}
	o.Status = ot.Normalize(status)
	return &o, nil
}

func (r *OrdenRepo) queryOrdenes(query string, args ...any) ([]*entity.OrdenTrabajo, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ordenes: %w", err)
	}
	defer rows.Close()
	var list []*entity.OrdenTrabajo
	for rows.Next() {
		var (
			o      entity.OrdenTrabajo
			status string
		)
		err := rows.Scan(
			&o.ID, &o.OtNro, &o.ClienteID, &o.VendedorID, &o.Descripcion, &o.ValorTotal, &o.Sena,
			&o.AbonadoTotal, &o.FormaPago, &o.SolicitaEnvio, &status, &o.FechaCreacion, &o.FechaEntrega, &o.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan orden: %w", err)
		}
		o.Status = ot.Normalize(status)
		list = append(list, &o)
	}
	return list, rows.Err()
}

func (r *OrdenRepo) Create(o *entity.OrdenTrabajo) (*entity.OrdenTrabajo, error) {
	query := `
		INSERT INTO ordenes_trabajo
			(ot_nro, cliente_id, vendedor_id, descripcion, valor_total, sena,
			 abonado_total, forma_pago, solicita_envio, status, fecha_creacion, fecha_entrega)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at`
	out := *o
	err := r.q.QueryRow(context.Background(), query,
		o.OtNro, o.ClienteID, o.VendedorID, o.Descripcion, o.ValorTotal, o.Sena,
		o.AbonadoTotal, o.FormaPago, o.SolicitaEnvio, string(o.Status), o.FechaCreacion, o.FechaEntrega,
	).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrConflict
		}
		if isRLSViolation(err) {
			return nil, domain.ErrPermission
		}
		return nil, fmt.Errorf("insert orden: %w", err)
	}
	return &out, nil
}

func (r *OrdenRepo) GetByOtNro(otNro int64) (*entity.OrdenTrabajo, error) {
	query := `SELECT ` + ordenColumns + ` FROM ordenes_trabajo WHERE ot_nro = $1`
	return scanOrden(r.q.QueryRow(context.Background(), query, otNro))
}

func (r *OrdenRepo) List() ([]*entity.OrdenTrabajo, error) {
	query := `SELECT ` + ordenColumns + ` FROM ordenes_trabajo ORDER BY ot_nro DESC`
	return r.queryOrdenes(query)
}

func (r *OrdenRepo) ListByVendedor(vendedorID int64) ([]*entity.OrdenTrabajo, error) {
	query := `SELECT ` + ordenColumns + ` FROM ordenes_trabajo WHERE vendedor_id = $1 ORDER BY ot_nro DESC`
	return r.queryOrdenes(query, vendedorID)
}

func (r *OrdenRepo) ListByCliente(clienteID int64) ([]*entity.OrdenTrabajo, error) {
	query := `SELECT ` + ordenColumns + ` FROM ordenes_trabajo WHERE cliente_id = $1 ORDER BY ot_nro DESC`
	return r.queryOrdenes(query, clienteID)
}

func (r *OrdenRepo) ListByFechaCreacion(desde, hasta time.Time, asc bool) ([]*entity.OrdenTrabajo, error) {
	direccion := "DESC"
	if asc {
		direccion = "ASC"
	}
	query := `SELECT ` + ordenColumns + ` FROM ordenes_trabajo
		WHERE fecha_creacion >= $1 AND fecha_creacion <= $2
		ORDER BY fecha_creacion ` + direccion
	return r.queryOrdenes(query, desde, hasta)
}

func (r *OrdenRepo) UpdateStatus(otNro int64, status ot.Status, fechaEntrega *time.Time) error {
	query := `
		UPDATE ordenes_trabajo
		SET status = $2, fecha_entrega = COALESCE($3, fecha_entrega)
		WHERE ot_nro = $1`
	tag, err := r.q.Exec(context.Background(), query, otNro, string(status), fechaEntrega)
	if err != nil {
		if isRLSViolation(err) {
			return domain.ErrPermission
		}
		return fmt.Errorf("update status de orden: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OrdenRepo) UpdateValor(otNro int64, valor decimal.Decimal) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE ordenes_trabajo SET valor_total = $2 WHERE ot_nro = $1`, otNro, valor)
	if err != nil {
		if isRLSViolation(err) {
			return domain.ErrPermission
		}
		return fmt.Errorf("update valor de orden: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OrdenRepo) UpdateDetalles(otNro int64, upd repository.OrdenUpdate) error {
	query := `
		UPDATE ordenes_trabajo SET
			forma_pago = COALESCE($2, forma_pago),
			solicita_envio = COALESCE($3, solicita_envio),
			descripcion = COALESCE($4, descripcion)
		WHERE ot_nro = $1`
	tag, err := r.q.Exec(context.Background(), query, otNro, upd.FormaPago, upd.SolicitaEnvio, upd.Descripcion)
	if err != nil {
		if isRLSViolation(err) {
			return domain.ErrPermission
		}
		return fmt.Errorf("update detalles de orden: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OrdenRepo) UpdateAbonadoTotal(id int64, total decimal.Decimal) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE ordenes_trabajo SET abonado_total = $2 WHERE id = $1`, id, total)
	if err != nil {
		if isRLSViolation(err) {
			return domain.ErrPermission
		}
		return fmt.Errorf("update abonado de orden: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OrdenRepo) Delete(otNro int64) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM ordenes_trabajo WHERE ot_nro = $1`, otNro)
	if err != nil {
		if isRLSViolation(err) {
			return domain.ErrPermission
		}
		return fmt.Errorf("delete orden: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OrdenRepo) MaxOtNro() (int64, error) {
	var max int64
	err := r.q.QueryRow(context.Background(), `SELECT COALESCE(MAX(ot_nro), 0) FROM ordenes_trabajo`).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("max ot_nro: %w", err)
	}
	return max, nil
}
