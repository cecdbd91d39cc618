package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/plotmaster/plotmaster-api/internal/domain"
	"github.com/plotmaster/plotmaster-api/internal/domain/entity"
	"github.com/plotmaster/plotmaster-api/internal/domain/ot"
	"github.com/plotmaster/plotmaster-api/internal/domain/repository"
)

var _ repository.AbonoRepository = (*AbonoRepo)(nil)

// AbonoRepo implementación de AbonoRepository sobre PostgreSQL.
type AbonoRepo struct {
	q Querier
}

// NewAbonoRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAbonoRepository(q Querier) *AbonoRepo {
	return &AbonoRepo{q: q}
}

func (r *AbonoRepo) Create(a *entity.Abono) (*entity.Abono, error) {
	query := `
		INSERT INTO abonos (ot_id, monto, fecha_abono, creado_por, observacion)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	out := *a
	err := r.q.QueryRow(context.Background(), query,
		a.OtID, a.Monto, a.FechaAbono, a.CreadoPor, a.Observacion,
	).Scan(&out.ID)
	if err != nil {
		if isRLSViolation(err) {
			return nil, domain.ErrPermission
		}
		return nil, fmt.Errorf("insert abono: %w", err)
	}
	return &out, nil
}

func (r *AbonoRepo) GetByID(id int64) (*entity.Abono, error) {
	query := `
		SELECT id, ot_id, monto, fecha_abono, creado_por, observacion
		FROM abonos WHERE id = $1`
	var a entity.Abono
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&a.ID, &a.OtID, &a.Monto, &a.FechaAbono, &a.CreadoPor, &a.Observacion,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get abono: %w", err)
	}
	return &a, nil
}

func (r *AbonoRepo) ListByOtID(otID int64) ([]*entity.Abono, error) {
	query := `
		SELECT id, ot_id, monto, fecha_abono, creado_por, observacion
		FROM abonos WHERE ot_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, otID)
	if err != nil {
		return nil, fmt.Errorf("list abonos: %w", err)
	}
	defer rows.Close()
	var list []*entity.Abono
	for rows.Next() {
		var a entity.Abono
		if err := rows.Scan(&a.ID, &a.OtID, &a.Monto, &a.FechaAbono, &a.CreadoPor, &a.Observacion); err != nil {
			return nil, fmt.Errorf("scan abono: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

func (r *AbonoRepo) Delete(id int64) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM abonos WHERE id = $1`, id)
	if err != nil {
		if isRLSViolation(err) {
			return domain.ErrPermission
		}
		return fmt.Errorf("delete abono: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ repository.CancelacionRepository = (*CancelacionRepo)(nil)

// CancelacionRepo implementación de CancelacionRepository sobre PostgreSQL.
type CancelacionRepo struct {
	q Querier
}

// NewCancelacionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCancelacionRepository(q Querier) *CancelacionRepo {
	return &CancelacionRepo{q: q}
}

func (r *CancelacionRepo) Create(c *entity.Cancelacion) (*entity.Cancelacion, error) {
	query := `
		INSERT INTO cancelaciones
			(ot_id, cliente_id, vendedor_id, descripcion, motivo, reembolso,
			 estado_anterior, cancelado_por, fecha_creacion_ot, fecha_cancelacion)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	out := *c
	err := r.q.QueryRow(context.Background(), query,
		c.OtID, c.ClienteID, c.VendedorID, c.Descripcion, c.Motivo, c.Reembolso,
		string(c.EstadoAnterior), c.CanceladoPor, c.FechaCreacionOt, c.FechaCancelacion,
	).Scan(&out.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrConflict
		}
		if isRLSViolation(err) {
			return nil, domain.ErrPermission
		}
		return nil, fmt.Errorf("insert cancelacion: %w", err)
	}
	return &out, nil
}

func (r *CancelacionRepo) GetByOtID(otID int64) (*entity.Cancelacion, error) {
	query := `
		SELECT id, ot_id, cliente_id, vendedor_id, descripcion, motivo, reembolso,
			estado_anterior, cancelado_por, fecha_creacion_ot, fecha_cancelacion
		FROM cancelaciones WHERE ot_id = $1`
	var (
		c      entity.Cancelacion
		estado string
	)
	err := r.q.QueryRow(context.Background(), query, otID).Scan(
		&c.ID, &c.OtID, &c.ClienteID, &c.VendedorID, &c.Descripcion, &c.Motivo, &c.Reembolso,
		&estado, &c.CanceladoPor, &c.FechaCreacionOt, &c.FechaCancelacion,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cancelacion: %w", err)
	}
	c.EstadoAnterior = ot.Normalize(estado)
	return &c, nil
}
