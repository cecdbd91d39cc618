package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/plotmaster/plotmaster-api/internal/domain"
	"github.com/plotmaster/plotmaster-api/internal/domain/entity"
	"github.com/plotmaster/plotmaster-api/internal/domain/repository"
)

var _ repository.ClienteRepository = (*ClienteRepo)(nil)

// ClienteRepo implementación de ClienteRepository sobre PostgreSQL.
type ClienteRepo struct {
	q Querier
}

// NewClienteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClienteRepository(q Querier) *ClienteRepo {
	return &ClienteRepo{q: q}
}

func (r *ClienteRepo) Create(c *entity.Cliente) (*entity.Cliente, error) {
	query := `
		INSERT INTO clientes (ci_ruc, nombre, telefono, email, zona)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`
	out := *c
	err := r.q.QueryRow(context.Background(), query,
		c.CIRuc, c.Nombre, c.Telefono, c.Email, c.Zona,
	).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrConflict
		}
		if isRLSViolation(err) {
			return nil, domain.ErrPermission
		}
		return nil, fmt.Errorf("insert cliente: %w", err)
	}
	return &out, nil
}

func (r *ClienteRepo) GetByCIRuc(ciRuc string) (*entity.Cliente, error) {
	query := `
		SELECT id, ci_ruc, nombre, telefono, email, zona, created_at
		FROM clientes WHERE ci_ruc = $1`
	var c entity.Cliente
	err := r.q.QueryRow(context.Background(), query, ciRuc).Scan(
		&c.ID, &c.CIRuc, &c.Nombre, &c.Telefono, &c.Email, &c.Zona, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cliente: %w", err)
	}
	return &c, nil
}

func (r *ClienteRepo) GetByIDs(ids []int64) (map[int64]entity.Cliente, error) {
	out := make(map[int64]entity.Cliente)
	if len(ids) == 0 {
		return out, nil
	}
	query := `
		SELECT id, ci_ruc, nombre, telefono, email, zona, created_at
		FROM clientes WHERE id = ANY($1)`
	rows, err := r.q.Query(context.Background(), query, ids)
	if err != nil {
		return nil, fmt.Errorf("get clientes por ids: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var c entity.Cliente
		if err := rows.Scan(&c.ID, &c.CIRuc, &c.Nombre, &c.Telefono, &c.Email, &c.Zona, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan cliente: %w", err)
		}
		out[c.ID] = c
	}
	return out, rows.Err()
}

func (r *ClienteRepo) List() ([]*entity.Cliente, error) {
	query := `
		SELECT id, ci_ruc, nombre, telefono, email, zona, created_at
		FROM clientes ORDER BY nombre`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list clientes: %w", err)
	}
	defer rows.Close()
	var list []*entity.Cliente
	for rows.Next() {
		var c entity.Cliente
		if err := rows.Scan(&c.ID, &c.CIRuc, &c.Nombre, &c.Telefono, &c.Email, &c.Zona, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan cliente: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

func (r *ClienteRepo) Update(ciRuc string, upd repository.ClienteUpdate) error {
	query := `
		UPDATE clientes SET
			nombre = COALESCE($2, nombre),
			telefono = COALESCE($3, telefono),
			email = COALESCE($4, email),
			zona = COALESCE($5, zona)
		WHERE ci_ruc = $1`
	tag, err := r.q.Exec(context.Background(), query,
		ciRuc, upd.Nombre, upd.Telefono, upd.Email, upd.Zona,
	)
	if err != nil {
		if isRLSViolation(err) {
			return domain.ErrPermission
		}
		return fmt.Errorf("update cliente: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ClienteRepo) Delete(ciRuc string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM clientes WHERE ci_ruc = $1`, ciRuc)
	if err != nil {
		if isRLSViolation(err) {
			return domain.ErrPermission
		}
		return fmt.Errorf("delete cliente: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ClienteRepo) MaxID() (int64, error) {
	var max int64
	err := r.q.QueryRow(context.Background(), `SELECT COALESCE(MAX(id), 0) FROM clientes`).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("max id de cliente: %w", err)
	}
	return max, nil
}
