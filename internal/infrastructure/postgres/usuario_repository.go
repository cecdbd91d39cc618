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

var _ repository.UsuarioRepository = (*UsuarioRepo)(nil)

const usuarioColumns = `id, ci_ruc, nombre, email, password_hash, salt, estado, fecha_registro`

// UsuarioRepo implementación de UsuarioRepository sobre PostgreSQL.
type UsuarioRepo struct {
	q Querier
}

// NewUsuarioRepository construye el adaptador. Pasar pool o tx (Querier).
func NewUsuarioRepository(q Querier) *UsuarioRepo {
	return &UsuarioRepo{q: q}
}

func scanUsuario(row pgx.Row) (*entity.Usuario, error) {
	var u entity.Usuario
	err := row.Scan(&u.ID, &u.CIRuc, &u.Nombre, &u.Email, &u.PasswordHash, &u.Salt, &u.Estado, &u.FechaRegistro)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan usuario: %w", err)
	}
	return &u, nil
}

func (r *UsuarioRepo) Create(u *entity.Usuario) (*entity.Usuario, error) {
	query := `
		INSERT INTO usuarios (ci_ruc, nombre, email, password_hash, salt, estado)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, fecha_registro`
	out := *u
	err := r.q.QueryRow(context.Background(), query,
		u.CIRuc, u.Nombre, u.Email, u.PasswordHash, u.Salt, u.Estado,
	).Scan(&out.ID, &out.FechaRegistro)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrConflict
		}
		if isRLSViolation(err) {
			return nil, domain.ErrPermission
		}
		return nil, fmt.Errorf("insert usuario: %w", err)
	}
	return &out, nil
}

func (r *UsuarioRepo) GetByID(id int64) (*entity.Usuario, error) {
	query := `SELECT ` + usuarioColumns + ` FROM usuarios WHERE id = $1`
	return scanUsuario(r.q.QueryRow(context.Background(), query, id))
}

func (r *UsuarioRepo) GetByCIRuc(ciRuc string) (*entity.Usuario, error) {
	query := `SELECT ` + usuarioColumns + ` FROM usuarios WHERE ci_ruc = $1`
	return scanUsuario(r.q.QueryRow(context.Background(), query, ciRuc))
}

func (r *UsuarioRepo) GetByNombre(nombre string) (*entity.Usuario, error) {
	query := `SELECT ` + usuarioColumns + ` FROM usuarios WHERE nombre = $1`
	return scanUsuario(r.q.QueryRow(context.Background(), query, nombre))
}

func (r *UsuarioRepo) GetByIDs(ids []int64) (map[int64]entity.Usuario, error) {
	out := make(map[int64]entity.Usuario)
	if len(ids) == 0 {
		return out, nil
	}
	query := `SELECT ` + usuarioColumns + ` FROM usuarios WHERE id = ANY($1)`
	rows, err := r.q.Query(context.Background(), query, ids)
	if err != nil {
		return nil, fmt.Errorf("get usuarios por ids: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var u entity.Usuario
		if err := rows.Scan(&u.ID, &u.CIRuc, &u.Nombre, &u.Email, &u.PasswordHash, &u.Salt, &u.Estado, &u.FechaRegistro); err != nil {
			return nil, fmt.Errorf("scan usuario: %w", err)
		}
		out[u.ID] = u
	}
	return out, rows.Err()
}

func (r *UsuarioRepo) List() ([]*entity.Usuario, error) {
	query := `SELECT ` + usuarioColumns + ` FROM usuarios ORDER BY nombre`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list usuarios: %w", err)
	}
	defer rows.Close()
	var list []*entity.Usuario
	for rows.Next() {
		var u entity.Usuario
		if err := rows.Scan(&u.ID, &u.CIRuc, &u.Nombre, &u.Email, &u.PasswordHash, &u.Salt, &u.Estado, &u.FechaRegistro); err != nil {
			return nil, fmt.Errorf("scan usuario: %w", err)
		}
		list = append(list, &u)
	}
	return list, rows.Err()
}

func (r *UsuarioRepo) UpdateEstado(id int64, estado string) error {
	tag, err := r.q.Exec(context.Background(), `UPDATE usuarios SET estado = $2 WHERE id = $1`, id, estado)
	if err != nil {
		if isRLSViolation(err) {
			return domain.ErrPermission
		}
		return fmt.Errorf("update estado de usuario: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ repository.AdministradorRepository = (*AdministradorRepo)(nil)

// AdministradorRepo implementación de AdministradorRepository sobre PostgreSQL.
type AdministradorRepo struct {
	q Querier
}

// NewAdministradorRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAdministradorRepository(q Querier) *AdministradorRepo {
	return &AdministradorRepo{q: q}
}

func scanAdministrador(row pgx.Row) (*entity.Administrador, error) {
	var a entity.Administrador
	err := row.Scan(&a.ID, &a.CIRuc, &a.Nombre, &a.Email, &a.PasswordHash, &a.Salt, &a.Estado, &a.FechaRegistro)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan administrador: %w", err)
	}
	return &a, nil
}

func (r *AdministradorRepo) Create(a *entity.Administrador) (*entity.Administrador, error) {
	query := `
		INSERT INTO administradores (ci_ruc, nombre, email, password_hash, salt, estado)
		VALUES ($1, $2, $3, $4, $5, 'activo')
		RETURNING id, fecha_registro`
	out := *a
	err := r.q.QueryRow(context.Background(), query,
		a.CIRuc, a.Nombre, a.Email, a.PasswordHash, a.Salt,
	).Scan(&out.ID, &out.FechaRegistro)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrConflict
		}
		if isRLSViolation(err) {
			return nil, domain.ErrPermission
		}
		return nil, fmt.Errorf("insert administrador: %w", err)
	}
	return &out, nil
}

func (r *AdministradorRepo) GetByID(id int64) (*entity.Administrador, error) {
	query := `SELECT ` + usuarioColumns + ` FROM administradores WHERE id = $1`
	return scanAdministrador(r.q.QueryRow(context.Background(), query, id))
}

func (r *AdministradorRepo) GetByCIRuc(ciRuc string) (*entity.Administrador, error) {
	query := `SELECT ` + usuarioColumns + ` FROM administradores WHERE ci_ruc = $1`
	return scanAdministrador(r.q.QueryRow(context.Background(), query, ciRuc))
}
