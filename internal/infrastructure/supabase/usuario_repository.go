package supabase

import (
	"github.com/plotmaster/plotmaster-api/internal/domain"
	"github.com/plotmaster/plotmaster-api/internal/domain/entity"
	"github.com/plotmaster/plotmaster-api/internal/domain/repository"
)

const (
	tablaUsuarios        = "usuarios"
	tablaAdministradores = "administradores"
)

type usuarioRow struct {
	ID            int64  `json:"id"`
	CIRuc         string `json:"ci_ruc"`
	Nombre        string `json:"nombre"`
	Email         string `json:"email"`
	PasswordHash  string `json:"password_hash"`
	Salt          string `json:"salt"`
	Estado        string `json:"estado"`
	FechaRegistro string `json:"fecha_registro"`
}

func (r usuarioRow) toUsuario() *entity.Usuario {
	return &entity.Usuario{
		ID:            r.ID,
		CIRuc:         r.CIRuc,
		Nombre:        r.Nombre,
		Email:         r.Email,
		PasswordHash:  r.PasswordHash,
		Salt:          r.Salt,
		Estado:        r.Estado,
		FechaRegistro: parseFecha(r.FechaRegistro),
	}
}

func (r usuarioRow) toAdministrador() *entity.Administrador {
	return &entity.Administrador{
		ID:            r.ID,
		CIRuc:         r.CIRuc,
		Nombre:        r.Nombre,
		Email:         r.Email,
		PasswordHash:  r.PasswordHash,
		Salt:          r.Salt,
		Estado:        r.Estado,
		FechaRegistro: parseFecha(r.FechaRegistro),
	}
}

type usuarioInsert struct {
	CIRuc        string `json:"ci_ruc"`
	Nombre       string `json:"nombre"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
	Salt         string `json:"salt"`
	Estado       string `json:"estado"`
}

// UsuarioRepository persiste vendedores en la tabla usuarios.
type UsuarioRepository struct {
	store *Store
}

var _ repository.UsuarioRepository = (*UsuarioRepository)(nil)

func NewUsuarioRepository(store *Store) *UsuarioRepository {
	return &UsuarioRepository{store: store}
}

func (r *UsuarioRepository) Create(u *entity.Usuario) (*entity.Usuario, error) {
	db, err := r.store.cliente()
	if err != nil {
		return nil, err
	}

	var rows []usuarioRow
	ins := usuarioInsert{
		CIRuc:        u.CIRuc,
		Nombre:       u.Nombre,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Salt:         u.Salt,
		Estado:       u.Estado,
	}
	if err := db.DB.From(tablaUsuarios).Insert(ins).Execute(&rows); err != nil {
		return nil, mapError("crear usuario", err)
	}
	if len(rows) == 0 {
		return nil, mapError("crear usuario", domain.ErrConflict)
	}
	return rows[0].toUsuario(), nil
}

func (r *UsuarioRepository) GetByID(id int64) (*entity.Usuario, error) {
	db, err := r.store.cliente()
	if err != nil {
		return nil, err
	}

	var rows []usuarioRow
	if err := db.DB.From(tablaUsuarios).Select("*").Eq("id", itoa(id)).Execute(&rows); err != nil {
		return nil, mapError("buscar usuario", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].toUsuario(), nil
}

func (r *UsuarioRepository) GetByCIRuc(ciRuc string) (*entity.Usuario, error) {
	db, err := r.store.cliente()
	if err != nil {
		return nil, err
	}

	var rows []usuarioRow
	if err := db.DB.From(tablaUsuarios).Select("*").Eq("ci_ruc", ciRuc).Execute(&rows); err != nil {
		return nil, mapError("buscar usuario", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].toUsuario(), nil
}

func (r *UsuarioRepository) GetByNombre(nombre string) (*entity.Usuario, error) {
	db, err := r.store.cliente()
	if err != nil {
		return nil, err
	}

	var rows []usuarioRow
	if err := db.DB.From(tablaUsuarios).Select("*").Eq("nombre", nombre).Execute(&rows); err != nil {
		return nil, mapError("buscar usuario", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].toUsuario(), nil
}

func (r *UsuarioRepository) GetByIDs(ids []int64) (map[int64]entity.Usuario, error) {
	db, err := r.store.cliente()
	if err != nil {
		return nil, err
	}

	var rows []usuarioRow
	if err := db.DB.From(tablaUsuarios).Select("*").Execute(&rows); err != nil {
		return nil, mapError("listar usuarios", err)
	}

	buscados := make(map[int64]bool, len(ids))
	for _, id := range ids {
		buscados[id] = true
	}
	out := make(map[int64]entity.Usuario)
	for _, row := range rows {
		if buscados[row.ID] {
			out[row.ID] = *row.toUsuario()
		}
	}
	return out, nil
}

func (r *UsuarioRepository) List() ([]*entity.Usuario, error) {
	db, err := r.store.cliente()
	if err != nil {
		return nil, err
	}

	var rows []usuarioRow
	if err := db.DB.From(tablaUsuarios).Select("*").Execute(&rows); err != nil {
		return nil, mapError("listar usuarios", err)
	}
	out := make([]*entity.Usuario, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toUsuario())
	}
	return out, nil
}

func (r *UsuarioRepository) UpdateEstado(id int64, estado string) error {
	db, err := r.store.cliente()
	if err != nil {
		return err
	}

	var rows []usuarioRow
	cambios := map[string]interface{}{"estado": estado}
	if err := db.DB.From(tablaUsuarios).Update(cambios).Eq("id", itoa(id)).Execute(&rows); err != nil {
		return mapError("actualizar estado de usuario", err)
	}
	if len(rows) == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AdministradorRepository persiste administradores en su propia tabla,
// disjunta de usuarios.
type AdministradorRepository struct {
	store *Store
}

var _ repository.AdministradorRepository = (*AdministradorRepository)(nil)

func NewAdministradorRepository(store *Store) *AdministradorRepository {
	return &AdministradorRepository{store: store}
}

func (r *AdministradorRepository) Create(a *entity.Administrador) (*entity.Administrador, error) {
	db, err := r.store.cliente()
	if err != nil {
		return nil, err
	}

	var rows []usuarioRow
	ins := usuarioInsert{
		CIRuc:        a.CIRuc,
		Nombre:       a.Nombre,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		Salt:         a.Salt,
		Estado:       entity.EstadoActivo,
	}
	if err := db.DB.From(tablaAdministradores).Insert(ins).Execute(&rows); err != nil {
		return nil, mapError("crear administrador", err)
	}
	if len(rows) == 0 {
		return nil, mapError("crear administrador", domain.ErrConflict)
	}
	return rows[0].toAdministrador(), nil
}

func (r *AdministradorRepository) GetByID(id int64) (*entity.Administrador, error) {
	db, err := r.store.cliente()
	if err != nil {
		return nil, err
	}

	var rows []usuarioRow
	if err := db.DB.From(tablaAdministradores).Select("*").Eq("id", itoa(id)).Execute(&rows); err != nil {
		return nil, mapError("buscar administrador", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].toAdministrador(), nil
}

func (r *AdministradorRepository) GetByCIRuc(ciRuc string) (*entity.Administrador, error) {
	db, err := r.store.cliente()
	if err != nil {
		return nil, err
	}

	var rows []usuarioRow
	if err := db.DB.From(tablaAdministradores).Select("*").Eq("ci_ruc", ciRuc).Execute(&rows); err != nil {
		return nil, mapError("buscar administrador", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].toAdministrador(), nil
}
