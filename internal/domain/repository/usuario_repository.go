package repository

import "github.com/plotmaster/plotmaster-api/internal/domain/entity"

// UsuarioRepository define el puerto de persistencia para vendedores (tabla usuarios).
type UsuarioRepository interface {
	Create(u *entity.Usuario) (*entity.Usuario, error)
	GetByID(id int64) (*entity.Usuario, error)
	GetByCIRuc(ciRuc string) (*entity.Usuario, error)
	GetByNombre(nombre string) (*entity.Usuario, error)
	GetByIDs(ids []int64) (map[int64]entity.Usuario, error)
	List() ([]*entity.Usuario, error)
	UpdateEstado(id int64, estado string) error
}

// AdministradorRepository define el puerto para la tabla administradores,
// disjunta de usuarios.
type AdministradorRepository interface {
	Create(a *entity.Administrador) (*entity.Administrador, error)
	GetByID(id int64) (*entity.Administrador, error)
	GetByCIRuc(ciRuc string) (*entity.Administrador, error)
}
