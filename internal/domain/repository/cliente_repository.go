package repository

import "github.com/plotmaster/plotmaster-api/internal/domain/entity"

// ClienteUpdate campos editables de un cliente (nil = sin cambio).
type ClienteUpdate struct {
	Nombre   *string
	Telefono *string
	Email    *string
	Zona     *string
}

// ClienteRepository define el puerto de persistencia para Cliente.
// Los Get devuelven (nil, nil) cuando la fila no existe.
type ClienteRepository interface {
	Create(c *entity.Cliente) (*entity.Cliente, error)
	GetByCIRuc(ciRuc string) (*entity.Cliente, error)
	GetByIDs(ids []int64) (map[int64]entity.Cliente, error)
	List() ([]*entity.Cliente, error)
	Update(ciRuc string, upd ClienteUpdate) error
	Delete(ciRuc string) error
	// MaxID devuelve el mayor id asignado, 0 si la tabla está vacía.
	MaxID() (int64, error)
}
