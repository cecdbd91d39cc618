package repository

import "github.com/plotmaster/plotmaster-api/internal/domain/entity"

// AbonoRepository define el puerto de persistencia para el libro de abonos.
type AbonoRepository interface {
	Create(a *entity.Abono) (*entity.Abono, error)
	GetByID(id int64) (*entity.Abono, error)
	ListByOtID(otID int64) ([]*entity.Abono, error)
	Delete(id int64) error
}

// CancelacionRepository define el puerto para las instantáneas de cancelación.
type CancelacionRepository interface {
	Create(c *entity.Cancelacion) (*entity.Cancelacion, error)
	GetByOtID(otID int64) (*entity.Cancelacion, error)
}
