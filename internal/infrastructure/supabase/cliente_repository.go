package supabase

import (
	"strconv"

	"github.com/plotmaster/plotmaster-api/internal/domain"
	"github.com/plotmaster/plotmaster-api/internal/domain/entity"
	"github.com/plotmaster/plotmaster-api/internal/domain/repository"
)

const tablaClientes = "clientes"

type clienteRow struct {
	ID        int64  `json:"id"`
	CIRuc     string `json:"ci_ruc"`
	Nombre    string `json:"nombre"`
	Telefono  string `json:"telefono"`
	Email     string `json:"email"`
	Zona      string `json:"zona"`
	CreatedAt string `json:"created_at"`
}

func (r clienteRow) toEntity() *entity.Cliente {
	return &entity.Cliente{
		ID:        r.ID,
		CIRuc:     r.CIRuc,
		Nombre:    r.Nombre,
		Telefono:  r.Telefono,
		Email:     r.Email,
		Zona:      r.Zona,
		CreatedAt: parseFecha(r.CreatedAt),
	}
}

type clienteInsert struct {
	CIRuc    string `json:"ci_ruc"`
	Nombre   string `json:"nombre"`
	Telefono string `json:"telefono"`
	Email    string `json:"email"`
	Zona     string `json:"zona"`
}

// ClienteRepository persiste clientes en la tabla clientes.
type ClienteRepository struct {
	store *Store
}

var _ repository.ClienteRepository = (*ClienteRepository)(nil)

func NewClienteRepository(store *Store) *ClienteRepository {
	return &ClienteRepository{store: store}
}

func (r *ClienteRepository) Create(c *entity.Cliente) (*entity.Cliente, error) {
	db, err := r.store.cliente()
	if err != nil {
		return nil, err
	}

	var rows []clienteRow
	ins := clienteInsert{
		CIRuc:    c.CIRuc,
		Nombre:   c.Nombre,
		Telefono: c.Telefono,
		Email:    c.Email,
		Zona:     c.Zona,
	}
	if err := db.DB.From(tablaClientes).Insert(ins).Execute(&rows); err != nil {
		return nil, mapError("crear cliente", err)
	}
	if len(rows) == 0 {
		return nil, mapError("crear cliente", domain.ErrConflict)
	}
	return rows[0].toEntity(), nil
}

func (r *ClienteRepository) GetByCIRuc(ciRuc string) (*entity.Cliente, error) {
	db, err := r.store.cliente()
	if err != nil {
		return nil, err
	}

	var rows []clienteRow
	if err := db.DB.From(tablaClientes).Select("*").Eq("ci_ruc", ciRuc).Execute(&rows); err != nil {
		return nil, mapError("buscar cliente", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].toEntity(), nil
}

func (r *ClienteRepository) GetByIDs(ids []int64) (map[int64]entity.Cliente, error) {
	db, err := r.store.cliente()
	if err != nil {
		return nil, err
	}

	// PostgREST acá solo se consulta por igualdad; el recorte por ids se
	// hace en memoria sobre el padrón completo.
	var rows []clienteRow
	if err := db.DB.From(tablaClientes).Select("*").Execute(&rows); err != nil {
		return nil, mapError("listar clientes", err)
	}

	buscados := make(map[int64]bool, len(ids))
	for _, id := range ids {
		buscados[id] = true
	}
	out := make(map[int64]entity.Cliente)
	for _, row := range rows {
		if buscados[row.ID] {
			out[row.ID] = *row.toEntity()
		}
	}
	return out, nil
}

func (r *ClienteRepository) List() ([]*entity.Cliente, error) {
	db, err := r.store.cliente()
	if err != nil {
		return nil, err
	}

	var rows []clienteRow
	if err := db.DB.From(tablaClientes).Select("*").Execute(&rows); err != nil {
		return nil, mapError("listar clientes", err)
	}
	out := make([]*entity.Cliente, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

func (r *ClienteRepository) Update(ciRuc string, upd repository.ClienteUpdate) error {
	db, err := r.store.cliente()
	if err != nil {
		return err
	}

	cambios := make(map[string]interface{})
	if upd.Nombre != nil {
		cambios["nombre"] = *upd.Nombre
	}
	if upd.Telefono != nil {
		cambios["telefono"] = *upd.Telefono
	}
	if upd.Email != nil {
		cambios["email"] = *upd.Email
	}
	if upd.Zona != nil {
		cambios["zona"] = *upd.Zona
	}
	if len(cambios) == 0 {
		return nil
	}

	var rows []clienteRow
	if err := db.DB.From(tablaClientes).Update(cambios).Eq("ci_ruc", ciRuc).Execute(&rows); err != nil {
		return mapError("actualizar cliente", err)
	}
	if len(rows) == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ClienteRepository) Delete(ciRuc string) error {
	db, err := r.store.cliente()
	if err != nil {
		return err
	}

	var rows []clienteRow
	if err := db.DB.From(tablaClientes).Delete().Eq("ci_ruc", ciRuc).Execute(&rows); err != nil {
		return mapError("eliminar cliente", err)
	}
	if len(rows) == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ClienteRepository) MaxID() (int64, error) {
	db, err := r.store.cliente()
	if err != nil {
		return 0, err
	}

	var rows []struct {
		ID int64 `json:"id"`
	}
	if err := db.DB.From(tablaClientes).Select("id").Execute(&rows); err != nil {
		return 0, mapError("máximo id de cliente", err)
	}
	var max int64
	for _, row := range rows {
		if row.ID > max {
			max = row.ID
		}
	}
	return max, nil
}

// formatea ids para las columnas numéricas de PostgREST.
func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
