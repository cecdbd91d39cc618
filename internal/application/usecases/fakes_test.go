package usecases_test

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/plotmaster/plotmaster-api/internal/application/usecases"
	"github.com/plotmaster/plotmaster-api/internal/domain"
	"github.com/plotmaster/plotmaster-api/internal/domain/entity"
	"github.com/plotmaster/plotmaster-api/internal/domain/ot"
	"github.com/plotmaster/plotmaster-api/internal/domain/repository"
	"github.com/plotmaster/plotmaster-api/internal/infrastructure/cache"
	"github.com/plotmaster/plotmaster-api/pkg/logger"
)

// Repositorios en memoria para ejercitar los casos de uso sin almacén real.
// El campo caido simula la base inaccesible.

type fakeClienteRepo struct {
	seq   int64
	rows  map[string]*entity.Cliente
	caido bool
}

func newFakeClienteRepo() *fakeClienteRepo {
	return &fakeClienteRepo{rows: make(map[string]*entity.Cliente)}
}

func (r *fakeClienteRepo) Create(c *entity.Cliente) (*entity.Cliente, error) {
	if r.caido {
		return nil, domain.ErrConnectionUnavailable
	}
	if _, ok := r.rows[c.CIRuc]; ok {
		return nil, domain.ErrConflict
	}
	r.seq++
	cp := *c
	cp.ID = r.seq
	cp.CreatedAt = time.Now()
	r.rows[cp.CIRuc] = &cp
	out := cp
	return &out, nil
}

func (r *fakeClienteRepo) GetByCIRuc(ciRuc string) (*entity.Cliente, error) {
	if r.caido {
		return nil, domain.ErrConnectionUnavailable
	}
	c, ok := r.rows[ciRuc]
	if !ok {
		return nil, nil
	}
	out := *c
	return &out, nil
}

func (r *fakeClienteRepo) GetByIDs(ids []int64) (map[int64]entity.Cliente, error) {
	if r.caido {
		return nil, domain.ErrConnectionUnavailable
	}
	out := make(map[int64]entity.Cliente)
	for _, c := range r.rows {
		for _, id := range ids {
			if c.ID == id {
				out[id] = *c
			}
		}
	}
	return out, nil
}

func (r *fakeClienteRepo) List() ([]*entity.Cliente, error) {
	if r.caido {
		return nil, domain.ErrConnectionUnavailable
	}
	out := make([]*entity.Cliente, 0, len(r.rows))
	for _, c := range r.rows {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeClienteRepo) Update(ciRuc string, upd repository.ClienteUpdate) error {
	if r.caido {
		return domain.ErrConnectionUnavailable
	}
	c, ok := r.rows[ciRuc]
	if !ok {
		return domain.ErrNotFound
	}
	if upd.Nombre != nil {
		c.Nombre = *upd.Nombre
	}
	if upd.Telefono != nil {
		c.Telefono = *upd.Telefono
	}
	if upd.Email != nil {
		c.Email = *upd.Email
	}
	if upd.Zona != nil {
		c.Zona = *upd.Zona
	}
	return nil
}

func (r *fakeClienteRepo) Delete(ciRuc string) error {
	if r.caido {
		return domain.ErrConnectionUnavailable
	}
	if _, ok := r.rows[ciRuc]; !ok {
		return domain.ErrNotFound
	}
	delete(r.rows, ciRuc)
	return nil
}

func (r *fakeClienteRepo) MaxID() (int64, error) {
	if r.caido {
		return 0, domain.ErrConnectionUnavailable
	}
	var max int64
	for _, c := range r.rows {
		if c.ID > max {
			max = c.ID
		}
	}
	return max, nil
}

type fakeUsuarioRepo struct {
	seq   int64
	rows  map[int64]*entity.Usuario
	caido bool
}

func newFakeUsuarioRepo() *fakeUsuarioRepo {
	return &fakeUsuarioRepo{rows: make(map[int64]*entity.Usuario)}
}

func (r *fakeUsuarioRepo) Create(u *entity.Usuario) (*entity.Usuario, error) {
	if r.caido {
		return nil, domain.ErrConnectionUnavailable
	}
	for _, existente := range r.rows {
		if existente.CIRuc == u.CIRuc {
			return nil, domain.ErrConflict
		}
	}
	r.seq++
	cp := *u
	cp.ID = r.seq
	cp.FechaRegistro = time.Now()
	r.rows[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *fakeUsuarioRepo) GetByID(id int64) (*entity.Usuario, error) {
	if r.caido {
		return nil, domain.ErrConnectionUnavailable
	}
	u, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	out := *u
	return &out, nil
}

func (r *fakeUsuarioRepo) GetByCIRuc(ciRuc string) (*entity.Usuario, error) {
	if r.caido {
		return nil, domain.ErrConnectionUnavailable
	}
	for _, u := range r.rows {
		if u.CIRuc == ciRuc {
			out := *u
			return &out, nil
		}
	}
	return nil, nil
}

func (r *fakeUsuarioRepo) GetByNombre(nombre string) (*entity.Usuario, error) {
	if r.caido {
		return nil, domain.ErrConnectionUnavailable
	}
	for _, u := range r.rows {
		if u.Nombre == nombre {
			out := *u
			return &out, nil
		}
	}
	return nil, nil
}

func (r *fakeUsuarioRepo) GetByIDs(ids []int64) (map[int64]entity.Usuario, error) {
	if r.caido {
		return nil, domain.ErrConnectionUnavailable
	}
	out := make(map[int64]entity.Usuario)
	for _, id := range ids {
		if u, ok := r.rows[id]; ok {
			out[id] = *u
		}
	}
	return out, nil
}

func (r *fakeUsuarioRepo) List() ([]*entity.Usuario, error) {
	if r.caido {
		return nil, domain.ErrConnectionUnavailable
	}
	out := make([]*entity.Usuario, 0, len(r.rows))
	for _, u := range r.rows {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeUsuarioRepo) UpdateEstado(id int64, estado string) error {
	if r.caido {
		return domain.ErrConnectionUnavailable
	}
	u, ok := r.rows[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.Estado = estado
	return nil
}

type fakeAdminRepo struct {
	seq  int64
	rows map[int64]*entity.Administrador
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{rows: make(map[int64]*entity.Administrador)}
}

func (r *fakeAdminRepo) Create(a *entity.Administrador) (*entity.Administrador, error) {
	for _, existente := range r.rows {
		if existente.CIRuc == a.CIRuc {
			return nil, domain.ErrConflict
		}
	}
	r.seq++
	cp := *a
	cp.ID = r.seq
	r.rows[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *fakeAdminRepo) GetByID(id int64) (*entity.Administrador, error) {
	a, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	out := *a
	return &out, nil
}

func (r *fakeAdminRepo) GetByCIRuc(ciRuc string) (*entity.Administrador, error) {
	for _, a := range r.rows {
		if a.CIRuc == ciRuc {
			out := *a
			return &out, nil
		}
	}
	return nil, nil
}

type fakeOrdenRepo struct {
	seq   int64
	rows  map[int64]*entity.OrdenTrabajo // por ot_nro
	caido bool
}

func newFakeOrdenRepo() *fakeOrdenRepo {
	return &fakeOrdenRepo{rows: make(map[int64]*entity.OrdenTrabajo)}
}

func (r *fakeOrdenRepo) Create(o *entity.OrdenTrabajo) (*entity.OrdenTrabajo, error) {
	if r.caido {
		return nil, domain.ErrConnectionUnavailable
	}
	if _, ok := r.rows[o.OtNro]; ok {
		return nil, domain.ErrConflict
	}
	r.seq++
	cp := *o
	cp.ID = r.seq
	cp.CreatedAt = time.Now()
	r.rows[cp.OtNro] = &cp
	out := cp
	return &out, nil
}

func (r *fakeOrdenRepo) GetByOtNro(otNro int64) (*entity.OrdenTrabajo, error) {
	if r.caido {
		return nil, domain.ErrConnectionUnavailable
	}
	o, ok := r.rows[otNro]
	if !ok {
		return nil, nil
	}
	out := *o
	return &out, nil
}

func (r *fakeOrdenRepo) List() ([]*entity.OrdenTrabajo, error) {
	if r.caido {
		return nil, domain.ErrConnectionUnavailable
	}
	out := make([]*entity.OrdenTrabajo, 0, len(r.rows))
	for _, o := range r.rows {
		cp := *o
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OtNro > out[j].OtNro })
	return out, nil
}

func (r *fakeOrdenRepo) ListByVendedor(vendedorID int64) ([]*entity.OrdenTrabajo, error) {
	todas, err := r.List()
	if err != nil {
		return nil, err
	}
	out := todas[:0]
	for _, o := range todas {
		if o.VendedorID == vendedorID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeOrdenRepo) ListByCliente(clienteID int64) ([]*entity.OrdenTrabajo, error) {
	todas, err := r.List()
	if err != nil {
		return nil, err
	}
	out := todas[:0]
	for _, o := range todas {
		if o.ClienteID == clienteID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeOrdenRepo) ListByFechaCreacion(desde, hasta time.Time, asc bool) ([]*entity.OrdenTrabajo, error) {
	todas, err := r.List()
	if err != nil {
		return nil, err
	}
	out := todas[:0]
	for _, o := range todas {
		if o.FechaCreacion.Before(desde) || o.FechaCreacion.After(hasta) {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		if asc {
			return out[i].FechaCreacion.Before(out[j].FechaCreacion)
		}
		return out[j].FechaCreacion.Before(out[i].FechaCreacion)
	})
	return out, nil
}

func (r *fakeOrdenRepo) UpdateStatus(otNro int64, status ot.Status, fechaEntrega *time.Time) error {
	if r.caido {
		return domain.ErrConnectionUnavailable
	}
	o, ok := r.rows[otNro]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = status
	if fechaEntrega != nil {
		o.FechaEntrega = fechaEntrega
	}
	return nil
}

func (r *fakeOrdenRepo) UpdateValor(otNro int64, valor decimal.Decimal) error {
	o, ok := r.rows[otNro]
	if !ok {
		return domain.ErrNotFound
	}
	o.ValorTotal = valor
	return nil
}

func (r *fakeOrdenRepo) UpdateDetalles(otNro int64, upd repository.OrdenUpdate) error {
	o, ok := r.rows[otNro]
	if !ok {
		return domain.ErrNotFound
	}
	if upd.FormaPago != nil {
		o.FormaPago = *upd.FormaPago
	}
	if upd.SolicitaEnvio != nil {
		o.SolicitaEnvio = *upd.SolicitaEnvio
	}
	if upd.Descripcion != nil {
		o.Descripcion = *upd.Descripcion
	}
	return nil
}

func (r *fakeOrdenRepo) UpdateAbonadoTotal(id int64, total decimal.Decimal) error {
	for _, o := range r.rows {
		if o.ID == id {
			o.AbonadoTotal = total
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeOrdenRepo) Delete(otNro int64) error {
	if _, ok := r.rows[otNro]; !ok {
		return domain.ErrNotFound
	}
	delete(r.rows, otNro)
	return nil
}

func (r *fakeOrdenRepo) MaxOtNro() (int64, error) {
	if r.caido {
		return 0, domain.ErrConnectionUnavailable
	}
	var max int64
	for nro := range r.rows {
		if nro > max {
			max = nro
		}
	}
	return max, nil
}

type fakeAbonoRepo struct {
	seq   int64
	rows  map[int64]*entity.Abono
	caido bool
}

func newFakeAbonoRepo() *fakeAbonoRepo {
	return &fakeAbonoRepo{rows: make(map[int64]*entity.Abono)}
}

func (r *fakeAbonoRepo) Create(a *entity.Abono) (*entity.Abono, error) {
	if r.caido {
		return nil, domain.ErrConnectionUnavailable
	}
	r.seq++
	cp := *a
	cp.ID = r.seq
	r.rows[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *fakeAbonoRepo) GetByID(id int64) (*entity.Abono, error) {
	a, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	out := *a
	return &out, nil
}

func (r *fakeAbonoRepo) ListByOtID(otID int64) ([]*entity.Abono, error) {
	out := make([]*entity.Abono, 0)
	for _, a := range r.rows {
		if a.OtID == otID {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeAbonoRepo) Delete(id int64) error {
	if _, ok := r.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

type fakeCancelacionRepo struct {
	seq  int64
	rows map[int64]*entity.Cancelacion // por ot_id
}

func newFakeCancelacionRepo() *fakeCancelacionRepo {
	return &fakeCancelacionRepo{rows: make(map[int64]*entity.Cancelacion)}
}

func (r *fakeCancelacionRepo) Create(c *entity.Cancelacion) (*entity.Cancelacion, error) {
	if _, ok := r.rows[c.OtID]; ok {
		return nil, domain.ErrConflict
	}
	r.seq++
	cp := *c
	cp.ID = r.seq
	r.rows[cp.OtID] = &cp
	out := cp
	return &out, nil
}

func (r *fakeCancelacionRepo) GetByOtID(otID int64) (*entity.Cancelacion, error) {
	c, ok := r.rows[otID]
	if !ok {
		return nil, nil
	}
	out := *c
	return &out, nil
}

// entorno arma el juego completo de fakes y casos de uso para un test.
type entorno struct {
	clientes      *fakeClienteRepo
	usuarios      *fakeUsuarioRepo
	admins        *fakeAdminRepo
	ordenes       *fakeOrdenRepo
	abonos        *fakeAbonoRepo
	cancelaciones *fakeCancelacionRepo
	lookup        *cache.LookupCache

	auth    *usecases.AuthUseCase
	orden   *usecases.OrdenUseCase
	cliente *usecases.ClienteUseCase
	usuario *usecases.UsuarioUseCase
	reporte *usecases.ReporteUseCase
}

func nuevoEntorno() *entorno {
	e := &entorno{
		clientes:      newFakeClienteRepo(),
		usuarios:      newFakeUsuarioRepo(),
		admins:        newFakeAdminRepo(),
		ordenes:       newFakeOrdenRepo(),
		abonos:        newFakeAbonoRepo(),
		cancelaciones: newFakeCancelacionRepo(),
		lookup:        cache.New(cache.DefaultTTL),
	}
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	e.auth = usecases.NewAuthUseCase(e.usuarios, e.admins, e.lookup, "secreto-de-test", "plotmaster-api", 60, log)
	e.orden = usecases.NewOrdenUseCase(e.ordenes, e.abonos, e.cancelaciones, e.clientes, e.usuarios, e.lookup, log)
	e.cliente = usecases.NewClienteUseCase(e.clientes, e.lookup, log)
	e.usuario = usecases.NewUsuarioUseCase(e.usuarios, e.lookup, log)
	e.reporte = usecases.NewReporteUseCase(e.ordenes, e.orden, nil, log)
	return e
}

// sembrar carga un cliente y un vendedor de base y devuelve sus entidades.
// Es idempotente: si ya fueron sembrados, devuelve las filas existentes.
func (e *entorno) sembrar() (*entity.Cliente, *entity.Usuario) {
	cliente, _ := e.clientes.Create(&entity.Cliente{
		CIRuc: "4555666-7", Nombre: "Imprenta San Lorenzo", Zona: "San Lorenzo",
	})
	if cliente == nil {
		cliente, _ = e.clientes.GetByCIRuc("4555666-7")
	}
	vendedor, _ := e.usuarios.Create(&entity.Usuario{
		CIRuc: "1234567-8", Nombre: "María González", Estado: entity.EstadoActivo,
	})
	if vendedor == nil {
		vendedor, _ = e.usuarios.GetByCIRuc("1234567-8")
	}
	return cliente, vendedor
}
