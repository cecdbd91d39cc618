package usecases

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/plotmaster/plotmaster-api/internal/application/dto"
	"github.com/plotmaster/plotmaster-api/internal/domain"
	"github.com/plotmaster/plotmaster-api/internal/domain/entity"
	"github.com/plotmaster/plotmaster-api/internal/domain/ot"
	"github.com/plotmaster/plotmaster-api/internal/domain/repository"
	"github.com/plotmaster/plotmaster-api/internal/infrastructure/cache"
	"github.com/plotmaster/plotmaster-api/pkg/logger"
)

// PrimerOtNro número inicial de la secuencia de órdenes.
const PrimerOtNro = 1001

// OrdenUseCase concentra el ciclo de vida de las órdenes de trabajo: alta,
// transiciones de estado, libro de abonos y numeración.
type OrdenUseCase struct {
	ordenes       repository.OrdenRepository
	abonos        repository.AbonoRepository
	cancelaciones repository.CancelacionRepository
	clientes      repository.ClienteRepository
	usuarios      repository.UsuarioRepository
	cache         *cache.LookupCache
	log           *logger.Logger
	now           func() time.Time
}

func NewOrdenUseCase(
	ordenes repository.OrdenRepository,
	abonos repository.AbonoRepository,
	cancelaciones repository.CancelacionRepository,
	clientes repository.ClienteRepository,
	usuarios repository.UsuarioRepository,
	lookup *cache.LookupCache,
	log *logger.Logger,
) *OrdenUseCase {
	return &OrdenUseCase{
		ordenes:       ordenes,
		abonos:        abonos,
		cancelaciones: cancelaciones,
		clientes:      clientes,
		usuarios:      usuarios,
		cache:         lookup,
		log:           log,
		now:           time.Now,
	}
}

// NextOtNumber devuelve el próximo número de OT sugerido. Con el almacén
// caído devuelve el número inicial para que el mostrador pueda seguir
// trabajando; la unicidad real la resuelve el insert.
func (uc *OrdenUseCase) NextOtNumber() (int64, error) {
	max, err := uc.ordenes.MaxOtNro()
	if err != nil {
		if errors.Is(err, domain.ErrConnectionUnavailable) {
			return PrimerOtNro, nil
		}
		return 0, err
	}
	if max == 0 {
		return PrimerOtNro, nil
	}
	return max + 1, nil
}

// Criterio por el que se resolvió al vendedor de una OT nueva.
type resolucionVendedor string

const (
	resueltoPorID     resolucionVendedor = "id"
	resueltoPorCIRuc  resolucionVendedor = "ci_ruc"
	resueltoPorNombre resolucionVendedor = "nombre"
	vendedorNoHallado resolucionVendedor = "no_hallado"
)

// resolverVendedor prueba cada criterio presente en orden: id, ci_ruc y por
// último nombre. Un criterio que no resuelve cede el turno al siguiente;
// devuelve además con cuál se halló al vendedor.
func (uc *OrdenUseCase) resolverVendedor(ref dto.VendedorRef) (*entity.Usuario, resolucionVendedor, error) {
	if ref.ID != 0 {
		v, err := uc.usuarios.GetByID(ref.ID)
		if err != nil {
			return nil, vendedorNoHallado, err
		}
		if v != nil {
			return v, resueltoPorID, nil
		}
	}
	if ciRuc := strings.TrimSpace(ref.CIRuc); ciRuc != "" {
		v, err := uc.usuarios.GetByCIRuc(ciRuc)
		if err != nil {
			return nil, vendedorNoHallado, err
		}
		if v != nil {
			return v, resueltoPorCIRuc, nil
		}
	}
	if nombre := strings.TrimSpace(ref.Nombre); nombre != "" {
		v, err := uc.usuarios.GetByNombre(nombre)
		if err != nil {
			return nil, vendedorNoHallado, err
		}
		if v != nil {
			return v, resueltoPorNombre, nil
		}
	}
	return nil, vendedorNoHallado, nil
}

// normalizarFormaPago acepta variantes libres y las lleva a Contado o Crédito.
func normalizarFormaPago(s string) string {
	if strings.Contains(ot.Fold(s), "cred") {
		return entity.FormaPagoCredito
	}
	return entity.FormaPagoContado
}

// Create da de alta una orden. Siempre nace Pendiente; si viene una seña se
// asienta como primer abono del libro sin alterar el estado.
func (uc *OrdenUseCase) Create(req dto.CreateOrdenRequest, creadoPor int64) (*dto.OrdenResponse, error) {
	if strings.TrimSpace(req.ClienteCIRuc) == "" {
		return nil, fmt.Errorf("%w: el ci_ruc del cliente es obligatorio", domain.ErrValidation)
	}
	if strings.TrimSpace(req.Descripcion) == "" {
		return nil, fmt.Errorf("%w: la descripción es obligatoria", domain.ErrValidation)
	}
	if req.ValorTotal.IsNegative() {
		return nil, fmt.Errorf("%w: el valor total no puede ser negativo", domain.ErrValidation)
	}
	if req.Sena.IsNegative() {
		return nil, fmt.Errorf("%w: la seña no puede ser negativa", domain.ErrValidation)
	}
	if req.Sena.GreaterThan(req.ValorTotal) {
		return nil, fmt.Errorf("%w: la seña no puede superar el valor total", domain.ErrValidation)
	}

	cliente, err := uc.clientes.GetByCIRuc(strings.TrimSpace(req.ClienteCIRuc))
	if err != nil {
		return nil, err
	}
	if cliente == nil {
		return nil, domain.ErrClienteNotFound
	}

	vendedor, criterio, err := uc.resolverVendedor(req.Vendedor)
	if err != nil {
		return nil, err
	}
	if vendedor == nil {
		return nil, domain.ErrVendedorNotFound
	}
	uc.log.Debug().Str("criterio", string(criterio)).Int64("vendedor_id", vendedor.ID).Msg("vendedor resuelto")

	otNro, err := uc.NextOtNumber()
	if err != nil {
		return nil, err
	}

	orden := &entity.OrdenTrabajo{
		OtNro:         otNro,
		ClienteID:     cliente.ID,
		VendedorID:    vendedor.ID,
		Descripcion:   strings.TrimSpace(req.Descripcion),
		ValorTotal:    req.ValorTotal,
		Sena:          req.Sena,
		AbonadoTotal:  decimal.Zero,
		FormaPago:     normalizarFormaPago(req.FormaPago),
		SolicitaEnvio: req.SolicitaEnvio,
		Status:        ot.StatusPendiente,
		FechaCreacion: uc.now(),
		FechaEntrega:  req.FechaEntrega,
	}

	creada, err := uc.ordenes.Create(orden)
	if err != nil {
		return nil, err
	}

	if req.Sena.IsPositive() {
		abono := &entity.Abono{
			OtID:        creada.ID,
			Monto:       req.Sena,
			FechaAbono:  uc.now(),
			CreadoPor:   &creadoPor,
			Observacion: "Seña inicial",
		}
		if _, err := uc.abonos.Create(abono); err != nil {
			return nil, fmt.Errorf("asentar seña: %w", err)
		}
		if err := uc.ordenes.UpdateAbonadoTotal(creada.ID, req.Sena); err != nil {
			return nil, err
		}
		creada.AbonadoTotal = req.Sena
	}

	uc.log.Info().
		Int64("ot_nro", creada.OtNro).
		Int64("cliente_id", creada.ClienteID).
		Int64("vendedor_id", creada.VendedorID).
		Msg("orden creada")

	resp := uc.enriquecer(creada, cliente, vendedor)
	return &resp, nil
}

// enriquecer completa la vista con los nombres ya resueltos.
func (uc *OrdenUseCase) enriquecer(o *entity.OrdenTrabajo, c *entity.Cliente, v *entity.Usuario) dto.OrdenResponse {
	resp := dto.OrdenToResponse(o)
	if c != nil {
		resp.ClienteNombre = c.Nombre
		resp.ClienteCIRuc = c.CIRuc
	}
	if v != nil {
		resp.VendedorNombre = v.Nombre
		resp.VendedorCIRuc = v.CIRuc
	}
	return resp
}

// enriquecerLote resuelve nombres de clientes y vendedores para un listado
// usando el cache referencial. Si el cache no puede resolver (almacén caído)
// el listado sale igual, sin nombres.
func (uc *OrdenUseCase) enriquecerLote(ordenes []*entity.OrdenTrabajo) []dto.OrdenResponse {
	clienteIDs := make([]int64, 0, len(ordenes))
	vendedorIDs := make([]int64, 0, len(ordenes))
	for _, o := range ordenes {
		clienteIDs = append(clienteIDs, o.ClienteID)
		vendedorIDs = append(vendedorIDs, o.VendedorID)
	}

	clientes, err := uc.cache.Clientes(clienteIDs, func(missing []int64) ([]*entity.Cliente, error) {
		rows, err := uc.clientes.GetByIDs(missing)
		if err != nil {
			return nil, err
		}
		out := make([]*entity.Cliente, 0, len(rows))
		for id := range rows {
			row := rows[id]
			out = append(out, &row)
		}
		return out, nil
	})
	if err != nil {
		uc.log.Warn().Err(err).Msg("no se pudieron resolver nombres de clientes")
	}

	vendedores, err := uc.cache.Usuarios(vendedorIDs, func(missing []int64) ([]*entity.Usuario, error) {
		rows, err := uc.usuarios.GetByIDs(missing)
		if err != nil {
			return nil, err
		}
		out := make([]*entity.Usuario, 0, len(rows))
		for id := range rows {
			row := rows[id]
			out = append(out, &row)
		}
		return out, nil
	})
	if err != nil {
		uc.log.Warn().Err(err).Msg("no se pudieron resolver nombres de vendedores")
	}

	out := make([]dto.OrdenResponse, 0, len(ordenes))
	for _, o := range ordenes {
		resp := dto.OrdenToResponse(o)
		if c, ok := clientes[o.ClienteID]; ok {
			resp.ClienteNombre = c.Nombre
			resp.ClienteCIRuc = c.CIRuc
		}
		if v, ok := vendedores[o.VendedorID]; ok {
			resp.VendedorNombre = v.Nombre
			resp.VendedorCIRuc = v.CIRuc
		}
		out = append(out, resp)
	}
	return out
}

// List devuelve las órdenes activas, la más nueva primero. Las rechazadas
// salen del listado de trabajo aunque la fila persiste; siguen visibles por
// número y en los reportes con filtro de estado. Con el almacén caído
// devuelve lista vacía.
func (uc *OrdenUseCase) List() ([]dto.OrdenResponse, error) {
	ordenes, err := uc.ordenes.List()
	if err != nil {
		if errors.Is(err, domain.ErrConnectionUnavailable) {
			return []dto.OrdenResponse{}, nil
		}
		return nil, err
	}
	activas := ordenes[:0]
	for _, o := range ordenes {
		if o.Status != ot.StatusRechazado {
			activas = append(activas, o)
		}
	}
	return uc.enriquecerLote(activas), nil
}

// ListByVendedor devuelve las órdenes de un vendedor.
func (uc *OrdenUseCase) ListByVendedor(vendedorID int64) ([]dto.OrdenResponse, error) {
	ordenes, err := uc.ordenes.ListByVendedor(vendedorID)
	if err != nil {
		if errors.Is(err, domain.ErrConnectionUnavailable) {
			return []dto.OrdenResponse{}, nil
		}
		return nil, err
	}
	return uc.enriquecerLote(ordenes), nil
}

// ListByCliente devuelve las órdenes de un cliente identificado por ci_ruc.
func (uc *OrdenUseCase) ListByCliente(ciRuc string) ([]dto.OrdenResponse, error) {
	cliente, err := uc.clientes.GetByCIRuc(strings.TrimSpace(ciRuc))
	if err != nil {
		return nil, err
	}
	if cliente == nil {
		return nil, domain.ErrClienteNotFound
	}
	ordenes, err := uc.ordenes.ListByCliente(cliente.ID)
	if err != nil {
		return nil, err
	}
	return uc.enriquecerLote(ordenes), nil
}

// GetByOtNro devuelve una orden con su libro de abonos.
func (uc *OrdenUseCase) GetByOtNro(otNro int64) (*dto.OrdenResponse, error) {
	orden, err := uc.ordenes.GetByOtNro(otNro)
	if err != nil {
		return nil, err
	}
	if orden == nil {
		return nil, domain.ErrOrdenNotFound
	}

	lote := uc.enriquecerLote([]*entity.OrdenTrabajo{orden})
	resp := lote[0]

	abonos, err := uc.abonos.ListByOtID(orden.ID)
	if err != nil {
		return nil, err
	}
	resp.Abonos = make([]dto.AbonoResponse, 0, len(abonos))
	for _, a := range abonos {
		resp.Abonos = append(resp.Abonos, dto.AbonoToResponse(a))
	}
	return &resp, nil
}

// transicionar carga la orden, valida la transición y la persiste.
func (uc *OrdenUseCase) transicionar(otNro int64, destino ot.Status, fechaEntrega *time.Time) (*dto.OrdenResponse, error) {
	orden, err := uc.ordenes.GetByOtNro(otNro)
	if err != nil {
		return nil, err
	}
	if orden == nil {
		return nil, domain.ErrOrdenNotFound
	}

	if err := ot.ValidateTransition(orden.Status, destino); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}

	if err := uc.ordenes.UpdateStatus(otNro, destino, fechaEntrega); err != nil {
		return nil, err
	}
	orden.Status = destino
	if fechaEntrega != nil {
		orden.FechaEntrega = fechaEntrega
	}

	uc.log.Info().Int64("ot_nro", otNro).Str("status", string(destino)).Msg("orden actualizada")

	lote := uc.enriquecerLote([]*entity.OrdenTrabajo{orden})
	return &lote[0], nil
}

// Approve aprueba una orden pendiente.
func (uc *OrdenUseCase) Approve(otNro int64) (*dto.OrdenResponse, error) {
	return uc.transicionar(otNro, ot.StatusAprobado, nil)
}

// Reject rechaza una orden; solo es válido desde Pendiente y es definitivo.
func (uc *OrdenUseCase) Reject(otNro int64) (*dto.OrdenResponse, error) {
	return uc.transicionar(otNro, ot.StatusRechazado, nil)
}

// Deliver marca la entrega. La fecha de entrega es obligatoria.
func (uc *OrdenUseCase) Deliver(otNro int64, fechaEntrega *time.Time) (*dto.OrdenResponse, error) {
	if fechaEntrega == nil {
		return nil, fmt.Errorf("%w: la fecha de entrega es obligatoria", domain.ErrValidation)
	}
	return uc.transicionar(otNro, ot.StatusEntregado, fechaEntrega)
}

// Finalize cierra una orden entregada.
func (uc *OrdenUseCase) Finalize(otNro int64) (*dto.OrdenResponse, error) {
	return uc.transicionar(otNro, ot.StatusFinalizado, nil)
}

// Cancel anula una orden no terminal. Primero escribe la instantánea de
// cancelación y recién después mueve el estado: si el estado no se pudiera
// persistir queda la evidencia, nunca al revés.
func (uc *OrdenUseCase) Cancel(otNro int64, req dto.CancelRequest, canceladoPor int64) (*dto.OrdenResponse, error) {
	if strings.TrimSpace(req.Motivo) == "" {
		return nil, fmt.Errorf("%w: el motivo de cancelación es obligatorio", domain.ErrValidation)
	}
	if req.Reembolso.IsNegative() {
		return nil, fmt.Errorf("%w: el reembolso no puede ser negativo", domain.ErrValidation)
	}

	orden, err := uc.ordenes.GetByOtNro(otNro)
	if err != nil {
		return nil, err
	}
	if orden == nil {
		return nil, domain.ErrOrdenNotFound
	}

	if err := ot.ValidateTransition(orden.Status, ot.StatusCancelado); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}

	snap := &entity.Cancelacion{
		OtID:             orden.ID,
		ClienteID:        orden.ClienteID,
		VendedorID:       orden.VendedorID,
		Descripcion:      orden.Descripcion,
		Motivo:           strings.TrimSpace(req.Motivo),
		Reembolso:        req.Reembolso,
		EstadoAnterior:   orden.Status,
		CanceladoPor:     canceladoPor,
		FechaCreacionOt:  orden.FechaCreacion,
		FechaCancelacion: uc.now(),
	}
	if _, err := uc.cancelaciones.Create(snap); err != nil {
		return nil, fmt.Errorf("registrar cancelación: %w", err)
	}

	if err := uc.ordenes.UpdateStatus(otNro, ot.StatusCancelado, nil); err != nil {
		return nil, err
	}
	orden.Status = ot.StatusCancelado

	uc.log.Info().Int64("ot_nro", otNro).Str("motivo", snap.Motivo).Msg("orden cancelada")

	lote := uc.enriquecerLote([]*entity.OrdenTrabajo{orden})
	return &lote[0], nil
}

// RegisterPayment asienta un abono y actualiza el acumulado. Un abono sobre
// una orden pendiente la aprueba automáticamente.
func (uc *OrdenUseCase) RegisterPayment(otNro int64, req dto.AbonoRequest, creadoPor int64) (*dto.OrdenResponse, error) {
	if !req.Monto.IsPositive() {
		return nil, fmt.Errorf("%w: el monto del abono debe ser mayor a cero", domain.ErrValidation)
	}

	orden, err := uc.ordenes.GetByOtNro(otNro)
	if err != nil {
		return nil, err
	}
	if orden == nil {
		return nil, domain.ErrOrdenNotFound
	}
	if orden.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: no se pueden registrar abonos sobre una orden %s", domain.ErrValidation, orden.Status)
	}

	abono := &entity.Abono{
		OtID:        orden.ID,
		Monto:       req.Monto,
		FechaAbono:  uc.now(),
		CreadoPor:   &creadoPor,
		Observacion: strings.TrimSpace(req.Observacion),
	}
	if _, err := uc.abonos.Create(abono); err != nil {
		return nil, err
	}

	nuevoTotal := orden.AbonadoTotal.Add(req.Monto)
	if err := uc.ordenes.UpdateAbonadoTotal(orden.ID, nuevoTotal); err != nil {
		return nil, err
	}
	orden.AbonadoTotal = nuevoTotal

	if orden.Status == ot.StatusPendiente {
		if err := uc.ordenes.UpdateStatus(otNro, ot.StatusAprobado, nil); err != nil {
			return nil, err
		}
		orden.Status = ot.StatusAprobado
	}

	uc.log.Info().
		Int64("ot_nro", otNro).
		Str("monto", req.Monto.String()).
		Msg("abono registrado")

	lote := uc.enriquecerLote([]*entity.OrdenTrabajo{orden})
	return &lote[0], nil
}

// DeletePayment elimina un abono del libro y descuenta su monto del
// acumulado, con piso en cero. El estado de la orden no retrocede.
func (uc *OrdenUseCase) DeletePayment(otNro, abonoID int64) (*dto.OrdenResponse, error) {
	orden, err := uc.ordenes.GetByOtNro(otNro)
	if err != nil {
		return nil, err
	}
	if orden == nil {
		return nil, domain.ErrOrdenNotFound
	}

	abono, err := uc.abonos.GetByID(abonoID)
	if err != nil {
		return nil, err
	}
	if abono == nil || abono.OtID != orden.ID {
		return nil, domain.ErrAbonoNotFound
	}

	if err := uc.abonos.Delete(abonoID); err != nil {
		return nil, err
	}

	nuevoTotal := orden.AbonadoTotal.Sub(abono.Monto)
	if nuevoTotal.IsNegative() {
		nuevoTotal = decimal.Zero
	}
	if err := uc.ordenes.UpdateAbonadoTotal(orden.ID, nuevoTotal); err != nil {
		return nil, err
	}
	orden.AbonadoTotal = nuevoTotal

	uc.log.Info().Int64("ot_nro", otNro).Int64("abono_id", abonoID).Msg("abono eliminado")

	lote := uc.enriquecerLote([]*entity.OrdenTrabajo{orden})
	return &lote[0], nil
}

// UpdateValor corrige el valor total de una orden abierta.
func (uc *OrdenUseCase) UpdateValor(otNro int64, valor decimal.Decimal) (*dto.OrdenResponse, error) {
	if valor.IsNegative() {
		return nil, fmt.Errorf("%w: el valor total no puede ser negativo", domain.ErrValidation)
	}

	orden, err := uc.ordenes.GetByOtNro(otNro)
	if err != nil {
		return nil, err
	}
	if orden == nil {
		return nil, domain.ErrOrdenNotFound
	}
	if orden.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: no se puede modificar una orden %s", domain.ErrValidation, orden.Status)
	}

	if err := uc.ordenes.UpdateValor(otNro, valor); err != nil {
		return nil, err
	}
	orden.ValorTotal = valor

	lote := uc.enriquecerLote([]*entity.OrdenTrabajo{orden})
	return &lote[0], nil
}

// UpdateDetalles edita campos comerciales de una orden abierta.
func (uc *OrdenUseCase) UpdateDetalles(otNro int64, req dto.UpdateDetallesRequest) (*dto.OrdenResponse, error) {
	orden, err := uc.ordenes.GetByOtNro(otNro)
	if err != nil {
		return nil, err
	}
	if orden == nil {
		return nil, domain.ErrOrdenNotFound
	}
	if orden.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: no se puede modificar una orden %s", domain.ErrValidation, orden.Status)
	}

	upd := repository.OrdenUpdate{
		SolicitaEnvio: req.SolicitaEnvio,
		Descripcion:   req.Descripcion,
	}
	if req.FormaPago != nil {
		fp := normalizarFormaPago(*req.FormaPago)
		upd.FormaPago = &fp
	}

	if err := uc.ordenes.UpdateDetalles(otNro, upd); err != nil {
		return nil, err
	}

	if upd.FormaPago != nil {
		orden.FormaPago = *upd.FormaPago
	}
	if upd.SolicitaEnvio != nil {
		orden.SolicitaEnvio = *upd.SolicitaEnvio
	}
	if upd.Descripcion != nil {
		orden.Descripcion = *upd.Descripcion
	}

	lote := uc.enriquecerLote([]*entity.OrdenTrabajo{orden})
	return &lote[0], nil
}

// Delete elimina una orden. Reservado a administradores.
func (uc *OrdenUseCase) Delete(otNro int64) error {
	if err := uc.ordenes.Delete(otNro); err != nil {
		return err
	}
	uc.log.Info().Int64("ot_nro", otNro).Msg("orden eliminada")
	return nil
}
