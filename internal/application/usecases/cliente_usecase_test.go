package usecases_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plotmaster/plotmaster-api/internal/application/dto"
	"github.com/plotmaster/plotmaster-api/internal/domain"
)

func TestRegisterCliente(t *testing.T) {
	e := nuevoEntorno()

	resp, err := e.cliente.Register(dto.CreateClienteRequest{
		CIRuc:    "4555666-7",
		Nombre:   "Imprenta San Lorenzo",
		Telefono: "0981 555 123",
		Zona:     "San Lorenzo",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "San Lorenzo", resp.Zona)

	// duplicado por ci_ruc
	_, err = e.cliente.Register(dto.CreateClienteRequest{CIRuc: "4555666-7", Nombre: "Otro"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestRegisterCliente_Validaciones(t *testing.T) {
	e := nuevoEntorno()

	_, err := e.cliente.Register(dto.CreateClienteRequest{Nombre: "Sin CI"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = e.cliente.Register(dto.CreateClienteRequest{CIRuc: "1-1"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = e.cliente.Register(dto.CreateClienteRequest{
		CIRuc: "1-1", Nombre: "x", Zona: "Narnia",
	})
	assert.ErrorIs(t, err, domain.ErrValidation, "la zona debe estar en la lista de entrega")

	// la zona comodín siempre es válida
	_, err = e.cliente.Register(dto.CreateClienteRequest{CIRuc: "1-1", Nombre: "x", Zona: "Otro"})
	assert.NoError(t, err)
}

func TestNextClientNumber(t *testing.T) {
	e := nuevoEntorno()

	next, err := e.cliente.NextClientNumber()
	require.NoError(t, err)
	assert.Equal(t, int64(1), next, "padrón vacío arranca en 1")

	_, err = e.cliente.Register(dto.CreateClienteRequest{CIRuc: "1-1", Nombre: "a"})
	require.NoError(t, err)
	_, err = e.cliente.Register(dto.CreateClienteRequest{CIRuc: "2-2", Nombre: "b"})
	require.NoError(t, err)

	next, err = e.cliente.NextClientNumber()
	require.NoError(t, err)
	assert.Equal(t, int64(3), next)

	e.clientes.caido = true
	next, err = e.cliente.NextClientNumber()
	require.NoError(t, err)
	assert.Equal(t, int64(1), next, "con el almacén caído se degrada a 1")
}

func TestUpdateCliente(t *testing.T) {
	e := nuevoEntorno()
	_, err := e.cliente.Register(dto.CreateClienteRequest{CIRuc: "1-1", Nombre: "Viejo Nombre"})
	require.NoError(t, err)

	nombre := "Nuevo Nombre"
	resp, err := e.cliente.Update("1-1", dto.UpdateClienteRequest{Nombre: &nombre})
	require.NoError(t, err)
	assert.Equal(t, "Nuevo Nombre", resp.Nombre)

	zona := "Marte"
	_, err = e.cliente.Update("1-1", dto.UpdateClienteRequest{Zona: &zona})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = e.cliente.Update("9-9", dto.UpdateClienteRequest{Nombre: &nombre})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFindYDeleteCliente(t *testing.T) {
	e := nuevoEntorno()
	_, err := e.cliente.Register(dto.CreateClienteRequest{CIRuc: "1-1", Nombre: "a"})
	require.NoError(t, err)

	resp, err := e.cliente.Find("1-1")
	require.NoError(t, err)
	assert.Equal(t, "a", resp.Nombre)

	require.NoError(t, e.cliente.Delete("1-1"))
	_, err = e.cliente.Find("1-1")
	assert.ErrorIs(t, err, domain.ErrClienteNotFound)
}

func TestListClientes_Degradado(t *testing.T) {
	e := nuevoEntorno()
	e.clientes.caido = true

	lista, err := e.cliente.List()
	require.NoError(t, err)
	assert.Empty(t, lista)
}

// Tras editar un cliente los listados de órdenes deben mostrar el nombre
// nuevo: la mutación limpia el cache referencial.
func TestUpdateCliente_RefrescaListados(t *testing.T) {
	e := nuevoEntorno()
	crearOrdenBase(t, e, 100)

	lista, err := e.orden.List()
	require.NoError(t, err)
	require.Len(t, lista, 1)
	assert.Equal(t, "Imprenta San Lorenzo", lista[0].ClienteNombre)

	nombre := "Imprenta Renovada"
	_, err = e.cliente.Update("4555666-7", dto.UpdateClienteRequest{Nombre: &nombre})
	require.NoError(t, err)

	lista, err = e.orden.List()
	require.NoError(t, err)
	require.Len(t, lista, 1)
	assert.Equal(t, "Imprenta Renovada", lista[0].ClienteNombre,
		"el cache no puede seguir sirviendo el nombre viejo")
}
