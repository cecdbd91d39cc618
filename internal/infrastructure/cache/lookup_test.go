package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plotmaster/plotmaster-api/internal/domain/entity"
)

func clienteFetcher(t *testing.T, calls *[][]int64) func([]int64) ([]*entity.Cliente, error) {
	t.Helper()
	return func(missing []int64) ([]*entity.Cliente, error) {
		*calls = append(*calls, missing)
		rows := make([]*entity.Cliente, 0, len(missing))
		for _, id := range missing {
			rows = append(rows, &entity.Cliente{ID: id, Nombre: "Cliente"})
		}
		return rows, nil
	}
}

func TestClientes_SegundaLecturaNoVuelveAlStore(t *testing.T) {
	c := New(DefaultTTL)
	var calls [][]int64

	got, err := c.Clientes([]int64{1, 2, 2}, clienteFetcher(t, &calls))
	require.NoError(t, err)
	assert.Len(t, got, 2)
	require.Len(t, calls, 1)
	assert.ElementsMatch(t, []int64{1, 2}, calls[0])

	// segunda lectura: todo servido desde el cache
	got, err = c.Clientes([]int64{1, 2}, clienteFetcher(t, &calls))
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Len(t, calls, 1)

	// un id nuevo solo pide lo faltante
	_, err = c.Clientes([]int64{2, 3}, clienteFetcher(t, &calls))
	require.NoError(t, err)
	require.Len(t, calls, 2)
	assert.Equal(t, []int64{3}, calls[1])
}

func TestClientes_VencimientoCompartido(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	now := base
	c := New(90 * time.Second)
	c.now = func() time.Time { return now }

	var calls [][]int64
	_, err := c.Clientes([]int64{1}, clienteFetcher(t, &calls))
	require.NoError(t, err)
	require.Len(t, calls, 1)

	// dentro del TTL sigue cacheado
	now = base.Add(60 * time.Second)
	_, err = c.Clientes([]int64{1}, clienteFetcher(t, &calls))
	require.NoError(t, err)
	assert.Len(t, calls, 1)

	// pasado el TTL el cache entero se vacía
	now = base.Add(3 * time.Minute)
	_, err = c.Clientes([]int64{1}, clienteFetcher(t, &calls))
	require.NoError(t, err)
	assert.Len(t, calls, 2)
}

func TestReset_InvalidaTodo(t *testing.T) {
	c := New(DefaultTTL)
	var calls [][]int64
	_, err := c.Clientes([]int64{7}, clienteFetcher(t, &calls))
	require.NoError(t, err)

	c.Reset()

	_, err = c.Clientes([]int64{7}, clienteFetcher(t, &calls))
	require.NoError(t, err)
	assert.Len(t, calls, 2, "tras un Reset el id debe pedirse de nuevo")
}

// Un fetch despachado antes de un Reset no debe repoblar el cache con datos
// que ya podrían estar viejos, aunque sí devuelve sus filas al llamador.
func TestClientes_FetchEnVueloNoRepueblaTrasReset(t *testing.T) {
	c := New(DefaultTTL)

	got, err := c.Clientes([]int64{5}, func(missing []int64) ([]*entity.Cliente, error) {
		c.Reset()
		return []*entity.Cliente{{ID: 5, Nombre: "Viejo"}}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Viejo", got[5].Nombre, "el llamador recibe igual el resultado")

	// el cache quedó vacío: la próxima lectura vuelve al store
	var calls [][]int64
	_, err = c.Clientes([]int64{5}, clienteFetcher(t, &calls))
	require.NoError(t, err)
	assert.Len(t, calls, 1)
}

func TestUsuarios_CacheIndependienteDeClientes(t *testing.T) {
	c := New(DefaultTTL)
	var calls int

	_, err := c.Usuarios([]int64{1}, func(missing []int64) ([]*entity.Usuario, error) {
		calls++
		return []*entity.Usuario{{ID: 1, Nombre: "Vendedor"}}, nil
	})
	require.NoError(t, err)

	got, err := c.Usuarios([]int64{1}, func(missing []int64) ([]*entity.Usuario, error) {
		calls++
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "Vendedor", got[1].Nombre)
}

func TestClientes_ErrorDeFetchDevuelveParcial(t *testing.T) {
	c := New(DefaultTTL)
	var calls [][]int64
	_, err := c.Clientes([]int64{1}, clienteFetcher(t, &calls))
	require.NoError(t, err)

	got, err := c.Clientes([]int64{1, 9}, func(missing []int64) ([]*entity.Cliente, error) {
		return nil, assert.AnError
	})
	assert.Error(t, err)
	assert.Contains(t, got, int64(1), "lo que estaba cacheado se devuelve igual")
	assert.NotContains(t, got, int64(9))
}
