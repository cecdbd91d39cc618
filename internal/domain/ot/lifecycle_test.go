package ot_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/plotmaster/plotmaster-api/internal/domain/ot"
)

func TestCanTransition_CaminoFeliz(t *testing.T) {
	assert.True(t, ot.CanTransition(ot.StatusPendiente, ot.StatusAprobado))
	assert.True(t, ot.CanTransition(ot.StatusAprobado, ot.StatusEntregado))
	assert.True(t, ot.CanTransition(ot.StatusEntregado, ot.StatusFinalizado))
}

func TestCanTransition_SalidasLaterales(t *testing.T) {
	assert.True(t, ot.CanTransition(ot.StatusPendiente, ot.StatusRechazado))
	// Cancelado se alcanza desde cualquier estado no terminal
	assert.True(t, ot.CanTransition(ot.StatusPendiente, ot.StatusCancelado))
	assert.True(t, ot.CanTransition(ot.StatusAprobado, ot.StatusCancelado))
	assert.True(t, ot.CanTransition(ot.StatusEntregado, ot.StatusCancelado))
}

func TestCanTransition_NoSePuedeSaltarEtapas(t *testing.T) {
	assert.False(t, ot.CanTransition(ot.StatusPendiente, ot.StatusEntregado))
	assert.False(t, ot.CanTransition(ot.StatusPendiente, ot.StatusFinalizado))
	assert.False(t, ot.CanTransition(ot.StatusAprobado, ot.StatusFinalizado))
	// no hay vuelta atrás
	assert.False(t, ot.CanTransition(ot.StatusAprobado, ot.StatusPendiente))
	assert.False(t, ot.CanTransition(ot.StatusEntregado, ot.StatusAprobado))
}

// Los estados terminales rechazan toda transición posterior.
func TestCanTransition_TerminalesRechazanTodo(t *testing.T) {
	for _, terminal := range []ot.Status{ot.StatusFinalizado, ot.StatusCancelado, ot.StatusRechazado} {
		assert.True(t, terminal.IsTerminal())
		for _, destino := range ot.Statuses {
			if destino == terminal {
				continue
			}
			assert.False(t, ot.CanTransition(terminal, destino),
				"%s -> %s no debería estar permitido", terminal, destino)
		}
	}
}

func TestValidateTransition_Mensajes(t *testing.T) {
	assert.NoError(t, ot.ValidateTransition(ot.StatusPendiente, ot.StatusAprobado))

	err := ot.ValidateTransition(ot.StatusCancelado, ot.StatusAprobado)
	assert.Error(t, err, "una orden cancelada no admite cambios")

	err = ot.ValidateTransition(ot.StatusAprobado, ot.StatusAprobado)
	assert.Error(t, err, "repetir el mismo estado debe rechazarse")

	// los valores se canonicalizan antes de comparar
	assert.NoError(t, ot.ValidateTransition("pendiente", "APROBADO"))
}

func TestDelivered(t *testing.T) {
	assert.False(t, ot.StatusPendiente.Delivered())
	assert.False(t, ot.StatusAprobado.Delivered())
	assert.True(t, ot.StatusEntregado.Delivered())
	assert.True(t, ot.StatusFinalizado.Delivered())
	assert.False(t, ot.StatusCancelado.Delivered())
}
