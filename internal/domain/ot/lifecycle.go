package ot

import "fmt"

// Máquina de estados:
//
//	Pendiente -> Aprobado -> Entregado -> Finalizado
//	     \          |            |
//	      \---------+------------+--> Cancelado (requiere admin + motivo)
//	       \--> Rechazado
//
// Finalizado, Cancelado y Rechazado son terminales: no admiten ninguna
// transición posterior.
var transitions = map[Status][]Status{
	StatusPendiente: {StatusAprobado, StatusRechazado, StatusCancelado},
	StatusAprobado:  {StatusEntregado, StatusCancelado},
	StatusEntregado: {StatusFinalizado, StatusCancelado},
}

// IsTerminal indica si el estado no admite más transiciones.
func (s Status) IsTerminal() bool {
	return s == StatusFinalizado || s == StatusCancelado || s == StatusRechazado
}

// Delivered indica si la orden llegó al menos a Entregado (la fecha de entrega
// solo existe en ese tramo).
func (s Status) Delivered() bool {
	return s == StatusEntregado || s == StatusFinalizado
}

// CanTransition indica si la transición from -> to está permitida.
func CanTransition(from, to Status) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// ValidateTransition devuelve un error descriptivo si la transición no está
// permitida. Los estados se canonicalizan antes de comparar.
func ValidateTransition(from, to Status) error {
	from = Normalize(string(from))
	to = Normalize(string(to))
	if from == to {
		return fmt.Errorf("la orden ya está en estado %s", from)
	}
	if from.IsTerminal() {
		return fmt.Errorf("la orden está en estado terminal %s y no admite cambios", from)
	}
	if !CanTransition(from, to) {
		return fmt.Errorf("transición no permitida: %s -> %s", from, to)
	}
	return nil
}
