// Package ot contiene la lógica pura del ciclo de vida de una orden de
// trabajo: el conjunto cerrado de estados, su canonicalización y las
// transiciones permitidas. No depende del almacén ni de la capa HTTP.
package ot

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Status es el estado canónico de una orden de trabajo.
type Status string

const (
	StatusPendiente  Status = "Pendiente"
	StatusAprobado   Status = "Aprobado"
	StatusRechazado  Status = "Rechazado"
	StatusEntregado  Status = "Entregado"
	StatusFinalizado Status = "Finalizado"
	StatusCancelado  Status = "Cancelado"
)

// Statuses enumera los seis estados canónicos.
var Statuses = []Status{
	StatusPendiente, StatusAprobado, StatusRechazado,
	StatusEntregado, StatusFinalizado, StatusCancelado,
}

// Fold normaliza una cadena para comparación: minúsculas, sin espacios en los
// extremos y sin diacríticos ("Crédito" -> "credito"). Se usa tanto para
// estados como para formas de pago en los filtros de reportes.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// Normalize canonicaliza cualquier cadena de estado (incluidos valores libres
// heredados de planillas viejas) a exactamente uno de los seis estados. Los
// valores no reconocidos caen a Pendiente. Es idempotente:
// Normalize(string(Normalize(s))) == Normalize(s).
func Normalize(s string) Status {
	f := Fold(s)
	switch {
	case f == "":
		return StatusPendiente
	case strings.Contains(f, "entreg"):
		return StatusEntregado
	case strings.HasPrefix(f, "rechaz"):
		return StatusRechazado
	case strings.HasPrefix(f, "cancel") || strings.HasPrefix(f, "anulad"):
		return StatusCancelado
	case strings.HasPrefix(f, "final"):
		return StatusFinalizado
	// "aprovado" aparece en datos históricos cargados a mano
	case strings.HasPrefix(f, "aprob") || strings.HasPrefix(f, "aprov"):
		return StatusAprobado
	case strings.HasPrefix(f, "pend") || f == "pending":
		return StatusPendiente
	default:
		return StatusPendiente
	}
}
