package dto

import "time"

// ReporteFilter criterios de filtrado para listados y exportaciones.
// Los filtros de texto se comparan sin distinguir mayúsculas ni acentos y
// se combinan con AND; el rango de fechas es inclusivo en ambos extremos.
type ReporteFilter struct {
	Desde     *time.Time `json:"desde"`
	Hasta     *time.Time `json:"hasta"`
	Cliente   string     `json:"cliente"`
	Vendedor  string     `json:"vendedor"`
	Status    string     `json:"status"`
	FormaPago string     `json:"forma_pago"`
	// Ascendente ordena por fecha de creación ascendente; por defecto el
	// listado sale de la más nueva a la más vieja.
	Ascendente bool `json:"ascendente"`
}
