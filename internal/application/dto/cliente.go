package dto

import (
	"time"

	"github.com/plotmaster/plotmaster-api/internal/domain/entity"
)

// CreateClienteRequest alta de cliente. CIRuc y Nombre son obligatorios,
// Zona debe pertenecer a la lista de zonas válidas si viene cargada.
type CreateClienteRequest struct {
	CIRuc    string `json:"ci_ruc"`
	Nombre   string `json:"nombre"`
	Telefono string `json:"telefono"`
	Email    string `json:"email"`
	Zona     string `json:"zona"`
}

// UpdateClienteRequest edición parcial: solo los campos presentes se tocan.
type UpdateClienteRequest struct {
	Nombre   *string `json:"nombre"`
	Telefono *string `json:"telefono"`
	Email    *string `json:"email"`
	Zona     *string `json:"zona"`
}

type ClienteResponse struct {
	ID        int64     `json:"id"`
	CIRuc     string    `json:"ci_ruc"`
	Nombre    string    `json:"nombre"`
	Telefono  string    `json:"telefono,omitempty"`
	Email     string    `json:"email,omitempty"`
	Zona      string    `json:"zona,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

func ClienteToResponse(c *entity.Cliente) ClienteResponse {
	return ClienteResponse{
		ID:        c.ID,
		CIRuc:     c.CIRuc,
		Nombre:    c.Nombre,
		Telefono:  c.Telefono,
		Email:     c.Email,
		Zona:      c.Zona,
		CreatedAt: c.CreatedAt,
	}
}

func ClientesToResponse(clientes []*entity.Cliente) []ClienteResponse {
	out := make([]ClienteResponse, 0, len(clientes))
	for _, c := range clientes {
		out = append(out, ClienteToResponse(c))
	}
	return out
}
