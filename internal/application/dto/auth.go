package dto

import (
	"time"

	"github.com/plotmaster/plotmaster-api/internal/domain/entity"
)

// LoginRequest credenciales de ingreso. El rol lo determina la ruta.
type LoginRequest struct {
	CIRuc    string `json:"ci_ruc"`
	Password string `json:"password"`
}

// LoginResponse token firmado más los datos visibles del usuario.
type LoginResponse struct {
	Token   string          `json:"token"`
	Usuario UsuarioResponse `json:"usuario"`
}

// RegisterUsuarioRequest alta de un vendedor o administrador.
type RegisterUsuarioRequest struct {
	CIRuc    string `json:"ci_ruc"`
	Nombre   string `json:"nombre"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UsuarioResponse nunca incluye hash ni salt.
type UsuarioResponse struct {
	ID            int64     `json:"id"`
	CIRuc         string    `json:"ci_ruc"`
	Nombre        string    `json:"nombre"`
	Email         string    `json:"email,omitempty"`
	Rol           string    `json:"rol"`
	Estado        string    `json:"estado,omitempty"`
	FechaRegistro time.Time `json:"fecha_registro,omitempty"`
}

// UsuarioToResponse arma la vista pública de un vendedor.
func UsuarioToResponse(u *entity.Usuario, rol string) UsuarioResponse {
	return UsuarioResponse{
		ID:            u.ID,
		CIRuc:         u.CIRuc,
		Nombre:        u.Nombre,
		Email:         u.Email,
		Rol:           rol,
		Estado:        u.Estado,
		FechaRegistro: u.FechaRegistro,
	}
}

// UpdateEstadoRequest habilita o deshabilita un vendedor.
type UpdateEstadoRequest struct {
	Estado string `json:"estado"`
}
