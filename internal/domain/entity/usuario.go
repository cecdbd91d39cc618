package entity

import "time"

// Estados de cuenta para usuarios y administradores.
const (
	EstadoActivo   = "activo"
	EstadoInactivo = "inactivo"
)

// Usuario representa a un vendedor (tabla usuarios). Los vendedores crean y
// consultan órdenes de trabajo; no aprueban ni cancelan.
type Usuario struct {
	ID            int64
	CIRuc         string
	Nombre        string
	Email         string
	PasswordHash  string // PBKDF2-HMAC-SHA256, hex
	Salt          string // hex, participa como bytes ASCII en la derivación
	Estado        string // activo, inactivo
	FechaRegistro time.Time
}

// Administrador representa a un administrador (tabla administradores, disjunta
// de usuarios: no comparten filas ni ids).
type Administrador struct {
	ID            int64
	CIRuc         string
	Nombre        string
	Email         string
	PasswordHash  string
	Salt          string
	Estado        string
	FechaRegistro time.Time
}
