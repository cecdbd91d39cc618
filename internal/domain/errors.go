package domain

import "errors"

// Errores de dominio (sin dependencias externas). Toda llamada al almacén
// remoto se normaliza a uno de estos antes de cruzar a la capa HTTP.
var (
	// ErrConnectionUnavailable indica que no hay cliente de backend configurado
	// (faltan credenciales). Las operaciones de lectura degradan a valores por
	// defecto en vez de fallar.
	ErrConnectionUnavailable = errors.New("no hay conexión con la base de datos")

	ErrValidation = errors.New("entrada inválida")
	ErrNotFound   = errors.New("recurso no encontrado")
	ErrConflict   = errors.New("el registro ya existe")
	ErrPermission = errors.New("permiso denegado por el backend")

	ErrClienteNotFound  = errors.New("cliente no encontrado")
	ErrVendedorNotFound = errors.New("vendedor no encontrado")
	ErrOrdenNotFound    = errors.New("orden de trabajo no encontrada")
	ErrAbonoNotFound    = errors.New("abono no encontrado")

	ErrUnauthorized = errors.New("credenciales inválidas")
	ErrForbidden    = errors.New("acceso denegado")
)
