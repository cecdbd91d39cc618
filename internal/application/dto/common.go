package dto

// ErrorResponse es la forma uniforme de los errores HTTP de la API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse respuesta mínima para operaciones sin cuerpo propio.
type MessageResponse struct {
	Message string `json:"message"`
}

// NextNumberResponse expone los números sugeridos (próxima OT, próximo cliente).
// El valor es orientativo: la unicidad real la garantiza la base al insertar.
type NextNumberResponse struct {
	Next int64 `json:"next"`
}
