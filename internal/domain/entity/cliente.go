package entity

import "time"

// Zonas válidas para un cliente: ciudades del Departamento Central más "Otro".
var ZonasValidas = []string{
	"Areguá", "Asunción", "Capiatá", "Fernando de la Mora", "Guarambaré",
	"Itá", "Itauguá", "J. Augusto Saldívar", "Lambaré",
	"Limpio", "Luque", "Mariano Roque Alonso", "Nueva Italia", "Ñemby",
	"San Antonio", "San Lorenzo", "Villa Elisa", "Villeta", "Ypané",
	"Ypacaraí", "Otro",
}

// ZonaValida indica si la zona pertenece a la lista fija.
func ZonaValida(zona string) bool {
	for _, z := range ZonasValidas {
		if z == zona {
			return true
		}
	}
	return false
}

// Cliente representa un cliente de la imprenta. El CI/RUC es la clave natural
// (única en la tabla clientes); el ID lo asigna el servidor.
type Cliente struct {
	ID        int64
	CIRuc     string
	Nombre    string
	Telefono  string
	Email     string
	Zona      string
	CreatedAt time.Time
}
