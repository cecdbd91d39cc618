// Package supabase implementa los repositorios del dominio sobre PostgREST.
// Las consultas se limitan a igualdad por columna; ordenamientos, máximos y
// filtros por lote se resuelven del lado del cliente, que para los volúmenes
// del negocio alcanza de sobra.
package supabase

import (
	"fmt"
	"strings"
	"time"

	supa "github.com/nedpals/supabase-go"

	"github.com/plotmaster/plotmaster-api/internal/domain"
)

// Store envuelve el cliente de Supabase. Un Store sin credenciales queda en
// modo degradado: cada operación devuelve ErrConnectionUnavailable y los
// casos de uso responden con valores por defecto en lugar de caerse.
type Store struct {
	db *supa.Client
}

// NewStore crea el Store. Con credenciales vacías el cliente queda nulo.
func NewStore(url, key string) *Store {
	if url == "" || key == "" {
		return &Store{}
	}
	return &Store{db: supa.CreateClient(url, key)}
}

// Disponible indica si hay conexión configurada.
func (s *Store) Disponible() bool {
	return s != nil && s.db != nil
}

func (s *Store) cliente() (*supa.Client, error) {
	if !s.Disponible() {
		return nil, domain.ErrConnectionUnavailable
	}
	return s.db, nil
}

// mapError traduce los errores de PostgREST a los errores del dominio.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "duplicate") || strings.Contains(msg, "23505") || strings.Contains(msg, "unique"):
		return fmt.Errorf("%s: %w", op, domain.ErrConflict)
	case strings.Contains(msg, "row-level security") || strings.Contains(msg, "42501"):
		return fmt.Errorf("%s: %w", op, domain.ErrPermission)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// Formatos de fecha que devuelve PostgREST según el tipo de columna.
var formatosFecha = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseFecha(s string) time.Time {
	for _, f := range formatosFecha {
		if t, err := time.Parse(f, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func parseFechaPtr(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t := parseFecha(*s)
	if t.IsZero() {
		return nil
	}
	return &t
}

func formatFecha(t time.Time) string {
	return t.Format(time.RFC3339)
}
