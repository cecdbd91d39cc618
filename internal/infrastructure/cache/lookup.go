// Package cache implementa el cache corto de tablas referenciales (clientes y
// usuarios) que usan los listados para resolver nombres sin volver a pedir
// cada fila. Toda la estructura comparte un único vencimiento: al expirar o al
// mutar un cliente/usuario se vacía completa, nunca por clave.
package cache

import (
	"sync"
	"time"

	"github.com/plotmaster/plotmaster-api/internal/domain/entity"
)

// DefaultTTL vencimiento del cache referencial.
const DefaultTTL = 90 * time.Second

// LookupCache es seguro para uso concurrente. Las lecturas en vuelo se marcan
// con la generación vigente al despachar: si un Reset ocurre antes de que el
// fetch vuelva, el resultado no se mezcla al cache (los nombres viejos no
// pueden reaparecer después de una edición).
type LookupCache struct {
	mu        sync.Mutex
	ttl       time.Duration
	now       func() time.Time
	expiresAt time.Time
	gen       uint64
	clientes  map[int64]entity.Cliente
	usuarios  map[int64]entity.Usuario
}

// New crea el cache con el TTL indicado (usar DefaultTTL salvo en tests).
func New(ttl time.Duration) *LookupCache {
	return &LookupCache{
		ttl:      ttl,
		now:      time.Now,
		clientes: make(map[int64]entity.Cliente),
		usuarios: make(map[int64]entity.Usuario),
	}
}

// Reset vacía ambos sub-mapas y rearma el vencimiento. Debe llamarse tras
// cualquier mutación exitosa de clientes o usuarios.
func (c *LookupCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
}

// reset requiere c.mu tomado.
func (c *LookupCache) reset() {
	c.clientes = make(map[int64]entity.Cliente)
	c.usuarios = make(map[int64]entity.Usuario)
	c.expiresAt = c.now().Add(c.ttl)
	c.gen++
}

// ensure vacía el cache si venció. Requiere c.mu tomado.
func (c *LookupCache) ensure() {
	if c.now().After(c.expiresAt) {
		c.reset()
	}
}

// Clientes resuelve un conjunto de ids: sirve desde el cache lo que tiene
// vigente y pide el resto a fetch en una sola ida. El resultado del fetch se
// devuelve siempre, pero solo se incorpora al cache si no hubo Reset mientras
// la llamada estaba en vuelo.
func (c *LookupCache) Clientes(ids []int64, fetch func(missing []int64) ([]*entity.Cliente, error)) (map[int64]entity.Cliente, error) {
	result := make(map[int64]entity.Cliente)
	if len(ids) == 0 {
		return result, nil
	}

	c.mu.Lock()
	c.ensure()
	gen := c.gen
	var missing []int64
	seen := make(map[int64]bool)
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		if row, ok := c.clientes[id]; ok {
			result[id] = row
		} else {
			missing = append(missing, id)
		}
	}
	c.mu.Unlock()

	if len(missing) == 0 {
		return result, nil
	}

	rows, err := fetch(missing)
	if err != nil {
		return result, err
	}

	c.mu.Lock()
	stale := c.gen != gen
	for _, r := range rows {
		if r == nil {
			continue
		}
		result[r.ID] = *r
		if !stale {
			c.clientes[r.ID] = *r
		}
	}
	c.mu.Unlock()
	return result, nil
}

// Usuarios resuelve ids de vendedores con la misma política que Clientes.
func (c *LookupCache) Usuarios(ids []int64, fetch func(missing []int64) ([]*entity.Usuario, error)) (map[int64]entity.Usuario, error) {
	result := make(map[int64]entity.Usuario)
	if len(ids) == 0 {
		return result, nil
	}

	c.mu.Lock()
	c.ensure()
	gen := c.gen
	var missing []int64
	seen := make(map[int64]bool)
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		if row, ok := c.usuarios[id]; ok {
			result[id] = row
		} else {
			missing = append(missing, id)
		}
	}
	c.mu.Unlock()

	if len(missing) == 0 {
		return result, nil
	}

	rows, err := fetch(missing)
	if err != nil {
		return result, err
	}

	c.mu.Lock()
	stale := c.gen != gen
	for _, r := range rows {
		if r == nil {
			continue
		}
		result[r.ID] = *r
		if !stale {
			c.usuarios[r.ID] = *r
		}
	}
	c.mu.Unlock()
	return result, nil
}
