package usecases

import (
	"errors"
	"fmt"

	"github.com/plotmaster/plotmaster-api/internal/application/dto"
	"github.com/plotmaster/plotmaster-api/internal/domain"
	"github.com/plotmaster/plotmaster-api/internal/domain/entity"
	"github.com/plotmaster/plotmaster-api/internal/domain/repository"
	"github.com/plotmaster/plotmaster-api/internal/infrastructure/cache"
	"github.com/plotmaster/plotmaster-api/pkg/jwt"
	"github.com/plotmaster/plotmaster-api/pkg/logger"
)

// UsuarioUseCase administración de vendedores, reservada a administradores.
type UsuarioUseCase struct {
	usuarios repository.UsuarioRepository
	cache    *cache.LookupCache
	log      *logger.Logger
}

func NewUsuarioUseCase(usuarios repository.UsuarioRepository, lookup *cache.LookupCache, log *logger.Logger) *UsuarioUseCase {
	return &UsuarioUseCase{usuarios: usuarios, cache: lookup, log: log}
}

// List devuelve todos los vendedores. Con el almacén caído devuelve lista vacía.
func (uc *UsuarioUseCase) List() ([]dto.UsuarioResponse, error) {
	usuarios, err := uc.usuarios.List()
	if err != nil {
		if errors.Is(err, domain.ErrConnectionUnavailable) {
			return []dto.UsuarioResponse{}, nil
		}
		return nil, err
	}
	out := make([]dto.UsuarioResponse, 0, len(usuarios))
	for _, u := range usuarios {
		out = append(out, dto.UsuarioToResponse(u, jwt.RoleVendedor))
	}
	return out, nil
}

// UpdateEstado habilita o deshabilita un vendedor. Un vendedor inactivo no
// puede iniciar sesión pero sus órdenes históricas quedan intactas.
func (uc *UsuarioUseCase) UpdateEstado(id int64, estado string) (*dto.UsuarioResponse, error) {
	if estado != entity.EstadoActivo && estado != entity.EstadoInactivo {
		return nil, fmt.Errorf("%w: estado desconocido: %s", domain.ErrValidation, estado)
	}

	if err := uc.usuarios.UpdateEstado(id, estado); err != nil {
		return nil, err
	}

	uc.cache.Reset()
	uc.log.Info().Int64("usuario_id", id).Str("estado", estado).Msg("estado de vendedor actualizado")

	u, err := uc.usuarios.GetByID(id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	resp := dto.UsuarioToResponse(u, jwt.RoleVendedor)
	return &resp, nil
}
