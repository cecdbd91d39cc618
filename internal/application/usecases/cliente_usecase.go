package usecases

import (
	"errors"
	"fmt"
	"strings"

	"github.com/plotmaster/plotmaster-api/internal/application/dto"
	"github.com/plotmaster/plotmaster-api/internal/domain"
	"github.com/plotmaster/plotmaster-api/internal/domain/entity"
	"github.com/plotmaster/plotmaster-api/internal/domain/repository"
	"github.com/plotmaster/plotmaster-api/internal/infrastructure/cache"
	"github.com/plotmaster/plotmaster-api/pkg/logger"
)

// ClienteUseCase administra el padrón de clientes.
type ClienteUseCase struct {
	clientes repository.ClienteRepository
	cache    *cache.LookupCache
	log      *logger.Logger
}

func NewClienteUseCase(clientes repository.ClienteRepository, lookup *cache.LookupCache, log *logger.Logger) *ClienteUseCase {
	return &ClienteUseCase{clientes: clientes, cache: lookup, log: log}
}

// NextClientNumber devuelve el próximo número de cliente sugerido. Con el
// almacén caído devuelve 1.
func (uc *ClienteUseCase) NextClientNumber() (int64, error) {
	max, err := uc.clientes.MaxID()
	if err != nil {
		if errors.Is(err, domain.ErrConnectionUnavailable) {
			return 1, nil
		}
		return 0, err
	}
	return max + 1, nil
}

// Register da de alta un cliente. El ci_ruc es único y la zona, si viene,
// debe pertenecer a la lista de zonas de entrega.
func (uc *ClienteUseCase) Register(req dto.CreateClienteRequest) (*dto.ClienteResponse, error) {
	ciRuc := strings.TrimSpace(req.CIRuc)
	if ciRuc == "" {
		return nil, fmt.Errorf("%w: el ci_ruc es obligatorio", domain.ErrValidation)
	}
	if strings.TrimSpace(req.Nombre) == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrValidation)
	}
	if req.Zona != "" && !entity.ZonaValida(req.Zona) {
		return nil, fmt.Errorf("%w: zona de entrega desconocida: %s", domain.ErrValidation, req.Zona)
	}

	existente, err := uc.clientes.GetByCIRuc(ciRuc)
	if err != nil {
		return nil, err
	}
	if existente != nil {
		return nil, fmt.Errorf("%w: ya existe un cliente con ci_ruc %s", domain.ErrConflict, ciRuc)
	}

	creado, err := uc.clientes.Create(&entity.Cliente{
		CIRuc:    ciRuc,
		Nombre:   strings.TrimSpace(req.Nombre),
		Telefono: strings.TrimSpace(req.Telefono),
		Email:    strings.TrimSpace(req.Email),
		Zona:     req.Zona,
	})
	if err != nil {
		return nil, err
	}

	uc.cache.Reset()
	uc.log.Info().Int64("cliente_id", creado.ID).Str("ci_ruc", creado.CIRuc).Msg("cliente registrado")

	resp := dto.ClienteToResponse(creado)
	return &resp, nil
}

// Find busca un cliente por ci_ruc.
func (uc *ClienteUseCase) Find(ciRuc string) (*dto.ClienteResponse, error) {
	c, err := uc.clientes.GetByCIRuc(strings.TrimSpace(ciRuc))
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrClienteNotFound
	}
	resp := dto.ClienteToResponse(c)
	return &resp, nil
}

// List devuelve el padrón completo. Con el almacén caído devuelve lista vacía.
func (uc *ClienteUseCase) List() ([]dto.ClienteResponse, error) {
	clientes, err := uc.clientes.List()
	if err != nil {
		if errors.Is(err, domain.ErrConnectionUnavailable) {
			return []dto.ClienteResponse{}, nil
		}
		return nil, err
	}
	return dto.ClientesToResponse(clientes), nil
}

// Update edita un cliente. Toda mutación exitosa limpia el cache referencial
// para que los listados no muestren nombres viejos.
func (uc *ClienteUseCase) Update(ciRuc string, req dto.UpdateClienteRequest) (*dto.ClienteResponse, error) {
	if req.Zona != nil && *req.Zona != "" && !entity.ZonaValida(*req.Zona) {
		return nil, fmt.Errorf("%w: zona de entrega desconocida: %s", domain.ErrValidation, *req.Zona)
	}

	err := uc.clientes.Update(strings.TrimSpace(ciRuc), repository.ClienteUpdate{
		Nombre:   req.Nombre,
		Telefono: req.Telefono,
		Email:    req.Email,
		Zona:     req.Zona,
	})
	if err != nil {
		return nil, err
	}

	uc.cache.Reset()
	return uc.Find(ciRuc)
}

// Delete elimina un cliente del padrón.
func (uc *ClienteUseCase) Delete(ciRuc string) error {
	if err := uc.clientes.Delete(strings.TrimSpace(ciRuc)); err != nil {
		return err
	}
	uc.cache.Reset()
	uc.log.Info().Str("ci_ruc", ciRuc).Msg("cliente eliminado")
	return nil
}
