package usecases

import (
	"fmt"
	"strings"

	"github.com/plotmaster/plotmaster-api/internal/application/dto"
	"github.com/plotmaster/plotmaster-api/internal/domain"
	"github.com/plotmaster/plotmaster-api/internal/domain/entity"
	"github.com/plotmaster/plotmaster-api/internal/domain/repository"
	"github.com/plotmaster/plotmaster-api/internal/infrastructure/cache"
	"github.com/plotmaster/plotmaster-api/pkg/jwt"
	"github.com/plotmaster/plotmaster-api/pkg/logger"
	"github.com/plotmaster/plotmaster-api/pkg/password"
)

// AuthUseCase maneja login y alta de vendedores y administradores.
type AuthUseCase struct {
	usuarios  repository.UsuarioRepository
	admins    repository.AdministradorRepository
	cache     *cache.LookupCache
	jwtSecret string
	jwtIssuer string
	jwtExpMin int
	log       *logger.Logger
}

func NewAuthUseCase(
	usuarios repository.UsuarioRepository,
	admins repository.AdministradorRepository,
	lookup *cache.LookupCache,
	jwtSecret, jwtIssuer string,
	jwtExpMin int,
	log *logger.Logger,
) *AuthUseCase {
	return &AuthUseCase{
		usuarios:  usuarios,
		admins:    admins,
		cache:     lookup,
		jwtSecret: jwtSecret,
		jwtIssuer: jwtIssuer,
		jwtExpMin: jwtExpMin,
		log:       log,
	}
}

// LoginVendedor valida credenciales de un vendedor activo y emite el token.
func (uc *AuthUseCase) LoginVendedor(req dto.LoginRequest) (*dto.LoginResponse, error) {
	ciRuc := strings.TrimSpace(req.CIRuc)
	if ciRuc == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: ci_ruc y password son obligatorios", domain.ErrValidation)
	}

	u, err := uc.usuarios.GetByCIRuc(ciRuc)
	if err != nil {
		return nil, err
	}
	if u == nil || !password.Verify(req.Password, u.Salt, u.PasswordHash) {
		uc.log.Warn().Str("ci_ruc", ciRuc).Msg("login de vendedor rechazado")
		return nil, domain.ErrUnauthorized
	}
	if u.Estado != entity.EstadoActivo {
		return nil, fmt.Errorf("%w: el usuario está deshabilitado", domain.ErrForbidden)
	}

	token, err := jwt.Generate(uc.jwtSecret, u.ID, u.CIRuc, u.Nombre, jwt.RoleVendedor, uc.jwtIssuer, uc.jwtExpMin)
	if err != nil {
		return nil, fmt.Errorf("generar token: %w", err)
	}

	return &dto.LoginResponse{
		Token:   token,
		Usuario: dto.UsuarioToResponse(u, jwt.RoleVendedor),
	}, nil
}

// LoginAdmin valida credenciales de un administrador y emite el token.
func (uc *AuthUseCase) LoginAdmin(req dto.LoginRequest) (*dto.LoginResponse, error) {
	ciRuc := strings.TrimSpace(req.CIRuc)
	if ciRuc == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: ci_ruc y password son obligatorios", domain.ErrValidation)
	}

	a, err := uc.admins.GetByCIRuc(ciRuc)
	if err != nil {
		return nil, err
	}
	if a == nil || !password.Verify(req.Password, a.Salt, a.PasswordHash) {
		uc.log.Warn().Str("ci_ruc", ciRuc).Msg("login de administrador rechazado")
		return nil, domain.ErrUnauthorized
	}

	token, err := jwt.Generate(uc.jwtSecret, a.ID, a.CIRuc, a.Nombre, jwt.RoleAdmin, uc.jwtIssuer, uc.jwtExpMin)
	if err != nil {
		return nil, fmt.Errorf("generar token: %w", err)
	}

	return &dto.LoginResponse{
		Token: token,
		Usuario: dto.UsuarioResponse{
			ID:     a.ID,
			CIRuc:  a.CIRuc,
			Nombre: a.Nombre,
			Email:  a.Email,
			Rol:    jwt.RoleAdmin,
		},
	}, nil
}

// RegisterVendedor da de alta un vendedor. El ci_ruc es único; el alta nace
// en estado activo y deja el cache referencial limpio.
func (uc *AuthUseCase) RegisterVendedor(req dto.RegisterUsuarioRequest) (*dto.UsuarioResponse, error) {
	if err := validarRegistro(req); err != nil {
		return nil, err
	}

	existente, err := uc.usuarios.GetByCIRuc(strings.TrimSpace(req.CIRuc))
	if err != nil {
		return nil, err
	}
	if existente != nil {
		return nil, fmt.Errorf("%w: ya existe un usuario con ese ci_ruc", domain.ErrConflict)
	}

	salt, hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("derivar password: %w", err)
	}

	u := &entity.Usuario{
		CIRuc:        strings.TrimSpace(req.CIRuc),
		Nombre:       strings.TrimSpace(req.Nombre),
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: hash,
		Salt:         salt,
		Estado:       entity.EstadoActivo,
	}
	creado, err := uc.usuarios.Create(u)
	if err != nil {
		return nil, err
	}

	uc.cache.Reset()
	uc.log.Info().Int64("usuario_id", creado.ID).Msg("vendedor registrado")

	resp := dto.UsuarioToResponse(creado, jwt.RoleVendedor)
	return &resp, nil
}

// RegisterAdmin da de alta un administrador.
func (uc *AuthUseCase) RegisterAdmin(req dto.RegisterUsuarioRequest) (*dto.UsuarioResponse, error) {
	if err := validarRegistro(req); err != nil {
		return nil, err
	}

	existente, err := uc.admins.GetByCIRuc(strings.TrimSpace(req.CIRuc))
	if err != nil {
		return nil, err
	}
	if existente != nil {
		return nil, fmt.Errorf("%w: ya existe un administrador con ese ci_ruc", domain.ErrConflict)
	}

	salt, hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("derivar password: %w", err)
	}

	a := &entity.Administrador{
		CIRuc:        strings.TrimSpace(req.CIRuc),
		Nombre:       strings.TrimSpace(req.Nombre),
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: hash,
		Salt:         salt,
	}
	creado, err := uc.admins.Create(a)
	if err != nil {
		return nil, err
	}

	uc.log.Info().Int64("admin_id", creado.ID).Msg("administrador registrado")

	return &dto.UsuarioResponse{
		ID:     creado.ID,
		CIRuc:  creado.CIRuc,
		Nombre: creado.Nombre,
		Email:  creado.Email,
		Rol:    jwt.RoleAdmin,
	}, nil
}

func validarRegistro(req dto.RegisterUsuarioRequest) error {
	if strings.TrimSpace(req.CIRuc) == "" {
		return fmt.Errorf("%w: el ci_ruc es obligatorio", domain.ErrValidation)
	}
	if strings.TrimSpace(req.Nombre) == "" {
		return fmt.Errorf("%w: el nombre es obligatorio", domain.ErrValidation)
	}
	if len(req.Password) < 6 {
		return fmt.Errorf("%w: el password debe tener al menos 6 caracteres", domain.ErrValidation)
	}
	return nil
}
