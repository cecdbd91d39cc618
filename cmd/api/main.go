package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/plotmaster/plotmaster-api/internal/application/usecases"
	"github.com/plotmaster/plotmaster-api/internal/domain/repository"
	"github.com/plotmaster/plotmaster-api/internal/infrastructure/cache"
	infrapdf "github.com/plotmaster/plotmaster-api/internal/infrastructure/pdf"
	"github.com/plotmaster/plotmaster-api/internal/infrastructure/postgres"
	"github.com/plotmaster/plotmaster-api/internal/infrastructure/supabase"
	httpapi "github.com/plotmaster/plotmaster-api/internal/interfaces/http"
	"github.com/plotmaster/plotmaster-api/pkg/config"
	"github.com/plotmaster/plotmaster-api/pkg/logger"
)

// repos agrupa las implementaciones elegidas según STORE_DRIVER.
type repos struct {
	clientes      repository.ClienteRepository
	usuarios      repository.UsuarioRepository
	admins        repository.AdministradorRepository
	ordenes       repository.OrdenRepository
	abonos        repository.AbonoRepository
	cancelaciones repository.CancelacionRepository
	close         func()
}

func buildRepos(cfg *config.Config, log *logger.Logger) repos {
	if cfg.Store.Driver == config.DriverPostgres {
		pool, err := postgres.NewPool(context.Background(), cfg.Store)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		return repos{
			clientes:      postgres.NewClienteRepository(pool),
			usuarios:      postgres.NewUsuarioRepository(pool),
			admins:        postgres.NewAdministradorRepository(pool),
			ordenes:       postgres.NewOrdenRepository(pool),
			abonos:        postgres.NewAbonoRepository(pool),
			cancelaciones: postgres.NewCancelacionRepository(pool),
			close:         pool.Close,
		}
	}

	store := supabase.NewStore(cfg.Store.SupabaseURL, cfg.Store.SupabaseKey)
	if !store.Disponible() {
		log.Warn().Msg("sin credenciales de Supabase: la API arranca en modo degradado")
	}
	return repos{
		clientes:      supabase.NewClienteRepository(store),
		usuarios:      supabase.NewUsuarioRepository(store),
		admins:        supabase.NewAdministradorRepository(store),
		ordenes:       supabase.NewOrdenRepository(store),
		abonos:        supabase.NewAbonoRepository(store),
		cancelaciones: supabase.NewCancelacionRepository(store),
		close:         func() {},
	}
}

func main() {
	// .env local; en producción las variables vienen del entorno.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	r := buildRepos(cfg, log)
	defer r.close()

	lookup := cache.New(cache.DefaultTTL)

	authUC := usecases.NewAuthUseCase(r.usuarios, r.admins, lookup, cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration, log)
	ordenUC := usecases.NewOrdenUseCase(r.ordenes, r.abonos, r.cancelaciones, r.clientes, r.usuarios, lookup, log)
	clienteUC := usecases.NewClienteUseCase(r.clientes, lookup, log)
	usuarioUC := usecases.NewUsuarioUseCase(r.usuarios, lookup, log)
	reporteUC := usecases.NewReporteUseCase(r.ordenes, ordenUC, infrapdf.NewMarotoPDFGenerator(), log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpapi.SetupRoutes(app, httpapi.RouterDeps{
		JWTSecret: cfg.JWT.Secret,
		Auth:      httpapi.NewAuthHandler(authUC, log),
		Clientes:  httpapi.NewClienteHandler(clienteUC, log),
		Ordenes:   httpapi.NewOrdenHandler(ordenUC, log),
		Usuarios:  httpapi.NewUsuarioHandler(usuarioUC, log),
		Reportes:  httpapi.NewReporteHandler(reporteUC, log),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
