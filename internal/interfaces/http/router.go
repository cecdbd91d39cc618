package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/plotmaster/plotmaster-api/pkg/jwt"
)

// RouterDeps dependencias del router: handlers ya construidos y el secreto JWT.
type RouterDeps struct {
	JWTSecret string

	Auth     *AuthHandler
	Clientes *ClienteHandler
	Ordenes  *OrdenHandler
	Usuarios *UsuarioHandler
	Reportes *ReporteHandler
}

// SetupRoutes registra todas las rutas de la API.
//
// Reglas de acceso:
//   - /auth/login/* y /health son públicas.
//   - El resto exige token; el rol sale del token firmado, nunca del cliente.
//   - Altas de usuarios, bajas y administración de vendedores son solo admin.
func SetupRoutes(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/login/vendedor", deps.Auth.LoginVendedor)
	auth.Post("/login/admin", deps.Auth.LoginAdmin)

	protected := api.Group("", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(jwt.RoleAdmin)
	anyRole := RequireRole(jwt.RoleAdmin, jwt.RoleVendedor)

	// Registro de cuentas: solo un admin da de alta vendedores u otros admins.
	protected.Post("/auth/register/vendedor", adminOnly, deps.Auth.RegisterVendedor)
	protected.Post("/auth/register/admin", adminOnly, deps.Auth.RegisterAdmin)

	clientes := protected.Group("/clientes", anyRole)
	clientes.Get("/next-number", deps.Clientes.NextNumber)
	clientes.Get("/", deps.Clientes.List)
	clientes.Post("/", deps.Clientes.Register)
	clientes.Get("/:ciRuc", deps.Clientes.Find)
	clientes.Put("/:ciRuc", deps.Clientes.Update)
	clientes.Delete("/:ciRuc", adminOnly, deps.Clientes.Delete)

	ordenes := protected.Group("/ordenes", anyRole)
	ordenes.Get("/next-number", deps.Ordenes.NextNumber)
	ordenes.Get("/", deps.Ordenes.List)
	ordenes.Post("/", deps.Ordenes.Create)
	ordenes.Get("/:otNro", deps.Ordenes.Get)
	ordenes.Put("/:otNro", deps.Ordenes.UpdateDetalles)
	ordenes.Put("/:otNro/valor", deps.Ordenes.UpdateValor)
	// Las mutaciones del libro y las transiciones de estado las decide el rol
	// del token, no la UI: un abono puede aprobar una orden pendiente.
	ordenes.Post("/:otNro/abonos", adminOnly, deps.Ordenes.RegisterPayment)
	ordenes.Post("/:otNro/aprobar", adminOnly, deps.Ordenes.Approve)
	ordenes.Post("/:otNro/rechazar", adminOnly, deps.Ordenes.Reject)
	ordenes.Post("/:otNro/entregar", adminOnly, deps.Ordenes.Deliver)
	ordenes.Post("/:otNro/finalizar", adminOnly, deps.Ordenes.Finalize)
	ordenes.Post("/:otNro/cancelar", adminOnly, deps.Ordenes.Cancel)
	ordenes.Delete("/:otNro/abonos/:abonoID", adminOnly, deps.Ordenes.DeletePayment)
	ordenes.Delete("/:otNro", adminOnly, deps.Ordenes.Delete)

	usuarios := protected.Group("/usuarios", adminOnly)
	usuarios.Get("/", deps.Usuarios.List)
	usuarios.Put("/:id/estado", deps.Usuarios.UpdateEstado)

	reportes := protected.Group("/reportes", anyRole)
	reportes.Get("/ordenes", deps.Reportes.Filter)
	reportes.Get("/ordenes/csv", deps.Reportes.ExportCSV)
	reportes.Get("/ordenes/pdf/:anio/:mes", deps.Reportes.ExportMonthlyPDF)
}
