package handler

import (
	"github.com/gofiber/fiber/v2"

	"go-dairy-ledger/internal/middleware"
	"go-dairy-ledger/pkg/jwt"
)

type Handlers struct {
	Auth      *AuthHandler
	Admin     *AdminHandler
	Products  *ProductHandler
	StockIns  *StockInHandler
	Sales     *SaleHandler
	Reports   *ReportHandler
	Dashboard *DashboardHandler
}

// RegisterRoutes mounts every route behind the session middleware. Gates are
// attached per route so an anonymous tenant request still gets its redirect.
func RegisterRoutes(app *fiber.App, h Handlers, signer *jwt.Signer) {
	app.Use(middleware.Session(signer))

	authed := middleware.RequireSession()
	admin := middleware.RequireAdmin()
	dairy := middleware.RequireDairy()

	// ============ PUBLIC ROUTES ============
	app.Post("/login", h.Auth.Login)
	app.Post("/logout", h.Auth.Logout)

	// ============ SESSION ROUTES ============
	app.Get("/me", authed, h.Auth.Me)

	app.Get("/reports", authed, h.Reports.GetReport)
	app.Post("/reports", authed, h.Reports.GetReport)
	app.Get("/reports/export", authed, h.Reports.DownloadExport)
	app.Get("/reports/pdf", authed, h.Reports.DownloadPDF)

	// ============ ADMIN ROUTES ============
	app.Get("/admin/dairies", admin, h.Admin.GetDairies)
	app.Post("/admin/dairies", admin, h.Admin.CreateDairy)
	app.Post("/admin/dairies/:id/logo", admin, h.Admin.UpdateLogo)
	app.Post("/admin/dairies/:id/view", admin, h.Auth.ViewDairy)
	app.Post("/admin/return", admin, h.Auth.Return)

	// ============ TENANT ROUTES ============
	// A dairy login or an impersonating admin
	app.Get("/dashboard", dairy, h.Dashboard.GetDashboard)

	app.Get("/products", dairy, h.Products.GetProducts)
	app.Post("/products", dairy, h.Products.CreateProduct)
	app.Put("/products/:id", dairy, h.Products.UpdateProduct)
	app.Delete("/products/:id", dairy, h.Products.DeleteProduct)

	app.Get("/stock-in", dairy, h.StockIns.GetStockIns)
	app.Post("/stock-in", dairy, h.StockIns.CreateStockIn)
	app.Get("/stock-in/:id", dairy, h.StockIns.GetStockIn)
	app.Put("/stock-in/:id", dairy, h.StockIns.UpdateStockIn)
	app.Delete("/stock-in/:id", dairy, h.StockIns.DeleteStockIn)

	app.Get("/sales", dairy, h.Sales.GetSales)
	app.Post("/sales", dairy, h.Sales.CreateSale)
	app.Get("/sales/:id", dairy, h.Sales.GetSale)
	app.Put("/sales/:id", dairy, h.Sales.UpdateSale)
	app.Delete("/sales/:id", dairy, h.Sales.DeleteSale)
}
