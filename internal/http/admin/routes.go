package admin

import "github.com/labstack/echo/v4"

func RegisterRoutes(g *echo.Group, h *Handler) {

	// Customers
	g.GET("/customers", h.GetCustomers)
	g.GET("/customers/export.csv", h.ExportCustomers)
	g.GET("/customers/:id", h.GetCustomer)
	g.POST("/customers", h.CreateCustomer)
	g.PUT("/customers/:id", h.UpdateCustomer)
	g.DELETE("/customers/:id", h.DeleteCustomer)

	// Customer detail
	g.GET("/customers/:id/detail", h.GetCustomerDetail)
	g.PUT("/customers/:id/detail", h.UpdateCustomerDetail)
	g.DELETE("/customers/:id/detail", h.DeleteCustomerDetail)

	// Products
	g.GET("/products", h.GetProducts)
	g.GET("/products/:id", h.GetProduct)
	g.POST("/products", h.CreateProduct)

	// Orders
	g.GET("/orders", h.GetOrders)
	g.GET("/orders/:id", h.GetOrder)
	g.POST("/orders", h.CreateOrder)

	// Backup
	g.POST("/backup", h.BackupDatabase)
}
