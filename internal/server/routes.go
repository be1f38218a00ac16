package server

import (
	"net/http"

	"shopcart/internal/handler"
	"shopcart/internal/metrics"

	"github.com/labstack/echo/v4"
)

// Handlers はルーティングに必要なもの一式
type Handlers struct {
	Auth    *handler.AuthHandler
	Product *handler.ProductHandler
	Cart    *handler.CartHandler
}

func RegisterRoutes(e *echo.Echo, h Handlers, authMW echo.MiddlewareFunc, m *metrics.ServerMetrics) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	if m != nil {
		e.GET("/metrics", echo.WrapHandler(m.Handler()))
	}

	api := e.Group("/api")
	h.Auth.RegisterRoutes(api.Group("/auth"))
	h.Product.RegisterRoutes(api.Group("/products"), authMW)
	h.Cart.RegisterRoutes(api.Group("/carts", authMW))
}
