package router

import (
	"priceKart/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupSearchRoutes(api *echo.Group, handler *rest.SearchHandler) {
	api.GET("/search", handler.Search)
}

func SetupProductRoutes(api *echo.Group, handler *rest.ProductHandler, recommendHandler *rest.RecommendHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	products := api.Group("/products")

	products.GET("", handler.GetAllProducts)
	products.GET("/:id", handler.GetProductByID)
	products.GET("/:id/similar", recommendHandler.SimilarProducts)

	products.POST("", handler.CreateProduct, authRequired, adminOnly)
	products.PUT("/:id", handler.UpdateProduct, authRequired, adminOnly)
	products.DELETE("/:id", handler.DeleteProduct, authRequired, adminOnly)
}

func SetupPreloadRoutes(api *echo.Group, handler *rest.PreloadHandler) {
	pre := api.Group("/preload")

	pre.POST("", handler.Schedule)
	pre.POST("/cards", handler.RegisterCard)
	pre.POST("/cards/:card/visible", handler.CardVisible)
}

func SetupAdminRoutes(api *echo.Group, handler *rest.AdminHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	admin := api.Group("/admin", authRequired, adminOnly)

	admin.GET("/platforms", handler.GetPlatforms)
	admin.PUT("/platforms/:platform", handler.SetPlatformMode)
}
