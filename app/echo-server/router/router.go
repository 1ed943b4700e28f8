package router

import (
	"relatedItems/internal/middleware"
	"relatedItems/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetRelatedItemsRoutes(api *echo.Group, handler *rest.RelatedItemsHandler) {
	related := api.Group("/related-items")
	related.GET("/:sku", handler.GetBySKU)
}

func SetPipelineRoutes(api *echo.Group, handler *rest.PipelineHandler) {
	pipeline := api.Group("/pipeline", middleware.AuthMiddleware())
	pipeline.POST("/run", handler.Run)
	pipeline.POST("/import", handler.Import)
	pipeline.GET("/runs", handler.Runs)
}
