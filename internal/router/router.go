package router

import (
	"github.com/gin-gonic/gin"

	"billscan/internal/handler"
	"billscan/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(extractH *handler.ExtractHandler, healthH *handler.HealthHandler, allowedOrigins []string) *gin.Engine {
	r := gin.New()

	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	r.GET("/healthz", healthH.Liveness)

	r.POST("/extract-bill-data", extractH.Extract)
	r.POST("/extract-bill-data/export", extractH.Export)

	return r
}
