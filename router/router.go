package router

import (
	"github.com/gin-gonic/gin"

	"github.com/mantisgestion/drive-migrator/handler"
	metricsgin "github.com/mantisgestion/drive-migrator/pkg/metrics/gin"
)

func Setup(uploadHandler *handler.UploadHandler) *gin.Engine {
	r := gin.Default()
	r.Use(metricsgin.PrometheusMiddleware())
	api := r.Group("/api")
	{
		api.POST("/upload/:esComprobante/:esAdjunto/:esCotizacion/:esAdjuntoActividad", uploadHandler.Upload)
	}
	return r
}
