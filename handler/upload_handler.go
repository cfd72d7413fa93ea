package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mantisgestion/drive-migrator/service"
)

// Runner is what the handler needs from the migrator.
type Runner interface {
	Run(ctx context.Context, opts service.Options) (*service.Results, error)
}

type UploadHandler struct {
	migrator Runner
	logger   *logrus.Logger
}

func NewUploadHandler(migrator Runner, logger *logrus.Logger) *UploadHandler {
	return &UploadHandler{migrator: migrator, logger: logger}
}

// Upload triggers a migration run.
// POST /api/upload/:esComprobante/:esAdjunto/:esCotizacion/:esAdjuntoActividad
//
// Each segment enables its category only when it carries the exact literal
// the legacy callers send (conComprobante, conAdjunto, ...); anything else
// disables it.
func (h *UploadHandler) Upload(c *gin.Context) {
	opts := service.Options{
		Comprobante:      c.Param("esComprobante") == "conComprobante",
		Adjunto:          c.Param("esAdjunto") == "conAdjunto",
		Cotizacion:       c.Param("esCotizacion") == "conCotizacion",
		AdjuntoActividad: c.Param("esAdjuntoActividad") == "conAdjuntoActividad",
	}

	results, err := h.migrator.Run(c.Request.Context(), opts)
	if err != nil {
		h.logger.Errorf("migration run failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al procesar la solicitud."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Procesos de subida finalizados.",
		"results":  results.Categories,
		"failures": results.Failures,
	})
}
