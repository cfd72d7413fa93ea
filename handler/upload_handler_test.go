package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mantisgestion/drive-migrator/models"
	"github.com/mantisgestion/drive-migrator/service"
)

type fakeRunner struct {
	gotOpts service.Options
	results *service.Results
	err     error
}

func (f *fakeRunner) Run(_ context.Context, opts service.Options) (*service.Results, error) {
	f.gotOpts = opts
	return f.results, f.err
}

func setupRouter(runner *fakeRunner) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	r := gin.New()
	h := NewUploadHandler(runner, logger)
	r.POST("/api/upload/:esComprobante/:esAdjunto/:esCotizacion/:esAdjuntoActividad", h.Upload)
	return r
}

func TestUploadParsesCategoryFlags(t *testing.T) {
	runner := &fakeRunner{results: &service.Results{
		Categories: map[string][]service.Outcome{},
		Failures:   []service.Failure{},
	}}
	r := setupRouter(runner)

	req := httptest.NewRequest(http.MethodPost, "/api/upload/conComprobante/sinAdjunto/conCotizacion/sinAdjuntoActividad", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.Options{
		Comprobante:      true,
		Adjunto:          false,
		Cotizacion:       true,
		AdjuntoActividad: false,
	}, runner.gotOpts)
}

func TestUploadRespondsWithResults(t *testing.T) {
	runner := &fakeRunner{results: &service.Results{
		Categories: map[string][]service.Outcome{
			models.CategoryComprobante.Name: {{TicketSec: 42, URL: "https://drive.example/f/view"}},
			models.CategoryAdjunto.Name:     {},
		},
		Failures: []service.Failure{
			{Category: models.CategoryComprobante.Name, TicketSec: 7, Reason: "unrecognized file signature"},
		},
	}}
	r := setupRouter(runner)

	req := httptest.NewRequest(http.MethodPost, "/api/upload/conComprobante/conAdjunto/sinCotizacion/sinAdjuntoActividad", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Message string `json:"message"`
		Results map[string][]struct {
			TicketSec int    `json:"ticketSec"`
			URL       string `json:"url"`
		} `json:"results"`
		Failures []struct {
			Category  string `json:"category"`
			TicketSec int    `json:"ticketSec"`
			Reason    string `json:"reason"`
		} `json:"failures"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Equal(t, "Procesos de subida finalizados.", body.Message)
	require.Len(t, body.Results[models.CategoryComprobante.Name], 1)
	assert.Equal(t, 42, body.Results[models.CategoryComprobante.Name][0].TicketSec)
	assert.Equal(t, "https://drive.example/f/view", body.Results[models.CategoryComprobante.Name][0].URL)
	require.Len(t, body.Failures, 1)
	assert.Equal(t, 7, body.Failures[0].TicketSec)
}

func TestUploadRunFailure(t *testing.T) {
	runner := &fakeRunner{err: errors.New("cannot acquire connection")}
	r := setupRouter(runner)

	req := httptest.NewRequest(http.MethodPost, "/api/upload/conComprobante/sinAdjunto/sinCotizacion/sinAdjuntoActividad", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body["error"])
}
