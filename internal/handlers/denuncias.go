// Package handlers exposes the HTTP delivery surface of the engine.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dchpef/acta-engine/internal/audit"
	"github.com/dchpef/acta-engine/internal/config"
	"github.com/dchpef/acta-engine/internal/denuncia"
	"github.com/dchpef/acta-engine/internal/metrics"
	"github.com/dchpef/acta-engine/internal/pdfgen"
	"github.com/dchpef/acta-engine/internal/reporting"
	"github.com/dchpef/acta-engine/internal/storage"
)

// Almacen is the storage surface the handlers depend on
type Almacen interface {
	ObtenerDenuncia(ctx context.Context, id int64) (*denuncia.Denuncia, error)
	ObtenerAmpliacion(ctx context.Context, id int64) (*denuncia.Ampliacion, error)
	BuscarPorHash(ctx context.Context, hash string) (*denuncia.Denuncia, error)
	CrearDenuncia(ctx context.Context, d *denuncia.Denuncia) error
	RegistrarVisita(ctx context.Context, v storage.Visita) error
	ListarDenuncias(ctx context.Context, año int) ([]storage.Resumen, error)
}

// Handler wires the document engine to its HTTP routes
type Handler struct {
	cfg        config.DocumentsConfig
	almacen    Almacen
	generador  *pdfgen.Generator
	exportador *reporting.Exporter
	auditoria  *audit.Logger
	metricas   *metrics.Collector
	logger     *zap.Logger
}

// NewHandler creates a new handler instance
func NewHandler(
	cfg config.DocumentsConfig,
	almacen Almacen,
	generador *pdfgen.Generator,
	exportador *reporting.Exporter,
	auditoria *audit.Logger,
	metricas *metrics.Collector,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		cfg:        cfg,
		almacen:    almacen,
		generador:  generador,
		exportador: exportador,
		auditoria:  auditoria,
		metricas:   metricas,
		logger:     logger,
	}
}

// RegisterRoutes mounts all endpoints under /api/v1
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", h.Health)
		v1.POST("/denuncias", h.CrearDenuncia)
		v1.GET("/denuncias/:id/pdf", h.DescargarDenuncia)
		v1.GET("/denuncias/export", h.ExportarListado)
		v1.GET("/ampliaciones/:id/pdf", h.DescargarAmpliacion)
		v1.GET("/verificar/:hash", h.Verificar)
	}
}

// Health handles health check requests
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now().UTC()})
}

func (h *Handler) papel(c *gin.Context, registrado denuncia.Papel) denuncia.Papel {
	switch c.Query("tipo") {
	case "a4":
		return denuncia.PapelA4
	case "oficio":
		return denuncia.PapelOficio
	}
	if registrado != "" {
		return registrado
	}
	return denuncia.Papel(h.cfg.DefaultPaperSize)
}

// DescargarDenuncia renders and serves the original complaint document
func (h *Handler) DescargarDenuncia(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid complaint id"})
		return
	}

	d, err := h.almacen.ObtenerDenuncia(c.Request.Context(), id)
	if errors.Is(err, storage.ErrNoEncontrado) {
		c.JSON(http.StatusNotFound, gin.H{"error": "complaint not found"})
		return
	}
	if err != nil {
		h.logger.Error("failed to load complaint", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load complaint"})
		return
	}

	papel := h.papel(c, d.TipoPapel)
	inicio := time.Now()
	doc, err := h.generador.GenerarDenuncia(d, pdfgen.Opciones{Papel: papel})
	if err != nil {
		h.metricas.GenerationFailed("denuncia")
		h.logger.Error("failed to generate document", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate document"})
		return
	}

	h.metricas.DocumentGenerated("denuncia", string(papel), time.Since(inicio))
	h.auditoria.Record(audit.AccionGeneracion, fmt.Sprintf("denuncia/%d", id), map[string]string{
		"orden": strconv.Itoa(d.Orden),
		"hash":  d.Hash,
		"papel": string(papel),
	})

	entregarPDF(c, doc)
}

// DescargarAmpliacion renders and serves an amendment document
func (h *Handler) DescargarAmpliacion(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amendment id"})
		return
	}

	a, err := h.almacen.ObtenerAmpliacion(c.Request.Context(), id)
	if errors.Is(err, storage.ErrNoEncontrado) {
		c.JSON(http.StatusNotFound, gin.H{"error": "amendment not found"})
		return
	}
	if err != nil {
		h.logger.Error("failed to load amendment", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load amendment"})
		return
	}

	d, err := h.almacen.ObtenerDenuncia(c.Request.Context(), a.DenunciaID)
	if err != nil {
		h.logger.Error("failed to load parent complaint",
			zap.Int64("amendment", id), zap.Int64("complaint", a.DenunciaID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load complaint"})
		return
	}

	papel := h.papel(c, d.TipoPapel)
	inicio := time.Now()
	doc, err := h.generador.GenerarAmpliacion(d, a, pdfgen.Opciones{Papel: papel})
	if err != nil {
		h.metricas.GenerationFailed("ampliacion")
		h.logger.Error("failed to generate amendment", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate document"})
		return
	}

	h.metricas.DocumentGenerated("ampliacion", string(papel), time.Since(inicio))
	h.auditoria.Record(audit.AccionGeneracion, fmt.Sprintf("ampliacion/%d", id), map[string]string{
		"denuncia": strconv.FormatInt(a.DenunciaID, 10),
		"numero":   strconv.Itoa(a.Numero),
	})

	entregarPDF(c, doc)
}

// Verificar resolves a public verification hash and records the visit
func (h *Handler) Verificar(c *gin.Context) {
	hash := c.Param("hash")

	d, err := h.almacen.BuscarPorHash(c.Request.Context(), hash)
	if errors.Is(err, storage.ErrNoEncontrado) {
		h.metricas.VerificationServed("not_found")
		c.JSON(http.StatusNotFound, gin.H{"valida": false, "error": "unknown verification code"})
		return
	}
	if err != nil {
		h.logger.Error("verification lookup failed", zap.String("hash", hash), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "verification failed"})
		return
	}

	if err := h.almacen.RegistrarVisita(c.Request.Context(), storage.Visita{
		Hash:      hash,
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}); err != nil {
		// the lookup still succeeds; the trail is best effort
		h.logger.Warn("failed to record verification visit", zap.String("hash", hash), zap.Error(err))
	}

	h.metricas.VerificationServed("ok")
	h.auditoria.Record(audit.AccionVerificacion, "hash/"+hash, map[string]string{"ip": c.ClientIP()})

	c.JSON(http.StatusOK, gin.H{
		"valida":         true,
		"orden":          d.Orden,
		"fecha_denuncia": denuncia.FormatearFecha(d.FechaDenuncia),
		"tipo_denuncia":  d.TipoDenuncia,
		"oficina":        d.Oficina,
	})
}

// CrearDenuncia files a new complaint and returns its order number and hash
func (h *Handler) CrearDenuncia(c *gin.Context) {
	var d denuncia.Denuncia
	if err := c.ShouldBindJSON(&d); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid complaint payload"})
		return
	}

	if err := h.almacen.CrearDenuncia(c.Request.Context(), &d); err != nil {
		h.logger.Error("failed to file complaint", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to file complaint"})
		return
	}

	h.metricas.ComplaintFiled()
	h.auditoria.Record(audit.AccionRadicacion, fmt.Sprintf("denuncia/%d", d.ID), map[string]string{
		"orden": strconv.Itoa(d.Orden),
		"hash":  d.Hash,
	})

	c.JSON(http.StatusCreated, gin.H{"id": d.ID, "orden": d.Orden, "hash": d.Hash})
}

// ExportarListado serves the Excel listing of one filing year
func (h *Handler) ExportarListado(c *gin.Context) {
	año := time.Now().Year()
	if v := c.Query("anio"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
			return
		}
		año = parsed
	}

	resumenes, err := h.almacen.ListarDenuncias(c.Request.Context(), año)
	if err != nil {
		h.logger.Error("failed to list complaints", zap.Int("year", año), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list complaints"})
		return
	}

	contenido, nombre, err := h.exportador.ExportarListado(resumenes, año)
	if err != nil {
		h.logger.Error("failed to export listing", zap.Int("year", año), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export listing"})
		return
	}

	h.auditoria.Record(audit.AccionExportacion, fmt.Sprintf("listado/%d", año), map[string]string{
		"filas": strconv.Itoa(len(resumenes)),
	})

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", nombre))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", contenido)
}

func entregarPDF(c *gin.Context, doc *pdfgen.Documento) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.NombreArchivo))
	c.Data(http.StatusOK, "application/pdf", doc.Contenido)
}
