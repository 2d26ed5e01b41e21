package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dchpef/acta-engine/internal/audit"
	"github.com/dchpef/acta-engine/internal/config"
	"github.com/dchpef/acta-engine/internal/denuncia"
	"github.com/dchpef/acta-engine/internal/metrics"
	"github.com/dchpef/acta-engine/internal/pdfgen"
	"github.com/dchpef/acta-engine/internal/reporting"
	"github.com/dchpef/acta-engine/internal/storage"
)

// metrics register globally; one collector serves every test in the package
var metricasPrueba = metrics.NewCollector()

type almacenFalso struct {
	denuncias    map[int64]*denuncia.Denuncia
	ampliaciones map[int64]*denuncia.Ampliacion
	visitas      []storage.Visita
}

func nuevoAlmacenFalso() *almacenFalso {
	return &almacenFalso{
		denuncias:    make(map[int64]*denuncia.Denuncia),
		ampliaciones: make(map[int64]*denuncia.Ampliacion),
	}
}

func (a *almacenFalso) ObtenerDenuncia(_ context.Context, id int64) (*denuncia.Denuncia, error) {
	d, ok := a.denuncias[id]
	if !ok {
		return nil, storage.ErrNoEncontrado
	}
	return d, nil
}

func (a *almacenFalso) ObtenerAmpliacion(_ context.Context, id int64) (*denuncia.Ampliacion, error) {
	amp, ok := a.ampliaciones[id]
	if !ok {
		return nil, storage.ErrNoEncontrado
	}
	return amp, nil
}

func (a *almacenFalso) BuscarPorHash(_ context.Context, hash string) (*denuncia.Denuncia, error) {
	for _, d := range a.denuncias {
		if d.Hash == hash {
			return d, nil
		}
	}
	return nil, storage.ErrNoEncontrado
}

func (a *almacenFalso) CrearDenuncia(_ context.Context, d *denuncia.Denuncia) error {
	d.ID = int64(len(a.denuncias) + 1)
	d.Orden = int(d.ID)
	d.Hash = "ABCDEFA24"
	a.denuncias[d.ID] = d
	return nil
}

func (a *almacenFalso) RegistrarVisita(_ context.Context, v storage.Visita) error {
	a.visitas = append(a.visitas, v)
	return nil
}

func (a *almacenFalso) ListarDenuncias(_ context.Context, año int) ([]storage.Resumen, error) {
	var resumenes []storage.Resumen
	for _, d := range a.denuncias {
		resumenes = append(resumenes, storage.Resumen{
			Orden:         d.Orden,
			Hash:          d.Hash,
			FechaDenuncia: d.FechaDenuncia,
			TipoDenuncia:  d.TipoDenuncia,
			Denunciante:   d.Denunciante.Nombres,
		})
	}
	return resumenes, nil
}

func montarRouter(t *testing.T, almacen Almacen) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	cfg := config.DocumentsConfig{
		VerificationBaseURL: "https://denuncias.example.gov.py",
		DefaultPaperSize:    "oficio",
	}
	auditoria := audit.NewLogger(config.AuditConfig{
		BufferSize:    16,
		BatchSize:     8,
		FlushInterval: time.Second,
	}, logger)

	h := NewHandler(cfg, almacen,
		pdfgen.NewGenerator(cfg, logger),
		reporting.NewExporter(logger),
		auditoria, metricasPrueba, logger)

	router := gin.New()
	h.RegisterRoutes(router)
	return router
}

func denunciaGuardada() *denuncia.Denuncia {
	return &denuncia.Denuncia{
		ID:            1,
		Orden:         321,
		Hash:          "A1B2C3A24",
		FechaDenuncia: "2024-03-15",
		HoraDenuncia:  "10:30",
		FechaHecho:    "2024-03-10",
		HoraHecho:     "22:00",
		TipoDenuncia:  "Estafa",
		LugarHecho:    "Avda. España 1234",
		Relato:        "Relato de prueba.",
		Oficina:       "Asunción",
		TipoPapel:     denuncia.PapelOficio,
		Denunciante: denuncia.Denunciante{
			Nombres:         "Juan Pérez",
			NumeroDocumento: "1234567",
		},
	}
}

func TestDescargarDenuncia(t *testing.T) {
	almacen := nuevoAlmacenFalso()
	almacen.denuncias[1] = denunciaGuardada()
	router := montarRouter(t, almacen)

	t.Run("serves the pdf with its filing filename", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/denuncias/1/pdf", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), "denuncia_321_2024.pdf")
		assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
	})

	t.Run("paper override via query", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/denuncias/1/pdf?tipo=a4", nil)
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unknown id yields 404", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/denuncias/99/pdf", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed id yields 400", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/denuncias/abc/pdf", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDescargarAmpliacion(t *testing.T) {
	almacen := nuevoAlmacenFalso()
	almacen.denuncias[1] = denunciaGuardada()
	almacen.ampliaciones[7] = &denuncia.Ampliacion{
		ID:         7,
		DenunciaID: 1,
		Numero:     2,
		Fecha:      "2024-04-02",
		Hora:       "14:15",
		Relato:     "Nuevos elementos.",
	}
	router := montarRouter(t, almacen)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ampliaciones/7/pdf", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "ampliacion_2_denuncia_321_2024.pdf")
}

func TestVerificar(t *testing.T) {
	almacen := nuevoAlmacenFalso()
	almacen.denuncias[1] = denunciaGuardada()
	router := montarRouter(t, almacen)

	t.Run("known hash resolves and records the visit", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/verificar/A1B2C3A24", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, true, body["valida"])
		assert.Equal(t, "15/03/2024", body["fecha_denuncia"])
		require.Len(t, almacen.visitas, 1)
		assert.Equal(t, "A1B2C3A24", almacen.visitas[0].Hash)
	})

	t.Run("unknown hash yields 404", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/verificar/FFFFFF024", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCrearDenuncia(t *testing.T) {
	almacen := nuevoAlmacenFalso()
	router := montarRouter(t, almacen)

	payload, err := json.Marshal(denunciaGuardada())
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/denuncias", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ABCDEFA24", body["hash"])
	assert.EqualValues(t, 1, body["orden"])
}

func TestExportarListado(t *testing.T) {
	almacen := nuevoAlmacenFalso()
	almacen.denuncias[1] = denunciaGuardada()
	router := montarRouter(t, almacen)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/denuncias/export?anio=2024", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "denuncias_2024.xlsx")
	assert.NotEmpty(t, w.Body.Bytes())
}

func TestHealth(t *testing.T) {
	router := montarRouter(t, nuevoAlmacenFalso())
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
