package pdfgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dchpef/acta-engine/internal/config"
	"github.com/dchpef/acta-engine/internal/denuncia"
	"github.com/dchpef/acta-engine/internal/layout"
)

func generadorDePrueba() *Generator {
	cfg := config.DocumentsConfig{
		VerificationBaseURL: "https://denuncias.example.gov.py",
		DefaultPaperSize:    "oficio",
		Office: config.OfficeConfig{
			Name:    "ASUNCIÓN",
			Address: "E. V. Haedo 725 casi O'Leary",
			Phone:   "(021) 443-159",
			Fax:     "(021) 443-126",
			Email:   "ayudantia@delitoseconomicos.gov.py",
		},
		Letterhead: config.LetterheadConfig{
			// nonexistent on purpose; rendering must degrade, not fail
			LeftLogoPath: "testdata/no-such-logo.png",
		},
	}
	return NewGenerator(cfg, zap.NewNop())
}

func denunciaDePrueba() *denuncia.Denuncia {
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
		Relato:        "El denunciante manifiesta haber sido víctima de una estafa mediante transferencias no autorizadas.",
		Oficina:       "Asunción",
		Operador: denuncia.Operador{
			Grado:    "Oficial Primero",
			Nombre:   "Carlos",
			Apellido: "Benítez",
		},
		Denunciante: denuncia.Denunciante{
			Nombres:         "Juan Pérez",
			NumeroDocumento: "1234567",
			Nacionalidad:    "Paraguaya",
			EstadoCivil:     "Soltero",
			Edad:            35,
			FechaNacimiento: "1989-06-20",
			LugarNacimiento: "Asunción",
			Telefono:        "0981123456",
		},
	}
}

func TestGenerarDenuncia(t *testing.T) {
	g := generadorDePrueba()

	t.Run("produces a pdf with the filing filename", func(t *testing.T) {
		doc, err := g.GenerarDenuncia(denunciaDePrueba(), Opciones{Papel: denuncia.PapelOficio})
		require.NoError(t, err)
		assert.Equal(t, "denuncia_321_2024.pdf", doc.NombreArchivo)
		assert.True(t, strings.HasPrefix(string(doc.Contenido), "%PDF"), "output must be a pdf")
	})

	t.Run("a4 renders as well", func(t *testing.T) {
		doc, err := g.GenerarDenuncia(denunciaDePrueba(), Opciones{Papel: denuncia.PapelA4})
		require.NoError(t, err)
		assert.NotEmpty(t, doc.Contenido)
	})

	t.Run("long narrative still renders", func(t *testing.T) {
		d := denunciaDePrueba()
		d.Relato = strings.Repeat("El denunciante amplía los hechos con nuevos detalles relevantes. ", 200)
		doc, err := g.GenerarDenuncia(d, Opciones{Papel: denuncia.PapelOficio})
		require.NoError(t, err)
		assert.NotEmpty(t, doc.Contenido)
	})

	t.Run("incomplete record degrades instead of failing", func(t *testing.T) {
		d := &denuncia.Denuncia{Orden: 5, Hash: "FFFFFF024"}
		doc, err := g.GenerarDenuncia(d, Opciones{})
		require.NoError(t, err)
		assert.NotEmpty(t, doc.Contenido)
	})

	t.Run("authorized operator override", func(t *testing.T) {
		doc, err := g.GenerarDenuncia(denunciaDePrueba(), Opciones{
			Papel:              denuncia.PapelOficio,
			OperadorAutorizado: &denuncia.Operador{Grado: "Suboficial", Nombre: "Lucía", Apellido: "Ortiz"},
		})
		require.NoError(t, err)
		assert.NotEmpty(t, doc.Contenido)
	})
}

func TestBloqueFirmasRespetaLaReserva(t *testing.T) {
	for _, papel := range []denuncia.Papel{denuncia.PapelOficio, denuncia.PapelA4} {
		t.Run(string(papel), func(t *testing.T) {
			geom := layout.NuevaGeometria(papel)
			assert.LessOrEqual(t, float64(separacionFirmas+baseHashFirmas), geom.ReservaFirmas,
				"signature block must fit inside the footer reserve")

			// final page filled to the last allowed line
			peorYFinal := geom.InicioTexto + float64(geom.LineasUltimaDesdeInicio())*geom.AltoLinea
			assert.LessOrEqual(t, peorYFinal+separacionFirmas+baseHashFirmas, geom.Alto,
				"hash baseline must stay on the page")
		})
	}

	t.Run("a4 page filled from the first-page body start", func(t *testing.T) {
		geom := layout.NuevaGeometria(denuncia.PapelA4)
		lineas := make([]string, 26)
		for i := range lineas {
			lineas[i] = "texto"
		}
		resultado := layout.Paginar(lineas, geom, 90)
		require.Len(t, resultado.Paginas, 1)
		assert.LessOrEqual(t, resultado.YFinal+separacionFirmas+baseHashFirmas, geom.Alto,
			"hash baseline must stay on the page when the final page is full")
	})
}

func TestGenerarAmpliacion(t *testing.T) {
	g := generadorDePrueba()
	d := denunciaDePrueba()
	a := &denuncia.Ampliacion{
		DenunciaID: d.ID,
		Numero:     2,
		Fecha:      "2024-04-02",
		Hora:       "14:15",
		Relato:     "Se aportan nuevos elementos de prueba.",
		Operador:   d.Operador,
	}

	doc, err := g.GenerarAmpliacion(d, a, Opciones{Papel: denuncia.PapelOficio})
	require.NoError(t, err)
	assert.Equal(t, "ampliacion_2_denuncia_321_2024.pdf", doc.NombreArchivo)
	assert.True(t, strings.HasPrefix(string(doc.Contenido), "%PDF"))
}
