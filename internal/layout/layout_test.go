package layout

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dchpef/acta-engine/internal/denuncia"
)

// medidorFijo measures 2mm per rune, close enough to 12pt body text for the
// wrap and budget arithmetic to be exercised realistically.
type medidorFijo struct{}

func (medidorFijo) AnchoTexto(s string) float64 {
	return float64(len([]rune(s))) * 2
}

func TestNuevaGeometria(t *testing.T) {
	oficio := NuevaGeometria(denuncia.PapelOficio)
	assert.Equal(t, 216.0, oficio.Ancho)
	assert.Equal(t, 330.0, oficio.Alto)
	assert.Equal(t, 156.0, oficio.AnchoTexto())
	assert.Equal(t, 33, oficio.LineasUltimaDesdeInicio())

	a4 := NuevaGeometria(denuncia.PapelA4)
	assert.Equal(t, 210.0, a4.Ancho)
	assert.Equal(t, 297.0, a4.Alto)
	assert.Equal(t, 150.0, a4.AnchoTexto())
	assert.Equal(t, 27, a4.LineasUltimaDesdeInicio())

	// unknown preferences fall back to oficio
	assert.Equal(t, oficio, NuevaGeometria(denuncia.Papel("carta")))
}

func TestEnvolver(t *testing.T) {
	m := medidorFijo{}

	t.Run("greedy fill without splitting tokens", func(t *testing.T) {
		lineas := Envolver("uno dos tres cuatro", 16, m)
		assert.Equal(t, []string{"uno dos", "tres", "cuatro"}, lineas)
		for _, l := range lineas {
			for _, palabra := range strings.Fields(l) {
				assert.Contains(t, "uno dos tres cuatro", palabra)
			}
		}
	})

	t.Run("token wider than the line keeps its own line", func(t *testing.T) {
		lineas := Envolver("x extraordinariamente y", 10, m)
		assert.Equal(t, []string{"x", "extraordinariamente", "y"}, lineas)
	})

	t.Run("explicit newlines are respected", func(t *testing.T) {
		lineas := Envolver("uno dos\ntres", 100, m)
		assert.Equal(t, []string{"uno dos", "tres"}, lineas)
	})

	t.Run("every line fits unless it is a single oversized token", func(t *testing.T) {
		texto := strings.Repeat("palabra corta larguita ", 40)
		for _, l := range Envolver(texto, 50, m) {
			if len(strings.Fields(l)) > 1 {
				assert.LessOrEqual(t, m.AnchoTexto(l), 50.0)
			}
		}
	})
}

func TestEnvolverBloques(t *testing.T) {
	m := medidorFijo{}
	lineas := EnvolverBloques([]string{"primer bloque", "", "segundo"}, 100, m)
	assert.Equal(t, []string{"primer bloque", "", "segundo"}, lineas)
}

func lineasDePrueba(n int) []string {
	lineas := make([]string, n)
	for i := range lineas {
		lineas[i] = fmt.Sprintf("línea %d", i+1)
	}
	return lineas
}

// verificarPresupuestos asserts the core invariant: no page exceeds its
// vertical budget, and the final page always honors the signature reserve.
func verificarPresupuestos(t *testing.T, r Resultado, g Geometria) {
	t.Helper()
	require.NotEmpty(t, r.Paginas)
	for i, p := range r.Paginas {
		fin := p.YInicio + float64(len(p.Lineas))*g.AltoLinea
		if p.Ultima {
			assert.Equal(t, len(r.Paginas)-1, i, "only the final page is marked last")
			assert.LessOrEqual(t, fin, g.Alto-g.ReservaFirmas)
		} else {
			assert.LessOrEqual(t, fin, g.Alto-g.MargenInferior)
		}
	}
	assert.LessOrEqual(t, r.YFinal, g.Alto-g.ReservaFirmas)
}

func TestPaginar(t *testing.T) {
	g := NuevaGeometria(denuncia.PapelOficio)

	t.Run("short text stays on one page", func(t *testing.T) {
		r := Paginar(lineasDePrueba(10), g, 90)
		require.Len(t, r.Paginas, 1)
		assert.True(t, r.Paginas[0].Ultima)
		assert.Len(t, r.Paginas[0].Lineas, 10)
		assert.Equal(t, 90.0+60, r.YFinal)
		verificarPresupuestos(t, r, g)
	})

	t.Run("no line is lost or duplicated", func(t *testing.T) {
		lineas := lineasDePrueba(200)
		r := Paginar(lineas, g, 90)
		var colocadas []string
		for _, p := range r.Paginas {
			colocadas = append(colocadas, p.Lineas...)
		}
		assert.Equal(t, lineas, colocadas)
		verificarPresupuestos(t, r, g)
	})

	t.Run("long narrative spills across three pages", func(t *testing.T) {
		// intermediate pages hold ~40 lines from y=80; 100 lines need 3 pages
		r := Paginar(lineasDePrueba(100), g, 90)
		require.Len(t, r.Paginas, 3)
		assert.False(t, r.Paginas[0].Ultima)
		assert.False(t, r.Paginas[1].Ultima)
		assert.True(t, r.Paginas[2].Ultima)
		assert.Equal(t, g.InicioTexto, r.Paginas[1].YInicio)
		verificarPresupuestos(t, r, g)
	})

	t.Run("reduced budget applies as soon as the tail fits a fresh final page", func(t *testing.T) {
		// 33 lines fit a fresh final page exactly, so the reserve applies
		// immediately and everything stays on one page
		r := Paginar(lineasDePrueba(g.LineasUltimaDesdeInicio()), g, g.InicioTexto)
		require.Len(t, r.Paginas, 1)
		verificarPresupuestos(t, r, g)
	})

	t.Run("tail that fits the intermediate budget but not the reserve moves on", func(t *testing.T) {
		// 40 lines fit under the intermediate budget from y=80 but would
		// invade the signature reserve; the tail must carry over
		r := Paginar(lineasDePrueba(40), g, g.InicioTexto)
		require.Len(t, r.Paginas, 2)
		assert.True(t, r.Paginas[1].Ultima)
		verificarPresupuestos(t, r, g)
	})

	t.Run("nothing fits near the bottom so a new page starts cleanly", func(t *testing.T) {
		r := Paginar(lineasDePrueba(5), g, g.Alto-g.ReservaFirmas-2)
		require.Len(t, r.Paginas, 2)
		assert.Empty(t, r.Paginas[0].Lineas)
		assert.Len(t, r.Paginas[1].Lineas, 5)
		verificarPresupuestos(t, r, g)
	})

	t.Run("empty input still yields a final page", func(t *testing.T) {
		r := Paginar(nil, g, 90)
		require.Len(t, r.Paginas, 1)
		assert.True(t, r.Paginas[0].Ultima)
		assert.Empty(t, r.Paginas[0].Lineas)
		assert.Equal(t, 90.0, r.YFinal)
	})

	t.Run("a4 honors its smaller budgets", func(t *testing.T) {
		a4 := NuevaGeometria(denuncia.PapelA4)
		r := Paginar(lineasDePrueba(120), a4, 90)
		assert.GreaterOrEqual(t, len(r.Paginas), 3)
		verificarPresupuestos(t, r, a4)
	})
}
