// Package layout owns the physical page arithmetic: paper geometry, greedy
// word wrapping and the pagination of narrative lines onto discrete pages.
// Everything works in millimeters and is independent of the PDF backend so
// the algorithms can be tested without a document context.
package layout

import "github.com/dchpef/acta-engine/internal/denuncia"

// Geometria describes one paper size and the fixed layout constants used for
// every document
type Geometria struct {
	Ancho float64
	Alto  float64

	MargenIzquierdo float64
	MargenDerecho   float64

	// AltoLinea is the fixed average line height of body text
	AltoLinea float64
	// InicioTexto is where body text resumes under the repeated header
	InicioTexto float64
	// ReservaFirmas is the footer height reserved on the final page for the
	// signature block, independent of paper size
	ReservaFirmas float64
	// MargenInferior bounds body text on intermediate pages
	MargenInferior float64
}

// NuevaGeometria returns the geometry for the given paper preference.
// Anything other than A4 falls back to Oficio (216x330), the office default.
func NuevaGeometria(papel denuncia.Papel) Geometria {
	g := Geometria{
		Ancho:           216,
		Alto:            330,
		MargenIzquierdo: 30,
		MargenDerecho:   30,
		AltoLinea:       6,
		InicioTexto:     80,
		ReservaFirmas:   50,
		MargenInferior:  5,
	}
	if papel == denuncia.PapelA4 {
		g.Ancho = 210
		g.Alto = 297
	}
	return g
}

// AnchoTexto is the usable horizontal width for body text
func (g Geometria) AnchoTexto() float64 {
	return g.Ancho - g.MargenIzquierdo - g.MargenDerecho
}

// LineasUltimaDesdeInicio is how many body lines fit on a final page that
// starts fresh under the header, once the signature footer is reserved
func (g Geometria) LineasUltimaDesdeInicio() int {
	return int((g.Alto - g.ReservaFirmas - g.InicioTexto) / g.AltoLinea)
}

// CabeEnUltimaNueva reports whether the remaining unplaced lines would fit on
// a fresh final page. The paginator uses this lookahead to apply the reduced
// final-page budget early, so the signature block never lands on a page of
// its own unless truly necessary.
func (g Geometria) CabeEnUltimaNueva(lineasRestantes int) bool {
	return lineasRestantes <= g.LineasUltimaDesdeInicio()
}
