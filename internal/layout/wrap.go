package layout

import "strings"

// Medidor measures the rendered width of a string in millimeters for the
// active font. The PDF backend supplies the real implementation; tests use a
// fixed-width stand-in.
type Medidor interface {
	AnchoTexto(s string) float64
}

// Envolver greedily wraps text to the given width, never splitting a token:
// a word wider than the line gets a line of its own and is left to overflow.
// Explicit newlines in the input are respected.
func Envolver(texto string, anchoMax float64, m Medidor) []string {
	var lineas []string
	for _, parrafo := range strings.Split(texto, "\n") {
		lineas = append(lineas, envolverParrafo(parrafo, anchoMax, m)...)
	}
	return lineas
}

func envolverParrafo(parrafo string, anchoMax float64, m Medidor) []string {
	palabras := strings.Fields(parrafo)
	if len(palabras) == 0 {
		return []string{""}
	}

	var lineas []string
	actual := palabras[0]
	for _, palabra := range palabras[1:] {
		candidata := actual + " " + palabra
		if m.AnchoTexto(candidata) <= anchoMax {
			actual = candidata
			continue
		}
		lineas = append(lineas, actual)
		actual = palabra
	}
	return append(lineas, actual)
}

// EnvolverBloques wraps each block in order and concatenates the resulting
// lines, separating blocks with a blank line. Empty blocks are skipped.
func EnvolverBloques(bloques []string, anchoMax float64, m Medidor) []string {
	var lineas []string
	for _, bloque := range bloques {
		if strings.TrimSpace(bloque) == "" {
			continue
		}
		if len(lineas) > 0 {
			lineas = append(lineas, "")
		}
		lineas = append(lineas, Envolver(bloque, anchoMax, m)...)
	}
	return lineas
}
