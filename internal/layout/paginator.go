package layout

// Pagina is one rendered page of body text. YInicio is where its first line
// is placed; every page after the first starts under the repeated header.
type Pagina struct {
	YInicio float64
	Lineas  []string
	Ultima  bool
}

// Resultado carries the paginated pages and the vertical cursor left after
// the last placed line, where the signature block anchors.
type Resultado struct {
	Paginas []Pagina
	YFinal  float64
}

// Paginar flows wrapped lines onto pages. yInicial is the cursor on the
// first page, already past the header and legal notice.
//
// Each iteration decides whether the remaining lines would fit on a fresh
// final page; if so the reduced final-page budget applies immediately, even
// though more pages could still follow in principle. When not a single line
// fits in the space left, the page is closed as-is and text continues on a
// new one, so no page is ever cut mid-line.
func Paginar(lineas []string, g Geometria, yInicial float64) Resultado {
	actual := Pagina{YInicio: yInicial}
	var paginas []Pagina
	y := yInicial
	restante := lineas

	for len(restante) > 0 {
		seraUltima := g.CabeEnUltimaNueva(len(restante))
		limite := g.Alto - g.MargenInferior
		if seraUltima {
			limite = g.Alto - g.ReservaFirmas
		}

		caben := int((limite - y) / g.AltoLinea)
		if caben <= 0 {
			paginas = append(paginas, actual)
			actual = Pagina{YInicio: g.InicioTexto}
			y = g.InicioTexto
			continue
		}

		n := caben
		if len(restante) < n {
			n = len(restante)
		}
		if !seraUltima && n == len(restante) {
			// The text would end on a page measured with the intermediate
			// budget. Hold the tail back so the page that carries the
			// signature block always honors its reserve.
			n = int((g.Alto - g.ReservaFirmas - y) / g.AltoLinea)
			if n <= 0 {
				paginas = append(paginas, actual)
				actual = Pagina{YInicio: g.InicioTexto}
				y = g.InicioTexto
				continue
			}
		}
		actual.Lineas = append(actual.Lineas, restante[:n]...)
		restante = restante[n:]
		y += float64(n) * g.AltoLinea

		if len(restante) > 0 {
			paginas = append(paginas, actual)
			actual = Pagina{YInicio: g.InicioTexto}
			y = g.InicioTexto
		}
	}

	actual.Ultima = true
	paginas = append(paginas, actual)
	return Resultado{Paginas: paginas, YFinal: y}
}
