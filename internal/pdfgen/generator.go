// Package pdfgen renders complaint records into the final PDF document:
// letterhead, repeated headers, paginated narrative and the signature block
// with its verification QR.
package pdfgen

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"

	"github.com/dchpef/acta-engine/internal/config"
	"github.com/dchpef/acta-engine/internal/denuncia"
	"github.com/dchpef/acta-engine/internal/layout"
	"github.com/dchpef/acta-engine/internal/texto"
)

const avisoLegal = `LA PRESENTE ACTA SE REALIZA CONFORME A LOS SIGUIENTES: ARTÍCULO 284. "DENUNCIA", ARTÍCULO 285. "FORMA Y CONTENIDO", ARTÍCULO 289. "DENUNCIA ANTE LA POLICÍA" DE LA LEY 1286/98 "CODIGO PROCESAL PENAL".`

// Vertical layout of the signature block, measured from the last body line.
// separacionFirmas + baseHashFirmas must not exceed the paginator's footer
// reserve or the hash would land past the page edge on a full final page.
const (
	separacionFirmas = 20
	ladoQR           = 26
	baseHashFirmas   = 30
)

// Documento is a fully rendered document ready for delivery
type Documento struct {
	Contenido     []byte
	NombreArchivo string
}

// Opciones adjusts a single generation run
type Opciones struct {
	Papel denuncia.Papel
	// OperadorAutorizado, when set, replaces the officiating operator in the
	// left signature column and changes its label to OPERADOR AUTORIZADO
	// (reprints handed over by a different operator).
	OperadorAutorizado *denuncia.Operador
}

// Generator renders complaint documents
type Generator struct {
	cfg    config.DocumentsConfig
	logger *zap.Logger
}

// NewGenerator creates a new document generator
func NewGenerator(cfg config.DocumentsConfig, logger *zap.Logger) *Generator {
	return &Generator{cfg: cfg, logger: logger}
}

// GenerarDenuncia renders the original complaint document
func (g *Generator) GenerarDenuncia(d *denuncia.Denuncia, op Opciones) (*Documento, error) {
	titulo := fmt.Sprintf("ACTA DE DENUNCIA N° %d/%d", d.Orden, d.Año())
	c := denuncia.Clasificar(d.Denunciante, d.Involucrados)
	parrafos := texto.Componer(d, c)

	contenido, err := g.render(d, c, parrafos, titulo, op)
	if err != nil {
		return nil, err
	}
	return &Documento{
		Contenido:     contenido,
		NombreArchivo: fmt.Sprintf("denuncia_%d_%d.pdf", d.Orden, d.Año()),
	}, nil
}

// GenerarAmpliacion renders an amendment to an existing complaint
func (g *Generator) GenerarAmpliacion(d *denuncia.Denuncia, a *denuncia.Ampliacion, op Opciones) (*Documento, error) {
	titulo := fmt.Sprintf("AMPLIACIÓN N° %d - ACTA DE DENUNCIA N° %d/%d", a.Numero, d.Orden, d.Año())
	c := denuncia.Clasificar(d.Denunciante, d.Involucrados)
	parrafos := texto.ComponerAmpliacion(d, a, c)

	contenido, err := g.render(d, c, parrafos, titulo, op)
	if err != nil {
		return nil, err
	}
	return &Documento{
		Contenido:     contenido,
		NombreArchivo: fmt.Sprintf("ampliacion_%d_denuncia_%d_%d.pdf", a.Numero, d.Orden, d.Año()),
	}, nil
}

// medidor adapts the PDF font metrics to the layout wrapper
type medidor struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

func (m medidor) AnchoTexto(s string) float64 {
	return m.pdf.GetStringWidth(m.tr(s))
}

func (g *Generator) render(d *denuncia.Denuncia, c denuncia.Clasificacion, parrafos texto.Parrafos, titulo string, op Opciones) ([]byte, error) {
	geom := layout.NuevaGeometria(op.Papel)

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: geom.Ancho, Ht: geom.Alto},
	})
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetAutoPageBreak(false, 0)

	pdf.AddPage()
	g.encabezado(pdf, tr, geom, titulo)

	// legal notice under the first header only
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetXY(geom.MargenIzquierdo, 74)
	pdf.MultiCell(geom.AnchoTexto(), 4, tr(avisoLegal), "", "J", false)

	pdf.SetFont("Helvetica", "", 12)
	lineas := layout.EnvolverBloques(parrafos.Bloques(), geom.AnchoTexto(), medidor{pdf: pdf, tr: tr})
	resultado := layout.Paginar(lineas, geom, 90)

	for i, pagina := range resultado.Paginas {
		if i > 0 {
			pdf.AddPage()
			g.encabezado(pdf, tr, geom, titulo)
			pdf.SetFont("Helvetica", "", 12)
		}
		y := pagina.YInicio
		for _, linea := range pagina.Lineas {
			if linea != "" {
				pdf.Text(geom.MargenIzquierdo, y, tr(linea))
			}
			y += geom.AltoLinea
		}
	}

	g.firmas(pdf, tr, geom, d, c, op, resultado.YFinal+separacionFirmas)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("finalizing pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// encabezado draws the institutional letterhead and title, repeated on every
// page. A missing logo file is logged and skipped.
func (g *Generator) encabezado(pdf *gofpdf.Fpdf, tr func(string) string, geom layout.Geometria, titulo string) {
	centro := geom.Ancho / 2

	logos := []struct {
		ruta string
		x    float64
	}{
		{g.cfg.Letterhead.LeftLogoPath, geom.MargenIzquierdo},
		{g.cfg.Letterhead.CenterLogoPath, centro - 10},
		{g.cfg.Letterhead.RightLogoPath, geom.Ancho - geom.MargenDerecho - 20},
	}
	for _, logo := range logos {
		if logo.ruta == "" {
			continue
		}
		g.dibujarLogo(pdf, logo.ruta, logo.x, 10)
	}

	pdf.SetFont("Helvetica", "B", 11)
	textoCentrado(pdf, tr, centro, 38, "DIRECCIÓN CONTRA HECHOS PUNIBLES ECONÓMICOS Y FINANCIEROS")
	pdf.SetFont("Helvetica", "B", 10)
	textoCentrado(pdf, tr, centro, 44, "SALA DE DENUNCIAS")

	pdf.SetFont("Helvetica", "", 8)
	textoCentrado(pdf, tr, centro, 50, "Dirección: "+g.cfg.Office.Address)
	textoCentrado(pdf, tr, centro, 54, fmt.Sprintf("Teléfono: %s Fax: %s", g.cfg.Office.Phone, g.cfg.Office.Fax))
	textoCentrado(pdf, tr, centro, 58, "E-mail: "+g.cfg.Office.Email)

	pdf.SetFont("Helvetica", "B", 11)
	textoCentrado(pdf, tr, centro, 68, titulo)
}

func (g *Generator) dibujarLogo(pdf *gofpdf.Fpdf, ruta string, x, y float64) {
	data, err := os.ReadFile(ruta)
	if err != nil {
		g.logger.Warn("letterhead logo unavailable", zap.String("path", ruta), zap.Error(err))
		return
	}
	tipo := strings.TrimPrefix(strings.ToUpper(filepath.Ext(ruta)), ".")
	if tipo == "JPG" {
		tipo = "JPEG"
	}
	opts := gofpdf.ImageOptions{ImageType: tipo, ReadDpi: true}
	nombre := filepath.Base(ruta)
	pdf.RegisterImageOptionsReader(nombre, opts, bytes.NewReader(data))
	pdf.ImageOptions(nombre, x, y, 20, 0, false, opts, 0, "")
}

// firmas draws the bottom-anchored signature block: operator column, QR with
// the verification hash, and the declarant or legal representative column.
func (g *Generator) firmas(pdf *gofpdf.Fpdf, tr func(string) string, geom layout.Geometria, d *denuncia.Denuncia, c denuncia.Clasificacion, op Opciones, y float64) {
	centro := geom.Ancho / 2
	izq := geom.MargenIzquierdo
	der := geom.Ancho - geom.MargenDerecho

	operador := d.Operador
	etiqueta := "INTERVINIENTE"
	if op.OperadorAutorizado != nil {
		operador = *op.OperadorAutorizado
		etiqueta = "OPERADOR AUTORIZADO"
	}

	pdf.SetLineWidth(0.5)
	pdf.Line(izq, y, izq+36, y)
	pdf.SetFont("Helvetica", "", 10)
	textoCentrado(pdf, tr, izq+18, y+7, denuncia.Mayusculas(operador.Nombre+" "+operador.Apellido))
	textoCentrado(pdf, tr, izq+18, y+12, denuncia.Mayusculas(operador.Grado))
	pdf.SetFont("Helvetica", "B", 10)
	textoCentrado(pdf, tr, izq+18, y+17, etiqueta)

	g.dibujarQR(pdf, centro, y, d.Hash)
	pdf.SetFont("Helvetica", "B", 8)
	textoCentrado(pdf, tr, centro, y+baseHashFirmas, d.Hash)

	pdf.Line(der-36, y, der, y)
	pdf.SetFont("Helvetica", "", 10)
	if c.Caso() == denuncia.CasoApoderado {
		ab := c.AbogadoApoderado
		matricula := strings.TrimSpace(ab.Matricula)
		if matricula == "" {
			matricula = denuncia.SinValor
		}
		textoCentrado(pdf, tr, der-18, y+7, denuncia.Mayusculas(ab.Nombres))
		textoCentrado(pdf, tr, der-18, y+12, "Matrícula Num.: "+matricula)
		pdf.SetFont("Helvetica", "B", 10)
		textoCentrado(pdf, tr, der-18, y+17, "REPRESENTANTE LEGAL")
		return
	}
	textoCentrado(pdf, tr, der-18, y+7, denuncia.Mayusculas(d.Denunciante.Nombres))
	textoCentrado(pdf, tr, der-18, y+12, "NUMERO DE DOC.: "+d.Denunciante.NumeroDocumento)
	pdf.SetFont("Helvetica", "B", 10)
	textoCentrado(pdf, tr, der-18, y+17, "DENUNCIANTE")
}

// dibujarQR encodes the verification URL and places the code centered above
// the hash. Any failure is logged and the rest of the block still renders.
func (g *Generator) dibujarQR(pdf *gofpdf.Fpdf, centro, y float64, hash string) {
	url := fmt.Sprintf("%s/verificar/%s", strings.TrimRight(g.cfg.VerificationBaseURL, "/"), hash)

	codigo, err := qr.Encode(url, qr.M, qr.Auto)
	if err != nil {
		g.logger.Warn("qr encoding failed", zap.String("hash", hash), zap.Error(err))
		return
	}
	escalado, err := barcode.Scale(codigo, 256, 256)
	if err != nil {
		g.logger.Warn("qr scaling failed", zap.String("hash", hash), zap.Error(err))
		return
	}

	var img bytes.Buffer
	if err := png.Encode(&img, escalado); err != nil {
		g.logger.Warn("qr image encoding failed", zap.String("hash", hash), zap.Error(err))
		return
	}

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr-"+hash, opts, &img)
	pdf.ImageOptions("qr-"+hash, centro-ladoQR/2, y, ladoQR, ladoQR, false, opts, 0, "")
}

func textoCentrado(pdf *gofpdf.Fpdf, tr func(string) string, x, y float64, s string) {
	t := tr(s)
	pdf.Text(x-pdf.GetStringWidth(t)/2, y, t)
}
