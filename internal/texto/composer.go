package texto

import (
	"fmt"
	"strings"

	"github.com/dchpef/acta-engine/internal/denuncia"
)

// OperadorPorDefecto is printed when the record carries no operator name
const OperadorPorDefecto = "PERSONAL POLICIAL INTERVINIENTE"

const encabezadoSala = "En la Sala de Denuncias de la Dirección Contra Hechos Punibles Económicos y Financieros, Oficina %s, en fecha %s siendo las %s, ante mí %s, "

const avisoRelato = "Según los acontecimientos que se mencionan a continuación:"

// Parrafos is the composed narrative of one document, in reading order. The
// paginator flows them onto pages; the composer owns only the words.
type Parrafos struct {
	Apertura string
	Hecho    string
	Aviso    string
	Relato   string
	Cierre   string
}

// Bloques returns the paragraphs as the ordered block sequence the paginator
// consumes
func (p Parrafos) Bloques() []string {
	return []string{p.Apertura, p.Hecho, p.Aviso, p.Relato, p.Cierre}
}

// Componer builds the full narrative for an original complaint. It never
// fails: absent fields degrade to placeholders.
func Componer(d *denuncia.Denuncia, c denuncia.Clasificacion) Parrafos {
	return Parrafos{
		Apertura: apertura(d.Oficina, d.FechaDenuncia, d.HoraDenuncia, d.Operador, c),
		Hecho:    hecho(d, false),
		Aviso:    avisoRelato,
		Relato:   strings.TrimSpace(d.Relato),
		Cierre:   cierre(c),
	}
}

// ComponerAmpliacion builds the narrative for an amendment. The introduction
// uses the amendment's own date, time and operator; the event paragraph keeps
// the original complaint's facts but shifts to amendment phrasing, and an
// author already on file is only referenced, never restated.
func ComponerAmpliacion(d *denuncia.Denuncia, a *denuncia.Ampliacion, c denuncia.Clasificacion) Parrafos {
	return Parrafos{
		Apertura: apertura(d.Oficina, a.Fecha, a.Hora, a.Operador, c),
		Hecho:    hecho(d, true),
		Aviso:    avisoRelato,
		Relato:   strings.TrimSpace(a.Relato),
		Cierre:   cierre(c),
	}
}

func apertura(oficina, fecha, hora string, op denuncia.Operador, c denuncia.Clasificacion) string {
	operador := op.NombreCompleto()
	if operador == "" {
		operador = OperadorPorDefecto
	}

	var b strings.Builder
	fmt.Fprintf(&b, encabezadoSala,
		denuncia.ODefecto(oficina, denuncia.SinDatos),
		denuncia.FormatearFecha(fecha),
		hora,
		operador,
	)

	switch c.Caso() {
	case denuncia.CasoApoderado:
		aperturaApoderado(&b, c)
	case denuncia.CasoAsistido:
		aperturaAsistido(&b, c)
	case denuncia.CasoMultiple:
		aperturaMultiple(&b, c)
	default:
		fmt.Fprintf(&b, "concurre %s, con %s, y expone cuanto sigue:",
			denuncia.Mayusculas(c.Principal.Nombres), datosPersonales(c.Principal))
	}
	return b.String()
}

// The power-of-attorney lawyer is the one who appears; the represented
// principal is named by identity only.
func aperturaApoderado(b *strings.Builder, c denuncia.Clasificacion) {
	ab := c.AbogadoApoderado
	fmt.Fprintf(b, "concurre %s, con %s, actuando en su carácter de REPRESENTANTE LEGAL de %s, con %s número %s",
		denuncia.Mayusculas(ab.Nombres),
		datosPersonales(ab.Denunciante),
		denuncia.Mayusculas(c.Principal.Nombres),
		tipoDocumento(c.Principal),
		c.Principal.NumeroDocumento,
	)
	b.WriteString(cartaPoder(ab))
	b.WriteString(", y expone cuanto sigue:")
}

func aperturaAsistido(b *strings.Builder, c denuncia.Clasificacion) {
	fmt.Fprintf(b, "concurre %s, con %s; asistido por %s, en su carácter de ABOGADO ASISTENTE%s, y expone cuanto sigue:",
		denuncia.Mayusculas(c.Principal.Nombres),
		datosPersonales(c.Principal),
		denuncia.Mayusculas(c.AbogadoAsistente.Nombres),
		matricula(c.AbogadoAsistente),
	)
}

func aperturaMultiple(b *strings.Builder, c denuncia.Clasificacion) {
	fmt.Fprintf(b, "concurren los ciudadanos: %s; %s, con %s",
		ListarNombres(c.Nombres()),
		denuncia.Mayusculas(c.Principal.Nombres),
		datosPersonales(c.Principal),
	)
	for i := range c.CoDenunciantes {
		cd := &c.CoDenunciantes[i]
		fmt.Fprintf(b, "; asimismo %s, en su carácter de CO-DENUNCIANTE", denuncia.Mayusculas(cd.Nombres))
	}
	if ab := c.AbogadoAsistente; ab != nil {
		fmt.Fprintf(b, "; asistido por %s, en su carácter de ABOGADO ASISTENTE%s",
			denuncia.Mayusculas(ab.Nombres), matricula(ab))
	}
	if ab := c.AbogadoApoderado; ab != nil {
		fmt.Fprintf(b, "; y %s, en su carácter de REPRESENTANTE LEGAL de %s%s%s",
			denuncia.Mayusculas(ab.Nombres),
			denuncia.Mayusculas(c.Principal.Nombres),
			matricula(ab),
			cartaPoder(ab),
		)
	}
	b.WriteString(", quienes de común acuerdo exponen cuanto sigue:")
}

// ListarNombres joins attendee names in the customary style: two names with
// " y ", three or more comma-separated with a final " y ".
func ListarNombres(nombres []string) string {
	switch len(nombres) {
	case 0:
		return ""
	case 1:
		return nombres[0]
	case 2:
		return nombres[0] + " y " + nombres[1]
	default:
		return strings.Join(nombres[:len(nombres)-1], ", ") + " y " + nombres[len(nombres)-1]
	}
}

func tipoDocumento(p denuncia.Denunciante) string {
	if strings.TrimSpace(p.TipoDocumento) == "" {
		return "Cédula de Identidad Paraguaya"
	}
	return strings.TrimSpace(p.TipoDocumento)
}

// datosPersonales renders the shared identity clause. Free-text values are
// upper-cased; numbers and dates are rendered as stored.
func datosPersonales(p denuncia.Denunciante) string {
	edad := denuncia.SinValor
	if p.Edad > 0 {
		edad = fmt.Sprintf("%d", p.Edad)
	}
	return fmt.Sprintf("%s número %s, de nacionalidad %s, estado civil %s, %s años de edad, fecha de nacimiento %s, en %s, domiciliado en %s, de profesión %s, teléfono %s",
		tipoDocumento(p),
		p.NumeroDocumento,
		denuncia.ODefecto(p.Nacionalidad, denuncia.SinDatos),
		denuncia.ODefecto(p.EstadoCivil, denuncia.SinDatos),
		edad,
		denuncia.FormatearFecha(p.FechaNacimiento),
		denuncia.ODefecto(p.LugarNacimiento, denuncia.SinDatos),
		denuncia.ODefecto(p.Domicilio, denuncia.SinDatos),
		denuncia.ODefecto(p.Profesion, denuncia.SinProfesion),
		p.Telefono,
	)
}

func matricula(ab *denuncia.Involucrado) string {
	if strings.TrimSpace(ab.Matricula) == "" {
		return ""
	}
	return ", matrícula N° " + strings.TrimSpace(ab.Matricula)
}

func cartaPoder(ab *denuncia.Involucrado) string {
	if !ab.ConCartaPoder {
		return ""
	}
	var b strings.Builder
	b.WriteString(", conforme a CARTA PODER")
	if ab.CartaPoderNumero != "" {
		b.WriteString(" N° " + ab.CartaPoderNumero)
	}
	if ab.CartaPoderFecha != "" {
		b.WriteString(" de fecha " + denuncia.FormatearFecha(ab.CartaPoderFecha))
	}
	if ab.CartaPoderNotario != "" {
		b.WriteString(" ante el Escribano " + denuncia.Mayusculas(ab.CartaPoderNotario))
	}
	return b.String()
}

// hecho builds the event paragraph. The amendment variant shifts the filing
// verb and tense and never restates an author already on file.
func hecho(d *denuncia.Denuncia, ampliacion bool) string {
	var b strings.Builder

	accion, participio := "una denuncia", "ocurrido"
	if ampliacion {
		accion, participio = "una ampliación de denuncia", "denunciado"
	}
	fmt.Fprintf(&b, "Que por la presente viene a realizar %s sobre un supuesto HECHO PUNIBLE CONTRA %s, %s %s, %s",
		accion, categoria(d), participio, clausulaTiempo(d), clausulaLugar(d))

	if ampliacion {
		if d.Autor != nil && d.Autor.Conocido != denuncia.AutorNoAplica {
			b.WriteString(", siendo el supuesto autor el ya mencionado en la denuncia original")
		}
		b.WriteString(".")
		return b.String()
	}

	b.WriteString(clausulaAutoria(d.Autor))
	return b.String()
}

func categoria(d *denuncia.Denuncia) string {
	tipo := denuncia.Mayusculas(d.TipoDenuncia)
	if (tipo == "OTRO" || tipo == "OTRO (ESPECIFICAR)") && d.OtroTipo != "" {
		return denuncia.Mayusculas(d.OtroTipo)
	}
	return denuncia.ODefecto(tipo, denuncia.SinDatos)
}

func clausulaTiempo(d *denuncia.Denuncia) string {
	if d.UsarRango && d.FechaHechoFin != "" {
		return fmt.Sprintf("entre las %s horas del %s y las %s horas del %s",
			d.HoraHecho, denuncia.FormatearFecha(d.FechaHecho),
			d.HoraHechoFin, denuncia.FormatearFecha(d.FechaHechoFin))
	}
	return fmt.Sprintf("en fecha %s siendo las %s aproximadamente",
		denuncia.FormatearFecha(d.FechaHecho), d.HoraHecho)
}

func clausulaLugar(d *denuncia.Denuncia) string {
	if d.LugarHechoNoAplica {
		return "en dirección NO APLICA"
	}
	return "en la dirección " + denuncia.ODefecto(d.LugarHecho, denuncia.SinDatos)
}

func clausulaAutoria(a *denuncia.SupuestoAutor) string {
	if a == nil || a.Conocido == denuncia.AutorNoAplica {
		return "."
	}

	if a.Conocido == denuncia.AutorConocido && a.Nombre != "" {
		detalles := detallesAutor(a)
		s := ", sindicando como supuesto autor a " + denuncia.Mayusculas(a.Nombre)
		if len(detalles) > 0 {
			return s + ", " + strings.Join(detalles, ", ") + "."
		}
		return s + "."
	}

	s := ", siendo el supuesto autor una persona DESCONOCIDA por la persona denunciante"
	if desc := FormatearDescripcion(a.DescripcionFisica); desc != "" {
		return s + ", a quien describe físicamente de la siguiente manera: " + desc
	}
	return s + "."
}

func detallesAutor(a *denuncia.SupuestoAutor) []string {
	var detalles []string
	if a.NumeroDocumento != "" {
		detalles = append(detalles, "con número de documento "+denuncia.Mayusculas(a.NumeroDocumento))
	}
	if a.Domicilio != "" {
		detalles = append(detalles, "con domicilio en "+denuncia.Mayusculas(a.Domicilio))
	}
	if a.Nacionalidad != "" {
		detalles = append(detalles, "de nacionalidad "+denuncia.Mayusculas(a.Nacionalidad))
	}
	if a.EstadoCivil != "" {
		detalles = append(detalles, "estado civil "+denuncia.Mayusculas(a.EstadoCivil))
	}
	if a.Edad > 0 {
		detalles = append(detalles, fmt.Sprintf("edad %d años", a.Edad))
	}
	if a.FechaNacimiento != "" {
		detalles = append(detalles, "nacido en fecha "+denuncia.FormatearFecha(a.FechaNacimiento))
	}
	if a.LugarNacimiento != "" {
		detalles = append(detalles, "en "+denuncia.Mayusculas(a.LugarNacimiento))
	}
	if a.Telefono != "" {
		detalles = append(detalles, "número de teléfono "+a.Telefono)
	}
	if a.Profesion != "" {
		detalles = append(detalles, "de profesión "+denuncia.Mayusculas(a.Profesion))
	}
	return detalles
}

// cierre renders the fixed legal boilerplate. Only the signer phrasing
// varies: plural when co-declarants attend, representative when the
// power-of-attorney lawyer signs in the principal's place.
func cierre(c denuncia.Clasificacion) string {
	firmante := "EL DENUNCIANTE"
	switch {
	case c.Caso() == denuncia.CasoApoderado:
		firmante = "EL REPRESENTANTE LEGAL"
	case len(c.CoDenunciantes) > 0:
		firmante = "LOS DENUNCIANTES"
	}
	return fmt.Sprintf(`NO HABIENDO NADA MÁS QUE AGREGAR SE DA POR TERMINADA EL ACTA, PREVIA LECTURA Y RATIFICACIÓN DE SU CONTENIDO, FIRMANDO AL PIE %s Y EL INTERVINIENTE, EN 3 (TRES) COPIAS DEL MISMO TENOR Y EFECTO. LA PERSONA RECURRENTE ES INFORMADA SOBRE: ARTÍCULO 289.- "DENUNCIA FALSA"; ARTÍCULO 242.- "TESTIMONIO FALSO"; ARTÍCULO 243.- "DECLARACIÓN FALSA".`, firmante)
}
