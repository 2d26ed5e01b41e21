// Package denuncia defines the criminal-complaint domain records consumed by
// the document composition engine, together with the display-normalization
// helpers shared by every rendering layer.
package denuncia

import (
	"fmt"
	"strings"
	"time"
)

// Rol identifies the capacity in which a participant appears on a complaint
type Rol string

const (
	RolPrincipal     Rol = "principal"
	RolCoDenunciante Rol = "co-denunciante"
	RolAbogado       Rol = "abogado"
)

// Autoria describes how much is known about the alleged author
type Autoria string

const (
	AutorConocido    Autoria = "Conocido"
	AutorDesconocido Autoria = "Desconocido"
	AutorNoAplica    Autoria = "No aplica"
)

// Papel is the physical paper-size preference of a complaint
type Papel string

const (
	PapelOficio Papel = "oficio"
	PapelA4     Papel = "a4"
)

// Denunciante is a person filing or co-filing the complaint. The record is a
// read-only snapshot at generation time; edits happen upstream.
type Denunciante struct {
	ID              int64  `db:"id" json:"id"`
	Nombres         string `db:"nombres" json:"nombres"`
	TipoDocumento   string `db:"tipo_documento" json:"tipo_documento"`
	NumeroDocumento string `db:"cedula" json:"numero_documento"`
	Nacionalidad    string `db:"nacionalidad" json:"nacionalidad"`
	EstadoCivil     string `db:"estado_civil" json:"estado_civil"`
	Edad            int    `db:"edad" json:"edad"`
	FechaNacimiento string `db:"fecha_nacimiento" json:"fecha_nacimiento"`
	LugarNacimiento string `db:"lugar_nacimiento" json:"lugar_nacimiento"`
	Domicilio       string `db:"domicilio" json:"domicilio,omitempty"`
	Telefono        string `db:"telefono" json:"telefono"`
	Correo          string `db:"correo" json:"correo,omitempty"`
	Profesion       string `db:"profesion" json:"profesion,omitempty"`
}

// Involucrado attaches a role to a declarant record. A lawyer may carry a
// power-of-attorney grant, in which case they legally stand in for the
// principal declarant.
type Involucrado struct {
	Denunciante
	Rol               Rol    `db:"rol" json:"rol"`
	ConCartaPoder     bool   `db:"con_carta_poder" json:"con_carta_poder"`
	CartaPoderFecha   string `db:"carta_poder_fecha" json:"carta_poder_fecha,omitempty"`
	CartaPoderNumero  string `db:"carta_poder_numero" json:"carta_poder_numero,omitempty"`
	CartaPoderNotario string `db:"carta_poder_notario" json:"carta_poder_notario,omitempty"`
	RepresentaA       string `db:"representa_a" json:"representa_a,omitempty"`
	Matricula         string `db:"matricula" json:"matricula,omitempty"`
}

// SupuestoAutor is the alleged author record. Exactly one of three shapes is
// meaningful: known (personal data present), unknown (optional physical
// description), or unspecified (nothing).
type SupuestoAutor struct {
	ID              int64   `db:"id" json:"id"`
	DenunciaID      int64   `db:"denuncia_id" json:"denuncia_id"`
	Conocido        Autoria `db:"autor_conocido" json:"autor_conocido"`
	Nombre          string  `db:"nombre_autor" json:"nombre_autor,omitempty"`
	NumeroDocumento string  `db:"cedula_autor" json:"cedula_autor,omitempty"`
	Domicilio       string  `db:"domicilio_autor" json:"domicilio_autor,omitempty"`
	Nacionalidad    string  `db:"nacionalidad_autor" json:"nacionalidad_autor,omitempty"`
	EstadoCivil     string  `db:"estado_civil_autor" json:"estado_civil_autor,omitempty"`
	Edad            int     `db:"edad_autor" json:"edad_autor,omitempty"`
	FechaNacimiento string  `db:"fecha_nacimiento_autor" json:"fecha_nacimiento_autor,omitempty"`
	LugarNacimiento string  `db:"lugar_nacimiento_autor" json:"lugar_nacimiento_autor,omitempty"`
	Telefono        string  `db:"telefono_autor" json:"telefono_autor,omitempty"`
	Profesion       string  `db:"profesion_autor" json:"profesion_autor,omitempty"`
	// DescripcionFisica holds either the structured description serialized as
	// JSON or a legacy free-text description; the formatter sorts it out.
	DescripcionFisica string `db:"descripcion_fisica" json:"descripcion_fisica,omitempty"`
}

// Operador is the officiating police operator shown in the document header
// and signature block
type Operador struct {
	Grado    string `json:"grado"`
	Nombre   string `json:"nombre"`
	Apellido string `json:"apellido"`
}

// NombreCompleto renders grade + full name upper-cased for display
func (o Operador) NombreCompleto() string {
	partes := make([]string, 0, 3)
	for _, p := range []string{o.Grado, o.Nombre, o.Apellido} {
		if p != "" {
			partes = append(partes, p)
		}
	}
	return Mayusculas(strings.Join(partes, " "))
}

// Denuncia is the primary criminal-report record, assembled with its
// declarant, participants and alleged author before generation is invoked.
type Denuncia struct {
	ID                 int64    `db:"id" json:"id"`
	Orden              int      `db:"orden" json:"orden"`
	Hash               string   `db:"hash" json:"hash"`
	FechaDenuncia      string   `db:"fecha_denuncia" json:"fecha_denuncia"`
	HoraDenuncia       string   `db:"hora_denuncia" json:"hora_denuncia"`
	FechaHecho         string   `db:"fecha_hecho" json:"fecha_hecho"`
	HoraHecho          string   `db:"hora_hecho" json:"hora_hecho"`
	UsarRango          bool     `db:"usar_rango" json:"usar_rango"`
	FechaHechoFin      string   `db:"fecha_hecho_fin" json:"fecha_hecho_fin,omitempty"`
	HoraHechoFin       string   `db:"hora_hecho_fin" json:"hora_hecho_fin,omitempty"`
	TipoDenuncia       string   `db:"tipo_denuncia" json:"tipo_denuncia"`
	OtroTipo           string   `db:"otro_tipo" json:"otro_tipo,omitempty"`
	LugarHecho         string   `db:"lugar_hecho" json:"lugar_hecho"`
	LugarHechoNoAplica bool     `db:"lugar_hecho_no_aplica" json:"lugar_hecho_no_aplica"`
	Relato             string   `db:"relato" json:"relato"`
	MontoDano          float64  `db:"monto_dano" json:"monto_dano,omitempty"`
	Moneda             string   `db:"moneda" json:"moneda,omitempty"`
	Latitud            *float64 `db:"latitud" json:"latitud,omitempty"`
	Longitud           *float64 `db:"longitud" json:"longitud,omitempty"`
	Oficina            string   `db:"oficina" json:"oficina"`
	TipoPapel          Papel    `db:"tipo_papel" json:"tipo_papel"`

	Operador     Operador      `json:"operador"`
	Denunciante  Denunciante   `json:"denunciante"`
	Involucrados []Involucrado `json:"involucrados,omitempty"`
	Autor        *SupuestoAutor `json:"autor,omitempty"`
}

// Año returns the four-digit filing year, falling back to the current year
// when the stored date is unusable
func (d *Denuncia) Año() int {
	if t, err := time.Parse("2006-01-02", d.FechaDenuncia); err == nil {
		return t.Year()
	}
	return time.Now().Year()
}

// Ampliacion is a supplementary statement appended to an existing complaint.
// It shares the parent's verification hash and order number but carries its
// own date, operator and narrative.
type Ampliacion struct {
	ID         int64    `db:"id" json:"id"`
	DenunciaID int64    `db:"denuncia_id" json:"denuncia_id"`
	Numero     int      `db:"numero_ampliacion" json:"numero_ampliacion"`
	Fecha      string   `db:"fecha_ampliacion" json:"fecha_ampliacion"`
	Hora       string   `db:"hora_ampliacion" json:"hora_ampliacion"`
	Relato     string   `db:"relato" json:"relato"`
	Operador   Operador `json:"operador"`
}

// Placeholder literals used when optional identity data is absent. The engine
// degrades to these instead of failing; a legal document must still be
// producible from an incomplete record.
const (
	SinDatos     = "SIN DATOS"
	SinProfesion = "SIN PROFESIÓN"
	SinValor     = "---"
)

// Mayusculas is the single display-normalization point for identity and
// location free text. Numeric and date values are never passed through it.
func Mayusculas(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// ODefecto returns the upper-cased value, or the placeholder when empty
func ODefecto(s, placeholder string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return Mayusculas(s)
}

// FormatearFecha renders a canonical YYYY-MM-DD date as DD/MM/YYYY. Malformed
// input passes through unchanged rather than failing.
func FormatearFecha(fecha string) string {
	fecha = strings.TrimSpace(fecha)
	if fecha == "" {
		return ""
	}
	partes := strings.Split(fecha, "-")
	if len(partes) != 3 {
		return fecha
	}
	return fmt.Sprintf("%s/%s/%s", partes[2], partes[1], partes[0])
}

// ParsearFechaVisual parses a DD/MM/YYYY display date back to its canonical
// calendar date
func ParsearFechaVisual(fecha string) (time.Time, error) {
	return time.Parse("02/01/2006", fecha)
}
