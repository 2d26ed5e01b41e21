// Package texto builds the narrative paragraphs of a complaint record. All
// functions are pure over their inputs and never fail: missing data degrades
// to placeholder literals so a document can always be produced.
package texto

import (
	"encoding/json"
	"strings"

	"github.com/dchpef/acta-engine/internal/denuncia"
)

// DescripcionFisica is the structured physical description captured for an
// unknown alleged author. Every field is optional.
type DescripcionFisica struct {
	Altura              string   `json:"altura,omitempty"`
	Complexion          string   `json:"complexion,omitempty"`
	Postura             string   `json:"postura,omitempty"`
	FormaRostro         string   `json:"formaRostro,omitempty"`
	TonoPiel            string   `json:"tonoPiel,omitempty"`
	TexturaPiel         string   `json:"texturaPiel,omitempty"`
	ColorCabello        string   `json:"colorCabello,omitempty"`
	CabelloTenido       string   `json:"cabelloTeñido,omitempty"`
	LongitudCabello     string   `json:"longitudCabello,omitempty"`
	TexturaCabello      string   `json:"texturaCabello,omitempty"`
	Peinado             string   `json:"peinado,omitempty"`
	FormaOjos           string   `json:"formaOjos,omitempty"`
	ColorOjos           string   `json:"colorOjos,omitempty"`
	CaracteristicasOjos []string `json:"caracteristicasOjos,omitempty"`
	OtrosRasgos         []string `json:"otrosRasgos,omitempty"`
}

// FormatearDescripcion renders the stored description as a readable sentence
// grouped by category. The input is either the structured description
// serialized as JSON or a legacy free-text value; free text is returned
// verbatim, and an empty input yields the empty string so callers can omit
// the clause entirely.
//
// Because plain text passes through unchanged, the function is idempotent on
// its own output.
func FormatearDescripcion(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	var desc DescripcionFisica
	if err := json.Unmarshal([]byte(raw), &desc); err != nil {
		return raw
	}
	return desc.Texto()
}

// Texto assembles the category sentences in fixed order: build, face shape,
// skin, hair, eyes, other distinguishing marks. Absent attributes are omitted
// without placeholders.
func (d DescripcionFisica) Texto() string {
	var partes []string

	var constitucion []string
	if d.Altura != "" {
		constitucion = append(constitucion, "altura "+valor(d.Altura))
	}
	if d.Complexion != "" {
		constitucion = append(constitucion, "complexión "+valor(d.Complexion))
	}
	if d.Postura != "" {
		constitucion = append(constitucion, "postura "+valor(d.Postura))
	}
	if len(constitucion) > 0 {
		partes = append(partes, "Constitución física: "+strings.Join(constitucion, ", ")+".")
	}

	if d.FormaRostro != "" {
		partes = append(partes, "Forma del rostro: "+valor(d.FormaRostro)+".")
	}

	var piel []string
	if d.TonoPiel != "" {
		piel = append(piel, "tono "+valor(d.TonoPiel))
	}
	if d.TexturaPiel != "" {
		piel = append(piel, "textura "+valor(d.TexturaPiel))
	}
	if len(piel) > 0 {
		partes = append(partes, "Piel: "+strings.Join(piel, ", ")+".")
	}

	var cabello []string
	if d.ColorCabello != "" {
		if strings.EqualFold(d.ColorCabello, "Teñido") && d.CabelloTenido != "" {
			cabello = append(cabello, "color teñido ("+valor(d.CabelloTenido)+")")
		} else {
			cabello = append(cabello, "color "+valor(d.ColorCabello))
		}
	}
	if d.LongitudCabello != "" {
		cabello = append(cabello, "longitud "+valor(d.LongitudCabello))
	}
	if d.TexturaCabello != "" {
		cabello = append(cabello, "textura "+valor(d.TexturaCabello))
	}
	if d.Peinado != "" {
		cabello = append(cabello, "peinado "+valor(d.Peinado))
	}
	if len(cabello) > 0 {
		partes = append(partes, "Cabello: "+strings.Join(cabello, ", ")+".")
	}

	var ojos []string
	if d.FormaOjos != "" {
		ojos = append(ojos, "forma "+valor(d.FormaOjos))
	}
	if d.ColorOjos != "" {
		ojos = append(ojos, "color "+valor(d.ColorOjos))
	}
	if len(d.CaracteristicasOjos) > 0 {
		ojos = append(ojos, valores(d.CaracteristicasOjos))
	}
	if len(ojos) > 0 {
		partes = append(partes, "Ojos: "+strings.Join(ojos, ", ")+".")
	}

	if len(d.OtrosRasgos) > 0 {
		partes = append(partes, "Otros rasgos distintivos: "+valores(d.OtrosRasgos)+".")
	}

	return strings.Join(partes, " ")
}

func valor(s string) string {
	return denuncia.Mayusculas(s)
}

func valores(ss []string) string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		if strings.TrimSpace(s) == "" {
			continue
		}
		out = append(out, valor(s))
	}
	return strings.Join(out, ", ")
}
