package denuncia

// Caso is the closed set of narrative cases the composer selects from
type Caso int

const (
	// CasoApoderado: a power-of-attorney lawyer appears alone for the principal
	CasoApoderado Caso = iota
	// CasoAsistido: the principal appears with an assisting lawyer only
	CasoAsistido
	// CasoMultiple: more than one person attends and no case above applies
	CasoMultiple
	// CasoSimple: the principal appears alone
	CasoSimple
)

func (c Caso) String() string {
	switch c {
	case CasoApoderado:
		return "apoderado"
	case CasoAsistido:
		return "asistido"
	case CasoMultiple:
		return "multiple"
	default:
		return "simple"
	}
}

// Clasificacion partitions the complaint's participants for the narrative
// composer and the signature block
type Clasificacion struct {
	Principal           Denunciante
	CoDenunciantes      []Involucrado
	AbogadoAsistente    *Involucrado
	AbogadoApoderado    *Involucrado
	TotalComparecientes int
}

// Clasificar partitions the declarant and participant list by role. Only one
// assisting lawyer and one power-of-attorney lawyer are meaningful; when a
// record carries duplicates, the first match in list order wins and the rest
// are ignored. Upstream validation owns that invariant.
func Clasificar(principal Denunciante, involucrados []Involucrado) Clasificacion {
	c := Clasificacion{Principal: principal}

	for i := range involucrados {
		inv := &involucrados[i]
		switch inv.Rol {
		case RolCoDenunciante:
			c.CoDenunciantes = append(c.CoDenunciantes, *inv)
		case RolAbogado:
			if inv.ConCartaPoder {
				if c.AbogadoApoderado == nil {
					c.AbogadoApoderado = inv
				}
			} else if c.AbogadoAsistente == nil {
				c.AbogadoAsistente = inv
			}
		}
	}

	c.TotalComparecientes = 1 + len(c.CoDenunciantes)
	if c.AbogadoAsistente != nil {
		c.TotalComparecientes++
	}
	if c.AbogadoApoderado != nil {
		c.TotalComparecientes++
	}
	return c
}

// Caso selects the narrative case. The selection is total: every combination
// of participants maps to exactly one case.
func (c Clasificacion) Caso() Caso {
	switch {
	case c.AbogadoApoderado != nil && len(c.CoDenunciantes) == 0 && c.AbogadoAsistente == nil:
		return CasoApoderado
	case c.AbogadoApoderado == nil && len(c.CoDenunciantes) == 0 && c.AbogadoAsistente != nil:
		return CasoAsistido
	case c.TotalComparecientes > 1:
		return CasoMultiple
	default:
		return CasoSimple
	}
}

// Nombres lists every attendee's display name in narrative order: principal,
// co-declarants, assisting lawyer, power-of-attorney lawyer.
func (c Clasificacion) Nombres() []string {
	nombres := []string{Mayusculas(c.Principal.Nombres)}
	for _, cd := range c.CoDenunciantes {
		nombres = append(nombres, Mayusculas(cd.Nombres))
	}
	if c.AbogadoAsistente != nil {
		nombres = append(nombres, Mayusculas(c.AbogadoAsistente.Nombres))
	}
	if c.AbogadoApoderado != nil {
		nombres = append(nombres, Mayusculas(c.AbogadoApoderado.Nombres))
	}
	return nombres
}
