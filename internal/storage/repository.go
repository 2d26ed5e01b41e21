package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/dchpef/acta-engine/internal/denuncia"
)

// ErrNoEncontrado reports a lookup that matched nothing
var ErrNoEncontrado = errors.New("registro no encontrado")

// Repository serves complaint aggregates
type Repository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewRepository creates a new repository instance
func NewRepository(db *sqlx.DB, logger *zap.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

type denunciaRow struct {
	ID                 int64           `db:"id"`
	Orden              int             `db:"orden"`
	Hash               string          `db:"hash"`
	FechaDenuncia      string          `db:"fecha_denuncia"`
	HoraDenuncia       string          `db:"hora_denuncia"`
	FechaHecho         string          `db:"fecha_hecho"`
	HoraHecho          string          `db:"hora_hecho"`
	UsarRango          bool            `db:"usar_rango"`
	FechaHechoFin      string          `db:"fecha_hecho_fin"`
	HoraHechoFin       string          `db:"hora_hecho_fin"`
	TipoDenuncia       string          `db:"tipo_denuncia"`
	OtroTipo           string          `db:"otro_tipo"`
	LugarHecho         string          `db:"lugar_hecho"`
	LugarHechoNoAplica bool            `db:"lugar_hecho_no_aplica"`
	Relato             string          `db:"relato"`
	MontoDano          float64         `db:"monto_dano"`
	Moneda             string          `db:"moneda"`
	Latitud            sql.NullFloat64 `db:"latitud"`
	Longitud           sql.NullFloat64 `db:"longitud"`
	Oficina            string          `db:"oficina"`
	TipoPapel          string          `db:"tipo_papel"`
	OperadorGrado      string          `db:"operador_grado"`
	OperadorNombre     string          `db:"operador_nombre"`
	OperadorApellido   string          `db:"operador_apellido"`

	Nombres         string `db:"nombres"`
	TipoDocumento   string `db:"tipo_documento"`
	Cedula          string `db:"cedula"`
	Nacionalidad    string `db:"nacionalidad"`
	EstadoCivil     string `db:"estado_civil"`
	Edad            int    `db:"edad"`
	FechaNacimiento string `db:"fecha_nacimiento"`
	LugarNacimiento string `db:"lugar_nacimiento"`
	Domicilio       string `db:"domicilio"`
	Telefono        string `db:"telefono"`
	Correo          string `db:"correo"`
	Profesion       string `db:"profesion"`
}

const denunciaBaseQuery = `
	SELECT d.id, d.orden, d.hash, d.fecha_denuncia, d.hora_denuncia,
	       d.fecha_hecho, d.hora_hecho, d.usar_rango, d.fecha_hecho_fin, d.hora_hecho_fin,
	       d.tipo_denuncia, d.otro_tipo, d.lugar_hecho, d.lugar_hecho_no_aplica,
	       d.relato, d.monto_dano, d.moneda, d.latitud, d.longitud,
	       d.oficina, d.tipo_papel, d.operador_grado, d.operador_nombre, d.operador_apellido,
	       den.nombres, den.tipo_documento, den.cedula, den.nacionalidad, den.estado_civil,
	       den.edad, den.fecha_nacimiento, den.lugar_nacimiento, den.domicilio,
	       den.telefono, den.correo, den.profesion
	FROM denuncias d
	INNER JOIN denunciantes den ON d.denunciante_id = den.id`

// ObtenerDenuncia loads the full complaint aggregate: declarant, participants
// ordered principal-first, and the alleged author when on file.
func (r *Repository) ObtenerDenuncia(ctx context.Context, id int64) (*denuncia.Denuncia, error) {
	var row denunciaRow
	if err := r.db.GetContext(ctx, &row, denunciaBaseQuery+" WHERE d.id = $1", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoEncontrado
		}
		return nil, fmt.Errorf("loading complaint %d: %w", id, err)
	}
	return r.armarDenuncia(ctx, row)
}

// BuscarPorHash resolves a verification hash to its complaint
func (r *Repository) BuscarPorHash(ctx context.Context, hash string) (*denuncia.Denuncia, error) {
	var row denunciaRow
	if err := r.db.GetContext(ctx, &row, denunciaBaseQuery+" WHERE d.hash = $1", hash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoEncontrado
		}
		return nil, fmt.Errorf("resolving hash %s: %w", hash, err)
	}
	return r.armarDenuncia(ctx, row)
}

func (r *Repository) armarDenuncia(ctx context.Context, row denunciaRow) (*denuncia.Denuncia, error) {
	d := &denuncia.Denuncia{
		ID:                 row.ID,
		Orden:              row.Orden,
		Hash:               row.Hash,
		FechaDenuncia:      row.FechaDenuncia,
		HoraDenuncia:       row.HoraDenuncia,
		FechaHecho:         row.FechaHecho,
		HoraHecho:          row.HoraHecho,
		UsarRango:          row.UsarRango,
		FechaHechoFin:      row.FechaHechoFin,
		HoraHechoFin:       row.HoraHechoFin,
		TipoDenuncia:       row.TipoDenuncia,
		OtroTipo:           row.OtroTipo,
		LugarHecho:         row.LugarHecho,
		LugarHechoNoAplica: row.LugarHechoNoAplica,
		Relato:             row.Relato,
		MontoDano:          row.MontoDano,
		Moneda:             row.Moneda,
		Oficina:            row.Oficina,
		TipoPapel:          denuncia.Papel(row.TipoPapel),
		Operador: denuncia.Operador{
			Grado:    row.OperadorGrado,
			Nombre:   row.OperadorNombre,
			Apellido: row.OperadorApellido,
		},
		Denunciante: denuncia.Denunciante{
			Nombres:         row.Nombres,
			TipoDocumento:   row.TipoDocumento,
			NumeroDocumento: row.Cedula,
			Nacionalidad:    row.Nacionalidad,
			EstadoCivil:     row.EstadoCivil,
			Edad:            row.Edad,
			FechaNacimiento: row.FechaNacimiento,
			LugarNacimiento: row.LugarNacimiento,
			Domicilio:       row.Domicilio,
			Telefono:        row.Telefono,
			Correo:          row.Correo,
			Profesion:       row.Profesion,
		},
	}
	if row.Latitud.Valid {
		d.Latitud = &row.Latitud.Float64
	}
	if row.Longitud.Valid {
		d.Longitud = &row.Longitud.Float64
	}

	involucrados, err := r.involucrados(ctx, row.ID)
	if err != nil {
		return nil, err
	}
	d.Involucrados = involucrados

	autor, err := r.autor(ctx, row.ID)
	if err != nil {
		return nil, err
	}
	d.Autor = autor

	return d, nil
}

func (r *Repository) involucrados(ctx context.Context, denunciaID int64) ([]denuncia.Involucrado, error) {
	var rows []struct {
		Rol               string `db:"rol"`
		ConCartaPoder     bool   `db:"con_carta_poder"`
		CartaPoderFecha   string `db:"carta_poder_fecha"`
		CartaPoderNumero  string `db:"carta_poder_numero"`
		CartaPoderNotario string `db:"carta_poder_notario"`
		Matricula         string `db:"matricula"`
		Nombres           string `db:"nombres"`
		TipoDocumento     string `db:"tipo_documento"`
		Cedula            string `db:"cedula"`
		Nacionalidad      string `db:"nacionalidad"`
		EstadoCivil       string `db:"estado_civil"`
		Edad              int    `db:"edad"`
		FechaNacimiento   string `db:"fecha_nacimiento"`
		LugarNacimiento   string `db:"lugar_nacimiento"`
		Domicilio         string `db:"domicilio"`
		Telefono          string `db:"telefono"`
		Correo            string `db:"correo"`
		Profesion         string `db:"profesion"`
	}

	err := r.db.SelectContext(ctx, &rows, `
		SELECT di.rol, di.con_carta_poder, di.carta_poder_fecha, di.carta_poder_numero,
		       di.carta_poder_notario, den.matricula,
		       den.nombres, den.tipo_documento, den.cedula, den.nacionalidad,
		       den.estado_civil, den.edad, den.fecha_nacimiento, den.lugar_nacimiento,
		       den.domicilio, den.telefono, den.correo, den.profesion
		FROM denuncias_involucrados di
		INNER JOIN denunciantes den ON den.id = di.denunciante_id
		WHERE di.denuncia_id = $1
		ORDER BY CASE WHEN di.rol = 'principal' THEN 0 ELSE 1 END, di.id`,
		denunciaID)
	if err != nil {
		return nil, fmt.Errorf("loading participants of complaint %d: %w", denunciaID, err)
	}

	involucrados := make([]denuncia.Involucrado, 0, len(rows))
	for _, row := range rows {
		involucrados = append(involucrados, denuncia.Involucrado{
			Denunciante: denuncia.Denunciante{
				Nombres:         row.Nombres,
				TipoDocumento:   row.TipoDocumento,
				NumeroDocumento: row.Cedula,
				Nacionalidad:    row.Nacionalidad,
				EstadoCivil:     row.EstadoCivil,
				Edad:            row.Edad,
				FechaNacimiento: row.FechaNacimiento,
				LugarNacimiento: row.LugarNacimiento,
				Domicilio:       row.Domicilio,
				Telefono:        row.Telefono,
				Correo:          row.Correo,
				Profesion:       row.Profesion,
			},
			Rol:               denuncia.Rol(row.Rol),
			ConCartaPoder:     row.ConCartaPoder,
			CartaPoderFecha:   row.CartaPoderFecha,
			CartaPoderNumero:  row.CartaPoderNumero,
			CartaPoderNotario: row.CartaPoderNotario,
			Matricula:         row.Matricula,
		})
	}
	return involucrados, nil
}

func (r *Repository) autor(ctx context.Context, denunciaID int64) (*denuncia.SupuestoAutor, error) {
	var a denuncia.SupuestoAutor
	err := r.db.GetContext(ctx, &a, `
		SELECT id, denuncia_id, autor_conocido, nombre_autor, cedula_autor,
		       domicilio_autor, nacionalidad_autor, estado_civil_autor, edad_autor,
		       fecha_nacimiento_autor, lugar_nacimiento_autor, telefono_autor,
		       profesion_autor, descripcion_fisica
		FROM supuestos_autores WHERE denuncia_id = $1 LIMIT 1`,
		denunciaID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading alleged author of complaint %d: %w", denunciaID, err)
	}
	return &a, nil
}

// ObtenerAmpliacion loads one amendment record
func (r *Repository) ObtenerAmpliacion(ctx context.Context, id int64) (*denuncia.Ampliacion, error) {
	var row struct {
		ID               int64  `db:"id"`
		DenunciaID       int64  `db:"denuncia_id"`
		Numero           int    `db:"numero_ampliacion"`
		Fecha            string `db:"fecha_ampliacion"`
		Hora             string `db:"hora_ampliacion"`
		Relato           string `db:"relato"`
		OperadorGrado    string `db:"operador_grado"`
		OperadorNombre   string `db:"operador_nombre"`
		OperadorApellido string `db:"operador_apellido"`
	}
	err := r.db.GetContext(ctx, &row, `
		SELECT id, denuncia_id, numero_ampliacion, fecha_ampliacion, hora_ampliacion,
		       relato, operador_grado, operador_nombre, operador_apellido
		FROM ampliaciones_denuncia WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoEncontrado
	}
	if err != nil {
		return nil, fmt.Errorf("loading amendment %d: %w", id, err)
	}
	return &denuncia.Ampliacion{
		ID:         row.ID,
		DenunciaID: row.DenunciaID,
		Numero:     row.Numero,
		Fecha:      row.Fecha,
		Hora:       row.Hora,
		Relato:     row.Relato,
		Operador: denuncia.Operador{
			Grado:    row.OperadorGrado,
			Nombre:   row.OperadorNombre,
			Apellido: row.OperadorApellido,
		},
	}, nil
}

// CrearDenuncia files a new complaint: assigns the next order number of the
// filing year, generates the verification hash and persists the aggregate in
// one transaction. The assigned Orden and Hash are written back to d.
func (r *Repository) CrearDenuncia(ctx context.Context, d *denuncia.Denuncia) error {
	hash, err := GenerarHash(d.Oficina, time.Now())
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	año := d.Año()
	var orden int
	err = tx.GetContext(ctx, &orden, `
		SELECT COALESCE(MAX(orden), 0) + 1
		FROM denuncias
		WHERE substring(fecha_denuncia from 1 for 4) = $1 AND orden >= 1`,
		fmt.Sprintf("%d", año))
	if err != nil {
		return fmt.Errorf("assigning order number: %w", err)
	}

	var denuncianteID int64
	err = tx.GetContext(ctx, &denuncianteID, `
		INSERT INTO denunciantes (nombres, tipo_documento, cedula, nacionalidad, estado_civil,
		                          edad, fecha_nacimiento, lugar_nacimiento, domicilio,
		                          telefono, correo, profesion)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`,
		d.Denunciante.Nombres, d.Denunciante.TipoDocumento, d.Denunciante.NumeroDocumento,
		d.Denunciante.Nacionalidad, d.Denunciante.EstadoCivil, d.Denunciante.Edad,
		d.Denunciante.FechaNacimiento, d.Denunciante.LugarNacimiento, d.Denunciante.Domicilio,
		d.Denunciante.Telefono, d.Denunciante.Correo, d.Denunciante.Profesion)
	if err != nil {
		return fmt.Errorf("inserting declarant: %w", err)
	}

	var denunciaID int64
	err = tx.GetContext(ctx, &denunciaID, `
		INSERT INTO denuncias (orden, hash, fecha_denuncia, hora_denuncia, fecha_hecho, hora_hecho,
		                       usar_rango, fecha_hecho_fin, hora_hecho_fin, tipo_denuncia, otro_tipo,
		                       lugar_hecho, lugar_hecho_no_aplica, relato, monto_dano, moneda,
		                       latitud, longitud, oficina, tipo_papel,
		                       operador_grado, operador_nombre, operador_apellido, denunciante_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
		        $17, $18, $19, $20, $21, $22, $23, $24)
		RETURNING id`,
		orden, hash, d.FechaDenuncia, d.HoraDenuncia, d.FechaHecho, d.HoraHecho,
		d.UsarRango, d.FechaHechoFin, d.HoraHechoFin, d.TipoDenuncia, d.OtroTipo,
		d.LugarHecho, d.LugarHechoNoAplica, d.Relato, d.MontoDano, d.Moneda,
		d.Latitud, d.Longitud, d.Oficina, string(d.TipoPapel),
		d.Operador.Grado, d.Operador.Nombre, d.Operador.Apellido, denuncianteID)
	if err != nil {
		return fmt.Errorf("inserting complaint: %w", err)
	}

	for i := range d.Involucrados {
		inv := &d.Involucrados[i]
		var invID int64
		err = tx.GetContext(ctx, &invID, `
			INSERT INTO denunciantes (nombres, tipo_documento, cedula, nacionalidad, estado_civil,
			                          edad, fecha_nacimiento, lugar_nacimiento, domicilio,
			                          telefono, correo, profesion, matricula)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			RETURNING id`,
			inv.Nombres, inv.TipoDocumento, inv.NumeroDocumento, inv.Nacionalidad,
			inv.EstadoCivil, inv.Edad, inv.FechaNacimiento, inv.LugarNacimiento,
			inv.Domicilio, inv.Telefono, inv.Correo, inv.Profesion, inv.Matricula)
		if err != nil {
			return fmt.Errorf("inserting participant: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO denuncias_involucrados (denuncia_id, denunciante_id, rol, con_carta_poder,
			                                    carta_poder_fecha, carta_poder_numero, carta_poder_notario)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			denunciaID, invID, string(inv.Rol), inv.ConCartaPoder,
			inv.CartaPoderFecha, inv.CartaPoderNumero, inv.CartaPoderNotario)
		if err != nil {
			return fmt.Errorf("linking participant: %w", err)
		}
	}

	if a := d.Autor; a != nil {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO supuestos_autores (denuncia_id, autor_conocido, nombre_autor, cedula_autor,
			                               domicilio_autor, nacionalidad_autor, estado_civil_autor,
			                               edad_autor, fecha_nacimiento_autor, lugar_nacimiento_autor,
			                               telefono_autor, profesion_autor, descripcion_fisica)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			denunciaID, string(a.Conocido), a.Nombre, a.NumeroDocumento, a.Domicilio,
			a.Nacionalidad, a.EstadoCivil, a.Edad, a.FechaNacimiento, a.LugarNacimiento,
			a.Telefono, a.Profesion, a.DescripcionFisica)
		if err != nil {
			return fmt.Errorf("inserting alleged author: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing complaint: %w", err)
	}

	d.ID = denunciaID
	d.Orden = orden
	d.Hash = hash
	r.logger.Info("complaint filed",
		zap.Int64("id", denunciaID),
		zap.Int("orden", orden),
		zap.String("hash", hash))
	return nil
}

// Visita records one access to the public verification page
type Visita struct {
	Hash      string `db:"hash"`
	IP        string `db:"ip"`
	UserAgent string `db:"user_agent"`
}

// RegistrarVisita appends a verification visit to the trail
func (r *Repository) RegistrarVisita(ctx context.Context, v Visita) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO visitas_verificacion (hash, ip, user_agent, visitado_en)
		VALUES ($1, $2, $3, NOW())`,
		v.Hash, v.IP, v.UserAgent)
	if err != nil {
		return fmt.Errorf("recording verification visit: %w", err)
	}
	return nil
}

// Resumen is one row of the complaint listing used by the export endpoint
type Resumen struct {
	Orden         int    `db:"orden"`
	Hash          string `db:"hash"`
	FechaDenuncia string `db:"fecha_denuncia"`
	HoraDenuncia  string `db:"hora_denuncia"`
	TipoDenuncia  string `db:"tipo_denuncia"`
	LugarHecho    string `db:"lugar_hecho"`
	Oficina       string `db:"oficina"`
	Denunciante   string `db:"denunciante"`
	Documento     string `db:"documento"`
}

// ListarDenuncias lists complaints of one filing year, newest first
func (r *Repository) ListarDenuncias(ctx context.Context, año int) ([]Resumen, error) {
	var resumenes []Resumen
	err := r.db.SelectContext(ctx, &resumenes, `
		SELECT d.orden, d.hash, d.fecha_denuncia, d.hora_denuncia, d.tipo_denuncia,
		       d.lugar_hecho, d.oficina,
		       den.nombres AS denunciante, den.cedula AS documento
		FROM denuncias d
		INNER JOIN denunciantes den ON d.denunciante_id = den.id
		WHERE substring(d.fecha_denuncia from 1 for 4) = $1
		ORDER BY d.orden DESC`,
		fmt.Sprintf("%d", año))
	if err != nil {
		return nil, fmt.Errorf("listing complaints of %d: %w", año, err)
	}
	return resumenes, nil
}
