package store

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound se devuelve cuando una búsqueda por clave natural o id no
// encuentra fila activa. Los backends traducen su error propio a este.
var ErrNotFound = errors.New("registro no encontrado")

// Store es el contrato único de acceso a datos. Hay dos implementaciones,
// elegidas una sola vez al arranque: local (SQLite embebido) y remote
// (Supabase/PostgREST). La lógica de negocio nunca distingue entre ambas.
type Store interface {
	// Catálogos
	ListProgramas(ctx context.Context) ([]Programa, error)
	UpsertPrograma(ctx context.Context, nombre string) (int64, error)
	ListConvenios(ctx context.Context, programaID int64) ([]Convenio, error)
	UpsertConvenio(ctx context.Context, nombre string, programaID int64) (int64, error)
	ListInstituciones(ctx context.Context) ([]Institucion, error)
	UpsertInstitucion(ctx context.Context, inst Institucion) (int64, error)
	ListProfesores(ctx context.Context, programaID, convenioID int64) ([]Profesor, error)
	UpsertProfesor(ctx context.Context, prof Profesor) (int64, error)

	// Pacientes (upsert verdadero por documento)
	ListPacientes(ctx context.Context) ([]Paciente, error)
	UpsertPaciente(ctx context.Context, pac Paciente) (int64, error)
	GetPacienteByDocumento(ctx context.Context, documento string) (*Paciente, error)

	// Registros de productividad
	InsertRegistro(ctx context.Context, r *Registro) error
	ListRegistros(ctx context.Context, f Filtros) ([]RegistroRow, error)
	UpdateRegistro(ctx context.Context, id int64, c RegistroCambios) error
	DeleteRegistro(ctx context.Context, id int64) error

	// Backend devuelve "sqlite" o "supabase"; informativo, nunca de control.
	Backend() string
	Close() error
}

type Programa struct {
	ID     int64  `gorm:"column:id" json:"id"`
	Nombre string `gorm:"column:nombre" json:"nombre"`
	Activo bool   `gorm:"column:activo" json:"activo"`
}

type Convenio struct {
	ID         int64  `gorm:"column:id" json:"id"`
	Nombre     string `gorm:"column:nombre" json:"nombre"`
	ProgramaID int64  `gorm:"column:programa_id" json:"programa_id"`
	Activo     bool   `gorm:"column:activo" json:"activo"`
}

type Institucion struct {
	ID           int64   `gorm:"column:id" json:"id"`
	Nombre       string  `gorm:"column:nombre" json:"nombre"`
	Localidad    *string `gorm:"column:localidad" json:"localidad"`
	Municipio    *string `gorm:"column:municipio" json:"municipio"`
	Departamento *string `gorm:"column:departamento" json:"departamento"`
	Activo       bool    `gorm:"column:activo" json:"activo"`
}

type Profesor struct {
	ID         int64   `gorm:"column:id" json:"id"`
	Nombre     string  `gorm:"column:nombre" json:"nombre"`
	Documento  *string `gorm:"column:documento" json:"documento"`
	Email      *string `gorm:"column:email" json:"email"`
	ProgramaID *int64  `gorm:"column:programa_id" json:"programa_id"`
	ConvenioID *int64  `gorm:"column:convenio_id" json:"convenio_id"`
	Activo     bool    `gorm:"column:activo" json:"activo"`
}

type Paciente struct {
	ID           int64   `gorm:"column:id" json:"id"`
	Documento    string  `gorm:"column:documento" json:"documento"`
	Nombre       string  `gorm:"column:nombre" json:"nombre"`
	Telefono     *string `gorm:"column:telefono" json:"telefono"`
	Email        *string `gorm:"column:email" json:"email"`
	Localidad    *string `gorm:"column:localidad" json:"localidad"`
	Municipio    *string `gorm:"column:municipio" json:"municipio"`
	Departamento *string `gorm:"column:departamento" json:"departamento"`
	Activo       bool    `gorm:"column:activo" json:"activo"`
}

// Registro es la fila cruda de productividad. Fecha y los sellos de auditoría
// viajan como texto ("2006-01-02" y "2006-01-02 15:04:05" UTC) en ambos
// backends, igual que las columnas TEXT/date subyacentes.
type Registro struct {
	ID            int64   `gorm:"column:id" json:"id"`
	Fecha         string  `gorm:"column:fecha" json:"fecha"`
	ProgramaID    int64   `gorm:"column:programa_id" json:"programa_id"`
	ConvenioID    int64   `gorm:"column:convenio_id" json:"convenio_id"`
	InstitucionID int64   `gorm:"column:institucion_id" json:"institucion_id"`
	ProfesorID    int64   `gorm:"column:profesor_id" json:"profesor_id"`
	PacienteID    *int64  `gorm:"column:paciente_id" json:"paciente_id"`
	Localidad     *string `gorm:"column:localidad" json:"localidad"`
	Municipio     *string `gorm:"column:municipio" json:"municipio"`
	Departamento  *string `gorm:"column:departamento" json:"departamento"`

	PacientesProgramados int64   `gorm:"column:pacientes_programados" json:"pacientes_programados"`
	PacientesAtendidos   int64   `gorm:"column:pacientes_atendidos" json:"pacientes_atendidos"`
	Observaciones        *string `gorm:"column:observaciones" json:"observaciones"`

	// Variante extendida (columnas agregadas por migración aditiva).
	Actividad       *string `gorm:"column:actividad" json:"actividad"`
	Asistio         *bool   `gorm:"column:asistio" json:"asistio"`
	RegistradoRIPS  *bool   `gorm:"column:registrado_rips" json:"registrado_rips"`
	DuracionMinutos *int64  `gorm:"column:duracion_minutos" json:"duracion_minutos"`
	TipoContacto    *string `gorm:"column:tipo_contacto" json:"tipo_contacto"`

	CreadoPor     *string `gorm:"column:creado_por" json:"creado_por"`
	CreadoEn      string  `gorm:"column:creado_en" json:"creado_en"`
	ActualizadoEn string  `gorm:"column:actualizado_en" json:"actualizado_en"`
}

// RegistroRow es la fila de salida de ListRegistros: el registro crudo más
// los nombres resueltos de cada referencia y las columnas derivadas, que se
// recalculan en cada lectura y jamás se persisten.
type RegistroRow struct {
	Registro

	Programa    *string `gorm:"column:programa" json:"programa"`
	Convenio    *string `gorm:"column:convenio" json:"convenio"`
	Institucion *string `gorm:"column:institucion" json:"institucion"`
	Profesor    *string `gorm:"column:profesor" json:"profesor"`

	// Derivadas: NoAsistieron = programados − atendidos. TasaAtencion es nil
	// si y solo si programados == 0.
	NoAsistieron int64    `gorm:"-" json:"no_asistieron"`
	TasaAtencion *float64 `gorm:"-" json:"tasa_atencion"`
}

// RegistroCambios describe una actualización parcial; los campos nil no se
// tocan. actualizado_en se refresca siempre, lo pida o no el llamador.
type RegistroCambios struct {
	Fecha                *string
	PacientesProgramados *int64
	PacientesAtendidos   *int64
	Observaciones        *string
	Actividad            *string
	Asistio              *bool
	RegistradoRIPS       *bool
	DuracionMinutos      *int64
	TipoContacto         *string
}

// Empty indica que no hay nada que aplicar.
func (c RegistroCambios) Empty() bool {
	return c.Fecha == nil && c.PacientesProgramados == nil && c.PacientesAtendidos == nil &&
		c.Observaciones == nil && c.Actividad == nil && c.Asistio == nil &&
		c.RegistradoRIPS == nil && c.DuracionMinutos == nil && c.TipoContacto == nil
}

// ComputeDerived recalcula las columnas derivadas de cada fila. Ambos
// backends la invocan después del fetch para que la regla viva en un solo
// lugar.
func ComputeDerived(rows []RegistroRow) {
	for i := range rows {
		rows[i].NoAsistieron = rows[i].PacientesProgramados - rows[i].PacientesAtendidos
		if rows[i].PacientesProgramados > 0 {
			tasa := float64(rows[i].PacientesAtendidos) / float64(rows[i].PacientesProgramados)
			rows[i].TasaAtencion = &tasa
		} else {
			rows[i].TasaAtencion = nil
		}
	}
}

// Clean recorta espacios y normaliza el vacío a nil, la forma canónica de
// todo texto libre antes de llegar al almacenamiento.
func Clean(s string) *string {
	t := strings.TrimSpace(s)
	if t == "" {
		return nil
	}
	return &t
}

// CleanStr recorta espacios conservando el tipo string (campos NOT NULL).
func CleanStr(s string) string {
	return strings.TrimSpace(s)
}

// Deref devuelve el valor apuntado o "" si el puntero es nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
