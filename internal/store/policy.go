package store

// UpsertPolicy declara cómo resuelve conflictos el upsert de cada entidad.
// La asimetría es intencional: los catálogos son datos de referencia casi
// inmutables (un choque de clave única es un no-op silencioso), mientras que
// los datos demográficos del paciente deben mantenerse al día.
type UpsertPolicy int

const (
	// InsertIfAbsent inserta solo si la clave natural no existe; un
	// conflicto devuelve el id de la fila existente sin modificarla.
	InsertIfAbsent UpsertPolicy = iota
	// UpdateIfPresent actualiza todos los campos mutables de la fila
	// existente, o inserta si no hay fila con esa clave.
	UpdateIfPresent
)

func (p UpsertPolicy) String() string {
	switch p {
	case InsertIfAbsent:
		return "insert_if_absent"
	case UpdateIfPresent:
		return "update_if_present"
	}
	return "unknown"
}

// EntityKind identifica cada clase de entidad de referencia.
type EntityKind string

const (
	KindPrograma    EntityKind = "programa"
	KindConvenio    EntityKind = "convenio"
	KindInstitucion EntityKind = "institucion"
	KindProfesor    EntityKind = "profesor"
	KindPaciente    EntityKind = "paciente"
)

// PolicyFor devuelve la política de upsert declarada para la entidad.
func PolicyFor(kind EntityKind) UpsertPolicy {
	if kind == KindPaciente {
		return UpdateIfPresent
	}
	return InsertIfAbsent
}
