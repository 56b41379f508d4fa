package store

import "time"

// Filtros es el contexto de filtrado que se pasa explícitamente a
// ListRegistros. Cada campo es opcional e independiente: el valor cero no
// impone restricción, y quitar un filtro solo puede ampliar el resultado.
type Filtros struct {
	// Fechas inclusivas en ambos extremos, formato "2006-01-02".
	FechaDesde string
	FechaHasta string

	ProgramaID    int64
	ConvenioID    int64
	ProfesorID    int64
	InstitucionID int64

	Departamento string
	Municipio    string
	Actividad    string
}

// DateLayout es el formato de fecha de registros y filtros.
const DateLayout = "2006-01-02"

// TimestampLayout es el formato de los sellos creado_en / actualizado_en (UTC).
const TimestampLayout = "2006-01-02 15:04:05"

// DefaultFiltros construye el contexto por defecto de una sesión: desde el
// primer día del mes corriente hasta hoy.
func DefaultFiltros(now time.Time) Filtros {
	primero := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return Filtros{
		FechaDesde: primero.Format(DateLayout),
		FechaHasta: now.Format(DateLayout),
	}
}

// NowStamp devuelve el sello de tiempo actual en UTC, sin zona.
func NowStamp() string {
	return time.Now().UTC().Format(TimestampLayout)
}
