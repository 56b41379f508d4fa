// Package report agrupa registros ya filtrados en las vistas del tablero y
// los exporta a Excel multi-hoja o CSV plano. Opera sobre la salida de
// ListRegistros; nunca consulta el backend por su cuenta.
package report

import (
	"sort"

	"github.com/12345678257/Sistema-de-control-FOMAG/internal/store"
)

// Totales son las métricas cabecera del tablero. AtendidosSinRIPS es la
// brecha de conciliación: atenciones hechas que aún no constan en el sistema
// de reporte externo.
type Totales struct {
	Programados      int64
	Atendidos        int64
	NoAsistieron     int64
	Tasa             *float64
	DuracionMinutos  int64
	AtendidosSinRIPS int64
}

// Grupo es una fila de cualquiera de las vistas agrupadas.
type Grupo struct {
	Clave           string
	Programados     int64
	Atendidos       int64
	NoAsistieron    int64
	Tasa            *float64
	DuracionMinutos int64
}

// Calcular reduce las filas a los totales del período.
func Calcular(rows []store.RegistroRow) Totales {
	var t Totales
	for _, r := range rows {
		t.Programados += r.PacientesProgramados
		t.Atendidos += r.PacientesAtendidos
		if r.DuracionMinutos != nil {
			t.DuracionMinutos += *r.DuracionMinutos
		}
		if r.PacientesAtendidos > 0 && (r.RegistradoRIPS == nil || !*r.RegistradoRIPS) {
			t.AtendidosSinRIPS += r.PacientesAtendidos
		}
	}
	t.NoAsistieron = t.Programados - t.Atendidos
	t.Tasa = tasa(t.Programados, t.Atendidos)
	return t
}

// PorProfesor agrupa por nombre de profesor.
func PorProfesor(rows []store.RegistroRow) []Grupo {
	return agrupar(rows, func(r *store.RegistroRow) string { return store.Deref(r.Profesor) })
}

// PorInstitucion agrupa por nombre de institución.
func PorInstitucion(rows []store.RegistroRow) []Grupo {
	return agrupar(rows, func(r *store.RegistroRow) string { return store.Deref(r.Institucion) })
}

// PorGeografia agrupa por departamento y municipio de la foto geográfica del
// registro (no la vigente de la institución).
func PorGeografia(rows []store.RegistroRow) []Grupo {
	return agrupar(rows, func(r *store.RegistroRow) string {
		return store.Deref(r.Departamento) + " / " + store.Deref(r.Municipio)
	})
}

// PorActividad agrupa por plantilla de actividad; los registros sin
// actividad caen en la clave vacía.
func PorActividad(rows []store.RegistroRow) []Grupo {
	return agrupar(rows, func(r *store.RegistroRow) string { return store.Deref(r.Actividad) })
}

func agrupar(rows []store.RegistroRow, clave func(*store.RegistroRow) string) []Grupo {
	porClave := map[string]*Grupo{}
	for i := range rows {
		k := clave(&rows[i])
		g, ok := porClave[k]
		if !ok {
			g = &Grupo{Clave: k}
			porClave[k] = g
		}
		g.Programados += rows[i].PacientesProgramados
		g.Atendidos += rows[i].PacientesAtendidos
		if rows[i].DuracionMinutos != nil {
			g.DuracionMinutos += *rows[i].DuracionMinutos
		}
	}
	grupos := make([]Grupo, 0, len(porClave))
	for _, g := range porClave {
		g.NoAsistieron = g.Programados - g.Atendidos
		g.Tasa = tasa(g.Programados, g.Atendidos)
		grupos = append(grupos, *g)
	}
	// Más atendidos primero; empates por clave para salida estable.
	sort.Slice(grupos, func(i, j int) bool {
		if grupos[i].Atendidos != grupos[j].Atendidos {
			return grupos[i].Atendidos > grupos[j].Atendidos
		}
		return grupos[i].Clave < grupos[j].Clave
	})
	return grupos
}

func tasa(programados, atendidos int64) *float64 {
	if programados == 0 {
		return nil
	}
	v := float64(atendidos) / float64(programados)
	return &v
}
