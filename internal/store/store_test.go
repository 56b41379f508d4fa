package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeDerived(t *testing.T) {
	rows := []RegistroRow{
		{Registro: Registro{PacientesProgramados: 10, PacientesAtendidos: 7}},
		{Registro: Registro{PacientesProgramados: 0, PacientesAtendidos: 0}},
		{Registro: Registro{PacientesProgramados: 4, PacientesAtendidos: 4}},
	}
	ComputeDerived(rows)

	assert.Equal(t, int64(3), rows[0].NoAsistieron)
	if assert.NotNil(t, rows[0].TasaAtencion) {
		assert.InDelta(t, 0.7, *rows[0].TasaAtencion, 1e-9)
	}

	// Programados en cero: la tasa es nil, nunca 0 ni NaN.
	assert.Equal(t, int64(0), rows[1].NoAsistieron)
	assert.Nil(t, rows[1].TasaAtencion)

	if assert.NotNil(t, rows[2].TasaAtencion) {
		assert.InDelta(t, 1.0, *rows[2].TasaAtencion, 1e-9)
	}
}

func TestDefaultFiltros(t *testing.T) {
	now := time.Date(2024, time.July, 19, 15, 30, 0, 0, time.UTC)
	f := DefaultFiltros(now)
	assert.Equal(t, "2024-07-01", f.FechaDesde)
	assert.Equal(t, "2024-07-19", f.FechaHasta)

	// Primer día del mes: rango de un solo día.
	f = DefaultFiltros(time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, f.FechaDesde, f.FechaHasta)
}

func TestPolicyFor(t *testing.T) {
	for _, kind := range []EntityKind{KindPrograma, KindConvenio, KindInstitucion, KindProfesor} {
		assert.Equal(t, InsertIfAbsent, PolicyFor(kind), "kind %v", kind)
	}
	assert.Equal(t, UpdateIfPresent, PolicyFor(KindPaciente))
}

func TestClean(t *testing.T) {
	assert.Nil(t, Clean(""))
	assert.Nil(t, Clean("   "))
	if got := Clean("  hola  "); assert.NotNil(t, got) {
		assert.Equal(t, "hola", *got)
	}
	assert.Equal(t, "hola", CleanStr("  hola  "))
	assert.Equal(t, "", Deref(nil))
}

func TestActividadValida(t *testing.T) {
	canon, ok := ActividadValida("  taller grupal ")
	assert.True(t, ok)
	assert.Equal(t, "Taller grupal", canon)

	_, ok = ActividadValida("Sesión de baile")
	assert.False(t, ok)

	canon, ok = TipoContactoValido("TELEFÓNICO")
	assert.True(t, ok)
	assert.Equal(t, "Telefónico", canon)
}

func TestRegistroCambiosEmpty(t *testing.T) {
	assert.True(t, RegistroCambios{}.Empty())
	obs := "x"
	assert.False(t, RegistroCambios{Observaciones: &obs}.Empty())
}
