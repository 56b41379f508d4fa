package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/12345678257/Sistema-de-control-FOMAG/internal/catalog"
	"github.com/12345678257/Sistema-de-control-FOMAG/internal/store"
	"github.com/12345678257/Sistema-de-control-FOMAG/internal/testutil"
)

func nuevoServicio(t *testing.T) *catalog.Service {
	t.Helper()
	return catalog.NewService(testutil.NewStore(t))
}

// siembra deja un catálogo mínimo listo para registrar.
func siembra(t *testing.T, svc *catalog.Service) catalog.RegistroInput {
	t.Helper()
	ctx := context.Background()
	p, err := svc.AgregarPrograma(ctx, "Salud Oral")
	require.NoError(t, err)
	c, err := svc.AgregarConvenio(ctx, "Convenio Norte", p)
	require.NoError(t, err)
	i, err := svc.AgregarInstitucion(ctx, "IE Central", "", "Pasto", "Nariño")
	require.NoError(t, err)
	pr, err := svc.AgregarProfesor(ctx, "Ana Pérez", "", "ana@fomag.test", &p, &c)
	require.NoError(t, err)
	return catalog.RegistroInput{
		Fecha:         "2024-01-15",
		ProgramaID:    p,
		ConvenioID:    c,
		InstitucionID: i,
		ProfesorID:    pr,
		Programados:   5,
		Atendidos:     5,
	}
}

func TestGuardarRegistro(t *testing.T) {
	svc := nuevoServicio(t)
	ctx := context.Background()
	in := siembra(t, svc)
	in.Atendidos = 3
	in.Actividad = "taller grupal" // se canoniza
	in.Observaciones = "  con espacios  "

	id, err := svc.GuardarRegistro(ctx, in, "ana@fomag.test")
	require.NoError(t, err)
	require.Greater(t, id, int64(0))

	rows, err := svc.Store().ListRegistros(ctx, store.Filtros{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Taller grupal", store.Deref(rows[0].Actividad))
	assert.Equal(t, "con espacios", store.Deref(rows[0].Observaciones))
	assert.Equal(t, "ana@fomag.test", store.Deref(rows[0].CreadoPor))
}

func TestGuardarRegistroRechazos(t *testing.T) {
	svc := nuevoServicio(t)
	ctx := context.Background()
	base := siembra(t, svc)

	casos := []struct {
		nombre string
		mod    func(in *catalog.RegistroInput)
	}{
		{"atendidos mayor que programados", func(in *catalog.RegistroInput) { in.Programados = 2; in.Atendidos = 3 }},
		{"fecha mal formada", func(in *catalog.RegistroInput) { in.Fecha = "15/01/2024" }},
		{"sin profesor", func(in *catalog.RegistroInput) { in.ProfesorID = 0 }},
		{"actividad fuera de lista", func(in *catalog.RegistroInput) { in.Actividad = "Sesión de baile" }},
		{"tipo de contacto fuera de lista", func(in *catalog.RegistroInput) { in.TipoContacto = "Telepático" }},
		{"programados negativo", func(in *catalog.RegistroInput) { in.Programados = -1 }},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			in := base
			c.mod(&in)
			_, err := svc.GuardarRegistro(ctx, in, "")
			assert.ErrorIs(t, err, catalog.ErrValidation)
		})
	}

	// Nada quedó escrito.
	rows, err := svc.Store().ListRegistros(ctx, store.Filtros{})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestUpsertPacienteValidacion(t *testing.T) {
	svc := nuevoServicio(t)
	ctx := context.Background()

	_, err := svc.UpsertPaciente(ctx, catalog.PacienteInput{Nombre: "Sin Documento"})
	assert.ErrorIs(t, err, catalog.ErrValidation)

	_, err = svc.UpsertPaciente(ctx, catalog.PacienteInput{
		Documento: "123", Nombre: "Mal Correo", Email: "no-es-correo",
	})
	assert.ErrorIs(t, err, catalog.ErrValidation)

	id, err := svc.UpsertPaciente(ctx, catalog.PacienteInput{
		Documento: "123", Nombre: "Bien", Email: "bien@fomag.test",
	})
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))
}

func TestAgregarProfesorEmailInvalido(t *testing.T) {
	svc := nuevoServicio(t)
	_, err := svc.AgregarProfesor(context.Background(), "Ana", "", "sin-arroba", nil, nil)
	assert.ErrorIs(t, err, catalog.ErrValidation)
}

func TestAgregarProgramaVacio(t *testing.T) {
	svc := nuevoServicio(t)
	_, err := svc.AgregarPrograma(context.Background(), "   ")
	assert.ErrorIs(t, err, catalog.ErrValidation)
}
