package remote_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/12345678257/Sistema-de-control-FOMAG/internal/store"
	"github.com/12345678257/Sistema-de-control-FOMAG/internal/store/remote"
)

func TestNewURLInvalida(t *testing.T) {
	_, err := remote.New("://sin-esquema", "clave")
	assert.Error(t, err)
}

func TestNewBackend(t *testing.T) {
	s, err := remote.New("https://proyecto.supabase.co", "clave")
	require.NoError(t, err)
	assert.Equal(t, "supabase", s.Backend())
	assert.NoError(t, s.Close())
}

// Integración contra un proyecto Supabase real con el esquema cargado.
// Se salta salvo que SUPABASE_URL y SUPABASE_KEY estén en el ambiente.
func TestIntegracionSupabase(t *testing.T) {
	url, key := os.Getenv("SUPABASE_URL"), os.Getenv("SUPABASE_KEY")
	if url == "" || key == "" {
		t.Skip("SUPABASE_URL/SUPABASE_KEY no configurados")
	}
	s, err := remote.New(url, key)
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	p, err := s.UpsertPrograma(ctx, "Programa Integración")
	require.NoError(t, err)
	require.Greater(t, p, int64(0))

	// Upsert repetido: mismo id.
	p2, err := s.UpsertPrograma(ctx, "Programa Integración")
	require.NoError(t, err)
	assert.Equal(t, p, p2)

	c, err := s.UpsertConvenio(ctx, "Convenio Integración", p)
	require.NoError(t, err)
	i, err := s.UpsertInstitucion(ctx, store.Institucion{Nombre: "IE Integración"})
	require.NoError(t, err)
	email := "integracion@fomag.test"
	pr, err := s.UpsertProfesor(ctx, store.Profesor{Nombre: "Prof Integración", Email: &email, ProgramaID: &p, ConvenioID: &c})
	require.NoError(t, err)

	r := &store.Registro{
		Fecha:                "2024-01-15",
		ProgramaID:           p,
		ConvenioID:           c,
		InstitucionID:        i,
		ProfesorID:           pr,
		PacientesProgramados: 4,
		PacientesAtendidos:   3,
	}
	require.NoError(t, s.InsertRegistro(ctx, r))
	require.Greater(t, r.ID, int64(0))
	defer func() { _ = s.DeleteRegistro(ctx, r.ID) }()

	rows, err := s.ListRegistros(ctx, store.Filtros{ProgramaID: p})
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, "Programa Integración", store.Deref(rows[0].Programa))
	assert.Equal(t, int64(1), rows[0].NoAsistieron)
}
