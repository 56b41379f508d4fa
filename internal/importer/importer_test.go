package importer_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/12345678257/Sistema-de-control-FOMAG/internal/catalog"
	"github.com/12345678257/Sistema-de-control-FOMAG/internal/importer"
	"github.com/12345678257/Sistema-de-control-FOMAG/internal/store"
	"github.com/12345678257/Sistema-de-control-FOMAG/internal/testutil"
)

func nuevoImporter(t *testing.T) (*importer.Importer, *catalog.Service) {
	t.Helper()
	svc := catalog.NewService(testutil.NewStore(t))
	ctx := context.Background()
	p, err := svc.AgregarPrograma(ctx, "Salud Oral")
	require.NoError(t, err)
	c, err := svc.AgregarConvenio(ctx, "Convenio Norte", p)
	require.NoError(t, err)
	_, err = svc.AgregarInstitucion(ctx, "IE Central", "", "Pasto", "Nariño")
	require.NoError(t, err)
	_, err = svc.AgregarProfesor(ctx, "Ana Pérez", "", "ana@fomag.test", &p, &c)
	require.NoError(t, err)
	return importer.New(svc), svc
}

func TestImportarLoteConOmitidos(t *testing.T) {
	im, svc := nuevoImporter(t)
	ctx := context.Background()

	tabla := [][]string{
		{"Fecha", "Programa", "Convenio", "Institución", "Profesor", "Pacientes_Programados", "Pacientes_Atendidos"},
		{"2024-01-10", "Salud Oral", "Convenio Norte", "IE Central", "Ana Pérez", "10", "8"},
		{"15/01/2024", "salud oral", "convenio norte", "ie central", "ana pérez", "5", "5"}, // otro formato de fecha, otra caja
		{"2024-01-12", "Salud Oral", "Convenio Norte", "Colegio Fantasma", "Ana Pérez", "3", "3"}, // institución desconocida
		{"no-es-fecha", "Salud Oral", "Convenio Norte", "IE Central", "Ana Pérez", "1", "1"},
		{"", "", "", "", "", "", ""}, // fila vacía: se ignora sin contar
	}

	res, err := im.Importar(ctx, tabla, "coordinacion@fomag.test")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Insertados)
	assert.Equal(t, 2, res.Omitidos)
	require.Len(t, res.Motivos, 2)
	assert.Contains(t, res.Motivos[0], "fila 4")
	assert.Contains(t, res.Motivos[0], "Colegio Fantasma")
	assert.Contains(t, res.Motivos[1], "fila 5")
	assert.NotEmpty(t, res.Lote)

	rows, err := svc.Store().ListRegistros(ctx, store.Filtros{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.Equal(t, "coordinacion@fomag.test", store.Deref(r.CreadoPor))
	}
	// La fecha dd/mm/yyyy quedó normalizada.
	assert.Equal(t, "2024-01-15", rows[0].Fecha)
}

func TestImportarSinColumnaObligatoria(t *testing.T) {
	im, _ := nuevoImporter(t)
	tabla := [][]string{
		{"Fecha", "Programa", "Convenio", "Profesor"}, // falta institucion
		{"2024-01-10", "Salud Oral", "Convenio Norte", "Ana Pérez"},
	}
	_, err := im.Importar(context.Background(), tabla, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "institucion")
}

func TestImportarVariantePacienteVisita(t *testing.T) {
	// Sin columnas de conteo cada fila es una visita: programados = 1 y
	// atendidos sigue a asistio.
	im, svc := nuevoImporter(t)
	ctx := context.Background()

	tabla := [][]string{
		{"fecha", "programa", "convenio", "institucion", "profesor", "documento_paciente", "nombre_paciente", "actividad", "asistio", "registrado_rips", "duracion_minutos", "tipo_contacto"},
		{"2024-02-01", "Salud Oral", "Convenio Norte", "IE Central", "Ana Pérez", "1087001", "Luis Gómez", "Consulta individual", "SI", "no", "45", "Presencial"},
		{"2024-02-01", "Salud Oral", "Convenio Norte", "IE Central", "Ana Pérez", "1087002", "Marta Ruiz", "Consulta individual", "no", "", "", "Telefónico"},
	}

	res, err := im.Importar(ctx, tabla, "")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Insertados)
	assert.Zero(t, res.Omitidos)

	rows, err := svc.Store().ListRegistros(ctx, store.Filtros{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.Equal(t, int64(1), r.PacientesProgramados)
		require.NotNil(t, r.PacienteID)
	}
	porPaciente := map[string]store.RegistroRow{}
	pacientes, err := svc.Store().ListPacientes(ctx)
	require.NoError(t, err)
	require.Len(t, pacientes, 2)
	for _, r := range rows {
		for _, p := range pacientes {
			if p.ID == *r.PacienteID {
				porPaciente[p.Documento] = r
			}
		}
	}
	asistida := porPaciente["1087001"]
	assert.Equal(t, int64(1), asistida.PacientesAtendidos)
	require.NotNil(t, asistida.DuracionMinutos)
	assert.Equal(t, int64(45), *asistida.DuracionMinutos)
	assert.Equal(t, "Presencial", store.Deref(asistida.TipoContacto))

	ausente := porPaciente["1087002"]
	assert.Equal(t, int64(0), ausente.PacientesAtendidos)
	assert.Nil(t, ausente.DuracionMinutos)
}

func TestImportarPacienteInvalidoEntraSinPaciente(t *testing.T) {
	// El upsert del paciente falla (sin nombre) pero la fila entra igual.
	im, svc := nuevoImporter(t)
	ctx := context.Background()

	tabla := [][]string{
		{"fecha", "programa", "convenio", "institucion", "profesor", "documento_paciente", "asistio"},
		{"2024-03-01", "Salud Oral", "Convenio Norte", "IE Central", "Ana Pérez", "999111", "si"},
	}
	res, err := im.Importar(ctx, tabla, "")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Insertados)

	rows, err := svc.Store().ListRegistros(ctx, store.Filtros{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].PacienteID)
}

func TestImportarActividadFueraDeLista(t *testing.T) {
	im, _ := nuevoImporter(t)
	tabla := [][]string{
		{"fecha", "programa", "convenio", "institucion", "profesor", "actividad"},
		{"2024-03-01", "Salud Oral", "Convenio Norte", "IE Central", "Ana Pérez", "Sesión de baile"},
	}
	res, err := im.Importar(context.Background(), tabla, "")
	require.NoError(t, err)
	assert.Zero(t, res.Insertados)
	assert.Equal(t, 1, res.Omitidos)
}

func TestParseBool(t *testing.T) {
	for _, s := range []string{"si", "SÍ", "Yes", "TRUE", "1", "x", "Verdadero"} {
		assert.True(t, importer.ParseBool(s), s)
	}
	for _, s := range []string{"", "no", "0", "false", "tal vez"} {
		assert.False(t, importer.ParseBool(s), s)
	}
}

func TestParseFecha(t *testing.T) {
	casos := map[string]string{
		"2024-01-05":   "2024-01-05",
		"05/01/2024":   "2024-01-05",
		"5/1/2024":     "2024-01-05",
		"05-01-2024":   "2024-01-05",
		" 2024-01-05 ": "2024-01-05",
	}
	for in, want := range casos {
		got, err := importer.ParseFecha(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := importer.ParseFecha("enero 5 de 2024")
	assert.Error(t, err)
}

func TestLeerCSV(t *testing.T) {
	csv := "fecha,programa,observaciones\n2024-01-05,Salud Oral,\"con, coma\"\n2024-01-06,Salud Oral\n"
	filas, err := importer.LeerCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, filas, 3)
	assert.Equal(t, "con, coma", filas[1][2])
	assert.Len(t, filas[2], 2) // fila corta permitida
}

func TestLeerXLSX(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"fecha", "programa"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"2024-01-05", "Salud Oral"}))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	filas, err := importer.LeerXLSX(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, filas, 2)
	assert.Equal(t, []string{"fecha", "programa"}, filas[0])
	assert.Equal(t, "Salud Oral", filas[1][1])
}
