package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/12345678257/Sistema-de-control-FOMAG/internal/store"
)

// Encabezados de la hoja de detalle, en el orden de la vista del tablero.
var detalleHeader = []string{
	"ID", "Fecha", "Programa", "Convenio", "Institución", "Profesor",
	"Departamento", "Municipio", "Localidad",
	"Programados", "Atendidos", "No asistieron", "Tasa atención",
	"Actividad", "Tipo contacto", "Duración (min)", "Registrado RIPS",
	"Observaciones", "Creado por", "Creado en", "Actualizado en",
}

var grupoHeader = []string{"", "Programados", "Atendidos", "No asistieron", "Tasa atención", "Duración (min)"}

// ExportarExcel arma el libro multi-hoja del reporte: detalle más una hoja
// por vista agrupada.
func ExportarExcel(rows []store.RegistroRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const detalle = "Detalle"
	if err := f.SetSheetName("Sheet1", detalle); err != nil {
		return nil, err
	}
	if err := escribirDetalle(f, detalle, rows); err != nil {
		return nil, err
	}

	hojas := []struct {
		nombre string
		clave  string
		grupos []Grupo
	}{
		{"Por_profesor", "Profesor", PorProfesor(rows)},
		{"Por_institucion", "Institución", PorInstitucion(rows)},
		{"Por_geo", "Departamento / Municipio", PorGeografia(rows)},
		{"Por_actividad", "Actividad", PorActividad(rows)},
	}
	for _, h := range hojas {
		if _, err := f.NewSheet(h.nombre); err != nil {
			return nil, err
		}
		if err := escribirGrupos(f, h.nombre, h.clave, h.grupos); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func escribirDetalle(f *excelize.File, hoja string, rows []store.RegistroRow) error {
	if err := escribirFila(f, hoja, 1, toAny(detalleHeader)); err != nil {
		return err
	}
	for i, r := range rows {
		valores := []interface{}{
			r.ID, r.Fecha, store.Deref(r.Programa), store.Deref(r.Convenio),
			store.Deref(r.Institucion), store.Deref(r.Profesor),
			store.Deref(r.Departamento), store.Deref(r.Municipio), store.Deref(r.Localidad),
			r.PacientesProgramados, r.PacientesAtendidos, r.NoAsistieron, tasaCelda(r.TasaAtencion),
			store.Deref(r.Actividad), store.Deref(r.TipoContacto), duracionCelda(r.DuracionMinutos),
			boolCelda(r.RegistradoRIPS), store.Deref(r.Observaciones),
			store.Deref(r.CreadoPor), r.CreadoEn, r.ActualizadoEn,
		}
		if err := escribirFila(f, hoja, i+2, valores); err != nil {
			return err
		}
	}
	return nil
}

func escribirGrupos(f *excelize.File, hoja, claveHeader string, grupos []Grupo) error {
	header := append([]string{claveHeader}, grupoHeader[1:]...)
	if err := escribirFila(f, hoja, 1, toAny(header)); err != nil {
		return err
	}
	for i, g := range grupos {
		valores := []interface{}{
			g.Clave, g.Programados, g.Atendidos, g.NoAsistieron, tasaCelda(g.Tasa), g.DuracionMinutos,
		}
		if err := escribirFila(f, hoja, i+2, valores); err != nil {
			return err
		}
	}
	return nil
}

func escribirFila(f *excelize.File, hoja string, fila int, valores []interface{}) error {
	celda, err := excelize.CoordinatesToCellName(1, fila)
	if err != nil {
		return err
	}
	return f.SetSheetRow(hoja, celda, &valores)
}

func toAny(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func tasaCelda(t *float64) interface{} {
	if t == nil {
		return ""
	}
	return *t
}

func duracionCelda(d *int64) interface{} {
	if d == nil {
		return ""
	}
	return *d
}

func boolCelda(b *bool) string {
	if b == nil {
		return ""
	}
	if *b {
		return "SI"
	}
	return "NO"
}

// NombreArchivo arma el nombre de descarga con sello de tiempo.
func NombreArchivo(prefijo, extension, stamp string) string {
	return fmt.Sprintf("%s_%s.%s", prefijo, stamp, extension)
}
