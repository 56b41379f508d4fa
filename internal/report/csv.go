package report

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/12345678257/Sistema-de-control-FOMAG/internal/store"
)

// ExportarCSV produce el detalle plano en CSV (UTF-8, separado por comas),
// con las mismas columnas que la hoja de detalle del Excel.
func ExportarCSV(rows []store.RegistroRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(detalleHeader); err != nil {
		return nil, err
	}
	for _, r := range rows {
		fila := []string{
			strconv.FormatInt(r.ID, 10), r.Fecha,
			store.Deref(r.Programa), store.Deref(r.Convenio),
			store.Deref(r.Institucion), store.Deref(r.Profesor),
			store.Deref(r.Departamento), store.Deref(r.Municipio), store.Deref(r.Localidad),
			strconv.FormatInt(r.PacientesProgramados, 10),
			strconv.FormatInt(r.PacientesAtendidos, 10),
			strconv.FormatInt(r.NoAsistieron, 10),
			tasaTexto(r.TasaAtencion),
			store.Deref(r.Actividad), store.Deref(r.TipoContacto), duracionTexto(r.DuracionMinutos),
			boolCelda(r.RegistradoRIPS), store.Deref(r.Observaciones),
			store.Deref(r.CreadoPor), r.CreadoEn, r.ActualizadoEn,
		}
		if err := w.Write(fila); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func tasaTexto(t *float64) string {
	if t == nil {
		return ""
	}
	return strconv.FormatFloat(*t, 'f', 4, 64)
}

func duracionTexto(d *int64) string {
	if d == nil {
		return ""
	}
	return strconv.FormatInt(*d, 10)
}
