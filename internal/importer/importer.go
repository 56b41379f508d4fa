// Package importer ingiere planillas (xlsx o CSV) de registros de
// productividad. Las columnas se identifican por nombre de encabezado y cada
// fila se resuelve contra el catálogo vigente; una fila con referencia sin
// resolver, actividad fuera de lista o fecha malformada se omite y se cuenta,
// nunca aborta el lote. Solo la ausencia de una columna obligatoria es error.
package importer

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/12345678257/Sistema-de-control-FOMAG/internal/catalog"
	"github.com/12345678257/Sistema-de-control-FOMAG/internal/logger"
	"github.com/12345678257/Sistema-de-control-FOMAG/internal/store"
)

// Columnas obligatorias del formato de registros.
var columnasRequeridas = []string{"fecha", "programa", "convenio", "institucion", "profesor"}

// Resumen es el resultado agregado del lote: cuántas filas entraron, cuántas
// se omitieron y por qué. No hay detalle por fila más allá de Motivos.
type Resumen struct {
	Lote       string
	Insertados int
	Omitidos   int
	Motivos    []string
}

type Importer struct {
	svc *catalog.Service
}

func New(svc *catalog.Service) *Importer {
	return &Importer{svc: svc}
}

// Importar procesa una tabla ya parseada (primera fila = encabezados).
// creadoPor queda en la auditoría de cada registro insertado.
func (im *Importer) Importar(ctx context.Context, tabla [][]string, creadoPor string) (*Resumen, error) {
	if len(tabla) == 0 {
		return nil, errors.New("archivo vacío: no hay encabezados")
	}
	cols, err := mapearEncabezados(tabla[0])
	if err != nil {
		return nil, err
	}

	res, err := im.cargarCatalogos(ctx)
	if err != nil {
		return nil, err
	}

	resumen := &Resumen{Lote: uuid.NewString()}
	for n, fila := range tabla[1:] {
		numFila := n + 2 // 1-based, contando el encabezado
		if filaVacia(fila) {
			continue
		}
		if err := im.importarFila(ctx, cols, fila, res, creadoPor); err != nil {
			var omit *omitError
			if errors.As(err, &omit) {
				resumen.Omitidos++
				resumen.Motivos = append(resumen.Motivos, fmt.Sprintf("fila %d: %s", numFila, omit.motivo))
				continue
			}
			// Falla del backend: se propaga, no es un error de fila.
			return resumen, err
		}
		resumen.Insertados++
	}
	logger.Log.Info("importación terminada",
		zap.String("lote", resumen.Lote),
		zap.Int("insertados", resumen.Insertados),
		zap.Int("omitidos", resumen.Omitidos))
	return resumen, nil
}

// omitError marca una fila descartada sin abortar el lote.
type omitError struct{ motivo string }

func (e *omitError) Error() string { return e.motivo }

func omitir(formato string, args ...interface{}) error {
	return &omitError{motivo: fmt.Sprintf(formato, args...)}
}

// catalogos es la foto del catálogo al inicio del lote; las claves van en
// minúsculas y sin espacios sobrantes.
type catalogos struct {
	programas     map[string]int64
	convenios     map[string]int64 // "nombre|programaID"
	instituciones map[string]int64
	profesores    map[string]int64
}

func (im *Importer) cargarCatalogos(ctx context.Context) (*catalogos, error) {
	st := im.svc.Store()
	res := &catalogos{
		programas:     map[string]int64{},
		convenios:     map[string]int64{},
		instituciones: map[string]int64{},
		profesores:    map[string]int64{},
	}
	programas, err := st.ListProgramas(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range programas {
		res.programas[clave(p.Nombre)] = p.ID
	}
	convenios, err := st.ListConvenios(ctx, 0)
	if err != nil {
		return nil, err
	}
	for _, c := range convenios {
		res.convenios[clave(c.Nombre)+"|"+strconv.FormatInt(c.ProgramaID, 10)] = c.ID
	}
	instituciones, err := st.ListInstituciones(ctx)
	if err != nil {
		return nil, err
	}
	for _, i := range instituciones {
		if _, ok := res.instituciones[clave(i.Nombre)]; !ok {
			res.instituciones[clave(i.Nombre)] = i.ID
		}
	}
	profesores, err := st.ListProfesores(ctx, 0, 0)
	if err != nil {
		return nil, err
	}
	for _, p := range profesores {
		if _, ok := res.profesores[clave(p.Nombre)]; !ok {
			res.profesores[clave(p.Nombre)] = p.ID
		}
	}
	return res, nil
}

func (im *Importer) importarFila(ctx context.Context, cols map[string]int, fila []string, cat *catalogos, creadoPor string) error {
	celda := func(col string) string {
		idx, ok := cols[col]
		if !ok || idx >= len(fila) {
			return ""
		}
		return strings.TrimSpace(fila[idx])
	}

	fecha, err := ParseFecha(celda("fecha"))
	if err != nil {
		return omitir("fecha %q no reconocida", celda("fecha"))
	}

	programaID, ok := cat.programas[clave(celda("programa"))]
	if !ok {
		return omitir("programa %q no encontrado", celda("programa"))
	}
	convenioID, ok := cat.convenios[clave(celda("convenio"))+"|"+strconv.FormatInt(programaID, 10)]
	if !ok {
		return omitir("convenio %q no encontrado en el programa", celda("convenio"))
	}
	institucionID, ok := cat.instituciones[clave(celda("institucion"))]
	if !ok {
		return omitir("institución %q no encontrada", celda("institucion"))
	}
	profesorID, ok := cat.profesores[clave(celda("profesor"))]
	if !ok {
		return omitir("profesor %q no encontrado", celda("profesor"))
	}

	actividad := celda("actividad")
	if actividad != "" {
		if _, ok := store.ActividadValida(actividad); !ok {
			return omitir("actividad %q fuera de la lista", actividad)
		}
	}

	asistio := ParseBool(celda("asistio"))
	registradoRIPS := ParseBool(celda("registrado_rips"))

	// Variante extendida: sin columnas de conteo, cada fila es una unidad
	// paciente-visita (programados = 1, atendidos refleja asistio).
	programados := int64(1)
	atendidos := int64(0)
	if asistio {
		atendidos = 1
	}
	if _, ok := cols["pacientes_programados"]; ok {
		if programados, err = parseEntero(celda("pacientes_programados")); err != nil {
			return omitir("programados %q no numérico", celda("pacientes_programados"))
		}
	}
	if _, ok := cols["pacientes_atendidos"]; ok {
		if atendidos, err = parseEntero(celda("pacientes_atendidos")); err != nil {
			return omitir("atendidos %q no numérico", celda("pacientes_atendidos"))
		}
	}

	var duracion *int64
	if d := celda("duracion_minutos"); d != "" {
		v, err := parseEntero(d)
		if err != nil {
			return omitir("duración %q no numérica", d)
		}
		duracion = &v
	}

	// Paciente: upsert por documento antes del registro. Si el upsert falla
	// la fila entra igual sin paciente (éxito parcial).
	var pacienteID *int64
	if doc := celda("documento_paciente"); doc != "" {
		id, err := im.svc.UpsertPaciente(ctx, catalog.PacienteInput{
			Documento:    doc,
			Nombre:       celda("nombre_paciente"),
			Telefono:     celda("telefono_paciente"),
			Localidad:    celda("localidad"),
			Municipio:    celda("municipio"),
			Departamento: celda("departamento"),
		})
		if err != nil {
			logger.Log.Warn("upsert de paciente falló, registro continúa sin paciente",
				zap.String("documento", doc), zap.Error(err))
		} else {
			pacienteID = &id
		}
	}

	in := catalog.RegistroInput{
		Fecha:           fecha,
		ProgramaID:      programaID,
		ConvenioID:      convenioID,
		InstitucionID:   institucionID,
		ProfesorID:      profesorID,
		PacienteID:      pacienteID,
		Localidad:       celda("localidad"),
		Municipio:       celda("municipio"),
		Departamento:    celda("departamento"),
		Programados:     programados,
		Atendidos:       atendidos,
		Observaciones:   celda("observaciones"),
		Actividad:       actividad,
		Asistio:         &asistio,
		RegistradoRIPS:  &registradoRIPS,
		DuracionMinutos: duracion,
		TipoContacto:    celda("tipo_contacto"),
	}
	if _, err := im.svc.GuardarRegistro(ctx, in, creadoPor); err != nil {
		if errors.Is(err, catalog.ErrValidation) {
			return omitir("%v", err)
		}
		return err
	}
	return nil
}

// mapearEncabezados normaliza los encabezados y verifica las columnas
// obligatorias.
func mapearEncabezados(encabezados []string) (map[string]int, error) {
	cols := make(map[string]int, len(encabezados))
	for i, h := range encabezados {
		n := clave(h)
		n = strings.ReplaceAll(n, " ", "_")
		if n != "" {
			cols[n] = i
		}
	}
	for _, req := range columnasRequeridas {
		if _, ok := cols[req]; !ok {
			return nil, fmt.Errorf("columna obligatoria %q ausente", req)
		}
	}
	return cols, nil
}

// clave normaliza texto para comparar: minúsculas, sin espacios sobrantes y
// sin tildes, para que "Institución" y "institucion" casen.
func clave(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	r := strings.NewReplacer(
		"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ü", "u", "ñ", "n",
	)
	return r.Replace(s)
}

// ParseBool acepta si/sí/yes/true/1/x/verdadero sin distinguir mayúsculas;
// cualquier otro valor, incluido vacío, es false.
func ParseBool(s string) bool {
	switch clave(s) {
	case "si", "yes", "true", "1", "x", "verdadero":
		return true
	}
	return false
}

// ParseFecha acepta los formatos de fecha usuales de las planillas y
// devuelve siempre "2006-01-02".
func ParseFecha(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{store.DateLayout, "02/01/2006", "2/1/2006", "02-01-2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(store.DateLayout), nil
		}
	}
	return "", fmt.Errorf("fecha %q no reconocida", s)
}

func parseEntero(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}

func filaVacia(fila []string) bool {
	for _, c := range fila {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
