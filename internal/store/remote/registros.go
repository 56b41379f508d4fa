package remote

import (
	"context"
	"errors"

	"github.com/supabase-community/postgrest-go"
	"go.uber.org/zap"

	"github.com/12345678257/Sistema-de-control-FOMAG/internal/logger"
	"github.com/12345678257/Sistema-de-control-FOMAG/internal/store"
)

func (s *Store) InsertRegistro(ctx context.Context, r *store.Registro) error {
	if r == nil {
		return errors.New("registro nulo")
	}
	if r.Fecha == "" || r.ProgramaID == 0 || r.ConvenioID == 0 || r.InstitucionID == 0 || r.ProfesorID == 0 {
		return errors.New("registro incompleto: fecha y referencias son obligatorias")
	}
	if r.Localidad == nil && r.Municipio == nil && r.Departamento == nil {
		var inst []store.Institucion
		if _, err := s.client.From("instituciones").
			Select("*", "", false).
			Eq("id", itoa(r.InstitucionID)).
			ExecuteTo(&inst); err != nil {
			return err
		}
		if len(inst) > 0 {
			r.Localidad, r.Municipio, r.Departamento = inst[0].Localidad, inst[0].Municipio, inst[0].Departamento
		}
	}

	now := store.NowStamp()
	r.CreadoEn, r.ActualizadoEn = now, now

	fila := map[string]interface{}{
		"fecha":                 r.Fecha,
		"programa_id":           r.ProgramaID,
		"convenio_id":           r.ConvenioID,
		"institucion_id":        r.InstitucionID,
		"profesor_id":           r.ProfesorID,
		"paciente_id":           r.PacienteID,
		"localidad":             r.Localidad,
		"municipio":             r.Municipio,
		"departamento":          r.Departamento,
		"pacientes_programados": r.PacientesProgramados,
		"pacientes_atendidos":   r.PacientesAtendidos,
		"observaciones":         r.Observaciones,
		"actividad":             r.Actividad,
		"asistio":               r.Asistio,
		"registrado_rips":       r.RegistradoRIPS,
		"duracion_minutos":      r.DuracionMinutos,
		"tipo_contacto":         r.TipoContacto,
		"creado_por":            r.CreadoPor,
		"creado_en":             r.CreadoEn,
		"actualizado_en":        r.ActualizadoEn,
	}
	var creadas []store.Registro
	if _, err := s.client.From("registros").
		Insert(fila, false, "", "representation", "").
		ExecuteTo(&creadas); err != nil {
		logger.Log.Error("insert registro remoto", zap.Error(err))
		return err
	}
	if len(creadas) > 0 {
		r.ID = creadas[0].ID
	}
	return nil
}

// ListRegistros trae las filas filtradas y resuelve los nombres referenciados
// con una consulta por catálogo usando in(...) sobre los ids distintos, en
// lugar de una consulta por fila.
func (s *Store) ListRegistros(ctx context.Context, f store.Filtros) ([]store.RegistroRow, error) {
	q := s.client.From("registros").Select("*", "", false)
	if f.FechaDesde != "" {
		q = q.Gte("fecha", f.FechaDesde)
	}
	if f.FechaHasta != "" {
		q = q.Lte("fecha", f.FechaHasta)
	}
	if f.ProgramaID > 0 {
		q = q.Eq("programa_id", itoa(f.ProgramaID))
	}
	if f.ConvenioID > 0 {
		q = q.Eq("convenio_id", itoa(f.ConvenioID))
	}
	if f.ProfesorID > 0 {
		q = q.Eq("profesor_id", itoa(f.ProfesorID))
	}
	if f.InstitucionID > 0 {
		q = q.Eq("institucion_id", itoa(f.InstitucionID))
	}
	if f.Departamento != "" {
		q = q.Eq("departamento", f.Departamento)
	}
	if f.Municipio != "" {
		q = q.Eq("municipio", f.Municipio)
	}
	if f.Actividad != "" {
		q = q.Eq("actividad", f.Actividad)
	}
	q = q.Order("fecha", &postgrest.OrderOpts{Ascending: false}).
		Order("id", &postgrest.OrderOpts{Ascending: false})

	var crudos []store.Registro
	if _, err := q.ExecuteTo(&crudos); err != nil {
		logger.Log.Error("list registros remoto", zap.Error(err))
		return nil, err
	}

	rows := make([]store.RegistroRow, len(crudos))
	for i, r := range crudos {
		rows[i].Registro = r
	}
	if err := s.resolverNombres(rows); err != nil {
		return nil, err
	}
	store.ComputeDerived(rows)
	return rows, nil
}

func (s *Store) resolverNombres(rows []store.RegistroRow) error {
	tablas := []struct {
		tabla string
		id    func(*store.RegistroRow) int64
		dest  func(*store.RegistroRow, *string)
	}{
		{"programas", func(r *store.RegistroRow) int64 { return r.ProgramaID },
			func(r *store.RegistroRow, n *string) { r.Programa = n }},
		{"convenios", func(r *store.RegistroRow) int64 { return r.ConvenioID },
			func(r *store.RegistroRow, n *string) { r.Convenio = n }},
		{"instituciones", func(r *store.RegistroRow) int64 { return r.InstitucionID },
			func(r *store.RegistroRow, n *string) { r.Institucion = n }},
		{"profesores", func(r *store.RegistroRow) int64 { return r.ProfesorID },
			func(r *store.RegistroRow, n *string) { r.Profesor = n }},
	}
	for _, t := range tablas {
		nombres, err := s.nombresPorID(t.tabla, rows, t.id)
		if err != nil {
			return err
		}
		for i := range rows {
			if n, ok := nombres[t.id(&rows[i])]; ok {
				nombre := n
				t.dest(&rows[i], &nombre)
			}
		}
	}
	return nil
}

// nombresPorID resuelve id→nombre para los ids distintos presentes en rows,
// primero contra el cache y lo que falte con un único in(...).
func (s *Store) nombresPorID(tabla string, rows []store.RegistroRow, id func(*store.RegistroRow) int64) (map[int64]string, error) {
	resultado := make(map[int64]string)
	var faltan []string
	vistos := make(map[int64]bool)
	for i := range rows {
		v := id(&rows[i])
		if v == 0 || vistos[v] {
			continue
		}
		vistos[v] = true
		if n, ok := s.nombres.Get(tabla + ":" + itoa(v)); ok {
			resultado[v] = n
			continue
		}
		faltan = append(faltan, itoa(v))
	}
	if len(faltan) == 0 {
		return resultado, nil
	}
	var filas []struct {
		ID     int64  `json:"id"`
		Nombre string `json:"nombre"`
	}
	if _, err := s.client.From(tabla).
		Select("id,nombre", "", false).
		In("id", faltan).
		ExecuteTo(&filas); err != nil {
		return nil, err
	}
	for _, f := range filas {
		resultado[f.ID] = f.Nombre
		s.nombres.Set(tabla+":"+itoa(f.ID), f.Nombre)
	}
	return resultado, nil
}

func (s *Store) UpdateRegistro(ctx context.Context, id int64, c store.RegistroCambios) error {
	if id == 0 {
		return errors.New("id de registro inválido")
	}
	cambios := map[string]interface{}{"actualizado_en": store.NowStamp()}
	if c.Fecha != nil {
		cambios["fecha"] = *c.Fecha
	}
	if c.PacientesProgramados != nil {
		cambios["pacientes_programados"] = *c.PacientesProgramados
	}
	if c.PacientesAtendidos != nil {
		cambios["pacientes_atendidos"] = *c.PacientesAtendidos
	}
	if c.Observaciones != nil {
		cambios["observaciones"] = store.Clean(*c.Observaciones)
	}
	if c.Actividad != nil {
		cambios["actividad"] = store.Clean(*c.Actividad)
	}
	if c.Asistio != nil {
		cambios["asistio"] = *c.Asistio
	}
	if c.RegistradoRIPS != nil {
		cambios["registrado_rips"] = *c.RegistradoRIPS
	}
	if c.DuracionMinutos != nil {
		cambios["duracion_minutos"] = *c.DuracionMinutos
	}
	if c.TipoContacto != nil {
		cambios["tipo_contacto"] = store.Clean(*c.TipoContacto)
	}
	_, _, err := s.client.From("registros").
		Update(cambios, "", "").
		Eq("id", itoa(id)).
		Execute()
	return err
}

func (s *Store) DeleteRegistro(ctx context.Context, id int64) error {
	_, _, err := s.client.From("registros").
		Delete("", "").
		Eq("id", itoa(id)).
		Execute()
	return err
}
