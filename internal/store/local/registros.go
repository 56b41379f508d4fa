package local

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/12345678257/Sistema-de-control-FOMAG/internal/logger"
	"github.com/12345678257/Sistema-de-control-FOMAG/internal/store"
)

// InsertRegistro inserta la fila y sella creado_en/actualizado_en en UTC.
// Si el registro no trae geografía propia se copia la de la institución en
// ese momento: es una foto, no una referencia viva, para que editar la
// institución después no reescriba la historia.
func (s *Store) InsertRegistro(ctx context.Context, r *store.Registro) error {
	if r == nil {
		return errors.New("registro nulo")
	}
	if r.Fecha == "" || r.ProgramaID == 0 || r.ConvenioID == 0 || r.InstitucionID == 0 || r.ProfesorID == 0 {
		return errors.New("registro incompleto: fecha y referencias son obligatorias")
	}
	db := s.db.WithContext(ctx)

	if r.Localidad == nil && r.Municipio == nil && r.Departamento == nil {
		var inst store.Institucion
		if err := db.Raw("SELECT * FROM instituciones WHERE id = ?", r.InstitucionID).Scan(&inst).Error; err != nil {
			return err
		}
		r.Localidad, r.Municipio, r.Departamento = inst.Localidad, inst.Municipio, inst.Departamento
	}

	now := store.NowStamp()
	r.CreadoEn, r.ActualizadoEn = now, now

	var fila struct {
		ID int64 `gorm:"column:id"`
	}
	err := db.Raw(
		`INSERT INTO registros (
			fecha, programa_id, convenio_id, institucion_id, profesor_id, paciente_id,
			localidad, municipio, departamento,
			pacientes_programados, pacientes_atendidos, observaciones,
			actividad, asistio, registrado_rips, duracion_minutos, tipo_contacto,
			creado_por, creado_en, actualizado_en
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		r.Fecha, r.ProgramaID, r.ConvenioID, r.InstitucionID, r.ProfesorID, r.PacienteID,
		r.Localidad, r.Municipio, r.Departamento,
		r.PacientesProgramados, r.PacientesAtendidos, r.Observaciones,
		r.Actividad, r.Asistio, r.RegistradoRIPS, r.DuracionMinutos, r.TipoContacto,
		r.CreadoPor, r.CreadoEn, r.ActualizadoEn,
	).Scan(&fila).Error
	if err != nil {
		logger.Log.Error("insert registro", zap.Error(err))
		return err
	}
	r.ID = fila.ID
	return nil
}

// ListRegistros arma la consulta con los filtros presentes; un filtro ausente
// no restringe nada. Los nombres llegan por LEFT JOIN en una sola consulta y
// las derivadas se calculan después del fetch.
func (s *Store) ListRegistros(ctx context.Context, f store.Filtros) ([]store.RegistroRow, error) {
	q := `SELECT r.*,
		p.nombre AS programa, c.nombre AS convenio,
		i.nombre AS institucion, pr.nombre AS profesor
	FROM registros r
	LEFT JOIN programas p ON p.id = r.programa_id
	LEFT JOIN convenios c ON c.id = r.convenio_id
	LEFT JOIN instituciones i ON i.id = r.institucion_id
	LEFT JOIN profesores pr ON pr.id = r.profesor_id
	WHERE 1=1`
	args := []interface{}{}

	if f.FechaDesde != "" {
		q += " AND date(r.fecha) >= date(?)"
		args = append(args, f.FechaDesde)
	}
	if f.FechaHasta != "" {
		q += " AND date(r.fecha) <= date(?)"
		args = append(args, f.FechaHasta)
	}
	if f.ProgramaID > 0 {
		q += " AND r.programa_id = ?"
		args = append(args, f.ProgramaID)
	}
	if f.ConvenioID > 0 {
		q += " AND r.convenio_id = ?"
		args = append(args, f.ConvenioID)
	}
	if f.ProfesorID > 0 {
		q += " AND r.profesor_id = ?"
		args = append(args, f.ProfesorID)
	}
	if f.InstitucionID > 0 {
		q += " AND r.institucion_id = ?"
		args = append(args, f.InstitucionID)
	}
	if f.Departamento != "" {
		q += " AND r.departamento = ?"
		args = append(args, f.Departamento)
	}
	if f.Municipio != "" {
		q += " AND r.municipio = ?"
		args = append(args, f.Municipio)
	}
	if f.Actividad != "" {
		q += " AND r.actividad = ?"
		args = append(args, f.Actividad)
	}
	q += " ORDER BY r.fecha DESC, r.id DESC"

	var rows []store.RegistroRow
	if err := s.db.WithContext(ctx).Raw(q, args...).Scan(&rows).Error; err != nil {
		logger.Log.Error("list registros", zap.Error(err))
		return nil, err
	}
	store.ComputeDerived(rows)
	return rows, nil
}

// UpdateRegistro aplica los cambios presentes y refresca actualizado_en
// siempre. No re-valida atendidos ≤ programados: esa regla vive en la
// frontera de escritura.
func (s *Store) UpdateRegistro(ctx context.Context, id int64, c store.RegistroCambios) error {
	if id == 0 {
		return errors.New("id de registro inválido")
	}
	set := "actualizado_en = ?"
	args := []interface{}{store.NowStamp()}

	add := func(col string, v interface{}) {
		set += ", " + col + " = ?"
		args = append(args, v)
	}
	if c.Fecha != nil {
		add("fecha", *c.Fecha)
	}
	if c.PacientesProgramados != nil {
		add("pacientes_programados", *c.PacientesProgramados)
	}
	if c.PacientesAtendidos != nil {
		add("pacientes_atendidos", *c.PacientesAtendidos)
	}
	if c.Observaciones != nil {
		add("observaciones", store.Clean(*c.Observaciones))
	}
	if c.Actividad != nil {
		add("actividad", store.Clean(*c.Actividad))
	}
	if c.Asistio != nil {
		add("asistio", *c.Asistio)
	}
	if c.RegistradoRIPS != nil {
		add("registrado_rips", *c.RegistradoRIPS)
	}
	if c.DuracionMinutos != nil {
		add("duracion_minutos", *c.DuracionMinutos)
	}
	if c.TipoContacto != nil {
		add("tipo_contacto", store.Clean(*c.TipoContacto))
	}

	args = append(args, id)
	return s.db.WithContext(ctx).
		Exec("UPDATE registros SET "+set+" WHERE id = ?", args...).Error
}

// DeleteRegistro borra en firme por id. Un id inexistente es no-op.
func (s *Store) DeleteRegistro(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Exec("DELETE FROM registros WHERE id = ?", id).Error
}
