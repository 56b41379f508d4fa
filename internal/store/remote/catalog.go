package remote

import (
	"context"
	"errors"

	"github.com/supabase-community/postgrest-go"
	"go.uber.org/zap"

	"github.com/12345678257/Sistema-de-control-FOMAG/internal/logger"
	"github.com/12345678257/Sistema-de-control-FOMAG/internal/store"
)

// Insert-if-absent contra PostgREST: primero se busca la clave natural y solo
// se inserta si no hay fila. Dos escritores simultáneos sobre la misma clave
// los arbitra la restricción única del backend remoto; esta capa no media más.

var asc = &postgrest.OrderOpts{Ascending: true}

func (s *Store) ListProgramas(ctx context.Context) ([]store.Programa, error) {
	var list []store.Programa
	_, err := s.client.From("programas").
		Select("*", "", false).
		Eq("activo", "true").
		Order("nombre", asc).
		ExecuteTo(&list)
	return list, err
}

func (s *Store) UpsertPrograma(ctx context.Context, nombre string) (int64, error) {
	nombre = store.CleanStr(nombre)
	if nombre == "" {
		return 0, errors.New("nombre de programa vacío")
	}
	var existentes []store.Programa
	if _, err := s.client.From("programas").
		Select("*", "", false).
		Eq("nombre", nombre).
		ExecuteTo(&existentes); err != nil {
		return 0, err
	}
	if len(existentes) > 0 {
		return existentes[0].ID, nil
	}
	var creadas []store.Programa
	_, err := s.client.From("programas").
		Insert(map[string]interface{}{"nombre": nombre, "activo": true}, false, "", "representation", "").
		ExecuteTo(&creadas)
	if err != nil {
		logger.Log.Error("upsert programa remoto", zap.Error(err))
		return 0, err
	}
	if len(creadas) == 0 {
		return 0, errors.New("insert programa: sin fila de retorno")
	}
	return creadas[0].ID, nil
}

func (s *Store) ListConvenios(ctx context.Context, programaID int64) ([]store.Convenio, error) {
	q := s.client.From("convenios").
		Select("*", "", false).
		Eq("activo", "true")
	if programaID > 0 {
		q = q.Eq("programa_id", itoa(programaID))
	}
	var list []store.Convenio
	_, err := q.Order("nombre", asc).ExecuteTo(&list)
	return list, err
}

func (s *Store) UpsertConvenio(ctx context.Context, nombre string, programaID int64) (int64, error) {
	nombre = store.CleanStr(nombre)
	if nombre == "" || programaID == 0 {
		return 0, errors.New("convenio requiere nombre y programa")
	}
	var existentes []store.Convenio
	if _, err := s.client.From("convenios").
		Select("*", "", false).
		Eq("nombre", nombre).
		Eq("programa_id", itoa(programaID)).
		ExecuteTo(&existentes); err != nil {
		return 0, err
	}
	if len(existentes) > 0 {
		return existentes[0].ID, nil
	}
	var creadas []store.Convenio
	_, err := s.client.From("convenios").
		Insert(map[string]interface{}{
			"nombre":      nombre,
			"programa_id": programaID,
			"activo":      true,
		}, false, "", "representation", "").
		ExecuteTo(&creadas)
	if err != nil {
		return 0, err
	}
	if len(creadas) == 0 {
		return 0, errors.New("insert convenio: sin fila de retorno")
	}
	return creadas[0].ID, nil
}

func (s *Store) ListInstituciones(ctx context.Context) ([]store.Institucion, error) {
	var list []store.Institucion
	_, err := s.client.From("instituciones").
		Select("*", "", false).
		Eq("activo", "true").
		Order("departamento", asc).
		Order("municipio", asc).
		Order("nombre", asc).
		ExecuteTo(&list)
	return list, err
}

func (s *Store) UpsertInstitucion(ctx context.Context, inst store.Institucion) (int64, error) {
	nombre := store.CleanStr(inst.Nombre)
	if nombre == "" {
		return 0, errors.New("nombre de institución vacío")
	}
	municipio := store.Clean(store.Deref(inst.Municipio))
	departamento := store.Clean(store.Deref(inst.Departamento))

	q := s.client.From("instituciones").Select("*", "", false).Eq("nombre", nombre)
	q = eqOrNull(q, "municipio", municipio)
	q = eqOrNull(q, "departamento", departamento)
	var existentes []store.Institucion
	if _, err := q.ExecuteTo(&existentes); err != nil {
		return 0, err
	}
	if len(existentes) > 0 {
		return existentes[0].ID, nil
	}
	var creadas []store.Institucion
	_, err := s.client.From("instituciones").
		Insert(map[string]interface{}{
			"nombre":       nombre,
			"localidad":    store.Clean(store.Deref(inst.Localidad)),
			"municipio":    municipio,
			"departamento": departamento,
			"activo":       true,
		}, false, "", "representation", "").
		ExecuteTo(&creadas)
	if err != nil {
		return 0, err
	}
	if len(creadas) == 0 {
		return 0, errors.New("insert institución: sin fila de retorno")
	}
	return creadas[0].ID, nil
}

func (s *Store) ListProfesores(ctx context.Context, programaID, convenioID int64) ([]store.Profesor, error) {
	q := s.client.From("profesores").
		Select("*", "", false).
		Eq("activo", "true")
	if programaID > 0 {
		q = q.Eq("programa_id", itoa(programaID))
	}
	if convenioID > 0 {
		q = q.Eq("convenio_id", itoa(convenioID))
	}
	var list []store.Profesor
	_, err := q.Order("nombre", asc).ExecuteTo(&list)
	return list, err
}

func (s *Store) UpsertProfesor(ctx context.Context, prof store.Profesor) (int64, error) {
	nombre := store.CleanStr(prof.Nombre)
	if nombre == "" {
		return 0, errors.New("nombre de profesor vacío")
	}
	email := store.Clean(store.Deref(prof.Email))

	q := s.client.From("profesores").Select("*", "", false)
	q = eqOrNull(q, "email", email)
	q = eqOrNullID(q, "programa_id", prof.ProgramaID)
	q = eqOrNullID(q, "convenio_id", prof.ConvenioID)
	var existentes []store.Profesor
	if _, err := q.ExecuteTo(&existentes); err != nil {
		return 0, err
	}
	// Con email NULL la clave no deduplica (comportamiento heredado): solo se
	// reutiliza la fila cuando hay email. Ver DESIGN.md.
	if email != nil && len(existentes) > 0 {
		return existentes[0].ID, nil
	}
	var creadas []store.Profesor
	_, err := s.client.From("profesores").
		Insert(map[string]interface{}{
			"nombre":      nombre,
			"documento":   store.Clean(store.Deref(prof.Documento)),
			"email":       email,
			"programa_id": prof.ProgramaID,
			"convenio_id": prof.ConvenioID,
			"activo":      true,
		}, false, "", "representation", "").
		ExecuteTo(&creadas)
	if err != nil {
		return 0, err
	}
	if len(creadas) == 0 {
		return 0, errors.New("insert profesor: sin fila de retorno")
	}
	return creadas[0].ID, nil
}

func eqOrNull(q *postgrest.FilterBuilder, col string, v *string) *postgrest.FilterBuilder {
	if v == nil {
		return q.Is(col, "null")
	}
	return q.Eq(col, *v)
}

func eqOrNullID(q *postgrest.FilterBuilder, col string, v *int64) *postgrest.FilterBuilder {
	if v == nil {
		return q.Is(col, "null")
	}
	return q.Eq(col, itoa(*v))
}
