package local

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/12345678257/Sistema-de-control-FOMAG/internal/logger"
	"github.com/12345678257/Sistema-de-control-FOMAG/internal/store"
)

// Los upserts de catálogo son insert-if-absent: INSERT OR IGNORE deja la fila
// existente intacta y el motor traduce el choque de clave única a no-op. El
// id devuelto es siempre el de la fila vigente.

func (s *Store) ListProgramas(ctx context.Context) ([]store.Programa, error) {
	var list []store.Programa
	err := s.db.WithContext(ctx).
		Raw("SELECT * FROM programas WHERE activo = 1 ORDER BY nombre").
		Scan(&list).Error
	return list, err
}

func (s *Store) UpsertPrograma(ctx context.Context, nombre string) (int64, error) {
	nombre = store.CleanStr(nombre)
	if nombre == "" {
		return 0, errors.New("nombre de programa vacío")
	}
	db := s.db.WithContext(ctx)
	if err := db.Exec("INSERT OR IGNORE INTO programas(nombre, activo) VALUES(?, 1)", nombre).Error; err != nil {
		return 0, err
	}
	var id int64
	err := db.Raw("SELECT id FROM programas WHERE nombre = ?", nombre).Scan(&id).Error
	return id, err
}

func (s *Store) ListConvenios(ctx context.Context, programaID int64) ([]store.Convenio, error) {
	var list []store.Convenio
	q := "SELECT * FROM convenios WHERE activo = 1"
	args := []interface{}{}
	if programaID > 0 {
		q += " AND programa_id = ?"
		args = append(args, programaID)
	}
	q += " ORDER BY nombre"
	err := s.db.WithContext(ctx).Raw(q, args...).Scan(&list).Error
	return list, err
}

func (s *Store) UpsertConvenio(ctx context.Context, nombre string, programaID int64) (int64, error) {
	nombre = store.CleanStr(nombre)
	if nombre == "" || programaID == 0 {
		return 0, errors.New("convenio requiere nombre y programa")
	}
	db := s.db.WithContext(ctx)
	if err := db.Exec(
		"INSERT OR IGNORE INTO convenios(nombre, programa_id, activo) VALUES(?, ?, 1)",
		nombre, programaID,
	).Error; err != nil {
		return 0, err
	}
	var id int64
	err := db.Raw(
		"SELECT id FROM convenios WHERE nombre = ? AND programa_id = ?",
		nombre, programaID,
	).Scan(&id).Error
	return id, err
}

func (s *Store) ListInstituciones(ctx context.Context) ([]store.Institucion, error) {
	var list []store.Institucion
	err := s.db.WithContext(ctx).
		Raw("SELECT * FROM instituciones WHERE activo = 1 ORDER BY departamento, municipio, nombre").
		Scan(&list).Error
	return list, err
}

func (s *Store) UpsertInstitucion(ctx context.Context, inst store.Institucion) (int64, error) {
	nombre := store.CleanStr(inst.Nombre)
	if nombre == "" {
		return 0, errors.New("nombre de institución vacío")
	}
	localidad := store.Clean(store.Deref(inst.Localidad))
	municipio := store.Clean(store.Deref(inst.Municipio))
	departamento := store.Clean(store.Deref(inst.Departamento))

	db := s.db.WithContext(ctx)
	if err := db.Exec(
		`INSERT OR IGNORE INTO instituciones(nombre, localidad, municipio, departamento, activo)
		 VALUES(?, ?, ?, ?, 1)`,
		nombre, localidad, municipio, departamento,
	).Error; err != nil {
		return 0, err
	}
	// "IS ?" y no "=" para que la clave con geografía NULL también encuentre
	// su fila.
	var id int64
	err := db.Raw(
		"SELECT id FROM instituciones WHERE nombre = ? AND municipio IS ? AND departamento IS ?",
		nombre, municipio, departamento,
	).Scan(&id).Error
	return id, err
}

func (s *Store) ListProfesores(ctx context.Context, programaID, convenioID int64) ([]store.Profesor, error) {
	q := "SELECT * FROM profesores WHERE activo = 1"
	args := []interface{}{}
	if programaID > 0 {
		q += " AND programa_id = ?"
		args = append(args, programaID)
	}
	if convenioID > 0 {
		q += " AND convenio_id = ?"
		args = append(args, convenioID)
	}
	q += " ORDER BY nombre"
	var list []store.Profesor
	err := s.db.WithContext(ctx).Raw(q, args...).Scan(&list).Error
	return list, err
}

// UpsertProfesor conserva la clave (email, programa_id, convenio_id) del
// esquema original: con email NULL el motor trata cada inserción como fila
// nueva, así que profesores sin email pueden duplicarse. Comportamiento
// heredado, documentado en DESIGN.md; no se "corrige" aquí.
func (s *Store) UpsertProfesor(ctx context.Context, prof store.Profesor) (int64, error) {
	nombre := store.CleanStr(prof.Nombre)
	if nombre == "" {
		return 0, errors.New("nombre de profesor vacío")
	}
	documento := store.Clean(store.Deref(prof.Documento))
	email := store.Clean(store.Deref(prof.Email))

	db := s.db.WithContext(ctx)
	res := db.Exec(
		`INSERT OR IGNORE INTO profesores(nombre, documento, email, programa_id, convenio_id, activo)
		 VALUES(?, ?, ?, ?, ?, 1)`,
		nombre, documento, email, prof.ProgramaID, prof.ConvenioID,
	)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		logger.Log.Debug("upsert profesor: clave existente, no-op", zap.String("nombre", nombre))
	}
	var id int64
	err := db.Raw(
		`SELECT id FROM profesores
		 WHERE email IS ? AND programa_id IS ? AND convenio_id IS ?
		 ORDER BY id DESC LIMIT 1`,
		email, prof.ProgramaID, prof.ConvenioID,
	).Scan(&id).Error
	return id, err
}

// notFound traduce el error del motor al sentinel del contrato.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	return err
}
