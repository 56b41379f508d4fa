package local

import (
	"context"
	"errors"

	"github.com/12345678257/Sistema-de-control-FOMAG/internal/store"
)

func (s *Store) ListPacientes(ctx context.Context) ([]store.Paciente, error) {
	var list []store.Paciente
	err := s.db.WithContext(ctx).
		Raw("SELECT * FROM pacientes WHERE activo = 1 ORDER BY nombre").
		Scan(&list).Error
	return list, err
}

// UpsertPaciente es el único upsert verdadero (update-if-present): el
// documento es la clave natural y los datos demográficos se actualizan en
// sitio para mantenerse vigentes. El id es estable entre upserts repetidos.
func (s *Store) UpsertPaciente(ctx context.Context, pac store.Paciente) (int64, error) {
	documento := store.CleanStr(pac.Documento)
	nombre := store.CleanStr(pac.Nombre)
	if documento == "" || nombre == "" {
		return 0, errors.New("paciente requiere documento y nombre")
	}
	telefono := store.Clean(store.Deref(pac.Telefono))
	email := store.Clean(store.Deref(pac.Email))
	localidad := store.Clean(store.Deref(pac.Localidad))
	municipio := store.Clean(store.Deref(pac.Municipio))
	departamento := store.Clean(store.Deref(pac.Departamento))

	db := s.db.WithContext(ctx)
	var id int64
	if err := db.Raw("SELECT id FROM pacientes WHERE documento = ?", documento).Scan(&id).Error; err != nil {
		return 0, err
	}
	if id > 0 {
		err := db.Exec(
			`UPDATE pacientes
			 SET nombre = ?, telefono = ?, email = ?, localidad = ?, municipio = ?, departamento = ?, activo = 1
			 WHERE id = ?`,
			nombre, telefono, email, localidad, municipio, departamento, id,
		).Error
		return id, err
	}
	if err := db.Exec(
		`INSERT INTO pacientes(documento, nombre, telefono, email, localidad, municipio, departamento, activo)
		 VALUES(?, ?, ?, ?, ?, ?, ?, 1)`,
		documento, nombre, telefono, email, localidad, municipio, departamento,
	).Error; err != nil {
		return 0, err
	}
	err := db.Raw("SELECT id FROM pacientes WHERE documento = ?", documento).Scan(&id).Error
	return id, err
}

// GetPacienteByDocumento devuelve la fila activa o store.ErrNotFound. El
// documento es la única clave de búsqueda soportada.
func (s *Store) GetPacienteByDocumento(ctx context.Context, documento string) (*store.Paciente, error) {
	documento = store.CleanStr(documento)
	if documento == "" {
		return nil, store.ErrNotFound
	}
	var p store.Paciente
	err := s.db.WithContext(ctx).
		Raw("SELECT * FROM pacientes WHERE documento = ? AND activo = 1", documento).
		Scan(&p).Error
	if err != nil {
		return nil, notFound(err)
	}
	if p.ID == 0 {
		return nil, store.ErrNotFound
	}
	return &p, nil
}
