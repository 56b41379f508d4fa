package remote

import (
	"context"
	"errors"

	"github.com/12345678257/Sistema-de-control-FOMAG/internal/store"
)

func (s *Store) ListPacientes(ctx context.Context) ([]store.Paciente, error) {
	var list []store.Paciente
	_, err := s.client.From("pacientes").
		Select("*", "", false).
		Eq("activo", "true").
		Order("nombre", asc).
		ExecuteTo(&list)
	return list, err
}

// UpsertPaciente: update-if-present por documento, la excepción declarada a
// la política insert-if-absent de los catálogos.
func (s *Store) UpsertPaciente(ctx context.Context, pac store.Paciente) (int64, error) {
	documento := store.CleanStr(pac.Documento)
	nombre := store.CleanStr(pac.Nombre)
	if documento == "" || nombre == "" {
		return 0, errors.New("paciente requiere documento y nombre")
	}
	campos := map[string]interface{}{
		"documento":    documento,
		"nombre":       nombre,
		"telefono":     store.Clean(store.Deref(pac.Telefono)),
		"email":        store.Clean(store.Deref(pac.Email)),
		"localidad":    store.Clean(store.Deref(pac.Localidad)),
		"municipio":    store.Clean(store.Deref(pac.Municipio)),
		"departamento": store.Clean(store.Deref(pac.Departamento)),
		"activo":       true,
	}

	var existentes []store.Paciente
	if _, err := s.client.From("pacientes").
		Select("*", "", false).
		Eq("documento", documento).
		ExecuteTo(&existentes); err != nil {
		return 0, err
	}
	if len(existentes) > 0 {
		id := existentes[0].ID
		if _, _, err := s.client.From("pacientes").
			Update(campos, "", "").
			Eq("id", itoa(id)).
			Execute(); err != nil {
			return 0, err
		}
		return id, nil
	}
	var creadas []store.Paciente
	if _, err := s.client.From("pacientes").
		Insert(campos, false, "", "representation", "").
		ExecuteTo(&creadas); err != nil {
		return 0, err
	}
	if len(creadas) == 0 {
		return 0, errors.New("insert paciente: sin fila de retorno")
	}
	return creadas[0].ID, nil
}

func (s *Store) GetPacienteByDocumento(ctx context.Context, documento string) (*store.Paciente, error) {
	documento = store.CleanStr(documento)
	if documento == "" {
		return nil, store.ErrNotFound
	}
	var list []store.Paciente
	if _, err := s.client.From("pacientes").
		Select("*", "", false).
		Eq("documento", documento).
		Eq("activo", "true").
		ExecuteTo(&list); err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, store.ErrNotFound
	}
	return &list[0], nil
}
