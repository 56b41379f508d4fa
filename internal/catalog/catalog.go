// Package catalog es la frontera de escritura sobre el Store: valida la
// entrada, aplica las reglas que el almacenamiento no re-valida (atendidos ≤
// programados, plantillas de actividad) y delega en la política de upsert de
// cada entidad.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/12345678257/Sistema-de-control-FOMAG/internal/store"
)

// ErrValidation marca errores de entrada; el llamador los muestra y aborta.
var ErrValidation = errors.New("entrada inválida")

type Service struct {
	st       store.Store
	validate *validator.Validate
}

func NewService(st store.Store) *Service {
	return &Service{st: st, validate: validator.New()}
}

// Store expone el backend subyacente para lecturas directas.
func (s *Service) Store() store.Store { return s.st }

type PacienteInput struct {
	Documento    string `validate:"required"`
	Nombre       string `validate:"required"`
	Telefono     string
	Email        string `validate:"omitempty,email"`
	Localidad    string
	Municipio    string
	Departamento string
}

type RegistroInput struct {
	Fecha         string `validate:"required,datetime=2006-01-02"`
	ProgramaID    int64  `validate:"required,gt=0"`
	ConvenioID    int64  `validate:"required,gt=0"`
	InstitucionID int64  `validate:"required,gt=0"`
	ProfesorID    int64  `validate:"required,gt=0"`
	PacienteID    *int64

	Localidad    string
	Municipio    string
	Departamento string

	Programados   int64 `validate:"gte=0"`
	Atendidos     int64 `validate:"gte=0"`
	Observaciones string

	Actividad       string
	Asistio         *bool
	RegistradoRIPS  *bool
	DuracionMinutos *int64
	TipoContacto    string
}

func (s *Service) AgregarPrograma(ctx context.Context, nombre string) (int64, error) {
	if store.CleanStr(nombre) == "" {
		return 0, fmt.Errorf("%w: nombre de programa requerido", ErrValidation)
	}
	return s.st.UpsertPrograma(ctx, nombre)
}

func (s *Service) AgregarConvenio(ctx context.Context, nombre string, programaID int64) (int64, error) {
	if store.CleanStr(nombre) == "" || programaID == 0 {
		return 0, fmt.Errorf("%w: convenio requiere nombre y programa", ErrValidation)
	}
	return s.st.UpsertConvenio(ctx, nombre, programaID)
}

func (s *Service) AgregarInstitucion(ctx context.Context, nombre, localidad, municipio, departamento string) (int64, error) {
	if store.CleanStr(nombre) == "" {
		return 0, fmt.Errorf("%w: nombre de institución requerido", ErrValidation)
	}
	return s.st.UpsertInstitucion(ctx, store.Institucion{
		Nombre:       nombre,
		Localidad:    store.Clean(localidad),
		Municipio:    store.Clean(municipio),
		Departamento: store.Clean(departamento),
	})
}

func (s *Service) AgregarProfesor(ctx context.Context, nombre, documento, email string, programaID, convenioID *int64) (int64, error) {
	if store.CleanStr(nombre) == "" {
		return 0, fmt.Errorf("%w: nombre de profesor requerido", ErrValidation)
	}
	if e := store.CleanStr(email); e != "" {
		if err := s.validate.Var(e, "email"); err != nil {
			return 0, fmt.Errorf("%w: email de profesor no válido", ErrValidation)
		}
	}
	return s.st.UpsertProfesor(ctx, store.Profesor{
		Nombre:     nombre,
		Documento:  store.Clean(documento),
		Email:      store.Clean(email),
		ProgramaID: programaID,
		ConvenioID: convenioID,
	})
}

// UpsertPaciente valida los campos obligatorios del paciente y delega en el
// upsert verdadero por documento.
func (s *Service) UpsertPaciente(ctx context.Context, in PacienteInput) (int64, error) {
	if err := s.validate.Struct(in); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return s.st.UpsertPaciente(ctx, store.Paciente{
		Documento:    in.Documento,
		Nombre:       in.Nombre,
		Telefono:     store.Clean(in.Telefono),
		Email:        store.Clean(in.Email),
		Localidad:    store.Clean(in.Localidad),
		Municipio:    store.Clean(in.Municipio),
		Departamento: store.Clean(in.Departamento),
	})
}

// GuardarRegistro es el único camino de alta de registros desde formularios:
// aquí, y no en el Store, se valida atendidos ≤ programados y la plantilla de
// actividad. La importación masiva aplica las mismas reglas por fila.
func (s *Service) GuardarRegistro(ctx context.Context, in RegistroInput, creadoPor string) (int64, error) {
	if err := s.validate.Struct(in); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if in.Atendidos > in.Programados {
		return 0, fmt.Errorf("%w: los atendidos no pueden superar los programados", ErrValidation)
	}
	var actividad *string
	if in.Actividad != "" {
		canonica, ok := store.ActividadValida(in.Actividad)
		if !ok {
			return 0, fmt.Errorf("%w: actividad %q fuera de la lista", ErrValidation, in.Actividad)
		}
		actividad = &canonica
	}
	var tipoContacto *string
	if in.TipoContacto != "" {
		canonico, ok := store.TipoContactoValido(in.TipoContacto)
		if !ok {
			return 0, fmt.Errorf("%w: tipo de contacto %q fuera de la lista", ErrValidation, in.TipoContacto)
		}
		tipoContacto = &canonico
	}

	r := store.Registro{
		Fecha:                in.Fecha,
		ProgramaID:           in.ProgramaID,
		ConvenioID:           in.ConvenioID,
		InstitucionID:        in.InstitucionID,
		ProfesorID:           in.ProfesorID,
		PacienteID:           in.PacienteID,
		Localidad:            store.Clean(in.Localidad),
		Municipio:            store.Clean(in.Municipio),
		Departamento:         store.Clean(in.Departamento),
		PacientesProgramados: in.Programados,
		PacientesAtendidos:   in.Atendidos,
		Observaciones:        store.Clean(in.Observaciones),
		Actividad:            actividad,
		Asistio:              in.Asistio,
		RegistradoRIPS:       in.RegistradoRIPS,
		DuracionMinutos:      in.DuracionMinutos,
		TipoContacto:         tipoContacto,
		CreadoPor:            store.Clean(creadoPor),
	}
	if err := s.st.InsertRegistro(ctx, &r); err != nil {
		return 0, err
	}
	return r.ID, nil
}
