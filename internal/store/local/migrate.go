package local

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/12345678257/Sistema-de-control-FOMAG/internal/logger"
)

// ddl define las tablas base. CREATE TABLE IF NOT EXISTS hace que aplicar el
// esquema en cada arranque sea un no-op cuando ya existe.
var ddl = []string{
	`CREATE TABLE IF NOT EXISTS programas (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		nombre TEXT UNIQUE NOT NULL,
		activo INTEGER DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS convenios (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		nombre TEXT NOT NULL,
		programa_id INTEGER NOT NULL,
		activo INTEGER DEFAULT 1,
		UNIQUE(nombre, programa_id),
		FOREIGN KEY(programa_id) REFERENCES programas(id)
	)`,
	`CREATE TABLE IF NOT EXISTS instituciones (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		nombre TEXT NOT NULL,
		localidad TEXT,
		municipio TEXT,
		departamento TEXT,
		activo INTEGER DEFAULT 1,
		UNIQUE(nombre, municipio, departamento)
	)`,
	`CREATE TABLE IF NOT EXISTS profesores (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		nombre TEXT NOT NULL,
		documento TEXT,
		email TEXT,
		programa_id INTEGER,
		convenio_id INTEGER,
		activo INTEGER DEFAULT 1,
		UNIQUE(email, programa_id, convenio_id),
		FOREIGN KEY(programa_id) REFERENCES programas(id),
		FOREIGN KEY(convenio_id) REFERENCES convenios(id)
	)`,
	`CREATE TABLE IF NOT EXISTS pacientes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		documento TEXT UNIQUE NOT NULL,
		nombre TEXT NOT NULL,
		telefono TEXT,
		email TEXT,
		localidad TEXT,
		municipio TEXT,
		departamento TEXT,
		activo INTEGER DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS registros (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		fecha TEXT NOT NULL,
		programa_id INTEGER NOT NULL,
		convenio_id INTEGER NOT NULL,
		institucion_id INTEGER NOT NULL,
		profesor_id INTEGER NOT NULL,
		localidad TEXT,
		municipio TEXT,
		departamento TEXT,
		pacientes_programados INTEGER NOT NULL,
		pacientes_atendidos INTEGER NOT NULL,
		observaciones TEXT,
		creado_por TEXT,
		creado_en TEXT,
		actualizado_en TEXT,
		FOREIGN KEY(programa_id) REFERENCES programas(id),
		FOREIGN KEY(convenio_id) REFERENCES convenios(id),
		FOREIGN KEY(institucion_id) REFERENCES instituciones(id),
		FOREIGN KEY(profesor_id) REFERENCES profesores(id)
	)`,
}

// columnasRegistros son las columnas de la variante extendida que se agregan
// por migración aditiva sobre bases creadas con el esquema viejo. Todas
// admiten NULL para que la migración no reescriba filas.
var columnasRegistros = map[string]string{
	"paciente_id":      "INTEGER REFERENCES pacientes(id)",
	"actividad":        "TEXT",
	"asistio":          "INTEGER",
	"registrado_rips":  "INTEGER",
	"duracion_minutos": "INTEGER",
	"tipo_contacto":    "TEXT",
}

// Migrate aplica el esquema completo. Es idempotente: volver a crear una
// tabla existente o re-agregar una columna existente no hace nada.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range ddl {
		if err := s.db.WithContext(ctx).Exec(stmt).Error; err != nil {
			return fmt.Errorf("aplicar esquema: %w", err)
		}
	}
	return s.ensureRegistroColumns(ctx)
}

func (s *Store) ensureRegistroColumns(ctx context.Context) error {
	existentes, err := s.tableColumns(ctx, "registros")
	if err != nil {
		return err
	}
	for col, tipo := range columnasRegistros {
		if existentes[col] {
			continue
		}
		stmt := fmt.Sprintf("ALTER TABLE registros ADD COLUMN %s %s", col, tipo)
		if err := s.db.WithContext(ctx).Exec(stmt).Error; err != nil {
			return fmt.Errorf("agregar columna %s: %w", col, err)
		}
		logger.Log.Info("migración: columna agregada a registros", zap.String("columna", col))
	}
	return nil
}

func (s *Store) tableColumns(ctx context.Context, tabla string) (map[string]bool, error) {
	var filas []struct {
		Name string `gorm:"column:name"`
	}
	if err := s.db.WithContext(ctx).Raw(fmt.Sprintf("PRAGMA table_info(%s)", tabla)).Scan(&filas).Error; err != nil {
		return nil, fmt.Errorf("table_info %s: %w", tabla, err)
	}
	cols := make(map[string]bool, len(filas))
	for _, f := range filas {
		cols[f.Name] = true
	}
	return cols, nil
}
