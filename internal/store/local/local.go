// Package local implementa store.Store sobre un archivo SQLite embebido.
// Es el backend de reserva cuando el remoto no está configurado; el esquema
// se crea y migra sincrónicamente antes de aceptar la primera operación.
package local

import (
	"context"
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/12345678257/Sistema-de-control-FOMAG/internal/store"
)

type Store struct {
	db *gorm.DB
}

var _ store.Store = (*Store)(nil)

// Open abre (o crea) el archivo y aplica el esquema. Las claves foráneas las
// hace cumplir el motor; el backend remoto no las valida en su API.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("abrir sqlite %s: %w", path, err)
	}
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("pragma foreign_keys: %w", err)
	}
	s := &Store{db: db}
	if err := s.Migrate(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Backend() string { return "sqlite" }

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// DB expone el handle GORM para los tests de integración del paquete.
func (s *Store) DB() *gorm.DB { return s.db }
