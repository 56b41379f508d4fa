package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config agrupa la configuración del proceso. SupabaseURL y SupabaseKey
// seleccionan el backend remoto; si falta cualquiera de los dos se usa la
// base SQLite local en SQLitePath.
type Config struct {
	SupabaseURL string
	SupabaseKey string
	SQLitePath  string
	// CreatedBy es la identidad grabada en creado_por cuando el llamador no pasa otra.
	CreatedBy string
}

const defaultSQLitePath = "productividad_profesores.db"

func Load() *Config {
	// .env es opcional; en producción las variables vienen del ambiente.
	_ = godotenv.Load()

	return &Config{
		SupabaseURL: os.Getenv("SUPABASE_URL"),
		SupabaseKey: os.Getenv("SUPABASE_KEY"),
		SQLitePath:  getEnv("FOMAG_SQLITE_PATH", defaultSQLitePath),
		CreatedBy:   getEnv("FOMAG_CREATED_BY", "sistema"),
	}
}

// RemoteConfigured indica si ambos valores del backend remoto están presentes.
func (c *Config) RemoteConfigured() bool {
	return c.SupabaseURL != "" && c.SupabaseKey != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
