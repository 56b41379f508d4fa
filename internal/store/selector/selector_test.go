package selector_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/12345678257/Sistema-de-control-FOMAG/internal/config"
	"github.com/12345678257/Sistema-de-control-FOMAG/internal/store/selector"
)

func TestOpenSinRemotoUsaSQLite(t *testing.T) {
	cfg := &config.Config{SQLitePath: filepath.Join(t.TempDir(), "sel.db")}
	s, err := selector.Open(cfg)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, "sqlite", s.Backend())
}

func TestOpenRemotoInvalidoDegradaALocal(t *testing.T) {
	// URL malformada: el cliente remoto no construye y la política es caer al
	// archivo local sin propagar el error.
	cfg := &config.Config{
		SupabaseURL: "://no-es-url",
		SupabaseKey: "clave",
		SQLitePath:  filepath.Join(t.TempDir(), "degradado.db"),
	}
	s, err := selector.Open(cfg)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, "sqlite", s.Backend())
}
