package testutil

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/12345678257/Sistema-de-control-FOMAG/internal/store/local"
)

// NewStore abre un store SQLite sobre un archivo temporal único, con el
// esquema ya migrado. El archivo se limpia junto con t.TempDir().
func NewStore(t *testing.T) *local.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), uuid.NewString()+".db")
	s, err := local.Open(path)
	if err != nil {
		t.Fatalf("abrir sqlite de prueba: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}
