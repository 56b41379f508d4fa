// Package remote implementa store.Store contra Supabase vía PostgREST.
// A diferencia del backend local, el motor remoto no hace cumplir claves
// foráneas en la frontera de la API: la integridad referencial depende de la
// disciplina del llamador.
package remote

import (
	"fmt"
	"strconv"
	"time"

	"github.com/supabase-community/postgrest-go"

	"github.com/12345678257/Sistema-de-control-FOMAG/internal/cache"
)

type Store struct {
	client *postgrest.Client
	// nombres amortigua las resoluciones id→nombre de ListRegistros; el
	// catálogo es casi inmutable así que un TTL corto alcanza.
	nombres *cache.TTL
}

// New construye el cliente PostgREST con la URL y la llave del servicio.
// Cualquier error aquí lo trata el selector como "usar backend local".
func New(rawURL, key string) (*Store, error) {
	client := postgrest.NewClient(rawURL+"/rest/v1", "", map[string]string{
		"apikey":        key,
		"Authorization": "Bearer " + key,
	})
	if client.ClientError != nil {
		return nil, fmt.Errorf("cliente postgrest: %w", client.ClientError)
	}
	return &Store{
		client:  client,
		nombres: cache.New(5 * time.Minute),
	}, nil
}

func (s *Store) Backend() string { return "supabase" }

// Close no tiene recursos propios que liberar; el cliente HTTP es compartido.
func (s *Store) Close() error { return nil }

func itoa(v int64) string { return strconv.FormatInt(v, 10) }
