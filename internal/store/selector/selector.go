// Package selector elige el backend de datos una sola vez al arranque del
// proceso. No hay cambio de backend en caliente: el Store devuelto vive tanto
// como el proceso.
package selector

import (
	"go.uber.org/zap"

	"github.com/12345678257/Sistema-de-control-FOMAG/internal/config"
	"github.com/12345678257/Sistema-de-control-FOMAG/internal/logger"
	"github.com/12345678257/Sistema-de-control-FOMAG/internal/store"
	"github.com/12345678257/Sistema-de-control-FOMAG/internal/store/local"
	"github.com/12345678257/Sistema-de-control-FOMAG/internal/store/remote"
)

// Open intenta el backend remoto cuando SUPABASE_URL y SUPABASE_KEY están
// presentes; si falta configuración o el cliente no construye, degrada en
// silencio al archivo SQLite local (política degrade-to-local: se registra en
// el log pero nunca se propaga como error). El esquema local se crea y migra
// antes de devolver.
func Open(cfg *config.Config) (store.Store, error) {
	if cfg.RemoteConfigured() {
		s, err := remote.New(cfg.SupabaseURL, cfg.SupabaseKey)
		if err == nil {
			logger.Log.Info("backend remoto seleccionado", zap.String("url", cfg.SupabaseURL))
			return s, nil
		}
		logger.Log.Warn("backend remoto no disponible, usando SQLite local", zap.Error(err))
	}
	s, err := local.Open(cfg.SQLitePath)
	if err != nil {
		return nil, err
	}
	logger.Log.Info("backend local seleccionado", zap.String("archivo", cfg.SQLitePath))
	return s, nil
}
