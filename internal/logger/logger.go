package logger

import (
	"go.uber.org/zap"
)

// Log y SLog son los loggers compartidos del proceso. Init debe llamarse una
// vez al arranque; los paquetes internos asumen que ya están inicializados.
var (
	Log  *zap.Logger
	SLog *zap.SugaredLogger
)

func init() {
	// Logger no-op hasta que Init configure el real, para que los tests
	// puedan usar los paquetes sin arranque explícito.
	Log = zap.NewNop()
	SLog = Log.Sugar()
}

// Init configura el logger global. En desarrollo usa salida legible.
func Init(development bool) error {
	var (
		l   *zap.Logger
		err error
	)
	if development {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return err
	}
	Log = l
	SLog = l.Sugar()
	return nil
}

// Sync descarga los buffers pendientes. Ignorar el error es seguro en stdout.
func Sync() {
	_ = Log.Sync()
}
