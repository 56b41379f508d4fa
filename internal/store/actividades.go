package store

import "strings"

// Actividades es la lista cerrada de plantillas de actividad de la variante
// extendida. Una actividad fuera de esta lista se rechaza en la frontera de
// escritura (formulario o importación), no en el almacenamiento.
var Actividades = []string{
	"Consulta individual",
	"Consulta de control",
	"Taller grupal",
	"Visita domiciliaria",
	"Seguimiento telefónico",
	"Valoración inicial",
}

// TiposContacto es la lista cerrada de tipos de contacto.
var TiposContacto = []string{
	"Presencial",
	"Telefónico",
	"Virtual",
	"Domiciliario",
}

// ActividadValida verifica la plantilla ignorando mayúsculas y espacios.
// Devuelve la forma canónica de la lista.
func ActividadValida(s string) (string, bool) {
	return matchEnum(Actividades, s)
}

// TipoContactoValido verifica el tipo de contacto igual que ActividadValida.
func TipoContactoValido(s string) (string, bool) {
	return matchEnum(TiposContacto, s)
}

func matchEnum(valores []string, s string) (string, bool) {
	t := strings.TrimSpace(s)
	for _, v := range valores {
		if strings.EqualFold(v, t) {
			return v, true
		}
	}
	return "", false
}
