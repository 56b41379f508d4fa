package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// LeerArchivo carga una planilla desde disco según su extensión (.xlsx o
// .csv) y la devuelve como tabla cruda, primera fila incluida.
func LeerArchivo(ruta string) ([][]string, error) {
	datos, err := os.ReadFile(ruta)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(ruta)) {
	case ".xlsx":
		return LeerXLSX(bytes.NewReader(datos))
	case ".csv":
		return LeerCSV(bytes.NewReader(datos))
	}
	return nil, fmt.Errorf("formato no soportado: %s (use .xlsx o .csv)", filepath.Ext(ruta))
}

// LeerXLSX lee la primera hoja del libro.
func LeerXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("abrir xlsx: %w", err)
	}
	defer f.Close()

	hojas := f.GetSheetList()
	if len(hojas) == 0 {
		return nil, errors.New("el libro no tiene hojas")
	}
	filas, err := f.GetRows(hojas[0])
	if err != nil {
		return nil, fmt.Errorf("leer hoja %q: %w", hojas[0], err)
	}
	return filas, nil
}

// LeerCSV lee un CSV separado por comas; los campos pueden venir con comillas.
func LeerCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // filas cortas son normales en planillas exportadas
	filas, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("leer csv: %w", err)
	}
	return filas, nil
}
