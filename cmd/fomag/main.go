// fomag es la interfaz de línea de comandos de la capa de datos: importa
// planillas, lista registros filtrados y exporta los reportes. El backend
// (Supabase o SQLite local) se decide una vez, por variables de ambiente.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/12345678257/Sistema-de-control-FOMAG/internal/catalog"
	"github.com/12345678257/Sistema-de-control-FOMAG/internal/config"
	"github.com/12345678257/Sistema-de-control-FOMAG/internal/importer"
	"github.com/12345678257/Sistema-de-control-FOMAG/internal/logger"
	"github.com/12345678257/Sistema-de-control-FOMAG/internal/report"
	"github.com/12345678257/Sistema-de-control-FOMAG/internal/store"
	"github.com/12345678257/Sistema-de-control-FOMAG/internal/store/selector"
)

func main() {
	var (
		importar    = flag.String("import", "", "planilla a importar (.xlsx o .csv)")
		exportar    = flag.String("export", "", "archivo Excel de reporte a escribir")
		exportarCSV = flag.String("csv", "", "archivo CSV de detalle a escribir")
		listar      = flag.Bool("list", false, "listar registros con los filtros dados")

		desde        = flag.String("desde", "", "fecha desde (2006-01-02); por defecto inicio de mes")
		hasta        = flag.String("hasta", "", "fecha hasta (2006-01-02); por defecto hoy")
		programaID   = flag.Int64("programa", 0, "filtrar por id de programa")
		convenioID   = flag.Int64("convenio", 0, "filtrar por id de convenio")
		profesorID   = flag.Int64("profesor", 0, "filtrar por id de profesor")
		institucion  = flag.Int64("institucion", 0, "filtrar por id de institución")
		departamento = flag.String("departamento", "", "filtrar por departamento exacto")
		municipio    = flag.String("municipio", "", "filtrar por municipio exacto")
		actividad    = flag.String("actividad", "", "filtrar por plantilla de actividad")
	)
	flag.Parse()

	if err := logger.Init(os.Getenv("FOMAG_ENV") != "production"); err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg := config.Load()
	st, err := selector.Open(cfg)
	if err != nil {
		logger.SLog.Fatalf("abrir backend: %v", err)
	}
	defer st.Close()
	logger.SLog.Infof("backend activo: %s", st.Backend())

	ctx := context.Background()
	svc := catalog.NewService(st)

	filtros := store.DefaultFiltros(time.Now())
	if *desde != "" {
		filtros.FechaDesde = *desde
	}
	if *hasta != "" {
		filtros.FechaHasta = *hasta
	}
	filtros.ProgramaID = *programaID
	filtros.ConvenioID = *convenioID
	filtros.ProfesorID = *profesorID
	filtros.InstitucionID = *institucion
	filtros.Departamento = *departamento
	filtros.Municipio = *municipio
	filtros.Actividad = *actividad

	switch {
	case *importar != "":
		tabla, err := importer.LeerArchivo(*importar)
		if err != nil {
			logger.SLog.Fatalf("leer %s: %v", *importar, err)
		}
		resumen, err := importer.New(svc).Importar(ctx, tabla, cfg.CreatedBy)
		if err != nil {
			logger.SLog.Fatalf("importar: %v", err)
		}
		fmt.Printf("importados: %d, omitidos: %d\n", resumen.Insertados, resumen.Omitidos)
		for _, m := range resumen.Motivos {
			fmt.Println("  -", m)
		}

	case *exportar != "":
		rows, err := st.ListRegistros(ctx, filtros)
		if err != nil {
			logger.SLog.Fatalf("listar registros: %v", err)
		}
		datos, err := report.ExportarExcel(rows)
		if err != nil {
			logger.SLog.Fatalf("exportar excel: %v", err)
		}
		if err := os.WriteFile(*exportar, datos, 0o644); err != nil {
			logger.SLog.Fatalf("escribir %s: %v", *exportar, err)
		}
		fmt.Printf("reporte escrito: %s (%d filas)\n", *exportar, len(rows))

	case *exportarCSV != "":
		rows, err := st.ListRegistros(ctx, filtros)
		if err != nil {
			logger.SLog.Fatalf("listar registros: %v", err)
		}
		datos, err := report.ExportarCSV(rows)
		if err != nil {
			logger.SLog.Fatalf("exportar csv: %v", err)
		}
		if err := os.WriteFile(*exportarCSV, datos, 0o644); err != nil {
			logger.SLog.Fatalf("escribir %s: %v", *exportarCSV, err)
		}
		fmt.Printf("detalle escrito: %s (%d filas)\n", *exportarCSV, len(rows))

	case *listar:
		rows, err := st.ListRegistros(ctx, filtros)
		if err != nil {
			logger.SLog.Fatalf("listar registros: %v", err)
		}
		tot := report.Calcular(rows)
		for _, r := range rows {
			fmt.Printf("%d\t%s\t%s\t%s\t%d/%d\n",
				r.ID, r.Fecha, store.Deref(r.Profesor), store.Deref(r.Institucion),
				r.PacientesAtendidos, r.PacientesProgramados)
		}
		fmt.Printf("total: %d filas, programados %d, atendidos %d, sin RIPS %d\n",
			len(rows), tot.Programados, tot.Atendidos, tot.AtendidosSinRIPS)

	default:
		flag.Usage()
		os.Exit(2)
	}
}
