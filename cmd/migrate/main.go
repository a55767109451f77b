package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/nuplus/warehouses-api/internal/infrastructure/postgres"
	"github.com/nuplus/warehouses-api/pkg/config"
)

// Aplica las migraciones embebidas sin levantar la API. Útil en pipelines de
// despliegue y para preparar bases de tenants a mano.
//
//	migrate -target master
//	migrate -target tenant -dsn postgres://...
func main() {
	var (
		target = flag.String("target", "master", "master (catálogo) o tenant (esquema de bodega)")
		dsn    = flag.String("dsn", "", "DSN de destino; por defecto usa la configuración de la app")
	)
	flag.Parse()

	if *dsn == "" {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintln(os.Stderr, "cargar configuración:", err)
			os.Exit(1)
		}
		*dsn = cfg.DB.ConnectionString()
	}

	var err error
	switch *target {
	case "master":
		err = postgres.RunMasterMigrations(*dsn)
	case "tenant":
		err = postgres.RunMigrations(*dsn)
	default:
		fmt.Fprintln(os.Stderr, "target desconocido:", *target)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "migración fallida:", err)
		os.Exit(1)
	}
	fmt.Println("migraciones aplicadas:", *target)
}
