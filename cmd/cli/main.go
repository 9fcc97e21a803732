package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/nateepat/applink/pkg/adapters/repository/sqlite"
	"github.com/nateepat/applink/pkg/config"
	"github.com/nateepat/applink/pkg/core/domain"
	"github.com/nateepat/applink/pkg/core/services"
	"github.com/nateepat/applink/pkg/logging"
)

// Snapshot tooling for migrations and backups:
//
//	applink export > backup.json
//	applink import -file backup.json
func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	importCmd := flag.NewFlagSet("import", flag.ExitOnError)
	importFile := importCmd.String("file", "", "snapshot JSON file to import")

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "expected 'export' or 'import' subcommands")
		os.Exit(1)
	}

	cfg := config.Load()
	logging.Setup(cfg.LogLevel, cfg.AppEnv)

	repo, err := sqlite.NewRepository(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	admin := services.NewAdminService(repo)

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		doExport(admin)
	case "import":
		importCmd.Parse(os.Args[2:])
		if *importFile == "" {
			importCmd.PrintDefaults()
			os.Exit(1)
		}
		doImport(admin, *importFile)
	default:
		fmt.Fprintln(os.Stderr, "expected 'export' or 'import' subcommands")
		os.Exit(1)
	}
}

func doExport(admin *services.AdminService) {
	snapshot, err := admin.Export(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("export failed")
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(snapshot); err != nil {
		log.Fatal().Err(err).Msg("encode failed")
	}
}

func doImport(admin *services.AdminService, filename string) {
	file, err := os.Open(filename)
	if err != nil {
		log.Fatal().Err(err).Str("file", filename).Msg("failed to open snapshot")
	}
	defer file.Close()

	var snapshot domain.Snapshot
	if err := json.NewDecoder(file).Decode(&snapshot); err != nil {
		log.Fatal().Err(err).Msg("failed to decode snapshot")
	}

	if err := admin.Import(context.Background(), &snapshot); err != nil {
		log.Fatal().Err(err).Msg("import failed")
	}

	log.Info().
		Int("users", len(snapshot.Data.Users)).
		Int("apps", len(snapshot.Data.Apps)).
		Int("campaigns", len(snapshot.Data.Campaigns)).
		Int("visits", len(snapshot.Data.Visits)).
		Msg("snapshot imported")
}
