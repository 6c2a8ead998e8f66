// cmd/tools/destination-admin/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"flight-deals/internal/bootstrap"
	"flight-deals/internal/common/config"
	"flight-deals/internal/common/database"
	"flight-deals/internal/common/logger"
	"flight-deals/internal/models"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	addCmd := flag.NewFlagSet("add", flag.ExitOnError)
	listCmd := flag.NewFlagSet("list", flag.ExitOnError)
	migrateCmd := flag.NewFlagSet("migrate", flag.ExitOnError)

	city := addCmd.String("city", "", "Destination city (e.g., Paris)")
	price := addCmd.Float64("price", 0, "Alert threshold price")
	code := addCmd.String("code", "", "Location code, normally filled in by the next run")

	var configPath string
	for _, fs := range []*flag.FlagSet{addCmd, listCmd, migrateCmd} {
		fs.StringVar(&configPath, "config", "", "Path to a config file")
	}

	if len(args) < 1 {
		help()
		return 1
	}

	switch args[0] {
	case "add":
		addCmd.Parse(args[1:])
		if *city == "" || *price <= 0 {
			fmt.Println("Error: city and a positive price are required for add.")
			addCmd.Usage()
			return 1
		}
		store, pg, err := openStore(configPath)
		if err != nil {
			fmt.Printf("Error opening store: %v\n", err)
			return 1
		}
		defer closePostgres(pg)
		row, err := store.AddDestination(context.Background(), models.DestinationRow{City: *city, LowestPrice: *price, IATACode: *code})
		if err != nil {
			fmt.Printf("Error adding destination: %v\n", err)
			return 1
		}
		fmt.Printf("Added destination %d: %s (threshold %v)\n", row.ID, row.City, row.LowestPrice)

	case "list":
		listCmd.Parse(args[1:])
		store, pg, err := openStore(configPath)
		if err != nil {
			fmt.Printf("Error opening store: %v\n", err)
			return 1
		}
		defer closePostgres(pg)
		rows, err := store.ListDestinations(context.Background())
		if err != nil {
			fmt.Printf("Error listing destinations: %v\n", err)
			return 1
		}
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tCITY\tTHRESHOLD\tCODE")
		for _, r := range rows {
			fmt.Fprintf(tw, "%d\t%s\t%v\t%s\n", r.ID, r.City, r.LowestPrice, r.IATACode)
		}
		tw.Flush()

	case "migrate":
		migrateCmd.Parse(args[1:])
		cfg, err := loadConfig(configPath)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			return 1
		}
		if cfg.Store.Backend != config.StoreBackendPostgres {
			fmt.Println("Error: migrate only applies to the postgres store backend.")
			return 1
		}
		_, pg, err := bootstrap.NewStore(cfg, logger.NewNoOpLogger())
		if err != nil {
			fmt.Printf("Error opening store: %v\n", err)
			return 1
		}
		defer closePostgres(pg)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := pg.Migrate(ctx); err != nil {
			fmt.Printf("Error migrating: %v\n", err)
			return 1
		}
		fmt.Println("destinations table is up to date")

	default:
		help()
		return 1
	}
	return 0
}

// loadConfig only requires the store settings; the admin tool never searches
// or sends alerts.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadStoreFromFile(path)
	}
	return config.LoadStore()
}

func openStore(path string) (bootstrap.Store, *database.PostgresClient, error) {
	cfg, err := loadConfig(path)
	if err != nil {
		return nil, nil, err
	}
	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)
	return bootstrap.NewStore(cfg, log)
}

func closePostgres(pg *database.PostgresClient) {
	if pg != nil {
		pg.Close()
	}
}

func help() {
	fmt.Println("Usage: destination-admin <command> [options]")
	fmt.Println("Commands:")
	fmt.Println("  add      -city <name> -price <threshold> [-code <code>]")
	fmt.Println("  list")
	fmt.Println("  migrate  create the destinations table (postgres backend)")
	fmt.Println("All commands accept -config <path>.")
}
