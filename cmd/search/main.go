package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/tickettrail/tickettrail-backend/internal/events"
	"github.com/tickettrail/tickettrail-backend/pkg/config"
	"github.com/tickettrail/tickettrail-backend/pkg/db"
	"github.com/tickettrail/tickettrail-backend/pkg/logger"
	"github.com/tickettrail/tickettrail-backend/pkg/migrate"
	"github.com/tickettrail/tickettrail-backend/pkg/ticketmaster"
)

// One-shot discovery CLI: search an event by keyword and start
// tracking it.
func main() {
	logg := logger.New(logger.Options{ServiceName: "search"})

	_ = godotenv.Load()

	keyword := flag.String("keyword", "", "event keyword to search for")
	city := flag.String("city", "", "optional city filter")
	flag.Parse()

	if *keyword == "" {
		fmt.Fprintln(os.Stderr, "missing -keyword")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "search",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":     cfg.App.Env,
		"keyword": *keyword,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	tmClient, err := ticketmaster.NewClient(cfg.Ticketmaster, logg)
	if err != nil {
		logg.Error(ctx, "failed to create ticketmaster client", err)
		os.Exit(1)
	}

	eventService, err := events.NewService(events.NewRepository(dbClient.DB()), dbClient, tmClient, logg)
	if err != nil {
		logg.Error(ctx, "failed to create event service", err)
		os.Exit(1)
	}

	result, err := eventService.Discover(ctx, events.DiscoverInput{Keyword: *keyword, City: *city})
	if err != nil {
		logg.Error(ctx, "discovery failed", err)
		os.Exit(1)
	}

	for _, eventID := range result.EventIDs {
		fmt.Println("tracking event:", eventID)
	}
	fmt.Printf("prices inserted: %d, records skipped: %d\n", result.PricesInserted, result.RecordsSkipped)
}
