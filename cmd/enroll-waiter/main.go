// Command enroll-waiter registers a waiter with a hashed PIN. Staff
// management has no API surface; operators run this directly.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/mesalivre/pos-backend/internal/staff"
	"github.com/mesalivre/pos-backend/pkg/config"
	"github.com/mesalivre/pos-backend/pkg/db"
	"github.com/mesalivre/pos-backend/pkg/logger"
)

func main() {
	var (
		restaurant = flag.String("restaurant", "", "restaurant id (uuid)")
		name       = flag.String("name", "", "waiter display name")
		pin        = flag.String("pin", "", "login pin (4-8 digits)")
	)
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "enroll-waiter"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	restaurantID, err := uuid.Parse(*restaurant)
	if err != nil {
		fmt.Fprintln(os.Stderr, "usage: enroll-waiter -restaurant <uuid> -name <name> -pin <pin>")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	ctx := context.Background()
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	svc := staff.NewService(staff.NewRepository(dbClient.DB()), cfg.PIN, logg)
	waiter, err := svc.Enroll(ctx, restaurantID, *name, *pin)
	if err != nil {
		logg.Error(ctx, "enrollment failed", err)
		os.Exit(1)
	}

	fmt.Printf("waiter %s enrolled with id %s\n", waiter.Name, waiter.ID)
}
