package main

import (
	"context"
	"fmt"
	"os"

	"github.com/seobright/careers/internal/config"
	"github.com/seobright/careers/internal/db"
	"github.com/seobright/careers/internal/store"
)

func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "DB init error: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	// store.New creates the documents table
	if _, err := store.New(ctx, database); err != nil {
		fmt.Fprintf(os.Stderr, "Store init error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Database initialized successfully.")
}
