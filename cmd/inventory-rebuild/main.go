// inventory-rebuild recomputes every stock summary row from the stock ledger.
// Run it after manual ledger surgery or when a summary is suspected to have
// drifted from the ledger.
//
// Usage:
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/inventory-rebuild
package main

import (
	"context"
	"fmt"
	"os"

	"bitbucket.org/mmdatafocus/shop_backend/config"
	"bitbucket.org/mmdatafocus/shop_backend/models"
)

func main() {
	ctx := context.Background()

	config.ConnectDatabaseWithRetry()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}

	if err := models.RebuildStockSummaries(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "rebuild failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("stock summaries rebuilt from ledger")
}
