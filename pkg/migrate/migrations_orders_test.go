package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Sanjay-2k-5/FarmToHome/pkg/migrate"
)

func TestOrdersMigrationContainsSchemas(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_orders_tables.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no orders migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS orders",
		"CREATE TABLE IF NOT EXISTS order_items",
		"CREATE TABLE IF NOT EXISTS order_status_changes",
		"version bigint NOT NULL DEFAULT 1",
		"idempotency_key text",
		"CREATE INDEX IF NOT EXISTS idx_orders_buyer_id",
		"CREATE INDEX IF NOT EXISTS idx_order_status_changes_order_id",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestRevenueMigrationEnforcesSingleRecordPerOrder(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_revenue_records_table.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no revenue migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS revenue_records",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_revenue_records_order_id",
		"status text NOT NULL DEFAULT 'pending'",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestProductsMigrationGuardsStock(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_products_table.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no products migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}

	if !strings.Contains(string(data), "chk_products_stock_qty_non_negative") {
		t.Errorf("missing stock_qty check constraint")
	}
}

func TestValidateMigrationsDir(t *testing.T) {
	// Stray or malformed files in migrations/ should fail fast here rather
	// than at deploy time.
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("migrations directory invalid: %v", err)
	}
}
