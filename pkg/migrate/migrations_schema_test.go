package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBakerySchemaMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_bakery_schema.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no bakery schema migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS users",
		"CREATE TABLE IF NOT EXISTS orders",
		"CREATE TABLE IF NOT EXISTS order_items",
		"CREATE TABLE IF NOT EXISTS order_item_options",
		"CREATE TABLE IF NOT EXISTS discounts",
		"CREATE TABLE IF NOT EXISTS order_discounts",
		"CREATE UNIQUE INDEX IF NOT EXISTS order_discounts_order_id_key",
		"CREATE TABLE IF NOT EXISTS loyalty_points_ledger",
		"CHECK (points_balance >= 0)",
		"CHECK (quantity > 0)",
		"FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE",
		"'00000000-0000-0000-0000-000000000001'",
		"DROP TABLE IF EXISTS loyalty_points_ledger",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestMigrationsDirValidates(t *testing.T) {
	entries, err := os.ReadDir("migrations")
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("migrations directory is empty")
	}
}
