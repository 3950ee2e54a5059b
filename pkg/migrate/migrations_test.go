package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMigrationsDirIsValid(t *testing.T) {
	if err := ValidateDir("migrations"); err != nil {
		t.Fatalf("migrations dir failed validation: %v", err)
	}
}

func TestCreateSQLMigrationStubValidates(t *testing.T) {
	dir := t.TempDir()

	path, err := CreateSQLMigration(dir, "Add Creative Index!")
	if err != nil {
		t.Fatalf("create migration: %v", err)
	}
	if !strings.HasSuffix(path, "_add_creative_index.sql") {
		t.Fatalf("unexpected migration filename %s", path)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read stub: %v", err)
	}
	if !strings.Contains(string(b), "schema change: add_creative_index") {
		t.Fatalf("stub missing up placeholder: %s", b)
	}
	if err := ValidateDir(dir); err != nil {
		t.Fatalf("freshly created stub failed validation: %v", err)
	}

	if _, err := CreateSQLMigration(dir, ""); err == nil {
		t.Fatalf("expected an error for an empty migration name")
	}
}

func TestMigrationsCoverStoreTables(t *testing.T) {
	entries, err := os.ReadDir("migrations")
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}

	var all strings.Builder
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		b, err := os.ReadFile(filepath.Join("migrations", e.Name()))
		if err != nil {
			t.Fatalf("read migration %s: %v", e.Name(), err)
		}
		all.Write(b)
	}

	for _, table := range []string{"page_visits", "campaign_exposures", "purchase_orders", "order_touches"} {
		if !strings.Contains(all.String(), "CREATE TABLE "+table) {
			t.Fatalf("expected a migration creating table %s", table)
		}
	}
}
