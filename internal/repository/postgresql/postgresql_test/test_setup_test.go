package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/cmlabs-hris/driver-settlement-go/internal/pkg/database"
	"github.com/cmlabs-hris/driver-settlement-go/internal/repository/postgresql"
)

var testDB *database.DB

// TestMain connects to TEST_DATABASE_URL and applies the schema. Without it the
// package's tests are skipped.
func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		fmt.Println("TEST_DATABASE_URL not set, skipping postgresql repository tests")
		os.Exit(0)
	}

	var err error
	testDB, err = database.NewPostgreSQLDB(context.Background(), dsn)
	if err != nil {
		fmt.Println("failed to connect to test database:", err)
		os.Exit(1)
	}
	if err := postgresql.Migrate(context.Background(), testDB); err != nil {
		fmt.Println("failed to migrate test database:", err)
		os.Exit(1)
	}

	code := m.Run()
	testDB.Close()
	os.Exit(code)
}

// truncateAllTables empties every table the repositories touch.
func truncateAllTables(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	tables := []string{
		"deduction_installments",
		"cash_advances",
		"recurring_fees",
		"fuel_transactions",
		"loads",
		"drivers",
		"users",
	}
	for _, table := range tables {
		if _, err := testDB.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			t.Fatalf("failed to truncate table %s: %v", table, err)
		}
	}
}
