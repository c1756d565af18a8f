package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/reminder-engine/internal/config"
	"github.com/segyhp/reminder-engine/internal/database"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

// TestDatabase is a migrated postgres container with an open pool
type TestDatabase struct {
	Container *postgres.PostgresContainer
	DB        *sqlx.DB
	URL       string
}

// SetupTestDatabase starts postgres, applies migrations and registers cleanup.
// Skipped under -short since it needs a docker daemon.
func SetupTestDatabase(t *testing.T) *TestDatabase {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("reminder_engine_test"),
		postgres.WithUsername("test_user"),
		postgres.WithPassword("test_password"),
		postgres.BasicWaitStrategies(),
		testcontainers.WithLabels(map[string]string{
			"test":      "reminder-engine-repository",
			"test-name": t.Name(),
			"cleanup":   "auto",
		}),
	)
	require.NoError(t, err)

	td := &TestDatabase{Container: container}
	t.Cleanup(func() { td.cleanup(t) })

	td.URL, err = container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	td.DB, err = database.Connect(config.DatabaseConfig{
		URL:             td.URL,
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Minute,
	})
	require.NoError(t, err)

	require.NoError(t, database.MigrateUp(td.DB))

	return td
}

// InsertUser creates a user row and returns its id
func (td *TestDatabase) InsertUser(t *testing.T, name, email string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := td.DB.Exec(`INSERT INTO users (id, name, email) VALUES ($1, $2, $3)`, id, name, email)
	require.NoError(t, err)

	return id
}

func (td *TestDatabase) cleanup(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Logf("panic during container cleanup (recovered): %v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if td.DB != nil {
		td.DB.Close()
	}

	if td.Container != nil {
		if err := td.Container.Terminate(ctx); err != nil {
			t.Logf("warning: failed to terminate test container: %v", err)
		}
	}
}
