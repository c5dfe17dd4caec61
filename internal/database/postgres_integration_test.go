//go:build integration

package database_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/protomem/resource-tracker/internal/database"
	"github.com/protomem/resource-tracker/internal/database/dbtest"
	"github.com/protomem/resource-tracker/internal/model"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/sync/errgroup"
)

func setupPostgresContainer(t *testing.T, ctx context.Context) *database.DB {
	req := testcontainers.ContainerRequest{
		Image:        "postgres:17-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "tracker",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	db, err := database.New(ctx, dbtest.Logger(), database.Config{
		Driver:         database.DriverPostgres,
		DSN:            fmt.Sprintf("test:test@%s:%s/tracker", host, port.Port()),
		Automigrate:    true,
		ConnectTimeout: 30 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func TestIntegration_PostgresOpenSessionConstraint(t *testing.T) {
	ctx := context.Background()
	store := database.NewEntityStore(dbtest.Logger(), setupPostgresContainer(t, ctx))

	user, err := store.CreateUser(ctx, "alice", "Alice")
	require.NoError(t, err)
	resource, err := store.CreateResource(ctx, "PC-01", model.CategoryWorkstation)
	require.NoError(t, err)

	_, err = store.CreateResource(ctx, "SOFA-01", model.Category("Sofa"))
	require.ErrorIs(t, err, model.ErrValidation)

	const attempts = 16
	startedAt := time.Now().UTC().Truncate(time.Microsecond)

	var g errgroup.Group
	results := make([]error, attempts)
	for i := range attempts {
		g.Go(func() error {
			_, results[i] = store.CreateSession(ctx, user.ID, resource.ID, startedAt)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	var created int
	for _, err := range results {
		if err == nil {
			created++
			continue
		}
		require.ErrorIs(t, err, model.ErrConstraintViolation)
	}
	require.Equal(t, 1, created)

	closed := make([]int64, attempts)
	for i := range attempts {
		g.Go(func() error {
			n, err := store.CloseOpenSessionForUser(ctx, user.ID, startedAt.Add(time.Minute))
			closed[i] = n
			return err
		})
	}
	require.NoError(t, g.Wait())

	var total int64
	for _, n := range closed {
		total += n
	}
	require.EqualValues(t, 1, total)
}
