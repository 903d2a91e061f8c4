package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/rade-studio/printing-cost-app/internal/migrations"
	"github.com/rade-studio/printing-cost-app/internal/models"
)

func setupTestDatabase(t *testing.T) (*Storage, func()) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)

	migrationsPath, err := filepath.Abs("../../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(db, migrationsPath))

	storage := &Storage{DB: db}
	cleanup := func() {
		db.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}
	return storage, cleanup
}

func TestStorage_RegisterAndGetUser(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	trialEnd := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	uid, err := storage.RegisterUser(context.Background(), models.User{
		Email:        "test@example.com",
		Username:     "testuser",
		PasswordHash: "hashedpassword",
		Role:         "user",
		TrialEndDate: &trialEnd,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, uid)

	got, err := storage.GetUserByUsername(context.Background(), "testuser")
	require.NoError(t, err)
	assert.Equal(t, uid, got.UID)
	assert.Equal(t, "test@example.com", got.Email)
	require.NotNil(t, got.TrialEndDate)
	assert.True(t, trialEnd.Equal(*got.TrialEndDate))

	_, err = storage.GetUserByUsername(context.Background(), "nonexistent")
	require.Error(t, err)
}

func TestStorage_RegisterUser_DuplicateUsername(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	user := models.User{
		Email:        "one@example.com",
		Username:     "testuser",
		PasswordHash: "hashedpassword",
		Role:         "user",
	}
	_, err := storage.RegisterUser(context.Background(), user)
	require.NoError(t, err)

	user.Email = "two@example.com"
	_, err = storage.RegisterUser(context.Background(), user)
	require.Error(t, err)
}

func TestStorage_GateDecisions(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	tenantUID := uuid.New().String()
	otherUID := uuid.New().String()

	require.NoError(t, storage.InsertDecision(context.Background(), tenantUID, "valid", 12))
	require.NoError(t, storage.InsertDecision(context.Background(), tenantUID, "invalid", 0))
	require.NoError(t, storage.InsertDecision(context.Background(), otherUID, "fetch_error", 0))

	got, err := storage.ListDecisions(context.Background(), tenantUID, 10, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Свежие решения первыми
	assert.Equal(t, "invalid", got[0].Outcome)
	assert.Equal(t, "valid", got[1].Outcome)
	assert.Equal(t, 12, got[1].DaysRemaining)

	got, err = storage.ListDecisions(context.Background(), tenantUID, 1, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "valid", got[0].Outcome)
}

func TestStorage_ListDecisions_Empty(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	got, err := storage.ListDecisions(context.Background(), uuid.New().String(), 10, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}
