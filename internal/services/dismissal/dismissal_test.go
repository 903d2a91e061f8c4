package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rade-studio/printing-cost-app/internal/cache"
	"github.com/rade-studio/printing-cost-app/internal/config"
)

const testTenant = "550e8400-e29b-41d4-a716-446655440000"

type notifierRecorder struct {
	events []bool
}

func (n *notifierRecorder) Publish(_ string, closed bool) {
	n.events = append(n.events, closed)
}

func newTestDismissal(t *testing.T) (*DismissalService, *notifierRecorder, *time.Time) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	store, err := cache.InitServer(context.Background(), config.RedisConnection{AddressRedis: mr.Addr()})
	require.NoError(t, err)

	notifier := &notifierRecorder{}
	log := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	svc := NewDismissalService(store, notifier, log)

	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := &current
	svc.now = func() time.Time { return *now }
	return svc, notifier, now
}

func TestDismissal_CloseThenIsClosed(t *testing.T) {
	svc, notifier, _ := newTestDismissal(t)
	ctx := context.Background()

	assert.False(t, svc.IsClosed(ctx, testTenant))

	require.NoError(t, svc.Close(ctx, testTenant))
	assert.True(t, svc.IsClosed(ctx, testTenant))
	assert.Equal(t, []bool{true}, notifier.events)
}

func TestDismissal_CooldownExpiresLazily(t *testing.T) {
	svc, _, now := newTestDismissal(t)
	ctx := context.Background()

	require.NoError(t, svc.Close(ctx, testTenant))

	*now = now.Add(DismissalCooldown + time.Second)
	assert.False(t, svc.IsClosed(ctx, testTenant))

	// Побочный эффект чтения: просроченная отметка удалена из хранилища
	*now = now.Add(-2 * time.Second)
	assert.False(t, svc.IsClosed(ctx, testTenant))
}

func TestDismissal_CooldownStillActiveJustBefore(t *testing.T) {
	svc, _, now := newTestDismissal(t)
	ctx := context.Background()

	require.NoError(t, svc.Close(ctx, testTenant))

	*now = now.Add(DismissalCooldown - time.Second)
	assert.True(t, svc.IsClosed(ctx, testTenant))
}

func TestDismissal_ShowReopensImmediately(t *testing.T) {
	svc, notifier, _ := newTestDismissal(t)
	ctx := context.Background()

	require.NoError(t, svc.Close(ctx, testTenant))
	require.NoError(t, svc.Show(ctx, testTenant))

	assert.False(t, svc.IsClosed(ctx, testTenant))
	assert.Equal(t, []bool{true, false}, notifier.events)
}

func TestDismissal_IndependentPerTenant(t *testing.T) {
	svc, _, _ := newTestDismissal(t)
	ctx := context.Background()

	require.NoError(t, svc.Close(ctx, testTenant))
	assert.False(t, svc.IsClosed(ctx, "another-tenant"))
}
