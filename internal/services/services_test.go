package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/hyphenhq/hyphen/internal/queue"
	"github.com/hyphenhq/hyphen/internal/store"
	"github.com/hyphenhq/hyphen/internal/testfixtures"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

type env struct {
	store *store.Store
	queue *queue.Queue
	clock *testfixtures.Clock
}

func setupEnv(t *testing.T) *env {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := store.Open(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	clock := testfixtures.NewClock(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	q := queue.New(db, queue.WithClock(clock.NowFunc()))
	s := store.New(db, q,
		store.WithClock(clock.NowFunc()),
		store.WithIDGenerator(testfixtures.NewIDGenerator("rec").NextFunc()))
	require.NoError(t, RegisterAll(s))
	return &env{store: s, queue: q, clock: clock}
}
