package pricing

import (
	"context"
	"path/filepath"
	"testing"

	"funpass/db"
	"funpass/entities"
	"funpass/message/event"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) db.PricingRepository {
	t.Helper()

	conn, err := db.NewDBConn(db.DriverSQLite, filepath.Join(t.TempDir(), "funpass.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, conn.MigrateSchema(context.Background()))
	return db.NewPricingRepository(&conn)
}

// faultyStore wraps a real store and injects failures or hooks.
type faultyStore struct {
	PriceStore

	setManyErr error
	resetErr   error
	onWrite    func()
}

func (s *faultyStore) SetMany(ctx context.Context, prices map[entities.PassType]entities.Price) error {
	if s.onWrite != nil {
		s.onWrite()
	}
	if s.setManyErr != nil {
		return s.setManyErr
	}
	return s.PriceStore.SetMany(ctx, prices)
}

func (s *faultyStore) ResetToDefaults(ctx context.Context) error {
	if s.onWrite != nil {
		s.onWrite()
	}
	if s.resetErr != nil {
		return s.resetErr
	}
	return s.PriceStore.ResetToDefaults(ctx)
}

type notificationCounter struct {
	calls int
}

func (c *notificationCounter) handle(context.Context) {
	c.calls++
}

func textOf(entries []entities.PriceEntry) map[entities.PassType]string {
	out := make(map[entities.PassType]string, len(entries))
	for _, entry := range entries {
		out[entry.PassType] = entry.Price.String()
	}
	return out
}

func defaultText() map[entities.PassType]string {
	return textOf(entities.DefaultPrices())
}

func newLoadedEditor(t *testing.T, store PriceStore, bus *event.Bus) *Editor {
	t.Helper()

	editor := NewEditor(store, bus)
	_, err := editor.Load(context.Background())
	require.NoError(t, err)
	return editor
}
