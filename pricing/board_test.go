package pricing

import (
	"context"
	"errors"
	"testing"

	"funpass/entities"
	"funpass/message/event"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyReader struct {
	PriceReader
	err error
}

func (r *flakyReader) GetAll(ctx context.Context) ([]entities.PriceEntry, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.PriceReader.GetAll(ctx)
}

func TestPriceBoardRefreshesOnNotification(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	bus := event.NewBus()

	board, err := NewPriceBoard(ctx, store, bus)
	require.NoError(t, err)
	defer board.Close()

	price, ok := board.Price(entities.ExpressPass)
	require.True(t, ok)
	assert.Equal(t, "2300.00", price.String())

	editor := newLoadedEditor(t, store, bus)
	_, err = editor.UpdateField(entities.ExpressPass, "2500")
	require.NoError(t, err)
	require.NoError(t, editor.Commit(ctx))

	price, ok = board.Price(entities.ExpressPass)
	require.True(t, ok)
	assert.Equal(t, "2500.00", price.String())
}

func TestPriceBoardDoesNotReadStoreWithoutNotification(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	bus := event.NewBus()

	board, err := NewPriceBoard(ctx, store, bus)
	require.NoError(t, err)
	defer board.Close()

	// an external writer that does not publish is invisible until the next notification
	require.NoError(t, store.SetMany(ctx, map[entities.PassType]entities.Price{
		entities.JuniorPass: entities.MustPrice("1000"),
	}))
	price, _ := board.Price(entities.JuniorPass)
	assert.Equal(t, "900.00", price.String())

	bus.Publish(ctx)
	price, _ = board.Price(entities.JuniorPass)
	assert.Equal(t, "1000.00", price.String())
}

func TestPriceBoardKeepsPricesWhenRefreshFails(t *testing.T) {
	ctx := context.Background()
	reader := &flakyReader{PriceReader: newTestStore(t)}
	bus := event.NewBus()

	board, err := NewPriceBoard(ctx, reader, bus)
	require.NoError(t, err)
	defer board.Close()
	refreshedAt := board.RefreshedAt()

	reader.err = entities.StorageError{Op: "get prices", Err: errors.New("connection reset")}
	assert.NotPanics(t, func() { bus.Publish(ctx) })

	assert.Len(t, board.Prices(), len(entities.PassTypes))
	assert.Equal(t, refreshedAt, board.RefreshedAt())
}

func TestNewPriceBoardFailsWhenStoreUnavailable(t *testing.T) {
	reader := &flakyReader{
		PriceReader: newTestStore(t),
		err:         entities.StorageError{Op: "get prices", Err: errors.New("no such table")},
	}
	bus := event.NewBus()

	_, err := NewPriceBoard(context.Background(), reader, bus)

	assert.Error(t, err)
	assert.Equal(t, 0, bus.Subscribers())
}

func TestPriceBoardClose(t *testing.T) {
	bus := event.NewBus()
	board, err := NewPriceBoard(context.Background(), newTestStore(t), bus)
	require.NoError(t, err)
	require.Equal(t, 1, bus.Subscribers())

	board.Close()

	assert.Equal(t, 0, bus.Subscribers())
}

func TestQuote(t *testing.T) {
	board, err := NewPriceBoard(context.Background(), newTestStore(t), event.NewBus())
	require.NoError(t, err)
	defer board.Close()

	total, err := board.Quote(entities.RegularPass, 3)
	require.NoError(t, err)
	assert.Equal(t, "3900.00", total.String())

	_, err = board.Quote(entities.RegularPass, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = board.Quote("Season Pass", 1)
	assert.ErrorIs(t, err, entities.ErrUnknownPassType)
}

func TestPriceBoardRefreshFailureLogsNotificationRound(t *testing.T) {
	logger, hook := test.NewNullLogger()
	ctx := log.ToContext(context.Background(), logrus.NewEntry(logger))
	ctx = log.ContextWithCorrelationID(ctx, "failed-commit")

	reader := &flakyReader{PriceReader: newTestStore(t)}
	bus := event.NewBus()

	board, err := NewPriceBoard(ctx, reader, bus)
	require.NoError(t, err)
	defer board.Close()

	reader.err = entities.StorageError{Op: "get prices", Err: errors.New("connection reset")}
	bus.Publish(ctx)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "failed-commit", entry.Data["correlation_id"])
	assert.NotEmpty(t, entry.Data["notification_id"])
}
