package pricing

import (
	"context"
	"errors"
	"sync"
	"time"

	"funpass/entities"
	"funpass/message/event"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type PriceStore interface {
	GetAll(ctx context.Context) ([]entities.PriceEntry, error)
	SetMany(ctx context.Context, prices map[entities.PassType]entities.Price) error
	ResetToDefaults(ctx context.Context) error
}

// StagedEdit is the text of one price field while the editor is open.
// Parsed is set only while RawText holds a committable price.
type StagedEdit struct {
	PassType entities.PassType `json:"pass_type"`
	RawText  string            `json:"raw_text"`
	Parsed   *entities.Price   `json:"parsed_value,omitempty"`
}

func (s StagedEdit) Committable() bool {
	return s.Parsed != nil
}

func stagedEdit(passType entities.PassType, raw string) *StagedEdit {
	edit := &StagedEdit{PassType: passType, RawText: raw}
	if Classify(raw) == Valid {
		if p, err := entities.ParsePrice(raw); err == nil {
			edit.Parsed = &p
		}
	}
	return edit
}

// Editor stages edits to the price table and writes them back in one
// batch. Only one editor is expected per process.
type Editor struct {
	store     PriceStore
	publisher event.Publisher
	sessionID string
	tracer    trace.Tracer
	now       func() time.Time

	mu          sync.Mutex
	busy        bool
	order       []entities.PassType
	staged      map[entities.PassType]*StagedEdit
	saved       map[entities.PassType]string
	lastUpdated time.Time
}

func NewEditor(store PriceStore, publisher event.Publisher) *Editor {
	if store == nil {
		panic("missing price store")
	}
	if publisher == nil {
		panic("missing publisher")
	}

	return &Editor{
		store:     store,
		publisher: publisher,
		sessionID: uuid.NewString(),
		tracer:    otel.Tracer("funpass/pricing"),
		now:       time.Now,
	}
}

func (e *Editor) logger(ctx context.Context) *logrus.Entry {
	return log.FromContext(ctx).WithField("session_id", e.sessionID)
}

// Load discards staged edits and seeds every field from the store,
// formatted with two decimals.
func (e *Editor) Load(ctx context.Context) (map[entities.PassType]string, error) {
	e.mu.Lock()
	if e.busy {
		e.mu.Unlock()
		return nil, entities.ErrEditorBusy
	}
	e.busy = true
	e.mu.Unlock()

	entries, err := e.store.GetAll(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.busy = false

	if err != nil {
		return nil, err
	}

	e.replaceStaged(entries)
	e.logger(ctx).WithField("pass_types", len(entries)).Debug("Loaded prices into editor")

	return e.textLocked(), nil
}

// UpdateField stages the text a field holds after a keystroke. Invalid
// text is refused and leaves the field as it was.
func (e *Editor) UpdateField(passType entities.PassType, raw string) (ValidationResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.busy {
		return Invalid, entities.ErrEditorBusy
	}
	if e.staged == nil {
		return Invalid, entities.ErrNotLoaded
	}
	if _, ok := e.staged[passType]; !ok {
		return Invalid, entities.ErrUnknownPassType
	}

	result := Classify(raw)
	if result == Invalid {
		return result, nil
	}

	e.staged[passType] = stagedEdit(passType, raw)
	return result, nil
}

// Commit validates every staged field and writes all of them to the store
// in a single batch. Subscribers are notified only after the write
// succeeded.
func (e *Editor) Commit(ctx context.Context) (err error) {
	ctx, span := e.tracer.Start(ctx, "PriceEditor.Commit", trace.WithAttributes(
		attribute.String("session_id", e.sessionID),
	))
	defer func() {
		endSpan(span, err)
		commitsTotal.WithLabelValues(resultLabel(err)).Inc()
	}()

	prices, err := e.beginCommit()
	if err != nil {
		return err
	}

	err = e.store.SetMany(ctx, prices)

	e.mu.Lock()
	e.busy = false
	if err == nil {
		for passType, price := range prices {
			p := price
			e.staged[passType] = &StagedEdit{PassType: passType, RawText: p.String(), Parsed: &p}
		}
		e.markSavedLocked()
	}
	e.mu.Unlock()

	if err != nil {
		e.logger(ctx).WithError(err).Error("Could not save prices")
		return err
	}

	e.logger(ctx).WithField("pass_types", len(prices)).Info("Prices updated")
	e.publisher.Publish(ctx)

	return nil
}

func (e *Editor) beginCommit() (map[entities.PassType]entities.Price, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.busy {
		return nil, entities.ErrEditorBusy
	}
	if e.staged == nil {
		return nil, entities.ErrNotLoaded
	}

	prices := make(map[entities.PassType]entities.Price, len(e.order))
	for _, passType := range e.order {
		raw := e.staged[passType].RawText
		price, err := entities.ParsePrice(raw)
		if err != nil {
			return nil, entities.InvalidPriceError{PassType: passType, Value: raw, Err: err}
		}
		prices[passType] = price
	}

	e.busy = true
	return prices, nil
}

// Reset writes the default price table to the store and, when that
// succeeded, replaces every staged field with its default.
func (e *Editor) Reset(ctx context.Context) (err error) {
	ctx, span := e.tracer.Start(ctx, "PriceEditor.Reset", trace.WithAttributes(
		attribute.String("session_id", e.sessionID),
	))
	defer func() {
		endSpan(span, err)
		resetsTotal.WithLabelValues(resultLabel(err)).Inc()
	}()

	e.mu.Lock()
	if e.busy {
		e.mu.Unlock()
		return entities.ErrEditorBusy
	}
	e.busy = true
	e.mu.Unlock()

	err = e.store.ResetToDefaults(ctx)

	e.mu.Lock()
	e.busy = false
	if err == nil {
		e.replaceStaged(entities.DefaultPrices())
	}
	e.mu.Unlock()

	if err != nil {
		e.logger(ctx).WithError(err).Error("Could not reset prices")
		return err
	}

	e.logger(ctx).Info("Prices reset to defaults")
	e.publisher.Publish(ctx)

	return nil
}

// Fields returns the staged fields in store order.
func (e *Editor) Fields() []StagedEdit {
	e.mu.Lock()
	defer e.mu.Unlock()

	fields := make([]StagedEdit, 0, len(e.order))
	for _, passType := range e.order {
		fields = append(fields, *e.staged[passType])
	}
	return fields
}

// Dirty reports whether any field differs from what was last loaded or
// saved.
func (e *Editor) Dirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	for passType, edit := range e.staged {
		if edit.RawText != e.saved[passType] {
			return true
		}
	}
	return false
}

func (e *Editor) LastUpdated() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.lastUpdated
}

func (e *Editor) replaceStaged(entries []entities.PriceEntry) {
	e.order = make([]entities.PassType, 0, len(entries))
	e.staged = make(map[entities.PassType]*StagedEdit, len(entries))
	for _, entry := range entries {
		e.order = append(e.order, entry.PassType)
		e.staged[entry.PassType] = stagedEdit(entry.PassType, entry.Price.String())
	}
	e.markSavedLocked()
}

func (e *Editor) markSavedLocked() {
	e.saved = make(map[entities.PassType]string, len(e.staged))
	for passType, edit := range e.staged {
		e.saved[passType] = edit.RawText
	}
	e.lastUpdated = e.now()
}

func (e *Editor) textLocked() map[entities.PassType]string {
	text := make(map[entities.PassType]string, len(e.staged))
	for passType, edit := range e.staged {
		text[passType] = edit.RawText
	}
	return text
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func resultLabel(err error) string {
	var invalidErr entities.InvalidPriceError
	switch {
	case err == nil:
		return resultOK
	case errors.As(err, &invalidErr), errors.Is(err, entities.ErrNotLoaded):
		return resultInvalid
	case errors.Is(err, entities.ErrEditorBusy):
		return resultBusy
	default:
		return resultStorageError
	}
}
