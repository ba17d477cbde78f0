package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"funpass/entities"
	"funpass/message/event"
	"funpass/pricing"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const resetQuestion = "Are you sure you want to reset to default prices? (y/n)"

type Editor interface {
	Load(ctx context.Context) (map[entities.PassType]string, error)
	UpdateField(passType entities.PassType, raw string) (pricing.ValidationResult, error)
	Commit(ctx context.Context) error
	Reset(ctx context.Context) error
	Fields() []pricing.StagedEdit
	Dirty() bool
	LastUpdated() time.Time
}

type Board interface {
	Prices() []entities.PriceEntry
	RefreshedAt() time.Time
}

type Subscriber interface {
	Subscribe(handler event.Handler) event.Subscription
	Unsubscribe(subscription event.Subscription) bool
}

// pricesChangedMsg is delivered after the change notifier fired.
type pricesChangedMsg struct{}

type notifications struct {
	subscriber   Subscriber
	subscription event.Subscription

	mu      sync.Mutex
	closed  bool
	changes chan struct{}
}

func (n *notifications) notify(context.Context) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return
	}
	select {
	case n.changes <- struct{}{}:
	default:
	}
}

// close unsubscribes and releases any command waiting for a change.
func (n *notifications) close() {
	n.subscriber.Unsubscribe(n.subscription)

	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.closed {
		n.closed = true
		close(n.changes)
	}
}

// Model is the pricing screen: one editable field per pass type plus
// the prices the selling screens currently show.
type Model struct {
	ctx    context.Context
	editor Editor
	board  Board

	theme  Theme
	styles styles
	keys   KeyMap
	help   help.Model

	cursor       int
	confirmReset bool
	status       string
	statusFailed bool
	notices      int

	notifications *notifications
}

// NewModel expects an editor that has already been loaded. When
// subscriber is not nil the screen counts price change notifications.
func NewModel(ctx context.Context, editor Editor, board Board, subscriber Subscriber) Model {
	if editor == nil {
		panic("missing price editor")
	}
	if board == nil {
		panic("missing price board")
	}

	model := Model{
		ctx:    ctx,
		editor: editor,
		board:  board,
		theme:  DefaultTheme,
		styles: newStyles(DefaultTheme),
		keys:   DefaultKeyMap,
		help:   help.New(),
	}

	if subscriber != nil {
		n := &notifications{
			subscriber: subscriber,
			changes:    make(chan struct{}, 1),
		}
		n.subscription = subscriber.Subscribe(n.notify)
		model.notifications = n
	}

	return model
}

// Close unsubscribes the screen from price notifications and ends the
// command waiting for the next one. It may be called more than once.
func (model Model) Close() {
	if model.notifications != nil {
		model.notifications.close()
	}
}

func (model Model) Init() tea.Cmd {
	if model.notifications == nil {
		return nil
	}
	return listenForChanges(model.notifications.changes)
}

func listenForChanges(changes <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return pricesChangedMsg{}
	}
}

func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case pricesChangedMsg:
		model.notices++
		if model.notifications == nil {
			return model, nil
		}
		return model, listenForChanges(model.notifications.changes)

	case tea.WindowSizeMsg:
		model.help.Width = message.Width
		return model, nil

	case tea.KeyMsg:
		if key.Matches(message, model.keys.Quit) {
			return model, tea.Quit
		}
		if model.confirmReset {
			return model.handleResetConfirmation(message), nil
		}
		return model.handleKey(message), nil
	}

	return model, nil
}

func (model Model) handleResetConfirmation(message tea.KeyMsg) Model {
	model.confirmReset = false
	if !key.Matches(message, model.keys.Confirm) {
		model.setStatus("Reset cancelled.", false)
		return model
	}

	if err := model.editor.Reset(model.ctx); err != nil {
		model.setStatus(model.describeError(err), true)
		return model
	}

	model.setStatus("Prices reset to default values!", false)
	return model
}

func (model Model) handleKey(message tea.KeyMsg) Model {
	fields := model.editor.Fields()

	switch {
	case key.Matches(message, model.keys.Up):
		if model.cursor > 0 {
			model.cursor--
		}
	case key.Matches(message, model.keys.Down):
		if model.cursor < len(fields)-1 {
			model.cursor++
		}
	case key.Matches(message, model.keys.Commit):
		if err := model.editor.Commit(model.ctx); err != nil {
			model.setStatus(model.describeError(err), true)
			break
		}
		model.setStatus("Prices updated successfully!", false)
	case key.Matches(message, model.keys.Reset):
		model.confirmReset = true
		model.status = ""
	case key.Matches(message, model.keys.Reload):
		if _, err := model.editor.Load(model.ctx); err != nil {
			model.setStatus(model.describeError(err), true)
			break
		}
		model.setStatus("Edits discarded.", false)
	case key.Matches(message, model.keys.Backspace):
		if field, ok := model.selectedField(fields); ok && field.RawText != "" {
			model.edit(field.PassType, eraseLast(field.RawText))
		}
	case message.Type == tea.KeyRunes:
		if field, ok := model.selectedField(fields); ok {
			model.edit(field.PassType, field.RawText+string(message.Runes))
		}
	}

	return model
}

// eraseLast drops the last character. Deleting the only digit of text
// like ".5" or "-5" would leave a lone sign or point, which the field
// refuses, so the field is cleared instead.
func eraseLast(text string) string {
	runes := []rune(text)
	erased := string(runes[:len(runes)-1])
	if pricing.Classify(erased) == pricing.Invalid {
		return ""
	}
	return erased
}

// edit stages the field text after a keystroke. Rejected keystrokes are
// dropped silently, like a masked text input.
func (model *Model) edit(passType entities.PassType, text string) {
	result, err := model.editor.UpdateField(passType, text)
	if err != nil {
		model.setStatus(model.describeError(err), true)
		return
	}
	if result != pricing.Invalid {
		model.status = ""
	}
}

func (model Model) selectedField(fields []pricing.StagedEdit) (pricing.StagedEdit, bool) {
	if model.cursor < 0 || model.cursor >= len(fields) {
		return pricing.StagedEdit{}, false
	}
	return fields[model.cursor], true
}

func (model *Model) setStatus(status string, failed bool) {
	model.status = status
	model.statusFailed = failed
}

func (model Model) describeError(err error) string {
	var invalidErr entities.InvalidPriceError
	var storageErr entities.StorageError

	switch {
	case errors.As(err, &invalidErr):
		return fmt.Sprintf("Please enter a valid price for %s.", invalidErr.PassType)
	case errors.Is(err, entities.ErrEditorBusy):
		return "Prices are being saved, try again."
	case errors.As(err, &storageErr):
		log.FromContext(model.ctx).WithError(err).Warn("Pricing screen could not reach the store")
		return "Could not save prices: " + storageErr.Err.Error()
	default:
		return err.Error()
	}
}

func (model Model) View() string {
	var b strings.Builder

	b.WriteString(model.styles.header.Render("FunPass · Pass Prices"))
	b.WriteString("\n")

	if last := model.editor.LastUpdated(); !last.IsZero() {
		b.WriteString(model.styles.board.Render("Last updated: " + last.Format(time.DateTime)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	onSale := entities.PriceTable(model.board.Prices())
	for i, field := range model.editor.Fields() {
		marker := "  "
		if i == model.cursor {
			marker = "> "
		}

		fieldStyle := model.styles.field
		switch {
		case i == model.cursor && !field.Committable():
			fieldStyle = model.styles.selected.Foreground(model.theme.InProgress)
		case i == model.cursor:
			fieldStyle = model.styles.selected
		case !field.Committable():
			fieldStyle = model.styles.inProgress
		}

		boardText := "-"
		if price, ok := onSale[field.PassType]; ok {
			boardText = price.String()
		}

		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			marker,
			model.styles.label.Render(field.PassType.String()),
			fieldStyle.Render(field.RawText),
			model.styles.board.Render("  on sale: "+boardText),
		))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if model.editor.Dirty() {
		b.WriteString(model.styles.board.Render("Unsaved changes"))
		b.WriteString("\n")
	}
	if model.notices > 0 {
		b.WriteString(model.styles.board.Render(fmt.Sprintf(
			"Price board refreshed at %s", model.board.RefreshedAt().Format(time.TimeOnly),
		)))
		b.WriteString("\n")
	}

	switch {
	case model.confirmReset:
		b.WriteString(model.styles.failure.Render(resetQuestion))
		b.WriteString("\n")
	case model.status != "" && model.statusFailed:
		b.WriteString(model.styles.failure.Render(model.status))
		b.WriteString("\n")
	case model.status != "":
		b.WriteString(model.styles.success.Render(model.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(model.help.View(model.keys))

	return b.String()
}
