package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"funpass/db"
	"funpass/entities"
	"funpass/message/event"
	"funpass/pricing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testScreen struct {
	model  Model
	repo   db.PricingRepository
	editor *pricing.Editor
	board  *pricing.PriceBoard
	bus    *event.Bus
}

func newTestScreen(t *testing.T) testScreen {
	t.Helper()
	ctx := context.Background()

	conn, err := db.NewDBConn(db.DriverSQLite, filepath.Join(t.TempDir(), "funpass.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, conn.MigrateSchema(ctx))

	repo := db.NewPricingRepository(&conn)
	bus := event.NewBus()

	editor := pricing.NewEditor(repo, bus)
	_, err = editor.Load(ctx)
	require.NoError(t, err)

	board, err := pricing.NewPriceBoard(ctx, repo, bus)
	require.NoError(t, err)
	t.Cleanup(board.Close)

	model := NewModel(ctx, editor, board, bus)
	t.Cleanup(model.Close)

	return testScreen{
		model:  model,
		repo:   repo,
		editor: editor,
		board:  board,
		bus:    bus,
	}
}

func (s *testScreen) press(t *testing.T, message tea.KeyMsg) tea.Cmd {
	t.Helper()

	updated, command := s.model.Update(message)
	model, ok := updated.(Model)
	require.True(t, ok)
	s.model = model
	return command
}

func (s *testScreen) typeText(t *testing.T, text string) {
	t.Helper()
	for _, r := range text {
		s.press(t, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func (s *testScreen) clearField(t *testing.T) {
	t.Helper()
	for i := 0; i < 12; i++ {
		s.press(t, tea.KeyMsg{Type: tea.KeyBackspace})
	}
}

func fieldText(editor *pricing.Editor, passType entities.PassType) string {
	for _, field := range editor.Fields() {
		if field.PassType == passType {
			return field.RawText
		}
	}
	return ""
}

func TestModelView(t *testing.T) {
	s := newTestScreen(t)

	view := s.model.View()
	for _, passType := range entities.PassTypes {
		assert.Contains(t, view, passType.String())
	}
	assert.Contains(t, view, "2300.00")
	assert.Contains(t, view, "Last updated:")
}

func TestModelNavigation(t *testing.T) {
	s := newTestScreen(t)

	s.press(t, tea.KeyMsg{Type: tea.KeyDown})
	s.press(t, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 2, s.model.cursor)

	s.press(t, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 1, s.model.cursor)

	for i := 0; i < 10; i++ {
		s.press(t, tea.KeyMsg{Type: tea.KeyDown})
	}
	assert.Equal(t, len(entities.PassTypes)-1, s.model.cursor)

	for i := 0; i < 10; i++ {
		s.press(t, tea.KeyMsg{Type: tea.KeyUp})
	}
	assert.Equal(t, 0, s.model.cursor)
}

func TestModelTypingDropsRejectedKeystrokes(t *testing.T) {
	s := newTestScreen(t)

	s.clearField(t)
	assert.Equal(t, "", fieldText(s.editor, entities.ExpressPass))

	s.typeText(t, "2a5x0.0.5")
	assert.Equal(t, "250.05", fieldText(s.editor, entities.ExpressPass))

	s.press(t, tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "250.0", fieldText(s.editor, entities.ExpressPass))
}

func TestModelCommit(t *testing.T) {
	s := newTestScreen(t)

	s.press(t, tea.KeyMsg{Type: tea.KeyDown})
	s.clearField(t)
	s.typeText(t, "950")

	s.press(t, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Equal(t, "Prices updated successfully!", s.model.status)
	assert.False(t, s.model.statusFailed)

	entries, err := s.repo.GetAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "950.00", entries[1].Price.String())

	price, ok := s.board.Price(entities.JuniorPass)
	require.True(t, ok)
	assert.Equal(t, "950.00", price.String())
	assert.Contains(t, s.model.View(), "on sale: 950.00")
}

func TestModelCommitInProgressField(t *testing.T) {
	s := newTestScreen(t)

	s.clearField(t)
	s.press(t, tea.KeyMsg{Type: tea.KeyCtrlS})

	assert.True(t, s.model.statusFailed)
	assert.Contains(t, s.model.status, "Express Pass")

	entries, err := s.repo.GetAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2300.00", entries[0].Price.String())
}

func TestModelResetAsksForConfirmation(t *testing.T) {
	s := newTestScreen(t)
	ctx := context.Background()

	require.NoError(t, s.repo.SetMany(ctx, map[entities.PassType]entities.Price{
		entities.StudentPass: entities.MustPrice("1500"),
	}))
	s.press(t, tea.KeyMsg{Type: tea.KeyEscape})
	assert.Equal(t, "1500.00", fieldText(s.editor, entities.StudentPass))

	s.press(t, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.True(t, s.model.confirmReset)
	assert.Contains(t, s.model.View(), resetQuestion)

	s.press(t, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	assert.False(t, s.model.confirmReset)
	assert.Equal(t, "1500.00", fieldText(s.editor, entities.StudentPass))

	s.press(t, tea.KeyMsg{Type: tea.KeyCtrlR})
	s.press(t, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	assert.Equal(t, "Prices reset to default values!", s.model.status)
	assert.Equal(t, "1300.00", fieldText(s.editor, entities.StudentPass))

	entries, err := s.repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1300.00", entries[3].Price.String())
}

func TestModelReloadDiscardsEdits(t *testing.T) {
	s := newTestScreen(t)

	s.typeText(t, "9")
	assert.True(t, s.editor.Dirty())

	s.press(t, tea.KeyMsg{Type: tea.KeyEscape})
	assert.False(t, s.editor.Dirty())
	assert.Equal(t, "2300.00", fieldText(s.editor, entities.ExpressPass))
}

func TestModelPriceChangeNotification(t *testing.T) {
	s := newTestScreen(t)

	command := s.model.Init()
	require.NotNil(t, command)

	s.bus.Publish(context.Background())

	message := command()
	_, isChange := message.(pricesChangedMsg)
	require.True(t, isChange, "expected pricesChangedMsg, got %T", message)

	updated, next := s.model.Update(message)
	s.model = updated.(Model)
	assert.NotNil(t, next, "screen keeps listening for changes")
	assert.Contains(t, s.model.View(), "Price board refreshed")
}

func TestModelCloseUnsubscribes(t *testing.T) {
	s := newTestScreen(t)

	before := s.bus.Subscribers()
	s.model.Close()
	assert.Equal(t, before-1, s.bus.Subscribers())
}

func TestModelCloseReleasesChangeListener(t *testing.T) {
	s := newTestScreen(t)

	command := s.model.Init()
	require.NotNil(t, command)

	done := make(chan tea.Msg, 1)
	go func() { done <- command() }()

	s.model.Close()

	select {
	case message := <-done:
		assert.Nil(t, message)
	case <-time.After(5 * time.Second):
		t.Fatal("change listener still blocked after Close")
	}

	assert.NotPanics(t, func() { s.bus.Publish(context.Background()) })
}

func TestModelBackspaceClearsPastedFraction(t *testing.T) {
	testCases := []struct {
		name   string
		pasted string
	}{
		{name: "leading point", pasted: ".5"},
		{name: "negative", pasted: "-5"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestScreen(t)

			s.clearField(t)
			s.press(t, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(tc.pasted)})
			assert.Equal(t, tc.pasted, fieldText(s.editor, entities.ExpressPass))

			s.press(t, tea.KeyMsg{Type: tea.KeyBackspace})
			assert.Equal(t, "", fieldText(s.editor, entities.ExpressPass))

			s.press(t, tea.KeyMsg{Type: tea.KeyBackspace})
			assert.Equal(t, "", fieldText(s.editor, entities.ExpressPass))
		})
	}
}

func TestModelBackspaceKeepsValidPrefix(t *testing.T) {
	s := newTestScreen(t)

	s.clearField(t)
	s.press(t, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("-12")})
	s.press(t, tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "-1", fieldText(s.editor, entities.ExpressPass))
}

func TestModelQuit(t *testing.T) {
	s := newTestScreen(t)

	command := s.press(t, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, command)

	_, isQuit := command().(tea.QuitMsg)
	assert.True(t, isQuit)
}

func TestModelViewMarksInProgressFields(t *testing.T) {
	s := newTestScreen(t)

	s.clearField(t)
	s.typeText(t, "-")

	view := s.model.View()
	assert.True(t, strings.Contains(view, "Unsaved changes"))
	assert.Equal(t, "", fieldText(s.editor, entities.ExpressPass), "a lone minus sign is refused")

	s.typeText(t, "0.5")
	assert.Equal(t, "0.5", fieldText(s.editor, entities.ExpressPass))
}
