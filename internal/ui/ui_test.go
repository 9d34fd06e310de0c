package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"noteboard/internal/board"
	"noteboard/internal/config"
	"noteboard/internal/note"
	"noteboard/internal/panel"
	"noteboard/internal/render"
	"noteboard/internal/storage"
)

const testOrigin = "http://127.0.0.1:4000"

func clock() time.Time {
	return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
}

type fakeWindow struct {
	posts []panel.Message
}

func (w *fakeWindow) PostMessage(msg panel.Message, target string) error {
	if target != testOrigin {
		return errors.New("wrong target")
	}
	w.posts = append(w.posts, msg)
	return nil
}

type fakeOpener struct {
	window panel.Window
	err    error
}

func (o fakeOpener) Open() (panel.Window, error) {
	return o.window, o.err
}

type harness struct {
	model  Model
	store  *board.Store
	window *fakeWindow
	kv     *storage.Memory
}

func newHarness(t *testing.T, opener panel.Opener) *harness {
	t.Helper()
	kv := storage.NewMemory()
	store := board.NewStore(storage.NewAdapter(kv, ""))
	store.Load()
	view := render.New(store, render.Options{Locale: "en", Now: clock})
	store.SetRenderer(view)

	w := &fakeWindow{}
	if opener == nil {
		opener = fakeOpener{window: w}
	}
	m := New(Deps{
		Store:  store,
		View:   view,
		Sync:   panel.NewSync(testOrigin, opener, 10*time.Millisecond),
		Config: config.Default(),
		Now:    clock,
	})
	return &harness{model: m, store: store, window: w, kv: kv}
}

func (h *harness) send(t *testing.T, msg tea.Msg) tea.Cmd {
	t.Helper()
	next, cmd := h.model.Update(msg)
	h.model = next.(Model)
	return cmd
}

func (h *harness) key(t *testing.T, k string) tea.Cmd {
	t.Helper()
	switch k {
	case "enter":
		return h.send(t, tea.KeyMsg{Type: tea.KeyEnter})
	case "esc":
		return h.send(t, tea.KeyMsg{Type: tea.KeyEsc})
	case "tab":
		return h.send(t, tea.KeyMsg{Type: tea.KeyTab})
	default:
		return h.send(t, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
	}
}

func (h *harness) addNote(t *testing.T, text, date, priority string) {
	t.Helper()
	h.key(t, "a")
	require.Equal(t, modeAdd, h.model.mode)
	h.model.inputs[fieldText].SetValue(text)
	h.model.inputs[fieldDate].SetValue(date)
	h.model.inputs[fieldPriority].SetValue(priority)
	h.key(t, "enter")
}

func TestAddNote_ThenDeleteWithConfirmation(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil)

	h.addNote(t, "Buy milk", "2024-06-01", "2")
	require.Equal(t, modeList, h.model.mode)
	require.Len(t, h.store.State().Notes, 1)
	require.Equal(t, "Note created", h.model.status)
	require.Contains(t, h.model.View(), "Buy milk")

	h.key(t, "d")
	require.Equal(t, modeConfirmDelete, h.model.mode)
	h.key(t, "n")
	require.Len(t, h.store.State().Notes, 1)

	h.key(t, "d")
	h.key(t, "y")
	require.Equal(t, modeList, h.model.mode)
	require.Empty(t, h.store.State().Notes)

	raw, ok, err := h.kv.Get(storage.DefaultKey)
	require.NoError(t, err)
	require.True(t, ok)
	require.Contains(t, raw, `"notes":[]`)
}

func TestAddNote_TypingIntoForm(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil)

	h.key(t, "a")
	require.Equal(t, "2024-06-01", h.model.inputs[fieldDate].Value(), "date defaults to today")
	h.key(t, "Water plants")
	h.key(t, "tab")
	require.Equal(t, fieldDate, h.model.focus)
	h.key(t, "tab")
	require.Equal(t, fieldPriority, h.model.focus)
	h.model.inputs[fieldPriority].SetValue("")
	h.key(t, "7")
	h.key(t, "enter")

	notes := h.store.State().Notes
	require.Len(t, notes, 1)
	require.Equal(t, "Water plants", notes[0].Text)
	require.Equal(t, 3, notes[0].Priority)
}

func TestAddNote_ValidationErrorKeepsForm(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil)

	h.addNote(t, "   ", "2024-06-01", "1")
	require.Equal(t, modeAdd, h.model.mode)
	require.True(t, h.model.statusErr)
	require.Empty(t, h.store.State().Notes)

	h.model.inputs[fieldText].SetValue("ok")
	h.model.inputs[fieldDate].SetValue("not-a-date")
	h.key(t, "enter")
	require.True(t, h.model.statusErr)
	require.Contains(t, h.model.status, "date")
	require.Empty(t, h.store.State().Notes)

	h.key(t, "esc")
	require.Equal(t, modeList, h.model.mode)
}

func TestComplete(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil)
	h.addNote(t, "Read", "2024-06-01", "1")

	h.key(t, "c")
	require.True(t, h.store.State().Notes[0].Completed)
	require.Contains(t, h.model.View(), "[x]")
}

func TestNavigationKeysSetFilter(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil)
	h.addNote(t, "today", "2024-06-01", "1")
	h.addNote(t, "next month", "2024-07-01", "1")

	h.key(t, "1")
	require.Equal(t, board.FilterToday, h.store.State().Filter)
	view := h.model.View()
	require.Contains(t, view, "today")
	require.NotContains(t, view, "next month")

	h.key(t, "2")
	require.Equal(t, board.FilterWeek, h.store.State().Filter)
	h.key(t, "3")
	require.Equal(t, board.FilterAll, h.store.State().Filter)
	require.Contains(t, h.model.View(), "next month")
}

func TestOpenPanel_PostsFilteredSnapshotAfterDelay(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil)
	h.addNote(t, "today", "2024-06-01", "1")
	h.addNote(t, "next month", "2024-07-01", "1")
	h.key(t, "1")

	cmd := h.key(t, "p")
	require.NotNil(t, cmd)
	require.Equal(t, panel.AwaitingReady, h.model.sync.Phase())
	require.Empty(t, h.window.posts)

	require.Contains(t, h.model.status, "press 'p' again to resend")
	require.False(t, h.model.statusErr)

	h.send(t, cmd())
	require.Equal(t, panel.Synced, h.model.sync.Phase())
	require.Len(t, h.window.posts, 1)
	require.Len(t, h.window.posts[0].Notes, 1)
	require.Equal(t, "today", h.window.posts[0].Notes[0].Text)
}

func TestOpenPanel_Blocked(t *testing.T) {
	t.Parallel()
	h := newHarness(t, fakeOpener{err: errors.New("no browser")})

	cmd := h.key(t, "p")
	require.Nil(t, cmd)
	require.True(t, h.model.statusErr)
	require.Contains(t, h.model.status, "Pop-up blocked")
	require.Equal(t, panel.Blocked, h.model.sync.Phase())
}

func TestInboundDeletion(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil)
	h.addNote(t, "Buy milk", "2024-06-01", "2")
	id := h.store.State().Notes[0].ID
	payload := []byte(`{"type":"DELETED","id":"` + id + `"}`)

	h.send(t, inboundMsg{Origin: "http://evil.example", Payload: payload})
	require.Len(t, h.store.State().Notes, 1, "foreign origin must not mutate state")

	h.send(t, inboundMsg{Origin: testOrigin, Payload: []byte(`{"type":"DELETED"}`)})
	require.Len(t, h.store.State().Notes, 1)

	h.send(t, inboundMsg{Origin: testOrigin, Payload: payload})
	require.Empty(t, h.store.State().Notes)
	require.Equal(t, "Note deleted from the diary panel", h.model.status)
}

func TestInboundChannelIsDrained(t *testing.T) {
	t.Parallel()
	ch := make(chan panel.Inbound, 1)
	ch <- panel.Inbound{Origin: testOrigin, Payload: []byte(`{}`)}
	close(ch)

	cmd := waitForInbound(ch)
	require.NotNil(t, cmd)
	msg := cmd()
	in, ok := msg.(inboundMsg)
	require.True(t, ok)
	require.Equal(t, testOrigin, in.Origin)
	require.Nil(t, cmd(), "closed channel yields no message")
	require.Nil(t, waitForInbound(nil))
}

func TestFullscreenToggle(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil)
	require.NotNil(t, h.key(t, "f"))
	require.True(t, h.model.fullscreen)
	require.NotNil(t, h.key(t, "f"))
	require.False(t, h.model.fullscreen)
}

func TestViewEscapesTerminalSequences(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil)
	h.store.Add(note.Note{ID: "x", Text: "\x1b[2Jwipe", Date: "2024-06-01", Priority: 1})
	view := h.model.View()
	require.Contains(t, view, "wipe")
	require.False(t, strings.Contains(view, "\x1b[2J"))
}

func TestQuit(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil)
	cmd := h.key(t, "q")
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	require.True(t, ok)
}

func TestClampCursor(t *testing.T) {
	t.Parallel()
	require.Equal(t, 0, clampCursor(5, 0))
	require.Equal(t, 0, clampCursor(-1, 3))
	require.Equal(t, 2, clampCursor(9, 3))
	require.Equal(t, 1, clampCursor(1, 3))
}
