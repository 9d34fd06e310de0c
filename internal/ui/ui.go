package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"noteboard/internal/board"
	"noteboard/internal/config"
	"noteboard/internal/logging"
	"noteboard/internal/note"
	"noteboard/internal/panel"
	"noteboard/internal/render"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeConfirmDelete
)

const (
	fieldText = iota
	fieldDate
	fieldPriority
	fieldCount
)

var fieldLabels = [fieldCount]string{"Text", "Date", "Priority"}

type snapshotDueMsg struct{}

type inboundMsg panel.Inbound

// Deps are the collaborators the board UI drives.
type Deps struct {
	Store   *board.Store
	View    *render.Board
	Sync    *panel.Sync
	Inbound <-chan panel.Inbound
	Config  config.Config
	Now     func() time.Time
}

type Model struct {
	store      *board.Store
	view       *render.Board
	sync       *panel.Sync
	inbound    <-chan panel.Inbound
	cfg        config.Config
	now        func() time.Time
	cursor     int
	mode       mode
	inputs     [fieldCount]textinput.Model
	focus      int
	status     string
	statusErr  bool
	pendingDel *render.Card
	fullscreen bool
}

func New(d Deps) Model {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	var inputs [fieldCount]textinput.Model
	for i := range inputs {
		ti := textinput.New()
		ti.Placeholder = fieldLabels[i]
		ti.Width = 40
		inputs[i] = ti
	}
	inputs[fieldText].CharLimit = 256
	inputs[fieldDate].Placeholder = "YYYY-MM-DD"
	inputs[fieldDate].CharLimit = 32
	inputs[fieldPriority].Placeholder = "1-3"
	inputs[fieldPriority].CharLimit = 4

	return Model{
		store:   d.Store,
		view:    d.View,
		sync:    d.Sync,
		inbound: d.Inbound,
		cfg:     d.Config,
		now:     now,
		mode:    modeList,
		inputs:  inputs,
		status:  fmt.Sprintf("Press '%s' to add a note, '%s' to open the diary panel.", d.Config.Keys.Add, d.Config.Keys.Panel),
	}
}

func Run(d Deps) error {
	program := tea.NewProgram(New(d))
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return waitForInbound(m.inbound)
}

func waitForInbound(ch <-chan panel.Inbound) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		in, ok := <-ch
		if !ok {
			return nil
		}
		return inboundMsg(in)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.mode {
		case modeAdd:
			return m.updateAddMode(msg.String(), msg)
		case modeConfirmDelete:
			return m.updateDeleteConfirm(msg.String())
		default:
			return m.updateListMode(msg.String())
		}
	case tea.WindowSizeMsg:
		for i := range m.inputs {
			m.inputs[i].Width = max(msg.Width-20, 10)
		}
	case snapshotDueMsg:
		if m.sync != nil {
			m.sync.Deliver()
		}
	case inboundMsg:
		m.handleInbound(panel.Inbound(msg))
		return m, waitForInbound(m.inbound)
	}
	return m, nil
}

func (m *Model) handleInbound(in panel.Inbound) {
	if m.sync == nil {
		return
	}
	id, ok := m.sync.Receive(in.Origin, in.Payload)
	if !ok {
		return
	}
	if m.store.Remove(id) {
		m.setStatus("Note deleted from the diary panel")
	}
	m.cursor = clampCursor(m.cursor, len(m.cards()))
}

func (m Model) cards() []render.Card {
	if m.view == nil {
		return nil
	}
	return m.view.Cards()
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(s string) {
	m.status = s
	m.statusErr = true
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	keys := m.cfg.Keys
	cards := m.cards()
	switch key {
	case "ctrl+c", keys.Quit:
		return m, tea.Quit
	case keys.Down, "down":
		m.cursor = clampCursor(m.cursor+1, len(cards))
	case keys.Up, "up":
		m.cursor = clampCursor(m.cursor-1, len(cards))
	case keys.Add:
		m.mode = modeAdd
		m.focus = fieldText
		m.inputs[fieldDate].SetValue(m.now().Format(note.DateLayout))
		m.inputs[fieldPriority].SetValue("1")
		m.setStatus("New note: tab to switch field, enter to save, esc to cancel")
		return m, m.focusInput(fieldText)
	case keys.Complete:
		if len(cards) == 0 {
			return m, nil
		}
		c := cards[clampCursor(m.cursor, len(cards))]
		c.Complete()
		m.setStatus("Note completed")
	case keys.Delete:
		if len(cards) == 0 {
			return m, nil
		}
		c := cards[clampCursor(m.cursor, len(cards))]
		m.pendingDel = &c
		m.mode = modeConfirmDelete
		m.setStatus(fmt.Sprintf("Delete \"%s\"? y/n", render.TerminalText(c.Text)))
	case keys.Today:
		m.navigate(board.FilterToday)
	case keys.Week:
		m.navigate(board.FilterWeek)
	case keys.All:
		m.navigate(board.FilterAll)
	case keys.Panel:
		return m.openPanel()
	case keys.Fullscreen:
		m.fullscreen = !m.fullscreen
		if m.fullscreen {
			return m, tea.EnterAltScreen
		}
		return m, tea.ExitAltScreen
	}
	return m, nil
}

func (m *Model) navigate(f board.Filter) {
	m.store.Navigate(f.Fragment())
	m.cursor = 0
	m.setStatus("Showing " + string(f))
}

func (m Model) openPanel() (tea.Model, tea.Cmd) {
	if m.sync == nil {
		m.setError("Diary panel is not available")
		return m, nil
	}
	if err := m.sync.Open(m.store.Filtered(m.now())); err != nil {
		m.setError("Pop-up blocked: " + err.Error())
		return m, nil
	}
	m.setStatus(fmt.Sprintf("Diary panel opened at %s (press '%s' again to resend the notes)", m.sync.Origin(), m.cfg.Keys.Panel))
	return m, tea.Tick(m.sync.Delay(), func(time.Time) tea.Msg { return snapshotDueMsg{} })
}

func (m *Model) focusInput(i int) tea.Cmd {
	for j := range m.inputs {
		m.inputs[j].Blur()
	}
	m.focus = i
	return m.inputs[i].Focus()
}

func (m *Model) resetForm() {
	for i := range m.inputs {
		m.inputs[i].SetValue("")
		m.inputs[i].Blur()
	}
	m.focus = fieldText
}

func (m Model) updateAddMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel, "esc":
		m.mode = modeList
		m.resetForm()
		m.setStatus("Cancelled")
		return m, nil
	case m.cfg.Keys.NextField, "tab":
		return m, m.focusInput((m.focus + 1) % fieldCount)
	case "shift+tab":
		return m, m.focusInput((m.focus + fieldCount - 1) % fieldCount)
	case m.cfg.Keys.Confirm, "enter":
		n, err := note.New(
			m.inputs[fieldText].Value(),
			m.inputs[fieldDate].Value(),
			m.inputs[fieldPriority].Value(),
		)
		if err != nil {
			logging.Pkg("ui").Debug("note rejected", "error", err)
			m.setError(err.Error())
			return m, nil
		}
		m.store.Add(n)
		m.resetForm()
		m.mode = modeList
		m.setStatus("Note created")
		m.cursor = indexOfCard(m.cards(), n.ID, m.cursor)
		return m, nil
	default:
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", "esc":
		m.setStatus("Delete cancelled")
	case "y", "Y":
		if m.pendingDel == nil {
			m.setStatus("Nothing to delete")
			break
		}
		if m.pendingDel.Delete(board.Approve) {
			m.setStatus("Note deleted")
		} else {
			m.setStatus("Note was already gone")
		}
		m.cursor = clampCursor(m.cursor, len(m.cards()))
	default:
		return m, nil
	}
	m.mode = modeList
	m.pendingDel = nil
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Note board"))
	b.WriteString("  ")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	cards := m.cards()
	if len(cards) == 0 {
		b.WriteString(dateStyle.Render(fmt.Sprintf("No notes. Press '%s' to add one.", m.cfg.Keys.Add)))
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderCards(cards))
	}

	if m.mode == modeAdd {
		b.WriteString("\n")
		b.WriteString(m.renderForm())
	}

	b.WriteString("\n")
	if m.statusErr {
		b.WriteString(errorStyle.Render(m.status))
	} else {
		b.WriteString(statusStyle.Render(m.status))
	}
	if m.sync != nil && m.sync.Phase() != panel.Idle {
		b.WriteString(dateStyle.Render("  [panel: " + m.sync.Phase().String() + "]"))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(renderHelp(m.cfg.Keys)))

	return b.String()
}

func (m Model) renderTabs() string {
	active := board.FilterAll
	if m.view != nil {
		active = m.view.Filter()
	}
	tabs := make([]string, 0, len(board.Filters()))
	for _, f := range board.Filters() {
		label := f.Fragment()
		if f == active {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	return strings.Join(tabs, "")
}

func (m Model) renderCards(cards []render.Card) string {
	var b strings.Builder
	for i, c := range cards {
		cursor := " "
		style := cardStyle
		if c.Completed {
			style = doneCardStyle
		}
		if i == m.cursor && m.mode != modeAdd {
			cursor = ">"
			if !c.Completed {
				style = selectedCardStyle
			}
		}
		check := "[ ]"
		if c.Completed {
			check = "[x]"
		}
		prio := priorityStyles[note.ClampPriority(c.Priority)].Render(fmt.Sprintf("[P%d]", c.Priority))
		b.WriteString(fmt.Sprintf("%s %s %s %s  %s\n",
			cursor, check, prio,
			style.Render(render.TerminalText(c.Text)),
			dateStyle.Render(c.DateLabel)))
	}
	return b.String()
}

func (m Model) renderForm() string {
	var b strings.Builder
	for i := range m.inputs {
		b.WriteString(formLabelStyle.Render(fieldLabels[i]))
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}
	return b.String()
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move • %s add • %s complete • %s delete • %s/%s/%s today/week/all • %s diary panel • %s full screen • %s quit",
		k.Up, k.Down, k.Add, k.Complete, k.Delete, k.Today, k.Week, k.All, k.Panel, k.Fullscreen, k.Quit)
}

func indexOfCard(cards []render.Card, id string, fallback int) int {
	for i, c := range cards {
		if c.ID == id {
			return i
		}
	}
	return clampCursor(fallback, len(cards))
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
