package render

import (
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"

	"noteboard/internal/board"
	"noteboard/internal/note"
)

// Actions are the store operations a card's controls call.
type Actions interface {
	Complete(id string) bool
	Delete(id string, confirm board.ConfirmFunc) bool
}

// Card is one visible note with its controls bound to the note id.
type Card struct {
	ID        string
	Priority  int
	Text      string
	Date      string
	DateLabel string
	Completed bool

	Complete func() bool
	Delete   func(confirm board.ConfirmFunc) bool
}

// Options configures a Board.
type Options struct {
	Locale string
	Now    func() time.Time
}

// Board rebuilds the card list from scratch whenever the state changes.
type Board struct {
	actions Actions
	dates   DateFormatter
	sorter  *board.Sorter
	now     func() time.Time
	filter  board.Filter
	cards   []Card
}

func New(actions Actions, opts Options) *Board {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	dates := NewDateFormatter(opts.Locale)
	return &Board{
		actions: actions,
		dates:   dates,
		sorter:  board.NewSorter(dates.Tag()),
		now:     now,
		filter:  board.FilterAll,
	}
}

// Render implements board.Renderer.
func (b *Board) Render(s board.State) {
	visible := b.sorter.Sort(board.FilterNotes(s.Notes, s.Filter, b.now()))
	b.filter = s.Filter
	b.cards = make([]Card, 0, len(visible))
	for _, n := range visible {
		b.cards = append(b.cards, b.card(n))
	}
}

func (b *Board) card(n note.Note) Card {
	id := n.ID
	c := Card{
		ID:        id,
		Priority:  n.Priority,
		Text:      n.Text,
		Date:      n.Date,
		DateLabel: b.dates.Format(n.Date),
		Completed: n.Completed,
	}
	if b.actions != nil {
		c.Complete = func() bool { return b.actions.Complete(id) }
		c.Delete = func(confirm board.ConfirmFunc) bool { return b.actions.Delete(id, confirm) }
	}
	return c
}

func (b *Board) Cards() []Card {
	return b.cards
}

// Filter is the filter of the last rendered state.
func (b *Board) Filter() board.Filter {
	return b.filter
}

func (b *Board) Dates() DateFormatter {
	return b.dates
}

// TerminalText makes note text safe to print: escape sequences are stripped,
// other control characters become spaces.
func TerminalText(s string) string {
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		if r == '\t' || r == '\n' || r == '\r' {
			return ' '
		}
		if r < 0x20 || r == 0x7f || (r >= 0x80 && r < 0xa0) {
			return -1
		}
		return r
	}, s)
}
