package board

import (
	"time"

	"golang.org/x/text/language"

	"noteboard/internal/logging"
	"noteboard/internal/note"
	"noteboard/internal/storage"
)

// State is the whole board: notes in insertion order plus the active filter.
type State struct {
	Notes  []note.Note
	Filter Filter
}

func (s State) clone() State {
	notes := make([]note.Note, len(s.Notes))
	copy(notes, s.Notes)
	return State{Notes: notes, Filter: s.Filter}
}

// Persister stores and restores the board record.
type Persister interface {
	Save(storage.Record)
	Load() (storage.Record, bool)
}

// Renderer is told about every state change.
type Renderer interface {
	Render(State)
}

// ConfirmFunc asks the user whether n may be deleted.
type ConfirmFunc func(n note.Note) bool

// Approve confirms every deletion. Use it once the user has already agreed.
func Approve(note.Note) bool { return true }

// Store owns the board state. Every mutation persists the state and then
// signals the renderer. It must only be used from one goroutine.
type Store struct {
	state     State
	persister Persister
	renderer  Renderer
	sorter    *Sorter
}

func NewStore(p Persister) *Store {
	return &Store{
		state:     State{Notes: []note.Note{}, Filter: FilterAll},
		persister: p,
		sorter:    NewSorter(language.Und),
	}
}

// SetRenderer installs r and renders the current state once.
func (s *Store) SetRenderer(r Renderer) {
	s.renderer = r
	s.render()
}

// SetCollation changes the language used to order note text.
func (s *Store) SetCollation(tag language.Tag) {
	s.sorter = NewSorter(tag)
}

// Load replaces the state with the persisted record, if a valid one exists.
func (s *Store) Load() bool {
	if s.persister == nil {
		return false
	}
	rec, ok := s.persister.Load()
	if !ok {
		return false
	}
	notes := rec.Notes
	if notes == nil {
		notes = []note.Note{}
	}
	s.state = State{Notes: notes, Filter: ParseFilter(rec.Filter)}
	logging.Pkg("board").Debug("state loaded", "notes", len(notes), "filter", s.state.Filter)
	s.render()
	return true
}

// State returns a copy of the current state.
func (s *Store) State() State {
	return s.state.clone()
}

// Visible returns the notes shown for the active filter, in display order.
func (s *Store) Visible(today time.Time) []note.Note {
	return s.sorter.Sort(FilterNotes(s.state.Notes, s.state.Filter, today))
}

// Filtered returns the notes inside the active filter, in insertion order.
func (s *Store) Filtered(today time.Time) []note.Note {
	return FilterNotes(s.state.Notes, s.state.Filter, today)
}

func (s *Store) Add(n note.Note) {
	s.state.Notes = append(s.state.Notes, n)
	s.commit("add", n.ID)
}

// Complete marks the note with id as completed.
func (s *Store) Complete(id string) bool {
	i := s.indexOf(id)
	if i >= 0 {
		s.state.Notes[i].Completed = true
	}
	s.commit("complete", id)
	return i >= 0
}

// Delete removes the note with id once confirm approves it.
func (s *Store) Delete(id string, confirm ConfirmFunc) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	if confirm == nil || !confirm(s.state.Notes[i]) {
		return false
	}
	s.removeAt(i)
	s.commit("delete", id)
	return true
}

// Remove deletes the note with id without asking.
func (s *Store) Remove(id string) bool {
	i := s.indexOf(id)
	if i >= 0 {
		s.removeAt(i)
	}
	s.commit("remove", id)
	return i >= 0
}

// SetFilter activates v, falling back to FilterAll for unknown values.
func (s *Store) SetFilter(v string) Filter {
	s.state.Filter = ParseFilter(v)
	s.commit("filter", string(s.state.Filter))
	return s.state.Filter
}

// Navigate activates the filter named by a fragment such as "#today".
func (s *Store) Navigate(fragment string) Filter {
	return s.SetFilter(string(FilterFromFragment(fragment)))
}

func (s *Store) indexOf(id string) int {
	for i, n := range s.state.Notes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) removeAt(i int) {
	notes := make([]note.Note, 0, len(s.state.Notes)-1)
	notes = append(notes, s.state.Notes[:i]...)
	notes = append(notes, s.state.Notes[i+1:]...)
	s.state.Notes = notes
}

func (s *Store) commit(op, subject string) {
	logging.Pkg("board").Debug("state changed", "op", op, "subject", subject, "notes", len(s.state.Notes))
	if s.persister != nil {
		s.persister.Save(storage.Record{Notes: s.state.Notes, Filter: string(s.state.Filter)})
	}
	s.render()
}

func (s *Store) render() {
	if s.renderer != nil {
		s.renderer.Render(s.State())
	}
}
