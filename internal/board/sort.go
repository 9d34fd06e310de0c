package board

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"noteboard/internal/note"
)

// Sorter orders notes by priority, date and then text using a locale collation.
// A Sorter is not safe for concurrent use.
type Sorter struct {
	col *collate.Collator
}

func NewSorter(tag language.Tag) *Sorter {
	return &Sorter{col: collate.New(tag)}
}

// Sort returns a sorted copy of notes: highest priority first, then earliest
// date, then text in collation order.
func (s *Sorter) Sort(notes []note.Note) []note.Note {
	out := make([]note.Note, len(notes))
	copy(out, notes)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		return s.col.CompareString(a.Text, b.Text) < 0
	})
	return out
}

// SortNotes sorts with the root collation.
func SortNotes(notes []note.Note) []note.Note {
	return NewSorter(language.Und).Sort(notes)
}
