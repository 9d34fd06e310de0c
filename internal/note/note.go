package note

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// DateLayout is the calendar date format every stored note uses.
const DateLayout = "2006-01-02"

const (
	MinPriority = 1
	MaxPriority = 3
)

// Note is a single entry on the board.
type Note struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Date      string `json:"date"`
	Priority  int    `json:"priority"`
	Completed bool   `json:"completed,omitempty"`
}

// ValidationError reports note input that cannot become a Note.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid note %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// New builds a note from raw form input.
func New(text, date, priority string) (Note, error) {
	t := strings.TrimSpace(text)
	if t == "" {
		return Note{}, &ValidationError{Field: "text", Reason: "must not be empty"}
	}
	d, err := NormalizeDate(date)
	if err != nil {
		return Note{}, err
	}
	return Note{
		ID:       NewID(),
		Text:     t,
		Date:     d,
		Priority: ParsePriority(priority),
	}, nil
}

// NewID returns a fresh opaque note id.
func NewID() string {
	return "n" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

var dateLayouts = []string{
	DateLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
}

// NormalizeDate parses a calendar date or timestamp and returns it as YYYY-MM-DD.
// Timestamps with an offset are converted to UTC first.
func NormalizeDate(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", &ValidationError{Field: "date", Reason: "must not be empty"}
	}
	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, v)
		if err != nil {
			continue
		}
		return parsed.UTC().Format(DateLayout), nil
	}
	return "", &ValidationError{Field: "date", Reason: fmt.Sprintf("%q is not a calendar date", v)}
}

// ParsePriority reads a numeric priority, truncating fractions. Anything
// unparsable becomes MinPriority.
func ParsePriority(v string) int {
	v = strings.TrimSpace(v)
	if n, err := strconv.Atoi(v); err == nil {
		return ClampPriority(n)
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || f == 0 {
		return MinPriority
	}
	if math.IsInf(f, 1) {
		return MaxPriority
	}
	if math.IsInf(f, -1) {
		return MinPriority
	}
	return ClampPriority(int(math.Trunc(f)))
}

func ClampPriority(p int) int {
	if p < MinPriority {
		return MinPriority
	}
	if p > MaxPriority {
		return MaxPriority
	}
	return p
}
