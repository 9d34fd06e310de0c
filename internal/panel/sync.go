package panel

import (
	"fmt"
	"time"

	"github.com/pkg/errors"

	"noteboard/internal/logging"
	"noteboard/internal/note"
)

// DefaultDelay is how long the board waits before posting the snapshot. The
// panel has no way to announce that it is listening, so the post is best effort.
const DefaultDelay = 400 * time.Millisecond

// WildcardOrigin is never accepted as a post target.
const WildcardOrigin = "*"

var (
	ErrPopupBlocked   = errors.New("diary panel could not be opened")
	ErrWildcardTarget = errors.New("refusing to post to a wildcard origin")
)

// Phase is a step of the panel handshake.
type Phase int

const (
	Idle Phase = iota
	Opening
	Blocked
	AwaitingReady
	Synced
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Opening:
		return "opening"
	case Blocked:
		return "blocked"
	case AwaitingReady:
		return "awaiting-ready"
	case Synced:
		return "synced"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Window is an opened diary panel.
type Window interface {
	PostMessage(msg Message, targetOrigin string) error
}

// Opener opens diary panel windows.
type Opener interface {
	Open() (Window, error)
}

// Sync drives the handshake with the diary panel and screens inbound frames.
// Like the board store it belongs to the UI goroutine.
type Sync struct {
	origin  string
	opener  Opener
	delay   time.Duration
	phase   Phase
	window  Window
	pending []note.Note
}

func NewSync(origin string, opener Opener, delay time.Duration) *Sync {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Sync{origin: origin, opener: opener, delay: delay}
}

func (s *Sync) Phase() Phase {
	return s.phase
}

func (s *Sync) Origin() string {
	return s.origin
}

// Delay is how long the caller should wait between Open and Deliver.
func (s *Sync) Delay() time.Duration {
	return s.delay
}

// Open requests a panel window and holds snapshot for delivery. A window
// that cannot be opened leaves the handshake Blocked.
func (s *Sync) Open(snapshot []note.Note) error {
	s.phase = Opening
	s.window = nil
	s.pending = nil

	var (
		w   Window
		err error
	)
	if s.opener != nil {
		w, err = s.opener.Open()
	}
	if err != nil || w == nil {
		s.phase = Blocked
		logging.Pkg("panel").Warn("diary panel blocked", "error", err)
		if err != nil {
			return errors.Wrap(ErrPopupBlocked, err.Error())
		}
		return ErrPopupBlocked
	}

	s.window = w
	s.pending = append([]note.Note{}, snapshot...)
	s.phase = AwaitingReady
	return nil
}

// Deliver posts the held snapshot to the window. Post failures are logged and
// otherwise ignored; the handshake counts as synced either way.
func (s *Sync) Deliver() {
	if s.phase != AwaitingReady || s.window == nil {
		return
	}
	msg := Snapshot(s.pending)
	s.pending = nil
	s.phase = Synced
	if err := s.window.PostMessage(msg, s.origin); err != nil {
		logging.Pkg("panel").Info("snapshot post failed; reopen the panel to resend", "error", err)
		return
	}
	logging.Pkg("panel").Debug("snapshot posted", "notes", len(msg.Notes))
}

// Receive screens an inbound frame and returns the id of a note the panel
// deleted. Frames from another origin or that are not well formed are dropped.
func (s *Sync) Receive(origin string, payload []byte) (string, bool) {
	if origin == "" || origin != s.origin {
		return "", false
	}
	return decodeDeleted(payload)
}
