package panel

import (
	_ "embed"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"noteboard/internal/logging"
)

//go:embed panel.html
var panelPage []byte

// ErrNoListener is returned when no panel connection matches the target origin.
var ErrNoListener = errors.New("no diary panel is listening")

// Inbound is a frame read from a panel connection, tagged with the origin of
// the page that opened the connection.
type Inbound struct {
	Origin  string
	Payload []byte
}

type panelConn struct {
	ws     *websocket.Conn
	origin string
	mu     sync.Mutex
}

func (c *panelConn) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return c.ws.WriteJSON(v)
}

// Server hosts the diary panel page and its message socket on a loopback
// address. It is the Window the board posts snapshots to.
type Server struct {
	ln       net.Listener
	srv      *http.Server
	origin   string
	upgrader websocket.Upgrader
	inbound  chan Inbound
	done     chan struct{}

	mu     sync.Mutex
	conns  map[*panelConn]struct{}
	closed bool
}

// Listen binds addr and starts serving.
func Listen(addr string) (*Server, error) {
	if addr == "" {
		addr = "127.0.0.1:0"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "listen %s", addr)
	}
	s := &Server{
		ln:      ln,
		origin:  "http://" + ln.Addr().String(),
		inbound: make(chan Inbound, 16),
		done:    make(chan struct{}),
		conns:   map[*panelConn]struct{}{},
	}
	// Any page may connect; frames are screened by origin in both directions.
	s.upgrader = websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handlePage)
	mux.HandleFunc("/ws", s.handleSocket)
	s.srv = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Pkg("panel").Error("panel server stopped", "error", err)
		}
	}()
	logging.Pkg("panel").Info("panel server listening", "origin", s.origin)
	return s, nil
}

// Origin is the origin of pages served by s.
func (s *Server) Origin() string {
	return s.origin
}

// URL is where the panel page lives.
func (s *Server) URL() string {
	return s.origin + "/"
}

// Inbound delivers frames sent by panel pages.
func (s *Server) Inbound() <-chan Inbound {
	return s.inbound
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(panelPage)
}

func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Pkg("panel").Debug("panel upgrade failed", "error", err)
		return
	}
	c := &panelConn{ws: ws, origin: r.Header.Get("Origin")}
	if !s.track(c) {
		ws.Close()
		return
	}
	logging.Pkg("panel").Debug("panel connected", "origin", c.origin)
	defer s.untrack(c)

	for {
		_, payload, err := ws.ReadMessage()
		if err != nil {
			return
		}
		select {
		case s.inbound <- Inbound{Origin: c.origin, Payload: payload}:
		case <-s.done:
			return
		}
	}
}

func (s *Server) track(c *panelConn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.conns[c] = struct{}{}
	return true
}

func (s *Server) untrack(c *panelConn) {
	s.mu.Lock()
	delete(s.conns, c)
	s.mu.Unlock()
	c.ws.Close()
}

// PostMessage sends msg to every panel connection whose page origin equals
// targetOrigin.
func (s *Server) PostMessage(msg Message, targetOrigin string) error {
	if targetOrigin == "" || targetOrigin == WildcardOrigin {
		return ErrWildcardTarget
	}
	s.mu.Lock()
	targets := make([]*panelConn, 0, len(s.conns))
	for c := range s.conns {
		if c.origin == targetOrigin {
			targets = append(targets, c)
		}
	}
	s.mu.Unlock()

	if len(targets) == 0 {
		return ErrNoListener
	}
	var firstErr error
	for _, c := range targets {
		if err := c.writeJSON(msg); err != nil && firstErr == nil {
			firstErr = errors.Wrap(err, "post to panel")
		}
	}
	return firstErr
}

// Connections reports how many panel pages are connected.
func (s *Server) Connections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

func (s *Server) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.done)
	conns := make([]*panelConn, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		c.ws.Close()
	}
	return s.srv.Close()
}
