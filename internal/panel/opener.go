package panel

import (
	"io"

	"github.com/pkg/browser"
	"github.com/pkg/errors"
)

func init() {
	// The terminal belongs to the board UI.
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
}

// BrowserOpener opens the panel page of a Server in the user's browser.
type BrowserOpener struct {
	server *Server
	launch func(url string) error
}

// NewBrowserOpener returns an opener for server. When launch is false the
// page is not opened automatically and the user is expected to visit URL.
func NewBrowserOpener(server *Server, launch bool) *BrowserOpener {
	o := &BrowserOpener{server: server, launch: browser.OpenURL}
	if !launch {
		o.launch = func(string) error { return nil }
	}
	return o
}

func (o *BrowserOpener) Open() (Window, error) {
	if o.server == nil {
		return nil, errors.New("panel server is not running")
	}
	if err := o.launch(o.server.URL()); err != nil {
		return nil, errors.Wrap(err, "launch browser")
	}
	return o.server, nil
}

// URL is the page the opener points the browser at.
func (o *BrowserOpener) URL() string {
	if o.server == nil {
		return ""
	}
	return o.server.URL()
}
