// Package drop resolves dropped payloads into document changes.
package drop

import (
	"errors"
	"net/url"
	"os"
	"strings"

	"github.com/example/emojiart/internal/document"
)

// ErrNotOffered is returned by a Provider that has no payload of the
// requested type.
var ErrNotOffered = errors.New("drop: payload type not offered")

// Provider offers a dropped payload as an image URL, plain text or both.
type Provider interface {
	URL() (*url.URL, error)
	Text() (string, error)
}

type payload struct {
	url  *url.URL
	text *string
}

func (p payload) URL() (*url.URL, error) {
	if p.url == nil {
		return nil, ErrNotOffered
	}
	u := *p.url
	return &u, nil
}

func (p payload) Text() (string, error) {
	if p.text == nil {
		return "", ErrNotOffered
	}
	return *p.text, nil
}

// Text offers s as plain text.
func Text(s string) Provider { return payload{text: &s} }

// URL offers u as an image location.
func URL(u *url.URL) Provider { return payload{url: u} }

// Arg classifies a command line string. File URLs and paths naming an existing
// image file are offered as URLs; anything else is offered as text.
func Arg(s string) Provider {
	if u, ok := imageLocation(s); ok {
		return URL(u)
	}
	return Text(s)
}

// TextReader is the clipboard surface used by Clipboard.
type TextReader func() (string, error)

// Clipboard offers the clipboard's text, classified like Arg. The clipboard
// is read once, on first use.
func Clipboard(read TextReader) Provider {
	return &clipboardProvider{read: read}
}

type clipboardProvider struct {
	read     TextReader
	resolved Provider
	err      error
}

func (c *clipboardProvider) resolve() (Provider, error) {
	if c.resolved == nil && c.err == nil {
		s, err := c.read()
		switch {
		case err != nil:
			c.err = err
		case strings.TrimSpace(s) == "":
			c.err = ErrNotOffered
		default:
			c.resolved = Arg(strings.TrimSpace(s))
		}
	}
	return c.resolved, c.err
}

func (c *clipboardProvider) URL() (*url.URL, error) {
	p, err := c.resolve()
	if err != nil {
		return nil, err
	}
	return p.URL()
}

func (c *clipboardProvider) Text() (string, error) {
	p, err := c.resolve()
	if err != nil {
		return "", err
	}
	return p.Text()
}

func imageLocation(s string) (*url.URL, bool) {
	if strings.TrimSpace(s) == "" {
		return nil, false
	}
	if strings.HasPrefix(s, "file:") {
		u, err := document.ParseLocation(s)
		return u, err == nil
	}
	u, err := document.ParseLocation(s)
	if err != nil {
		return nil, false
	}
	path, err := document.FilePath(u)
	if err != nil {
		return nil, false
	}
	if fi, err := os.Stat(path); err != nil || fi.IsDir() {
		return nil, false
	}
	if !document.IsImageFile(path) {
		return nil, false
	}
	return u, true
}
