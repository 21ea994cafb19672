package drop

import (
	"context"
	"errors"
	"log"
	"net/url"

	"github.com/example/emojiart/internal/document"
	"github.com/example/emojiart/internal/geom"
)

// DefaultEmojiSize is the font size given to dropped text.
const DefaultEmojiSize = 40

// Target receives the result of a drop.
type Target interface {
	SetBackgroundURL(ctx context.Context, u *url.URL) error
	AddEmoji(text string, at geom.Point, size float32) document.Emoji
}

// Handler turns dropped providers into document changes.
type Handler struct {
	// EmojiSize is the size of emoji added from text. Zero means
	// DefaultEmojiSize.
	EmojiSize float32
	// Logf reports payloads that could not be used. Nil means log.Printf.
	Logf func(format string, args ...any)
}

// Handle resolves providers dropped at the document location at. The first
// URL that loads becomes the background; otherwise every text payload is
// added as an emoji. It reports whether anything was consumed.
func (h *Handler) Handle(ctx context.Context, t Target, providers []Provider, at geom.Point) bool {
	for _, p := range providers {
		u, err := p.URL()
		if err != nil {
			h.skip("url", err)
			continue
		}
		if err := t.SetBackgroundURL(ctx, u); err != nil {
			h.logf("drop: background %s: %v", u, err)
			continue
		}
		return true
	}
	found := false
	for _, p := range providers {
		s, err := p.Text()
		if err != nil {
			h.skip("text", err)
			continue
		}
		if s == "" {
			continue
		}
		t.AddEmoji(s, at, h.size())
		found = true
	}
	return found
}

func (h *Handler) size() float32 {
	if h == nil || h.EmojiSize <= 0 {
		return DefaultEmojiSize
	}
	return h.EmojiSize
}

func (h *Handler) skip(kind string, err error) {
	if errors.Is(err, ErrNotOffered) {
		return
	}
	h.logf("drop: %s payload: %v", kind, err)
}

func (h *Handler) logf(format string, args ...any) {
	if h != nil && h.Logf != nil {
		h.Logf(format, args...)
		return
	}
	log.Printf(format, args...)
}
