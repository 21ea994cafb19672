// Package document holds the editable composition: an optional background
// image and an ordered list of emoji placements. Every mutation bumps a
// revision number that subscribers receive on a coalescing channel.
package document

import (
	"context"
	"image"
	"net/url"
	"sync"

	"github.com/example/emojiart/internal/geom"
)

// ID identifies an emoji for the lifetime of its document.
type ID int

// Emoji is a single glyph placed on the canvas. Location is measured from the
// canvas centre in document coordinates.
type Emoji struct {
	ID       ID
	Text     string
	Location geom.Point
	Size     float32
}

// Document is safe for concurrent use. The editor mutates it from the event
// loop while the paint goroutine and the background watcher read or reload it.
type Document struct {
	mu            sync.RWMutex
	background    image.Image
	backgroundURL *url.URL
	emojis        []Emoji
	nextID        ID
	revision      uint64

	subMu   sync.Mutex
	subs    map[int]chan uint64
	nextSub int

	loader func(ctx context.Context, u *url.URL) (image.Image, error)
}

// Option configures a Document during creation.
type Option func(*Document)

// WithLoader replaces the function used to resolve background URLs.
func WithLoader(fn func(ctx context.Context, u *url.URL) (image.Image, error)) Option {
	return func(d *Document) { d.loader = fn }
}

// New creates an empty document.
func New(opts ...Option) *Document {
	d := &Document{
		nextID: 1,
		subs:   make(map[int]chan uint64),
		loader: LoadImage,
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Emojis returns a copy of the emoji list in drawing order.
func (d *Document) Emojis() []Emoji {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Emoji, len(d.emojis))
	copy(out, d.emojis)
	return out
}

// Emoji returns the emoji with the given id.
func (d *Document) Emoji(id ID) (Emoji, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if i := d.indexOf(id); i >= 0 {
		return d.emojis[i], true
	}
	return Emoji{}, false
}

// Background returns the current background image, or nil.
func (d *Document) Background() image.Image {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.background
}

// BackgroundURL returns the location the background was loaded from, or nil.
func (d *Document) BackgroundURL() *url.URL {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.backgroundURL == nil {
		return nil
	}
	u := *d.backgroundURL
	return &u
}

// Revision returns the number of mutations applied so far.
func (d *Document) Revision() uint64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.revision
}

// AddEmoji appends a new emoji and returns it.
func (d *Document) AddEmoji(text string, at geom.Point, size float32) Emoji {
	d.mu.Lock()
	e := Emoji{ID: d.nextID, Text: text, Location: at, Size: size}
	d.nextID++
	d.emojis = append(d.emojis, e)
	rev := d.bump()
	d.mu.Unlock()
	d.publish(rev)
	return e
}

// MoveEmoji offsets the emoji by the given document-space amount. Unknown ids
// are ignored.
func (d *Document) MoveEmoji(id ID, by geom.Point) {
	d.mu.Lock()
	i := d.indexOf(id)
	if i < 0 {
		d.mu.Unlock()
		return
	}
	d.emojis[i].Location = d.emojis[i].Location.Add(by)
	rev := d.bump()
	d.mu.Unlock()
	d.publish(rev)
}

// ScaleEmoji multiplies the emoji's font size by factor. Unknown ids and
// non-positive factors are ignored.
func (d *Document) ScaleEmoji(id ID, factor float32) {
	if factor <= 0 {
		return
	}
	d.mu.Lock()
	i := d.indexOf(id)
	if i < 0 {
		d.mu.Unlock()
		return
	}
	d.emojis[i].Size *= factor
	rev := d.bump()
	d.mu.Unlock()
	d.publish(rev)
}

// SetBackground replaces the background image. u may be nil for images that
// did not come from a URL.
func (d *Document) SetBackground(img image.Image, u *url.URL) {
	d.mu.Lock()
	d.background = img
	if u != nil {
		cp := *u
		u = &cp
	}
	d.backgroundURL = u
	rev := d.bump()
	d.mu.Unlock()
	d.publish(rev)
}

// SetBackgroundURL loads the image at u and makes it the background. The
// document is left untouched when loading fails.
func (d *Document) SetBackgroundURL(ctx context.Context, u *url.URL) error {
	img, err := d.loader(ctx, u)
	if err != nil {
		return err
	}
	d.SetBackground(img, u)
	return nil
}

// Subscribe returns a channel receiving the latest revision after each
// mutation. Slow readers only see the most recent revision. The returned
// function unsubscribes and closes the channel.
func (d *Document) Subscribe() (<-chan uint64, func()) {
	ch := make(chan uint64, 1)
	d.subMu.Lock()
	id := d.nextSub
	d.nextSub++
	d.subs[id] = ch
	d.subMu.Unlock()
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			d.subMu.Lock()
			delete(d.subs, id)
			d.subMu.Unlock()
			close(ch)
		})
	}
}

func (d *Document) indexOf(id ID) int {
	for i := range d.emojis {
		if d.emojis[i].ID == id {
			return i
		}
	}
	return -1
}

// bump must be called with mu held.
func (d *Document) bump() uint64 {
	d.revision++
	return d.revision
}

func (d *Document) publish(rev uint64) {
	d.subMu.Lock()
	defer d.subMu.Unlock()
	for _, ch := range d.subs {
		select {
		case ch <- rev:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- rev:
			default:
			}
		}
	}
}
