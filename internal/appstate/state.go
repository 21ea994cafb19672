// Package appstate runs the EmojiArt editor window: a palette strip on top,
// the canvas in the middle and a shortcut bar at the bottom.
package appstate

import (
	"context"
	"fmt"
	"image"
	"log"
	"os"
	"sync"
	"time"

	"github.com/example/emojiart/internal/canvas"
	"github.com/example/emojiart/internal/clipboard"
	"github.com/example/emojiart/internal/document"
	"github.com/example/emojiart/internal/drop"
	"github.com/example/emojiart/internal/emojiview"
	"github.com/example/emojiart/internal/geom"
	"github.com/example/emojiart/internal/gesture"
	"github.com/example/emojiart/internal/notify"
	"github.com/example/emojiart/internal/palette"
	"github.com/example/emojiart/internal/theme"
	"github.com/example/emojiart/internal/watch"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"
	"golang.org/x/mobile/event/touch"
)

const (
	defaultWidth  = 960
	defaultHeight = 720
	// zoomStep is the factor applied by the + and - keys.
	zoomStep = 1.25
)

// Action names shared by the keyboard and the shortcut bar.
const (
	actionClear   = "clear"
	actionPaste   = "paste"
	actionCopy    = "copy"
	actionSave    = "save"
	actionFit     = "fit"
	actionZoomIn  = "zoomin"
	actionZoomOut = "zoomout"
	actionQuit    = "quit"
)

// AppState holds the editor configuration.
type AppState struct {
	Doc       *document.Document
	Palette   palette.Palette
	Theme     *theme.Theme
	Fonts     *emojiview.Fonts
	Output    string
	EmojiSize float32
	Watch     bool
	Notifier  *notify.Notifier

	onClose   func()
	closeOnce sync.Once
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithDocument sets the document being edited.
func WithDocument(doc *document.Document) Option { return func(a *AppState) { a.Doc = doc } }

// WithPalette sets the glyphs offered in the palette strip.
func WithPalette(p palette.Palette) Option { return func(a *AppState) { a.Palette = p } }

// WithTheme sets the window colours.
func WithTheme(t *theme.Theme) Option { return func(a *AppState) { a.Theme = t } }

// WithFonts sets the glyph fonts.
func WithFonts(f *emojiview.Fonts) Option { return func(a *AppState) { a.Fonts = f } }

// WithOutput sets the path Ctrl+S exports to.
func WithOutput(out string) Option { return func(a *AppState) { a.Output = out } }

// WithEmojiSize sets the size of emoji added by drops.
func WithEmojiSize(s float32) Option { return func(a *AppState) { a.EmojiSize = s } }

// WithWatch reloads a file background whenever it changes on disk.
func WithWatch(on bool) Option { return func(a *AppState) { a.Watch = on } }

// WithNotifier sets the desktop notifier used after export and copy.
func WithNotifier(n *notify.Notifier) Option { return func(a *AppState) { a.Notifier = n } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New creates an AppState with the provided options.
func New(opts ...Option) *AppState {
	a := &AppState{
		Output:    "emojiart.png",
		EmojiSize: drop.DefaultEmojiSize,
	}
	for _, o := range opts {
		o(a)
	}
	if a.Doc == nil {
		a.Doc = document.New()
	}
	if a.Palette.Len() == 0 {
		a.Palette = palette.Resolve("")
	}
	if a.Theme == nil {
		a.Theme = theme.Default()
	}
	return a
}

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
	})
}

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() { driver.Main(a.Main) }

// editor is the state owned by the event loop.
type editor struct {
	app     *AppState
	ctx     context.Context
	canvas  *canvas.Canvas
	strip   *palette.Strip
	handler *drop.Handler
	gesture gesture.Classifier

	width, height int
	layout        layout
	target        region
	lastPointer   geom.Point
	hasPointer    bool
	hoverShortcut int

	message      string
	messageUntil time.Time
	quit         bool

	readText  drop.TextReader
	readImage drop.ImageReader
	// pasteDir holds clipboard images spilled by paste; close removes it.
	pasteDir string

	actions        map[string]func()
	keyboardAction map[KeyShortcut]string
}

func (a *AppState) newEditor(ctx context.Context) *editor {
	ed := &editor{
		app:           a,
		ctx:           ctx,
		canvas:        canvas.New(a.Doc),
		strip:         palette.NewStrip(a.Palette),
		handler:       &drop.Handler{EmojiSize: a.EmojiSize},
		hoverShortcut: -1,
		readText:      clipboard.ReadText,
		readImage:     clipboard.ReadImage,
	}
	ed.registerActions()
	ed.resize(defaultWidth, defaultHeight)
	return ed
}

func (ed *editor) register(name string, keys KeyboardShortcuts, fn func()) {
	ed.actions[name] = fn
	if keys != nil {
		for _, sc := range keys.KeyboardShortcuts() {
			ed.keyboardAction[sc] = name
		}
	}
}

func (ed *editor) registerActions() {
	ed.actions = map[string]func(){}
	ed.keyboardAction = map[KeyShortcut]string{}

	ed.register(actionClear, shortcutList{{Code: key.CodeEscape}}, func() {
		ed.canvas.Selection.Clear()
	})
	ed.register(actionPaste, shortcutList{{Rune: 'v', Modifiers: key.ModControl}}, ed.paste)
	ed.register(actionCopy, shortcutList{{Rune: 'c', Modifiers: key.ModControl}}, ed.copy)
	ed.register(actionSave, shortcutList{{Rune: 's', Modifiers: key.ModControl}}, ed.save)
	ed.register(actionFit, shortcutList{{Rune: '0'}}, func() {
		if !ed.canvas.ZoomToFit() {
			ed.flash("no background to fit")
		}
	})
	ed.register(actionZoomIn, shortcutList{{Rune: '+'}, {Rune: '='}}, func() {
		ed.canvas.ZoomBy(zoomStep)
	})
	ed.register(actionZoomOut, shortcutList{{Rune: '-'}}, func() {
		ed.canvas.ZoomBy(1 / zoomStep)
	})
	ed.register(actionQuit, shortcutList{{Rune: 'q'}}, func() {
		ed.quit = true
	})
}

// trigger runs the named action.
func (ed *editor) trigger(action string) {
	if fn, ok := ed.actions[action]; ok {
		fn()
	}
}

// handleKey runs the action bound to a key press. It reports whether one ran.
func (ed *editor) handleKey(e key.Event) bool {
	if e.Direction != key.DirPress {
		return false
	}
	action, ok := ed.keyboardAction[shortcutFor(e)]
	if !ok {
		return false
	}
	ed.trigger(action)
	return true
}

func (ed *editor) flash(msg string) {
	ed.message = msg
	ed.messageUntil = time.Now().Add(messageDuration)
	log.Print(msg)
}

func (ed *editor) resize(width, height int) {
	ed.width, ed.height = width, height
	ed.layout = newLayout(width, height)
	ed.canvas.SetSize(geom.SizeOf(ed.layout.canvas))
	ed.strip.SetSize(geom.SizeOf(ed.layout.strip))
}

// dropAt is where pasted payloads land: the last pointer position over the
// canvas, or its centre.
func (ed *editor) dropAt() geom.Point {
	if ed.hasPointer && ed.layout.regionAt(ed.lastPointer) == regionCanvas {
		return ed.layout.toCanvas(ed.lastPointer)
	}
	return ed.canvas.Size().Center()
}

func (ed *editor) paste() {
	if ed.pasteDir == "" {
		dir, err := os.MkdirTemp("", "emojiart-paste-")
		if err != nil {
			log.Printf("paste: %v", err)
			ed.flash("paste failed")
			return
		}
		ed.pasteDir = dir
	}
	providers := []drop.Provider{
		drop.Clipboard(ed.readText),
		drop.ClipboardImage(ed.readImage, ed.pasteDir),
	}
	if ed.canvas.Drop(ed.ctx, ed.handler, providers, ed.dropAt()) {
		ed.flash("pasted")
		return
	}
	ed.flash("nothing to paste")
}

// close removes the files left behind by the session.
func (ed *editor) close() {
	if ed.pasteDir == "" {
		return
	}
	if err := os.RemoveAll(ed.pasteDir); err != nil {
		log.Printf("remove paste dir: %v", err)
	}
	ed.pasteDir = ""
}

func (ed *editor) export() (*image.RGBA, error) {
	return RenderDocument(ed.canvas.Document(), ed.canvas.View, canvas.Selection{}, ed.canvas.Size(), ed.app.Theme, ed.app.Fonts)
}

func (ed *editor) copy() {
	img, err := ed.export()
	if err != nil {
		log.Printf("copy: %v", err)
		ed.flash("copy failed")
		return
	}
	if err := clipboard.WriteImage(img); err != nil {
		log.Printf("copy: %v", err)
		ed.flash("copy failed")
		return
	}
	ed.flash("image copied to clipboard")
	ed.app.Notifier.Copy("", img)
}

func (ed *editor) save() {
	img, err := ed.export()
	if err != nil {
		log.Printf("save: %v", err)
		ed.flash("save failed")
		return
	}
	path, err := SavePNG(ed.app.Output, img)
	if err != nil {
		log.Printf("save: %v", err)
		ed.flash("save failed")
		return
	}
	ed.flash(fmt.Sprintf("saved %s", path))
	ed.app.Notifier.Export(path)
}

// route sends classified gestures to the area they began in. It reports
// whether the window needs a repaint.
func (ed *editor) route(events []gesture.Event) bool {
	repaint := false
	for _, e := range events {
		switch e.Kind {
		case gesture.KindTap, gesture.KindDragStart, gesture.KindPinchStart:
			ed.target = ed.layout.regionAt(e.Start)
		}
		switch ed.target {
		case regionStrip:
			dropped, changed := ed.strip.Handle(e)
			repaint = repaint || changed
			if dropped != nil && ed.layout.regionAt(dropped.Pos) == regionCanvas {
				ed.canvas.Drop(ed.ctx, ed.handler, dropped.Providers(), ed.layout.toCanvas(dropped.Pos))
			}
		case regionBar:
			if e.Kind == gesture.KindTap {
				shortcuts := layoutShortcuts(ed.layout.bar, ed.canvas.Transform().Zoom)
				if i := shortcutAt(shortcuts, e.Pos.Image()); i >= 0 {
					shortcuts[i].fire = ed.trigger
					shortcuts[i].Activate()
					repaint = true
				}
			}
		default:
			ce := e
			ce.Start = ed.layout.toCanvas(e.Start)
			ce.Pos = ed.layout.toCanvas(e.Pos)
			if ed.canvas.Handle(ce) {
				repaint = true
			}
		}
	}
	return repaint
}

// pointer feeds one pointer sample through the classifier.
func (ed *editor) pointer(p gesture.Pointer) bool {
	repaint := false
	if p.Kind == gesture.Press && ed.message != "" && time.Now().Before(ed.messageUntil) {
		ed.messageUntil = time.Time{}
		repaint = true
	}
	ed.lastPointer, ed.hasPointer = p.Pos, true
	if p.ID == gesture.MousePointer && ed.layout.regionAt(p.Pos) == regionBar {
		hover := shortcutAt(layoutShortcuts(ed.layout.bar, ed.canvas.Transform().Zoom), p.Pos.Image())
		if hover != ed.hoverShortcut {
			ed.hoverShortcut = hover
			repaint = true
		}
	} else if ed.hoverShortcut != -1 {
		ed.hoverShortcut = -1
		repaint = true
	}
	return ed.route(ed.gesture.Feed(p)) || repaint
}

// wheel zooms the canvas or scrolls the palette.
func (ed *editor) wheel(pos geom.Point, steps int) bool {
	if steps == 0 {
		return false
	}
	switch ed.layout.regionAt(pos) {
	case regionStrip:
		ed.strip.Wheel(steps)
		return true
	case regionCanvas:
		return ed.route(ed.gesture.Wheel(pos, steps))
	}
	return false
}

func (ed *editor) paintState() paintState {
	st := paintState{
		width:         ed.width,
		height:        ed.height,
		scene:         newScene(ed.canvas.Document(), ed.canvas.View, ed.canvas.Selection, ed.canvas.Size()),
		strip:         *ed.strip,
		message:       ed.message,
		messageUntil:  ed.messageUntil,
		hoverShortcut: ed.hoverShortcut,
	}
	if d, ok := ed.strip.Dragging(); ok {
		d.Pos = d.Pos.Add(geom.FromImage(ed.layout.strip.Min))
		st.drag = &d
	}
	return st
}

// Main runs the editor in an existing shiny screen.
func (a *AppState) Main(s screen.Screen) {
	defer a.notifyClose()
	if a.Fonts == nil {
		fonts, err := emojiview.LoadFonts("")
		if err != nil {
			log.Printf("load fonts: %v", err)
			return
		}
		a.Fonts = fonts
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ed := a.newEditor(ctx)
	defer ed.close()
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: ed.width, Height: ed.height, Title: "EmojiArt"})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer w.Release()

	revs, unsubscribe := a.Doc.Subscribe()
	defer unsubscribe()
	go func() {
		for range revs {
			w.Send(paint.Event{})
		}
	}()

	if a.Watch {
		go a.watchBackground(ctx)
	}

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan paintState, 1)
	defer close(paintCh)
	go func() {
		p := newPainter(a.Theme, a.Fonts)
		for st := range paintCh {
			fctx, fcancel := context.WithCancel(ctx)
			paintMu.Lock()
			paintCancel = fcancel
			paintMu.Unlock()
			drawFrame(fctx, s, w, p, st)
			paintMu.Lock()
			paintCancel = nil
			if fctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			fcancel()
		}
	}()
	stopPaint := func() {
		paintMu.Lock()
		if paintCancel != nil {
			paintCancel()
		}
		paintMu.Unlock()
	}

	fitPending := a.Doc.Background() != nil
	for {
		repaint := false
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				stopPaint()
				return
			}
		case size.Event:
			ed.resize(e.WidthPx, e.HeightPx)
			if fitPending {
				fitPending = !ed.canvas.ZoomToFit()
			}
			repaint = true
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			st := ed.paintState()
			select {
			case paintCh <- st:
			default:
				select {
				case <-paintCh:
				default:
				}
				paintCh <- st
			}
		case touch.Event:
			repaint = ed.pointer(gesture.FromTouch(e, time.Now()))
		case mouse.Event:
			if steps := gesture.WheelSteps(e); steps != 0 {
				repaint = ed.wheel(geom.Pt(e.X, e.Y), steps)
				break
			}
			if p, ok := gesture.FromMouse(e, time.Now()); ok {
				repaint = ed.pointer(p)
			}
		case key.Event:
			repaint = ed.handleKey(e)
		}
		if ed.quit {
			stopPaint()
			return
		}
		if repaint {
			w.Send(paint.Event{})
		}
	}
}

// watchBackground keeps a watch on the file behind the current background,
// moving it whenever a drop replaces the background.
func (a *AppState) watchBackground(ctx context.Context) {
	revs, unsubscribe := a.Doc.Subscribe()
	defer unsubscribe()

	var current string
	var stop context.CancelFunc = func() {}
	defer func() { stop() }()

	check := func() {
		u := a.Doc.BackgroundURL()
		path := ""
		if u != nil {
			if p, err := document.FilePath(u); err == nil {
				path = p
			}
		}
		if path == current {
			return
		}
		stop()
		current = path
		stop = func() {}
		if path == "" {
			return
		}
		wctx, cancel := context.WithCancel(ctx)
		stop = cancel
		go func() {
			err := watch.File(wctx, path, watch.DefaultDebounce, func(string) {
				if err := a.Doc.SetBackgroundURL(wctx, u); err != nil {
					log.Printf("reload background: %v", err)
				}
			})
			if err != nil {
				log.Printf("watch %s: %v", path, err)
			}
		}()
	}

	check()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-revs:
			if !ok {
				return
			}
			check()
		}
	}
}
