//go:build ((linux || freebsd || openbsd || netbsd || dragonfly || darwin) && cgo) || windows

package clipboard

import (
	"errors"
	"os"
	"runtime"
	"sync"

	"golang.design/x/clipboard"
)

var (
	initOnce     sync.Once
	initErr      error
	errNoDisplay = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")
)

type designBackend struct{}

func ensureInit() (backend, error) {
	initOnce.Do(func() {
		if needsDisplay() && os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
			initErr = errNoDisplay
			return
		}
		initErr = clipboard.Init()
	})
	if initErr != nil {
		return nil, initErr
	}
	return designBackend{}, nil
}

func needsDisplay() bool {
	return runtime.GOOS != "darwin" && runtime.GOOS != "windows"
}

func designFormat(f format) clipboard.Format {
	if f == formatPNG {
		return clipboard.FmtImage
	}
	return clipboard.FmtText
}

func (designBackend) read(f format) ([]byte, error) {
	return clipboard.Read(designFormat(f)), nil
}

func (designBackend) write(f format, data []byte) error {
	clipboard.Write(designFormat(f), data)
	return nil
}
