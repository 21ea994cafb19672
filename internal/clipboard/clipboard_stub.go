//go:build !linux && !freebsd && !openbsd && !netbsd && !dragonfly && !windows && !(darwin && cgo)

package clipboard

import "errors"

var errUnsupported = errors.New("clipboard is not supported on this platform")

func ensureInit() (backend, error) {
	return nil, errUnsupported
}
