// Package clipboard moves text and images between the editor and the system
// clipboard.
package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
)

// ErrEmpty is returned when the clipboard has nothing in the requested format.
var ErrEmpty = errors.New("clipboard is empty")

type format int

const (
	formatText format = iota
	formatPNG
)

func (f format) String() string {
	if f == formatPNG {
		return "image"
	}
	return "text"
}

// backend is implemented once per platform.
type backend interface {
	read(f format) ([]byte, error)
	write(f format, data []byte) error
}

// WriteImage encodes img as PNG and publishes it to the clipboard.
func WriteImage(img image.Image) error {
	b, err := ensureInit()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}
	return b.write(formatPNG, buf.Bytes())
}

// ReadImage decodes PNG data from the clipboard.
func ReadImage() (image.Image, error) {
	data, err := read(formatPNG)
	if err != nil {
		return nil, err
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode clipboard image: %w", err)
	}
	return img, nil
}

// WriteText publishes UTF-8 text.
func WriteText(text string) error {
	b, err := ensureInit()
	if err != nil {
		return err
	}
	return b.write(formatText, []byte(text))
}

// ReadText returns the clipboard's UTF-8 text.
func ReadText() (string, error) {
	data, err := read(formatText)
	if err != nil {
		return "", err
	}
	// Some applications include a trailing NUL in STRING responses.
	return string(bytes.TrimRight(data, "\x00")), nil
}

func read(f format) ([]byte, error) {
	b, err := ensureInit()
	if err != nil {
		return nil, err
	}
	data, err := b.read(f)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: %w", f, ErrEmpty)
	}
	return data, nil
}
