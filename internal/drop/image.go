package drop

import (
	"fmt"
	"image"
	"image/png"
	"net/url"
	"os"
	"path/filepath"
)

// ImageReader is the clipboard surface used by ClipboardImage.
type ImageReader func() (image.Image, error)

// ClipboardImage offers a clipboard image as a URL. The image is written to a
// PNG file in dir, or the system temporary directory when dir is empty, the
// first time the URL is requested.
func ClipboardImage(read ImageReader, dir string) Provider {
	return &imageProvider{read: read, dir: dir}
}

type imageProvider struct {
	read ImageReader
	dir  string
	u    *url.URL
	err  error
}

func (p *imageProvider) URL() (*url.URL, error) {
	if p.u == nil && p.err == nil {
		p.u, p.err = p.spill()
	}
	if p.err != nil {
		return nil, p.err
	}
	u := *p.u
	return &u, nil
}

func (p *imageProvider) Text() (string, error) { return "", ErrNotOffered }

func (p *imageProvider) spill() (*url.URL, error) {
	img, err := p.read()
	if err != nil {
		return nil, err
	}
	f, err := os.CreateTemp(p.dir, "emojiart-paste-*.png")
	if err != nil {
		return nil, fmt.Errorf("store pasted image: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, fmt.Errorf("store pasted image: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(f.Name())
	if err != nil {
		return nil, err
	}
	return &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}, nil
}
