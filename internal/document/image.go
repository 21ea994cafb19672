package document

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/mitchellh/go-homedir"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	// ErrUnsupportedScheme is returned for URLs that do not point at the
	// local file system.
	ErrUnsupportedScheme = errors.New("unsupported URL scheme")
	// ErrNotImage is returned when a file's contents are not a known image
	// format.
	ErrNotImage = errors.New("not an image")
)

// sniffLen is the number of header bytes filetype needs to match every
// format it knows about.
const sniffLen = 261

// ParseLocation turns a file URL, an absolute or relative path, or a path
// starting with ~ into a file URL.
func ParseLocation(s string) (*url.URL, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty location")
	}
	if u, err := url.Parse(s); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		if u.Scheme != "file" {
			return nil, fmt.Errorf("%s: %w", u.Scheme, ErrUnsupportedScheme)
		}
		return u, nil
	}
	path, err := homedir.Expand(s)
	if err != nil {
		return nil, fmt.Errorf("expand %s: %w", s, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}, nil
}

// FilePath returns the local path referenced by a file URL.
func FilePath(u *url.URL) (string, error) {
	if u == nil {
		return "", fmt.Errorf("nil URL")
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("%s: %w", u.Scheme, ErrUnsupportedScheme)
	}
	path := u.Path
	if path == "" {
		path = u.Opaque
	}
	return homedir.Expand(filepath.FromSlash(path))
}

// IsImageFile reports whether the file at path starts with the magic number
// of a known image format.
func IsImageFile(path string) bool {
	head, err := readHead(path)
	if err != nil {
		return false
	}
	return filetype.IsImage(head)
}

// LoadImage decodes the image referenced by a file URL.
func LoadImage(ctx context.Context, u *url.URL) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := FilePath(u)
	if err != nil {
		return nil, err
	}
	head, err := readHead(path)
	if err != nil {
		return nil, fmt.Errorf("load background %s: %w", path, err)
	}
	if !filetype.IsImage(head) {
		return nil, fmt.Errorf("load background %s: %w", path, ErrNotImage)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load background %s: %w", path, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode background %s: %w", path, err)
	}
	return img, nil
}

func readHead(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return head[:n], nil
}
