package infra

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxImageBytes caps a single product image upload.
const MaxImageBytes = 5 << 20

var allowedImageExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true}

// ErrUnsupportedImage is returned for files whose extension is not an image.
var ErrUnsupportedImage = errors.New("unsupported image type")

// ErrImageTooLarge is returned when an upload exceeds MaxImageBytes.
var ErrImageTooLarge = errors.New("image too large")

// MediaStore keeps product images on the local disk under root, at
// products/<product-id>/<random>.<ext>. Returned paths are relative to root
// and use forward slashes so they can be joined onto MEDIA_BASE_URL.
type MediaStore struct {
	root string
}

func NewMediaStore(root string) *MediaStore {
	return &MediaStore{root: root}
}

// Root is the directory served under MEDIA_BASE_URL.
func (m *MediaStore) Root() string { return m.root }

func (m *MediaStore) Save(productID uuid.UUID, filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedImageExt[ext] {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedImage, ext)
	}

	rel := filepath.ToSlash(filepath.Join("products", productID.String(), uuid.NewString()+ext))
	abs := filepath.Join(m.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", fmt.Errorf("media: mkdir: %w", err)
	}

	f, err := os.Create(abs)
	if err != nil {
		return "", fmt.Errorf("media: create: %w", err)
	}
	n, err := io.Copy(f, io.LimitReader(r, MaxImageBytes+1))
	closeErr := f.Close()
	if err == nil && n > MaxImageBytes {
		err = ErrImageTooLarge
	}
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(abs)
		return "", err
	}
	return rel, nil
}

// Remove deletes a stored image. Missing files are not an error.
func (m *MediaStore) Remove(path string) error {
	clean := filepath.Clean(filepath.FromSlash(path))
	if filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return fmt.Errorf("media: refusing path %q", path)
	}
	err := os.Remove(filepath.Join(m.root, clean))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
