package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Category is the bucket a stored file lives in. It is encoded only by the
// directory the file sits in.
type Category string

const (
	CategoryImages    Category = "images"
	CategoryDocuments Category = "documents"
	CategoryOthers    Category = "others"
)

// Categories lists every category in listing order.
var Categories = []Category{CategoryImages, CategoryDocuments, CategoryOthers}

var (
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidFilename = errors.New("invalid filename")
)

// ParseCategory returns the category named by s.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// Layout resolves the upload root and its category directories.
type Layout struct {
	Root string
}

func NewLayout(root string) (*Layout, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve upload root %s: %w", root, err)
	}
	return &Layout{Root: abs}, nil
}

// Dir returns the directory holding files of the given category.
func (l *Layout) Dir(category Category) (string, error) {
	if _, ok := ParseCategory(string(category)); !ok {
		return "", ErrInvalidCategory
	}
	return filepath.Join(l.Root, string(category)), nil
}

// Path returns the on-disk path of filename inside category. Names that would
// resolve outside the category directory are rejected.
func (l *Layout) Path(category Category, filename string) (string, error) {
	dir, err := l.Dir(category)
	if err != nil {
		return "", err
	}
	if !IsSafeFilename(filename) {
		return "", ErrInvalidFilename
	}
	return filepath.Join(dir, filename), nil
}

// EnsureDirs creates the upload root and all category directories.
func (l *Layout) EnsureDirs() error {
	if err := os.MkdirAll(l.Root, 0o755); err != nil {
		return fmt.Errorf("create upload root %s: %w", l.Root, err)
	}
	for _, c := range Categories {
		dir := filepath.Join(l.Root, string(c))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create category directory %s: %w", dir, err)
		}
	}
	return nil
}

// URL is the public path under which a stored file is served.
func URL(category Category, storedFilename string) string {
	return "/uploads/" + string(category) + "/" + storedFilename
}

// IsSafeFilename reports whether name is a single path element.
func IsSafeFilename(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return false
	}
	return filepath.Base(name) == name
}
