package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrFileTooLarge is returned by Save when the stream is longer than the
// store's per-file cap.
var ErrFileTooLarge = errors.New("file too large")

// Entry describes a file found on disk.
type Entry struct {
	Category Category
	Name     string
	Size     int64
	// ModTime doubles as the creation time: stored files are never rewritten.
	ModTime time.Time
}

// Store reads and writes files below a Layout.
type Store struct {
	layout      *Layout
	maxFileSize int64
}

// NewStore returns a store capping every written file at maxFileSize bytes.
// A cap of zero or less disables the check.
func NewStore(layout *Layout, maxFileSize int64) *Store {
	return &Store{layout: layout, maxFileSize: maxFileSize}
}

func (s *Store) Layout() *Layout {
	return s.layout
}

// Save streams r into category/name. The file must not exist yet.
// A stream over the cap is aborted and its partial file removed; any other
// copy failure leaves the partial file in place.
func (s *Store) Save(ctx context.Context, category Category, name string, r io.Reader) (Entry, error) {
	path, err := s.layout.Path(category, name)
	if err != nil {
		return Entry{}, err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return Entry{}, fmt.Errorf("create %s: %w", path, err)
	}

	src := r
	if s.maxFileSize > 0 {
		src = io.LimitReader(r, s.maxFileSize+1)
	}
	written, copyErr := io.Copy(f, &contextReader{ctx: ctx, r: src})
	closeErr := f.Close()

	if copyErr != nil {
		return Entry{}, fmt.Errorf("write %s: %w", path, copyErr)
	}
	if closeErr != nil {
		return Entry{}, fmt.Errorf("close %s: %w", path, closeErr)
	}
	if s.maxFileSize > 0 && written > s.maxFileSize {
		_ = os.Remove(path)
		return Entry{}, ErrFileTooLarge
	}

	info, err := os.Stat(path)
	if err != nil {
		return Entry{}, fmt.Errorf("stat %s: %w", path, err)
	}
	return Entry{Category: category, Name: name, Size: info.Size(), ModTime: info.ModTime()}, nil
}

// List returns every regular file of every category, newest first. Files
// with equal times keep category order, then name order.
// Categories that cannot be read are reported in the returned map and
// contribute no entries.
func (s *Store) List(ctx context.Context) ([]Entry, map[Category]error) {
	var (
		found = make([][]Entry, len(Categories))
		errs  = make([]error, len(Categories))
		group errgroup.Group
	)

	for i, category := range Categories {
		group.Go(func() error {
			found[i], errs[i] = s.listCategory(ctx, category)
			return nil
		})
	}
	_ = group.Wait()

	var entries []Entry
	failures := make(map[Category]error)
	for i, category := range Categories {
		if errs[i] != nil {
			failures[category] = errs[i]
			continue
		}
		entries = append(entries, found[i]...)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].ModTime.After(entries[j].ModTime)
	})
	return entries, failures
}

func (s *Store) listCategory(ctx context.Context, category Category) ([]Entry, error) {
	dir, err := s.layout.Dir(category)
	if err != nil {
		return nil, err
	}
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s directory: %w", category, err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !de.Type().IsRegular() {
			continue
		}
		info, err := de.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s/%s: %w", category, de.Name(), err)
		}
		entries = append(entries, Entry{
			Category: category,
			Name:     de.Name(),
			Size:     info.Size(),
			ModTime:  info.ModTime(),
		})
	}
	return entries, nil
}

// Delete removes category/name. A missing file is an error like any other.
func (s *Store) Delete(category Category, name string) error {
	path, err := s.layout.Path(category, name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *contextReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	return cr.r.Read(p)
}
