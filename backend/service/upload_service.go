package service

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"
	"time"

	"file-server/backend/common"
	"file-server/backend/library/storage"
	"file-server/backend/model"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// sniffLen is how many leading bytes are inspected when a part carries no
// Content-Type.
const sniffLen = 3072

// UnknownSize marks an upload whose size was not declared by the client.
const UnknownSize int64 = -1

// ErrNoFile is returned when a request holds no file part.
var ErrNoFile = errors.New("no file uploaded")

// ValidationError carries the human-readable problems of a rejected file.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "file validation failed: " + strings.Join(e.Errors, "; ")
}

// Index keeps metadata about stored files. It is optional.
type Index interface {
	Record(ctx context.Context, record *model.UploadRecord) error
	Records(ctx context.Context) (map[string]*model.UploadRecord, error)
	Forget(ctx context.Context, category, storedFilename string) error
}

// Upload is a single incoming file.
type Upload struct {
	Filename     string
	MimeType     string
	DeclaredSize int64
	Content      io.Reader
}

type UploadService struct {
	store     *storage.Store
	validator *storage.Validator
	index     Index
	now       func() time.Time
}

// NewUploadService wires the store and validator; index may be nil.
func NewUploadService(store *storage.Store, validator *storage.Validator, index Index) *UploadService {
	return &UploadService{
		store:     store,
		validator: validator,
		index:     index,
		now:       time.Now,
	}
}

func (s *UploadService) Validator() *storage.Validator {
	return s.validator
}

func (s *UploadService) IndexEnabled() bool {
	return s.index != nil
}

// SaveSingle validates the filename and, when the client declared one, the
// size before writing the file.
func (s *UploadService) SaveSingle(ctx context.Context, up Upload) (*model.FileInfo, error) {
	var result storage.ValidationResult
	if up.DeclaredSize >= 0 {
		result = s.validator.ValidateWithSize(up.Filename, up.DeclaredSize)
	} else {
		result = s.validator.Validate(up.Filename)
	}
	return s.save(ctx, up, result)
}

// SaveBatchItem validates the filename only; batch files are bounded by the
// store's per-file cap alone.
func (s *UploadService) SaveBatchItem(ctx context.Context, up Upload) (*model.FileInfo, error) {
	return s.save(ctx, up, s.validator.Validate(up.Filename))
}

func (s *UploadService) save(ctx context.Context, up Upload, result storage.ValidationResult) (*model.FileInfo, error) {
	if !result.Valid {
		return nil, &ValidationError{Errors: result.Errors}
	}

	mimeType, content := detectMIME(up.MimeType, up.Content)
	category := storage.ClassifyMIME(mimeType)
	storedFilename := uuid.NewString() + storage.StoredExtension(up.Filename)

	entry, err := s.store.Save(ctx, category, storedFilename, content)
	if errors.Is(err, storage.ErrFileTooLarge) {
		return nil, &ValidationError{Errors: []string{s.validator.SizeLimitMessage()}}
	}
	if err != nil {
		return nil, fmt.Errorf("save upload %q: %w", up.Filename, err)
	}

	info := &model.FileInfo{
		ID:               uuid.NewString(),
		OriginalFilename: up.Filename,
		StoredFilename:   storedFilename,
		MimeType:         mimeType,
		Size:             entry.Size,
		FormattedSize:    storage.FormatSize(entry.Size),
		Category:         string(category),
		UploadDate:       common.FormatTime(s.now()),
		URL:              storage.URL(category, storedFilename),
	}

	if s.index != nil {
		record := &model.UploadRecord{
			FileID:           info.ID,
			Category:         info.Category,
			StoredFilename:   info.StoredFilename,
			OriginalFilename: info.OriginalFilename,
			MimeType:         info.MimeType,
			Size:             info.Size,
		}
		if err := s.index.Record(ctx, record); err != nil {
			common.SysError(fmt.Sprintf("Failed to index upload %s: %v", record.Location(), err))
		}
	}
	return info, nil
}

// List returns every stored file, newest first. Unreadable categories are
// logged and skipped.
func (s *UploadService) List(ctx context.Context) []*model.FileInfo {
	entries, failures := s.store.List(ctx)
	for category, err := range failures {
		common.SysError(fmt.Sprintf("Error reading %s directory: %v", category, err))
	}

	var records map[string]*model.UploadRecord
	if s.index != nil {
		var err error
		records, err = s.index.Records(ctx)
		if err != nil {
			common.SysError(fmt.Sprintf("Failed to load upload index: %v", err))
		}
	}

	files := make([]*model.FileInfo, 0, len(entries))
	for _, entry := range entries {
		info := &model.FileInfo{
			ID:               uuid.NewString(),
			OriginalFilename: entry.Name,
			StoredFilename:   entry.Name,
			Size:             entry.Size,
			FormattedSize:    storage.FormatSize(entry.Size),
			Category:         string(entry.Category),
			UploadDate:       common.FormatTime(entry.ModTime),
			URL:              storage.URL(entry.Category, entry.Name),
		}
		if record, ok := records[model.RecordLocation(string(entry.Category), entry.Name)]; ok {
			info.ID = record.FileID
			info.OriginalFilename = record.OriginalFilename
			info.MimeType = record.MimeType
		}
		files = append(files, info)
	}
	return files
}

// Delete removes a stored file. Not-found is reported like any other
// failure.
func (s *UploadService) Delete(ctx context.Context, category string, filename string) error {
	c, ok := storage.ParseCategory(category)
	if !ok {
		return storage.ErrInvalidCategory
	}
	if err := s.store.Delete(c, filename); err != nil {
		return err
	}
	if s.index != nil {
		if err := s.index.Forget(ctx, category, filename); err != nil {
			common.SysError(fmt.Sprintf("Failed to remove index entry %s: %v", model.RecordLocation(category, filename), err))
		}
	}
	return nil
}

// detectMIME keeps the media type the client declared, without parameters.
// A missing or unparsable type is sniffed from the leading bytes; the
// returned reader still yields the full content.
func detectMIME(declared string, r io.Reader) (string, io.Reader) {
	if declared != "" {
		if mediaType, _, err := mime.ParseMediaType(declared); err == nil {
			return mediaType, r
		}
	}
	br := bufio.NewReaderSize(r, sniffLen)
	head, _ := br.Peek(sniffLen)
	return mimetype.Detect(head).String(), br
}
