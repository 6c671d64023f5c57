package storage

import (
	"fmt"
	"slices"
	"strings"
)

// MaxFileSize is the per-file ceiling, 10 MiB.
const MaxFileSize int64 = 10 * 1024 * 1024

// AllowedExtensions is the default extension allow-list.
var AllowedExtensions = []string{
	".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg",
	".pdf", ".doc", ".docx", ".txt", ".csv", ".xlsx",
	".mp4", ".avi", ".mov", ".zip", ".rar",
}

const msgNoFilename = "No filename provided"

// ValidationResult is the outcome of a single validation call.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

type Validator struct {
	MaxFileSize       int64
	AllowedExtensions []string
}

func NewValidator() *Validator {
	return &Validator{
		MaxFileSize:       MaxFileSize,
		AllowedExtensions: slices.Clone(AllowedExtensions),
	}
}

// Validate checks the filename only. Batch uploads go through here, so their
// size is not checked by the validator.
func (v *Validator) Validate(filename string) ValidationResult {
	return v.validate(filename, nil)
}

// ValidateWithSize checks the filename and the byte size.
func (v *Validator) ValidateWithSize(filename string, size int64) ValidationResult {
	return v.validate(filename, &size)
}

func (v *Validator) validate(filename string, size *int64) ValidationResult {
	result := ValidationResult{Valid: true, Errors: []string{}}

	if strings.TrimSpace(filename) == "" {
		result.Valid = false
		result.Errors = append(result.Errors, msgNoFilename)
		return result
	}

	ext := Extension(filename)
	if !slices.Contains(v.AllowedExtensions, ext) {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("File extension '%s' not allowed", ext))
	}

	if size != nil && *size > v.MaxFileSize {
		result.Valid = false
		result.Errors = append(result.Errors, v.SizeLimitMessage())
	}

	return result
}

// SizeLimitMessage is the error reported for oversized files.
func (v *Validator) SizeLimitMessage() string {
	return fmt.Sprintf("File size exceeds limit of %dMB", v.MaxFileSize/(1024*1024))
}

// Extension returns the lowercased suffix starting at the last dot. A name
// without a dot yields the whole lowercased name.
func Extension(filename string) string {
	lower := strings.ToLower(filename)
	idx := strings.LastIndex(lower, ".")
	if idx < 0 {
		return lower
	}
	return lower[idx:]
}

// StoredExtension is the suffix kept on disk. It keeps the original case.
func StoredExtension(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return filename
	}
	return filename[idx:]
}
