package model

import (
	"context"
	"fmt"

	"github.com/burugo/thing"
)

// UploadRecord remembers what the filesystem cannot: the client's filename,
// the MIME type and the id handed out when the file was uploaded.
type UploadRecord struct {
	thing.BaseModel
	FileID           string `db:"file_id,index" json:"file_id"`
	Category         string `db:"category,index:idx_upload_location" json:"category"`
	StoredFilename   string `db:"stored_filename,index:idx_upload_location" json:"stored_filename"`
	OriginalFilename string `db:"original_filename" json:"original_filename"`
	MimeType         string `db:"mime_type" json:"mime_type"`
	Size             int64  `db:"size" json:"size"`
}

// TableName sets the table name for the UploadRecord model
func (r *UploadRecord) TableName() string {
	return "upload_records"
}

// Location is the key of a record: category plus stored filename.
func (r *UploadRecord) Location() string {
	return RecordLocation(r.Category, r.StoredFilename)
}

func RecordLocation(category, storedFilename string) string {
	return category + "/" + storedFilename
}

var UploadRecordDB *thing.Thing[*UploadRecord]

// UploadRecordInit initializes the UploadRecordDB
func UploadRecordInit() error {
	var err error
	UploadRecordDB, err = thing.Use[*UploadRecord]()
	if err != nil {
		return fmt.Errorf("failed to initialize UploadRecordDB: %w", err)
	}
	return nil
}

// UploadIndex stores upload records through the thing ORM.
type UploadIndex struct{}

func NewUploadIndex() *UploadIndex {
	return &UploadIndex{}
}

// Record saves the metadata of a freshly stored file.
func (UploadIndex) Record(_ context.Context, record *UploadRecord) error {
	if err := UploadRecordDB.Save(record); err != nil {
		return fmt.Errorf("failed to save upload record %s: %w", record.Location(), err)
	}
	return nil
}

// Records returns every known record keyed by its location.
func (UploadIndex) Records(_ context.Context) (map[string]*UploadRecord, error) {
	records, err := UploadRecordDB.All()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch upload records: %w", err)
	}
	byLocation := make(map[string]*UploadRecord, len(records))
	for _, record := range records {
		byLocation[record.Location()] = record
	}
	return byLocation, nil
}

// Forget removes the records of category/storedFilename. Missing records are
// not an error.
func (UploadIndex) Forget(_ context.Context, category, storedFilename string) error {
	records, err := UploadRecordDB.Where("category = ? AND stored_filename = ?", category, storedFilename).All()
	if err != nil {
		return fmt.Errorf("failed to query upload record %s: %w", RecordLocation(category, storedFilename), err)
	}
	for _, record := range records {
		if err := UploadRecordDB.Delete(record); err != nil {
			return fmt.Errorf("failed to delete upload record %s: %w", record.Location(), err)
		}
	}
	return nil
}
