package model

// FileInfo is the metadata returned for a stored file.
type FileInfo struct {
	ID               string `json:"id"`
	OriginalFilename string `json:"originalFilename"`
	StoredFilename   string `json:"storedFilename"`
	MimeType         string `json:"mimetype,omitempty"`
	Size             int64  `json:"size"`
	FormattedSize    string `json:"formattedSize"`
	Category         string `json:"category"`
	UploadDate       string `json:"uploadDate"`
	URL              string `json:"url"`
}

// UploadResult is the outcome of one file of a batch upload.
type UploadResult struct {
	Filename string    `json:"filename,omitempty"`
	Success  bool      `json:"success"`
	File     *FileInfo `json:"file,omitempty"`
	Errors   []string  `json:"errors,omitempty"`
}

// BatchUploadResponse aggregates a batch upload.
type BatchUploadResponse struct {
	TotalFiles int             `json:"totalFiles"`
	Successful int             `json:"successful"`
	Failed     int             `json:"failed"`
	UploadTime string          `json:"uploadTime"`
	Results    []*UploadResult `json:"results"`
}
