package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"file-server/backend/api/middleware"
	"file-server/backend/common"
	"file-server/backend/library/storage"
	"file-server/backend/model"
	"file-server/backend/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type errorResponse struct {
	Success bool     `json:"success"`
	Error   string   `json:"error"`
	Details []string `json:"details"`
}

type singleUploadResponse struct {
	Success bool           `json:"success"`
	File    model.FileInfo `json:"file"`
}

type listResponse struct {
	Files []model.FileInfo `json:"files"`
}

type filePart struct {
	field       string
	name        string
	contentType string
	content     []byte
}

func setupFileRouter(t *testing.T, bodyLimit int64) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	layout, err := storage.NewLayout(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, layout.EnsureDirs())
	svc := service.NewUploadService(storage.NewStore(layout, storage.MaxFileSize), storage.NewValidator(), nil)
	files := NewFileHandler(svc)

	router := gin.New()
	router.Use(middleware.LangMiddleware())
	router.GET("/", Hello)
	router.GET("/hello", Greeting)
	api := router.Group("/api")
	api.GET("/status", files.GetStatus)
	upload := api.Group("/upload")
	if bodyLimit > 0 {
		upload.Use(middleware.BodyLimit(bodyLimit))
	}
	upload.POST("/single", files.UploadSingle)
	upload.POST("/multiple", files.UploadMultiple)
	api.GET("/files", files.ListFiles)
	api.DELETE("/files/:category/:filename", files.DeleteFile)
	return router, layout.Root
}

func newMultipartRequest(t *testing.T, path string, fields map[string]string, parts ...filePart) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, p := range parts {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, p.field, p.name))
		if p.contentType != "" {
			h.Set("Content-Type", p.contentType)
		}
		pw, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = pw.Write(p.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func decodeJSON(t *testing.T, resp *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), v), resp.Body.String())
}

func countFiles(t *testing.T, root string) int {
	t.Helper()
	n := 0
	for _, c := range storage.Categories {
		entries, err := os.ReadDir(filepath.Join(root, string(c)))
		require.NoError(t, err)
		n += len(entries)
	}
	return n
}

func TestUploadSingle_Success(t *testing.T) {
	router, root := setupFileRouter(t, 0)

	req := newMultipartRequest(t, "/api/upload/single", map[string]string{"note": "ignored"},
		filePart{field: "file", name: "report.pdf", contentType: "application/pdf", content: []byte("%PDF-1.4 body")})
	resp := serve(router, req)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var body singleUploadResponse
	decodeJSON(t, resp, &body)
	assert.True(t, body.Success)
	assert.Equal(t, "report.pdf", body.File.OriginalFilename)
	assert.Equal(t, "documents", body.File.Category)
	assert.Equal(t, "application/pdf", body.File.MimeType)
	assert.Equal(t, int64(13), body.File.Size)
	assert.Equal(t, "13 Bytes", body.File.FormattedSize)
	assert.Equal(t, "/uploads/documents/"+body.File.StoredFilename, body.File.URL)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}Z$`, body.File.UploadDate)

	data, err := os.ReadFile(filepath.Join(root, "documents", body.File.StoredFilename))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 body", string(data))
}

func TestUploadSingle_ContentTypeParameters(t *testing.T) {
	router, _ := setupFileRouter(t, 0)

	req := newMultipartRequest(t, "/api/upload/single", nil,
		filePart{field: "file", name: "bundle.zip", contentType: "application/octet-stream; name=report.pdf", content: []byte("PK")})
	resp := serve(router, req)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var body singleUploadResponse
	decodeJSON(t, resp, &body)
	assert.Equal(t, "others", body.File.Category)
	assert.Equal(t, "application/octet-stream", body.File.MimeType)

	req = newMultipartRequest(t, "/api/upload/single", nil,
		filePart{field: "file", name: "scan.png", contentType: "image/png; charset=binary", content: []byte("png")})
	resp = serve(router, req)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	decodeJSON(t, resp, &body)
	assert.Equal(t, "images", body.File.Category)
	assert.Equal(t, "image/png", body.File.MimeType)
}

func TestUploadSingle_NoFile(t *testing.T) {
	router, _ := setupFileRouter(t, 0)

	resp := serve(router, newMultipartRequest(t, "/api/upload/single", map[string]string{"only": "field"}))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	var body errorResponse
	decodeJSON(t, resp, &body)
	assert.False(t, body.Success)
	assert.Equal(t, "No file uploaded", body.Error)

	req := httptest.NewRequest(http.MethodPost, "/api/upload/single", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	resp = serve(router, req)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestUploadSingle_RejectedExtension(t *testing.T) {
	router, root := setupFileRouter(t, 0)

	req := newMultipartRequest(t, "/api/upload/single", nil,
		filePart{field: "file", name: "setup.exe", contentType: "application/octet-stream", content: []byte("MZ")})
	resp := serve(router, req)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	var body errorResponse
	decodeJSON(t, resp, &body)
	assert.Equal(t, "File validation failed", body.Error)
	assert.Equal(t, []string{"File extension '.exe' not allowed"}, body.Details)
	assert.Zero(t, countFiles(t, root))
}

func TestUploadSingle_OverSizeLimit(t *testing.T) {
	router, root := setupFileRouter(t, 0)

	req := newMultipartRequest(t, "/api/upload/single", nil,
		filePart{field: "file", name: "big.zip", contentType: "application/zip", content: make([]byte, storage.MaxFileSize+1)})
	resp := serve(router, req)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	var body errorResponse
	decodeJSON(t, resp, &body)
	assert.Equal(t, []string{"File size exceeds limit of 10MB"}, body.Details)
	assert.Zero(t, countFiles(t, root))
}

func TestUploadSingle_BodyTooLarge(t *testing.T) {
	router, _ := setupFileRouter(t, 512)

	req := newMultipartRequest(t, "/api/upload/single", nil,
		filePart{field: "file", name: "a.txt", contentType: "text/plain", content: bytes.Repeat([]byte("x"), 4096)})
	resp := serve(router, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.Code)
}

func TestUploadSingle_IdenticalNames(t *testing.T) {
	router, root := setupFileRouter(t, 0)

	var stored []string
	for i := 0; i < 2; i++ {
		req := newMultipartRequest(t, "/api/upload/single", nil,
			filePart{field: "file", name: "same.txt", contentType: "text/plain", content: []byte("same")})
		resp := serve(router, req)
		require.Equal(t, http.StatusOK, resp.Code)
		var body singleUploadResponse
		decodeJSON(t, resp, &body)
		stored = append(stored, body.File.StoredFilename)
	}
	assert.NotEqual(t, stored[0], stored[1])
	assert.Equal(t, 2, countFiles(t, root))
}

func TestUploadMultiple_MixedResults(t *testing.T) {
	router, root := setupFileRouter(t, 0)

	req := newMultipartRequest(t, "/api/upload/multiple", map[string]string{"album": "trip"},
		filePart{field: "files", name: "photo.jpg", contentType: "image/jpeg", content: []byte("jpeg")},
		filePart{field: "files", name: "virus.bat", contentType: "application/x-bat", content: []byte("echo")},
		filePart{field: "files", name: "notes.txt", contentType: "text/plain", content: []byte("hi")},
	)
	resp := serve(router, req)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var body model.BatchUploadResponse
	decodeJSON(t, resp, &body)
	assert.Equal(t, 3, body.TotalFiles)
	assert.Equal(t, 2, body.Successful)
	assert.Equal(t, 1, body.Failed)
	require.Len(t, body.Results, 3)

	assert.True(t, body.Results[0].Success)
	assert.Equal(t, "images", body.Results[0].File.Category)
	assert.False(t, body.Results[1].Success)
	assert.Equal(t, "virus.bat", body.Results[1].Filename)
	assert.Equal(t, []string{"File extension '.bat' not allowed"}, body.Results[1].Errors)
	assert.True(t, body.Results[2].Success)
	assert.Equal(t, "documents", body.Results[2].File.Category)

	assert.Equal(t, 2, countFiles(t, root))
}

func TestUploadMultiple_Empty(t *testing.T) {
	router, _ := setupFileRouter(t, 0)

	resp := serve(router, newMultipartRequest(t, "/api/upload/multiple", map[string]string{"a": "b"}))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"results":[]`)
	assert.Contains(t, resp.Body.String(), `"totalFiles":0`)
}

func TestUploadMultiple_NotMultipart(t *testing.T) {
	router, root := setupFileRouter(t, 0)

	req := httptest.NewRequest(http.MethodPost, "/api/upload/multiple", bytes.NewBufferString(`{"files":[]}`))
	req.Header.Set("Content-Type", "application/json")
	resp := serve(router, req)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	var body errorResponse
	decodeJSON(t, resp, &body)
	assert.False(t, body.Success)
	assert.Equal(t, "No file uploaded", body.Error)
	assert.Zero(t, countFiles(t, root))
}

func TestUploadMultiple_OverSizeLimitFailsOnlyThatFile(t *testing.T) {
	router, root := setupFileRouter(t, 0)

	req := newMultipartRequest(t, "/api/upload/multiple", nil,
		filePart{field: "files", name: "big.zip", contentType: "application/zip", content: make([]byte, storage.MaxFileSize+1)},
		filePart{field: "files", name: "ok.txt", contentType: "text/plain", content: []byte("ok")},
	)
	resp := serve(router, req)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var body model.BatchUploadResponse
	decodeJSON(t, resp, &body)
	assert.Equal(t, 2, body.TotalFiles)
	assert.Equal(t, 1, body.Successful)
	assert.Equal(t, 1, body.Failed)
	require.Len(t, body.Results, 2)

	assert.False(t, body.Results[0].Success)
	assert.Equal(t, "big.zip", body.Results[0].Filename)
	assert.Equal(t, []string{"File size exceeds limit of 10MB"}, body.Results[0].Errors)
	assert.True(t, body.Results[1].Success)
	assert.Equal(t, "ok.txt", body.Results[1].File.OriginalFilename)

	assert.Equal(t, 1, countFiles(t, root))
}

func TestUploadMultiple_TooManyFilesKeepsEarlierWrites(t *testing.T) {
	router, root := setupFileRouter(t, 0)

	parts := make([]filePart, 0, 11)
	for i := 0; i < 11; i++ {
		parts = append(parts, filePart{
			field:       "files",
			name:        fmt.Sprintf("file-%d.txt", i),
			contentType: "text/plain",
			content:     []byte("content"),
		})
	}
	resp := serve(router, newMultipartRequest(t, "/api/upload/multiple", nil, parts...))
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	var body errorResponse
	decodeJSON(t, resp, &body)
	assert.Equal(t, "Too many files. Maximum 10 files allowed.", body.Error)
	// no rollback of the first ten
	assert.Equal(t, 10, countFiles(t, root))
}

func TestListFiles(t *testing.T) {
	router, root := setupFileRouter(t, 0)

	resp := serve(router, httptest.NewRequest(http.MethodGet, "/api/files", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"files":[]}`, resp.Body.String())

	req := newMultipartRequest(t, "/api/upload/single", nil,
		filePart{field: "file", name: "a.png", contentType: "image/png", content: []byte("png")})
	require.Equal(t, http.StatusOK, serve(router, req).Code)

	// a missing category directory does not hide the others
	require.NoError(t, os.RemoveAll(filepath.Join(root, "documents")))

	resp = serve(router, httptest.NewRequest(http.MethodGet, "/api/files", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	var body listResponse
	decodeJSON(t, resp, &body)
	require.Len(t, body.Files, 1)
	assert.Equal(t, "images", body.Files[0].Category)
	assert.Equal(t, body.Files[0].StoredFilename, body.Files[0].OriginalFilename)
}

func TestDeleteFile(t *testing.T) {
	router, root := setupFileRouter(t, 0)

	req := newMultipartRequest(t, "/api/upload/single", nil,
		filePart{field: "file", name: "a.zip", contentType: "application/zip", content: []byte("PK")})
	resp := serve(router, req)
	require.Equal(t, http.StatusOK, resp.Code)
	var uploaded singleUploadResponse
	decodeJSON(t, resp, &uploaded)
	require.Equal(t, "others", uploaded.File.Category)

	resp = serve(router, httptest.NewRequest(http.MethodDelete, "/api/files/others/"+uploaded.File.StoredFilename, nil))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"success":true,"message":"File deleted successfully"}`, resp.Body.String())
	assert.Zero(t, countFiles(t, root))
}

func TestDeleteFile_Errors(t *testing.T) {
	router, _ := setupFileRouter(t, 0)

	cases := []struct {
		name   string
		path   string
		status int
		error  string
	}{
		{"unknown category", "/api/files/videos/a.mp4", http.StatusBadRequest, "Invalid category"},
		{"parent directory", "/api/files/others/..", http.StatusBadRequest, "Invalid filename"},
		{"missing file", "/api/files/others/missing.zip", http.StatusInternalServerError, "Failed to delete file"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := serve(router, httptest.NewRequest(http.MethodDelete, tc.path, nil))
			assert.Equal(t, tc.status, resp.Code)
			var body errorResponse
			decodeJSON(t, resp, &body)
			assert.False(t, body.Success)
			assert.Equal(t, tc.error, body.Error)
		})
	}
}

func TestHelloAndStatus(t *testing.T) {
	router, _ := setupFileRouter(t, 0)

	resp := serve(router, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.JSONEq(t, `{"hello":"world"}`, resp.Body.String())

	resp = serve(router, httptest.NewRequest(http.MethodGet, "/hello", nil))
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"msg":"Hello from File Server!"}`, resp.Body.String())

	resp = serve(router, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	var body struct {
		Success bool `json:"success"`
		Data    struct {
			MaxFileSize  int64    `json:"maxFileSize"`
			MaxFiles     int      `json:"maxFiles"`
			Categories   []string `json:"categories"`
			IndexEnabled bool     `json:"indexEnabled"`
		} `json:"data"`
	}
	decodeJSON(t, resp, &body)
	assert.True(t, body.Success)
	assert.Equal(t, storage.MaxFileSize, body.Data.MaxFileSize)
	assert.Equal(t, common.MaxFilesPerRequest, body.Data.MaxFiles)
	assert.Equal(t, []string{"images", "documents", "others"}, body.Data.Categories)
	assert.False(t, body.Data.IndexEnabled)
}
