package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"sync"
	"time"

	"file-server/backend/api/middleware"
	"file-server/backend/common"
	fserrors "file-server/backend/common/errors"
	"file-server/backend/common/i18n"
	"file-server/backend/library/storage"
	"file-server/backend/model"
	"file-server/backend/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// FileHandler serves the upload, listing and delete endpoints.
type FileHandler struct {
	svc *service.UploadService
}

func NewFileHandler(svc *service.UploadService) *FileHandler {
	registerValidations()
	return &FileHandler{svc: svc}
}

type deleteFileURI struct {
	Category string `uri:"category" binding:"required,storage_category"`
	Filename string `uri:"filename" binding:"required,safe_filename"`
}

var registerOnce sync.Once

func registerValidations() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("storage_category", func(fl validator.FieldLevel) bool {
			_, ok := storage.ParseCategory(fl.Field().String())
			return ok
		})
		_ = v.RegisterValidation("safe_filename", func(fl validator.FieldLevel) bool {
			return storage.IsSafeFilename(fl.Field().String())
		})
	})
}

// UploadSingle godoc
// @Summary Upload one file
// @Tags Files
// @Accept multipart/form-data
// @Produce json
// @Router /api/upload/single [post]
func (h *FileHandler) UploadSingle(c *gin.Context) {
	lang := middleware.Lang(c)
	mr, err := c.Request.MultipartReader()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, i18n.New(fserrors.ErrNoFileUploaded, lang))
		return
	}

	var part *multipart.Part
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			status, ierr := streamError(err, lang)
			abortWithError(c, status, ierr)
			return
		}
		if p.FileName() == "" {
			continue
		}
		part = p
		break
	}
	if part == nil {
		abortWithError(c, http.StatusBadRequest, i18n.New(fserrors.ErrNoFileUploaded, lang))
		return
	}
	defer part.Close()

	info, err := h.svc.SaveSingle(c.Request.Context(), service.Upload{
		Filename:     part.FileName(),
		MimeType:     part.Header.Get("Content-Type"),
		DeclaredSize: declaredSize(part),
		Content:      part,
	})
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			common.RespErrorWithDetails(c, http.StatusBadRequest, i18n.Translate(fserrors.ErrValidationFailed, lang), verr.Errors)
			return
		}
		status, ierr := saveError(err, lang)
		abortWithError(c, status, ierr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"file":    info,
	})
}

// UploadMultiple godoc
// @Summary Upload up to ten files
// @Tags Files
// @Accept multipart/form-data
// @Produce json
// @Router /api/upload/multiple [post]
func (h *FileHandler) UploadMultiple(c *gin.Context) {
	lang := middleware.Lang(c)
	results := make([]*model.UploadResult, 0)

	mr, err := c.Request.MultipartReader()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, i18n.New(fserrors.ErrNoFileUploaded, lang))
		return
	}

	fileCount := 0
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			status, ierr := streamError(err, lang)
			abortWithError(c, status, ierr)
			return
		}
		if part.FileName() == "" {
			continue
		}

		fileCount++
		if fileCount > common.MaxFilesPerRequest {
			abortWithError(c, http.StatusBadRequest, i18n.New(fserrors.ErrTooManyFiles, lang, common.MaxFilesPerRequest))
			return
		}

		result, err := h.saveBatchPart(c, part, lang)
		part.Close()
		if err != nil {
			status, ierr := streamError(err, lang)
			abortWithError(c, status, ierr)
			return
		}
		results = append(results, result)
	}

	resp := &model.BatchUploadResponse{
		TotalFiles: len(results),
		UploadTime: common.FormatTime(time.Now()),
		Results:    results,
	}
	for _, r := range results {
		if r.Success {
			resp.Successful++
		} else {
			resp.Failed++
		}
	}
	c.JSON(http.StatusOK, resp)
}

// saveBatchPart stores one file of a batch. Only a dead request stream is
// returned as an error; everything else becomes a failed result.
func (h *FileHandler) saveBatchPart(c *gin.Context, part *multipart.Part, lang string) (*model.UploadResult, error) {
	info, err := h.svc.SaveBatchItem(c.Request.Context(), service.Upload{
		Filename:     part.FileName(),
		MimeType:     part.Header.Get("Content-Type"),
		DeclaredSize: declaredSize(part),
		Content:      part,
	})
	if err == nil {
		return &model.UploadResult{Success: true, File: info}, nil
	}

	var verr *service.ValidationError
	if errors.As(err, &verr) {
		return &model.UploadResult{Filename: part.FileName(), Success: false, Errors: verr.Errors}, nil
	}
	status, ierr := saveError(err, lang)
	if status != http.StatusInternalServerError {
		return nil, err
	}
	common.SysError(fmt.Sprintf("Failed to save %s: %v", part.FileName(), ierr.Unwrap()))
	return &model.UploadResult{
		Filename: part.FileName(),
		Success:  false,
		Errors:   []string{ierr.Error()},
	}, nil
}

// ListFiles godoc
// @Summary List stored files, newest first
// @Tags Files
// @Produce json
// @Router /api/files [get]
func (h *FileHandler) ListFiles(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"files": h.svc.List(c.Request.Context()),
	})
}

// DeleteFile godoc
// @Summary Delete a stored file
// @Tags Files
// @Produce json
// @Param category path string true "images, documents or others"
// @Param filename path string true "Stored filename"
// @Router /api/files/{category}/{filename} [delete]
func (h *FileHandler) DeleteFile(c *gin.Context) {
	lang := middleware.Lang(c)
	var uri deleteFileURI
	if err := c.ShouldBindUri(&uri); err != nil {
		abortWithError(c, http.StatusBadRequest, i18n.Wrap(err, uriErrorCode(err), lang))
		return
	}

	if err := h.svc.Delete(c.Request.Context(), uri.Category, uri.Filename); err != nil {
		abortWithError(c, http.StatusInternalServerError,
			i18n.Wrap(fmt.Errorf("delete %s/%s: %w", uri.Category, uri.Filename, err), fserrors.ErrDeleteFailed, lang))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": i18n.Translate(fserrors.MsgFileDeleted, lang),
	})
}

// uriErrorCode maps a failed delete binding to its error code. The category
// is reported first when both parameters are bad.
func uriErrorCode(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Field() == "Category" {
				return fserrors.ErrInvalidCategory
			}
		}
		return fserrors.ErrInvalidFilename
	}
	return fserrors.ErrInvalidCategory
}

func declaredSize(part *multipart.Part) int64 {
	v := part.Header.Get("Content-Length")
	if v == "" {
		return service.UnknownSize
	}
	size, err := strconv.ParseInt(v, 10, 64)
	if err != nil || size < 0 {
		return service.UnknownSize
	}
	return size
}

// streamError maps a failure reading the multipart body.
func streamError(err error, lang string) (int, *i18n.I18nError) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return http.StatusRequestEntityTooLarge, i18n.Wrap(err, fserrors.ErrRequestTooLarge, lang)
	}
	return http.StatusBadRequest, i18n.Wrap(err, fserrors.ErrInvalidUpload, lang)
}

// saveError maps a failed file write. A body that outgrew the request limit
// is the client's fault; anything else is ours.
func saveError(err error, lang string) (int, *i18n.I18nError) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return http.StatusRequestEntityTooLarge, i18n.Wrap(err, fserrors.ErrRequestTooLarge, lang)
	}
	return http.StatusInternalServerError, i18n.Wrap(err, fserrors.ErrSaveFailed, lang)
}

func abortWithError(c *gin.Context, status int, err *i18n.I18nError) {
	switch {
	case status >= http.StatusInternalServerError:
		common.SysError(fmt.Sprintf("%s %s [%s]: %v", c.Request.Method, c.Request.URL.Path, err.ErrorCode(), err.Unwrap()))
	case i18n.IsErrorCode(err, fserrors.ErrInvalidUpload):
		common.SysWarn(fmt.Sprintf("Malformed multipart request: %v", err.Unwrap()))
	}
	common.RespErrorStr(c, status, err.Error())
}
