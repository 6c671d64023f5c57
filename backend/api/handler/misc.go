package handler

import (
	"net/http"

	"file-server/backend/common"
	"file-server/backend/library/storage"

	"github.com/gin-gonic/gin"
)

func Hello(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"hello": "world"})
}

func Greeting(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"msg": "Hello from File Server!"})
}

// GetStatus reports the upload limits and build information.
func (h *FileHandler) GetStatus(c *gin.Context) {
	v := h.svc.Validator()
	common.RespSuccess(c, gin.H{
		"version":           common.Version,
		"start_time":        common.StartTime,
		"categories":        storage.Categories,
		"maxFileSize":       v.MaxFileSize,
		"maxFiles":          common.MaxFilesPerRequest,
		"allowedExtensions": v.AllowedExtensions,
		"indexEnabled":      h.svc.IndexEnabled(),
	})
}
