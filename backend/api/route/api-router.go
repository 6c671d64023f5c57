package route

import (
	"file-server/backend/api/handler"
	"file-server/backend/api/middleware"
	"file-server/backend/common"
	"file-server/backend/library/storage"

	"github.com/gin-gonic/gin"
)

// maxRequestBody fits a full batch of maximum-size files plus multipart framing.
const maxRequestBody = common.MaxFilesPerRequest*storage.MaxFileSize + common.RequestBodyOverhead

func SetApiRouter(route *gin.Engine, files *handler.FileHandler) {
	apiRouter := route.Group("/api")
	apiRouter.Use(middleware.GlobalAPIRateLimit())
	{
		apiRouter.GET("/status", files.GetStatus)

		uploadRoute := apiRouter.Group("/upload")
		uploadRoute.Use(middleware.BodyLimit(maxRequestBody))
		{
			uploadRoute.POST("/single", files.UploadSingle)
			uploadRoute.POST("/multiple", files.UploadMultiple)
		}

		fileRoute := apiRouter.Group("/files")
		{
			fileRoute.GET("", files.ListFiles)
			fileRoute.DELETE("/:category/:filename", files.DeleteFile)
		}
	}
}
