package route

import (
	"file-server/backend/api/handler"
	"file-server/backend/api/middleware"
	"file-server/backend/common"

	"github.com/gin-gonic/gin"
)

func SetRouter(route *gin.Engine, files *handler.FileHandler, uploadRoot string) {
	route.Use(middleware.RequestId())
	route.Use(middleware.Secure())
	route.Use(middleware.CORS())
	route.Use(middleware.LangMiddleware())
	route.Use(middleware.GzipDecodeMiddleware()) // Decode gzipped requests
	if *common.EnableGzip {
		// Stored files are served as-is
		route.Use(middleware.GzipEncodeMiddleware("/uploads/"))
	}

	route.GET("/", handler.Hello)
	route.GET("/hello", handler.Greeting)
	SetApiRouter(route, files)
	setWebRouter(route, uploadRoot)
}
