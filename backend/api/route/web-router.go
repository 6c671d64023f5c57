package route

import (
	"net/http"
	"strings"

	"file-server/backend/api/middleware"
	"file-server/backend/common"
	fserrors "file-server/backend/common/errors"
	"file-server/backend/common/i18n"

	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
)

func setWebRouter(route *gin.Engine, uploadRoot string) {
	route.Use(static.Serve("/uploads", static.LocalFile(uploadRoot, false)))
	route.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			common.RespErrorStr(c, http.StatusNotFound, i18n.Translate(fserrors.ErrRouteNotFound, middleware.Lang(c)))
			return
		}
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   http.StatusText(http.StatusNotFound),
		})
	})
}
