package middleware

import (
	"slices"
	"time"

	"file-server/backend/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func CORS() gin.HandlerFunc {
	config := cors.Config{
		AllowMethods:  []string{"GET", "POST", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Content-Length", "Accept", "Accept-Language", "X-Requested-With"},
		ExposeHeaders: []string{"Content-Length", "Content-Type", "X-Request-Id"},
		MaxAge:        12 * time.Hour,
	}
	if slices.Contains(common.CORSOrigins, "*") {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = common.CORSOrigins
		config.AllowCredentials = true
	}
	return cors.New(config)
}
