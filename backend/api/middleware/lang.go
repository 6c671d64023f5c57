package middleware

import (
	"strings"

	"file-server/backend/common/i18n"

	"github.com/gin-gonic/gin"
)

// LangMiddleware 注入 lang 到 context
func LangMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := c.GetHeader("Accept-Language")
		if lang == "" {
			lang = i18n.DefaultLang
		} else {
			// 只取第一个语言
			lang = strings.TrimSpace(strings.Split(lang, ",")[0])
		}
		c.Set("lang", lang)
		c.Next()
	}
}

// Lang returns the request language chosen by LangMiddleware.
func Lang(c *gin.Context) string {
	if lang := c.GetString("lang"); lang != "" {
		return lang
	}
	return i18n.DefaultLang
}
