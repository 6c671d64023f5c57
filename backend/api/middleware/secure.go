package middleware

import (
	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
)

// Secure sets the browser hardening headers. Uploaded files are served from
// the same origin, so scripts inside them (svg) must not run.
func Secure() gin.HandlerFunc {
	return secure.New(secure.Config{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ContentSecurityPolicy: "default-src 'self'; script-src 'none'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	})
}
