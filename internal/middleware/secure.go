package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
)

// SecureHeaders sets the standard security response headers. HSTS is only sent in production,
// where TLS terminates in front of the service.
func SecureHeaders(isProduction bool) gin.HandlerFunc {
	opts := secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		IsDevelopment:      !isProduction,
	}
	if isProduction {
		opts.STSSeconds = 31536000
		opts.STSIncludeSubdomains = true
	}
	sec := secure.New(opts)

	return func(c *gin.Context) {
		if err := sec.Process(c.Writer, c.Request); err != nil {
			GetLoggerFromCtx(c.Request.Context()).Warn("Request rejected by security middleware", "error", err)
			c.Abort()
			return
		}
		// Process may have written a redirect.
		if status := c.Writer.Status(); status > 300 && status < 399 {
			c.Abort()
			return
		}
		c.Next()
	}
}
