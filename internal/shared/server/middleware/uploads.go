package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Multipart caps the request body at maxBytes and removes any temporary files
// the multipart parser spooled to disk once the handler returns, on every path.
func Multipart(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		defer func() {
			if form := c.Request.MultipartForm; form != nil {
				_ = form.RemoveAll()
			}
		}()
		c.Next()
	}
}
