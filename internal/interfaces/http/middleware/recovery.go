// Package middleware contains the gin middleware of the supplier risk HTTP API.
package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/bell24h/supplierrisk/internal/application/dto"
	"github.com/bell24h/supplierrisk/pkg/errors"
	"github.com/bell24h/supplierrisk/pkg/logger"
)

// Recovery turns a panic in a handler into a logged 500 response.
// Recovery 将处理器中的 panic 转换为记录日志的 500 响应。
func Recovery(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error(c.Request.Context(), "Panic recovered", fmt.Errorf("panic: %v", r),
					logger.String("path", c.Request.URL.Path),
					logger.String("method", c.Request.Method),
					logger.String("stack", string(debug.Stack())),
				)
				dto.SendError(c, errors.ErrInternal("unexpected server error"))
			}
		}()
		c.Next()
	}
}
