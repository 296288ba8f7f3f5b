package dto

import (
	"github.com/gin-gonic/gin"

	"github.com/bell24h/supplierrisk/pkg/errors"
)

// SendError renders err as the JSON error body and aborts the chain.
// The error is attached to the gin context so the logging middleware can report it.
// SendError 将错误渲染为 JSON 错误体并中止处理链。
func SendError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(errors.StatusOf(err), errors.ToErrorResponse(err))
}

// SendSuccess renders a JSON success response.
func SendSuccess(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

//Personal.AI order the ending
