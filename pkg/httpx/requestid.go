package httpx

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Gunvolt24/groupclient/pkg/ctxmeta"
)

// HeaderRequestID — заголовок идентификатора запроса.
const HeaderRequestID = "X-Request-ID"

// maxRequestIDLen — длиннее клиентский id не принимаем и генерируем свой.
const maxRequestIDLen = 128

// RequestIDMiddleware — берёт X-Request-ID клиента (или генерирует UUID),
// кладёт его в контекст запроса и возвращает в ответе.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.NewString()
		}
		c.Header(HeaderRequestID, id)
		c.Request = c.Request.WithContext(ctxmeta.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}
