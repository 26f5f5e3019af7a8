package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader はリクエストIDを伝播するHTTPヘッダー名。
const RequestIDHeader = "X-Request-ID"

// requestIDKey はGinコンテキストにリクエストIDを格納するキー。
const requestIDKey = "request_id"

// RequestID はリクエストごとに一意なIDを割り当てるGinミドルウェアを返す。
// クライアントがX-Request-IDを送ってきた場合はその値を引き継ぐ。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// GetRequestID はGinコンテキストからリクエストIDを取得する。
// RequestIDミドルウェアを通っていない場合は空文字を返す。
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
