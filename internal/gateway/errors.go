package gateway

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/cosmos/pkg/httpclient"
	"github.com/nao1215/cosmos/pkg/middleware"
)

// requireKey はAPIキーが設定されているか確認する。
// 未設定の場合は上流APIを呼ばずに500を返し、falseを返す。
func (s *Server) requireKey(c *gin.Context, key, service string) bool {
	if key != "" {
		return true
	}
	log.Printf("APIキー未設定: request_id=%s, route=%s, service=%s", middleware.GetRequestID(c), c.FullPath(), service)
	s.metrics.recordFailure(c, failureMissingCredential)
	c.JSON(http.StatusInternalServerError, gin.H{"error": service + " API key is missing"})
	return false
}

// respondUpstreamError は上流APIの失敗をエラーエンベロープに変換して返す。
// 上流が4xx/5xxを返した場合はそのステータスを、それ以外は500を使う。
// 上流のレスポンスボディはログにのみ出力し、クライアントには返さない。
func (s *Server) respondUpstreamError(c *gin.Context, message string, err error) {
	status := http.StatusInternalServerError
	if code, ok := httpclient.StatusCode(err); ok && code >= http.StatusBadRequest {
		status = code
	}
	log.Printf("上流APIエラー: request_id=%s, route=%s, status=%d, error=%s",
		middleware.GetRequestID(c), c.FullPath(), status, s.redact(err.Error()))
	s.metrics.recordFailure(c, failureUpstream)
	c.JSON(status, gin.H{"error": message})
}

// respondValidationError はクライアント入力の不備に対して400を返す。
func (s *Server) respondValidationError(c *gin.Context, message string, err error) {
	if err != nil {
		log.Printf("入力検証エラー: request_id=%s, route=%s, error=%v", middleware.GetRequestID(c), c.FullPath(), err)
	}
	s.metrics.recordFailure(c, failureValidation)
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

// redact はログ出力前にAPIキーを伏せ字にする。
// ネットワークエラーにはクエリ文字列ごとURLが含まれるため。
func (s *Server) redact(msg string) string {
	for _, key := range []string{s.nasaKey, s.openAIKey} {
		if key != "" {
			msg = strings.ReplaceAll(msg, key, "***")
		}
	}
	return msg
}
