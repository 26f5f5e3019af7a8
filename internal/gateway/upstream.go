package gateway

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/cosmos/pkg/httpclient"
)

// 上流API名。メトリクスのラベルに使用する。
const (
	upstreamNASA       = "nasa"
	upstreamNASAImages = "nasa_images"
	upstreamSpaceX     = "spacex"
	upstreamOpenAI     = "openai"
)

// getJSON は上流APIにGETリクエストを1回送信し、所要時間を記録する。
// 受信リクエストのコンテキストを引き継ぐため、クライアント切断時は上流呼び出しも中断される。
func (s *Server) getJSON(c *gin.Context, client *httpclient.Client, upstream, path string, query map[string]string, result any) error {
	start := time.Now()
	err := client.GetJSON(c.Request.Context(), path, query, result)
	s.metrics.observeUpstream(upstream, start, err)
	return err
}

// postJSON は上流APIにPOSTリクエストを1回送信し、所要時間を記録する。
func (s *Server) postJSON(c *gin.Context, client *httpclient.Client, upstream, path string, headers map[string]string, body, result any) error {
	start := time.Now()
	err := client.PostJSON(c.Request.Context(), path, headers, body, result)
	s.metrics.observeUpstream(upstream, start, err)
	return err
}
