package gateway

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// compareTemperature はロケット比較に使用するサンプリング温度。
const compareTemperature = 0.7

// noResponse は補完結果が空だった場合に返す文字列。
const noResponse = "No response"

// compareSystemPrompt はロケット比較のシステムプロンプト。
const compareSystemPrompt = "You are an aerospace engineering expert. " +
	"Compare rockets objectively, covering payload capacity, reusability, cost per launch, " +
	"reliability and notable missions. Keep the answer concise and well structured."

// compareRequest は/api/compare-rocketsのリクエストボディ。
type compareRequest struct {
	Rocket1 string `json:"rocket1" binding:"required"`
	Rocket2 string `json:"rocket2" binding:"required"`
}

// chatMessage はOpenAIチャット補完のメッセージ。
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatCompletionRequest はOpenAIチャット補完のリクエスト。
type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

// chatCompletionResponse はOpenAIチャット補完のレスポンスのうち使用する部分。
type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// firstContent は最初の選択肢のメッセージ本文を返す。無い場合はnoResponse。
func (r chatCompletionResponse) firstContent() string {
	if len(r.Choices) == 0 || r.Choices[0].Message.Content == "" {
		return noResponse
	}
	return r.Choices[0].Message.Content
}

// newCompareCompletion は2つのロケットを比較するチャット補完リクエストを組み立てる。
func newCompareCompletion(model, rocket1, rocket2 string) chatCompletionRequest {
	return chatCompletionRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: compareSystemPrompt},
			{Role: "user", Content: fmt.Sprintf("Compare the %s and the %s rockets.", rocket1, rocket2)},
		},
		Temperature: compareTemperature,
	}
}

// handleCompareRockets はOpenAIで2つのロケットを比較するハンドラを返す。
// ロケット名の検証はAPIキーの確認より先に行う。
// ロケット名は存在だけを確認し、空白のみの値も加工せずにそのまま送る。
func (s *Server) handleCompareRockets() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req compareRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			s.respondValidationError(c, "Both rocket1 and rocket2 are required", err)
			return
		}

		if !s.requireKey(c, s.openAIKey, "OpenAI") {
			return
		}

		var resp chatCompletionResponse
		headers := map[string]string{"Authorization": "Bearer " + s.openAIKey}
		body := newCompareCompletion(s.openAIModel, req.Rocket1, req.Rocket2)
		if err := s.postJSON(c, s.openAI, upstreamOpenAI, "/v1/chat/completions", headers, body, &resp); err != nil {
			s.respondUpstreamError(c, "Failed to compare rockets", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"comparison": resp.firstContent()})
	}
}
