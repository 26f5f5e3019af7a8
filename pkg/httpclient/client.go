package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultTimeout は上流APIへのリクエストタイムアウト。
const DefaultTimeout = 30 * time.Second

// Client は外部API呼び出し用のHTTPクライアント。
// リトライは行わず、1回の呼び出しの結果をそのまま返す。
type Client struct {
	// resty は内部で使用するrestyクライアント。
	resty *resty.Client
	// baseURL は接続先APIのベースURL。
	baseURL string
}

// StatusError は上流APIが2xx以外のステータスを返したことを表すエラー。
type StatusError struct {
	// StatusCode は上流APIが返したHTTPステータスコード。
	StatusCode int
	// Body は上流APIのレスポンスボディ。ログ出力専用でクライアントには返さない。
	Body string
}

// Error はエラーメッセージを返す。
func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTPエラー: status=%d, body=%s", e.StatusCode, e.Body)
}

// StatusCode はエラーチェーン中のStatusErrorからステータスコードを取り出す。
// 見つからない場合はfalseを返す。
func StatusCode(err error) (int, bool) {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode, true
	}
	return 0, false
}

// New は新しいHTTPクライアントを生成する。
// baseURLには接続先APIのベースURL（例: "https://api.nasa.gov"）を指定する。
func New(baseURL string) *Client {
	r := resty.New()
	r.SetTimeout(DefaultTimeout)
	r.SetRetryCount(0)
	r.SetHeader("Accept", "application/json")
	r.SetHeader("User-Agent", "cosmos-gateway")
	return &Client{
		resty:   r,
		baseURL: baseURL,
	}
}

// BaseURL は接続先APIのベースURLを返す。
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Resty は内部のrestyクライアントを返す。テストでトランスポートを差し替えるために使用する。
func (c *Client) Resty() *resty.Client {
	return c.resty
}

// GetJSON は指定パスにクエリ付きでGETリクエストを送信する。
// レスポンスボディをresultにデシリアライズする。
func (c *Client) GetJSON(ctx context.Context, path string, query map[string]string, result any) error {
	req := c.resty.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	return c.do(req, http.MethodGet, path, result)
}

// PostJSON は指定パスにJSONボディでPOSTリクエストを送信する。
// headersは追加のリクエストヘッダー（Authorizationなど）。
func (c *Client) PostJSON(ctx context.Context, path string, headers map[string]string, body any, result any) error {
	req := c.resty.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeaders(headers).
		SetBody(body)
	return c.do(req, http.MethodPost, path, result)
}

// do はリクエストを送信し、レスポンスを検証してデシリアライズする共通処理。
func (c *Client) do(req *resty.Request, method, path string, result any) error {
	url := c.baseURL + path
	resp, err := req.Execute(method, url)
	if err != nil {
		return fmt.Errorf("HTTPリクエストの送信に失敗: %w", err)
	}

	if resp.IsError() || resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return &StatusError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}

	if result != nil {
		if err := json.Unmarshal(resp.Body(), result); err != nil {
			return fmt.Errorf("レスポンスボディのデシリアライズに失敗: %w", err)
		}
	}
	return nil
}
