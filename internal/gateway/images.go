package gateway

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// maxImageResults は画像検索で返す最大件数。
const maxImageResults = 6

// 画像検索の項目が欠けている場合の既定値。
const (
	defaultImageTitle       = "Untitled"
	defaultImageDescription = "No description provided."
	defaultImageDateCreated = "N/A"
)

// クエリパラメータが省略された場合の既定値。空文字を指定した場合は既定値にしない。
const (
	defaultImageQuery     = "mars"
	defaultImageMediaType = "image"
)

// mediaTypeRule はmedia_typeの検証ルール。空文字も許可しない。
const mediaTypeRule = "oneof=image video audio"

// queryValidate はクエリパラメータの検証に使用するバリデータ。
var queryValidate = validator.New()

// imageSearchResponse はNASA画像検索APIのレスポンスのうち使用する部分。
type imageSearchResponse struct {
	Collection *struct {
		Items []imageItem `json:"items"`
	} `json:"collection"`
}

type imageItem struct {
	Href  string      `json:"href"`
	Data  []imageData `json:"data"`
	Links []imageLink `json:"links"`
}

type imageData struct {
	NASAID      string `json:"nasa_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DateCreated string `json:"date_created"`
	MediaType   string `json:"media_type"`
}

type imageLink struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Render string `json:"render"`
}

// ImageResult はクライアントに返す画像検索結果の1件。
type ImageResult struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	DateCreated string  `json:"date_created"`
	Thumbnail   *string `json:"thumbnail"`
	MediaType   string  `json:"media_type"`
	Href        string  `json:"href"`
}

// projectImageItems は検索結果の先頭から最大maxImageResults件を整形する。
// 欠けている項目には既定値を入れ、media_typeが無い場合は要求したmediaTypeを使う。
func projectImageItems(items []imageItem, mediaType string) []ImageResult {
	if len(items) > maxImageResults {
		items = items[:maxImageResults]
	}
	results := make([]ImageResult, 0, len(items))
	for _, item := range items {
		var data imageData
		if len(item.Data) > 0 {
			data = item.Data[0]
		}

		var thumbnail *string
		if len(item.Links) > 0 && item.Links[0].Href != "" {
			href := item.Links[0].Href
			thumbnail = &href
		}

		results = append(results, ImageResult{
			ID:          data.NASAID,
			Title:       orDefaultText(data.Title, defaultImageTitle),
			Description: orDefaultText(data.Description, defaultImageDescription),
			DateCreated: orDefaultText(data.DateCreated, defaultImageDateCreated),
			Thumbnail:   thumbnail,
			MediaType:   orDefaultText(data.MediaType, mediaType),
			Href:        item.Href,
		})
	}
	return results
}

// handleNASAImages はNASA画像ライブラリを検索するハンドラを返す。
// APIキーは不要。media_typeはimage/video/audioのいずれかでなければ400を返す。
func (s *Server) handleNASAImages() gin.HandlerFunc {
	return func(c *gin.Context) {
		q, ok := c.GetQuery("q")
		if !ok {
			q = defaultImageQuery
		}
		mediaType, ok := c.GetQuery("media_type")
		if !ok {
			mediaType = defaultImageMediaType
		}
		if err := queryValidate.Var(mediaType, mediaTypeRule); err != nil {
			s.respondValidationError(c, "Invalid media_type. Must be one of: image, video, audio", err)
			return
		}

		var resp imageSearchResponse
		query := map[string]string{"q": q, "media_type": mediaType}
		if err := s.getJSON(c, s.nasaImages, upstreamNASAImages, "/search", query, &resp); err != nil {
			s.respondUpstreamError(c, "Failed to fetch NASA images", err)
			return
		}

		if resp.Collection == nil || len(resp.Collection.Items) == 0 {
			s.metrics.recordFailure(c, failureNotFound)
			c.JSON(http.StatusNotFound, gin.H{"error": "No results found"})
			return
		}

		c.JSON(http.StatusOK, projectImageItems(resp.Collection.Items, mediaType))
	}
}

// orDefaultText は空文字の場合に既定値を返す。
func orDefaultText(v, defaultValue string) string {
	if v == "" {
		return defaultValue
	}
	return v
}
