package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

// handleAPOD はNASAのAstronomy Picture of the Dayを返すハンドラを返す。
// dateクエリ（YYYY-MM-DD）があればその日の画像を取得する。レスポンスは加工しない。
func (s *Server) handleAPOD() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.requireKey(c, s.nasaKey, "NASA") {
			return
		}

		query := map[string]string{"api_key": s.nasaKey}
		if date := c.Query("date"); date != "" {
			query["date"] = date
		}

		var payload json.RawMessage
		if err := s.getJSON(c, s.nasa, upstreamNASA, "/planetary/apod", query, &payload); err != nil {
			s.respondUpstreamError(c, "Failed to fetch APOD data", err)
			return
		}

		c.JSON(http.StatusOK, payload)
	}
}
