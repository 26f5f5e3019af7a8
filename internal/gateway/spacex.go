package gateway

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// errNotSequence は上流のペイロードが配列でないことを表す。
var errNotSequence = errors.New("上流のペイロードが配列ではありません")

// missionName は打ち上げレコードのmission_nameを返す。
// オブジェクトでない要素やmission_nameが文字列でない場合は空文字。
func missionName(raw json.RawMessage) string {
	var record struct {
		MissionName string `json:"mission_name"`
	}
	if err := json.Unmarshal(raw, &record); err != nil {
		return ""
	}
	return record.MissionName
}

// filterLaunches はmission_nameに部分文字列を含むレコードを返す。大文字小文字は区別しない。
// nameが空の場合は全件を返す。要素はデコードせずにそのまま返す。
func filterLaunches(launches []json.RawMessage, name string) []json.RawMessage {
	if name == "" {
		return launches
	}
	needle := strings.ToLower(name)
	filtered := make([]json.RawMessage, 0, len(launches))
	for _, l := range launches {
		if strings.Contains(strings.ToLower(missionName(l)), needle) {
			filtered = append(filtered, l)
		}
	}
	return filtered
}

// handleLaunches はSpaceXの打ち上げ一覧を返すハンドラを返す。
// mission_nameクエリがあればミッション名で絞り込む。
func (s *Server) handleLaunches() gin.HandlerFunc {
	return func(c *gin.Context) {
		var launches []json.RawMessage
		if err := s.getJSON(c, s.spacex, upstreamSpaceX, "/v3/launches", nil, &launches); err != nil {
			s.respondUpstreamError(c, "Failed to fetch launches", err)
			return
		}
		// nullはエラーにならずnilスライスになる
		if launches == nil {
			s.respondUpstreamError(c, "Failed to fetch launches", errNotSequence)
			return
		}

		c.JSON(http.StatusOK, filterLaunches(launches, c.Query("mission_name")))
	}
}

// handleRockets はSpaceXのロケット一覧をそのまま返すハンドラを返す。
func (s *Server) handleRockets() gin.HandlerFunc {
	return func(c *gin.Context) {
		var rockets json.RawMessage
		if err := s.getJSON(c, s.spacex, upstreamSpaceX, "/v3/rockets", nil, &rockets); err != nil {
			s.respondUpstreamError(c, "Failed to fetch rockets", err)
			return
		}

		c.JSON(http.StatusOK, rockets)
	}
}
