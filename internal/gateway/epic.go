package gateway

import (
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

// Vector3 はJ2000座標系の位置ベクトル（km）。
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// norm はベクトルの大きさを返す。
func (v Vector3) norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// LatLon は画像中心の緯度経度。
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Quaternion はDSCOVRの姿勢クォータニオン。
type Quaternion struct {
	Q0 float64 `json:"q0"`
	Q1 float64 `json:"q1"`
	Q2 float64 `json:"q2"`
	Q3 float64 `json:"q3"`
}

// epicCoords はEPIC APIのcoordsオブジェクト。
type epicCoords struct {
	CentroidCoordinates *LatLon     `json:"centroid_coordinates"`
	DscovrJ2000Position *Vector3    `json:"dscovr_j2000_position"`
	LunarJ2000Position  *Vector3    `json:"lunar_j2000_position"`
	SunJ2000Position    *Vector3    `json:"sun_j2000_position"`
	AttitudeQuaternions *Quaternion `json:"attitude_quaternions"`
}

// epicRecord はEPIC APIが返すレコード。
// 古いレスポンスはテレメトリをトップレベルに、新しいレスポンスはcoords配下に持つ。
type epicRecord struct {
	Identifier string `json:"identifier"`
	Caption    string `json:"caption"`
	Image      string `json:"image"`
	Date       string `json:"date"`
	epicCoords
	Coords *epicCoords `json:"coords"`
}

// telemetry はトップレベルを優先し、欠けている項目をcoordsから補う。
func (r epicRecord) telemetry() epicCoords {
	t := r.epicCoords
	if r.Coords == nil {
		return t
	}
	if t.CentroidCoordinates == nil {
		t.CentroidCoordinates = r.Coords.CentroidCoordinates
	}
	if t.DscovrJ2000Position == nil {
		t.DscovrJ2000Position = r.Coords.DscovrJ2000Position
	}
	if t.LunarJ2000Position == nil {
		t.LunarJ2000Position = r.Coords.LunarJ2000Position
	}
	if t.SunJ2000Position == nil {
		t.SunJ2000Position = r.Coords.SunJ2000Position
	}
	if t.AttitudeQuaternions == nil {
		t.AttitudeQuaternions = r.Coords.AttitudeQuaternions
	}
	return t
}

// EPICImage はクライアントに返すEPIC画像1件。
type EPICImage struct {
	Identifier          string      `json:"identifier"`
	Caption             string      `json:"caption"`
	Image               string      `json:"image"`
	Date                string      `json:"date"`
	ImageURL            string      `json:"image_url"`
	CentroidCoordinates *LatLon     `json:"centroid_coordinates"`
	DscovrJ2000Position *Vector3    `json:"dscovr_j2000_position"`
	LunarJ2000Position  *Vector3    `json:"lunar_j2000_position"`
	SunJ2000Position    *Vector3    `json:"sun_j2000_position"`
	AttitudeQuaternions *Quaternion `json:"attitude_quaternions"`
	// DscovrDistanceKm は地球中心からDSCOVRまでの距離。
	DscovrDistanceKm *float64 `json:"dscovr_distance_km"`
	// SunDistanceKm は地球中心から太陽までの距離。
	SunDistanceKm *float64 `json:"sun_distance_km"`
	// SunEarthVehicleAngle は地球から見た太陽とDSCOVRのなす角（度）。
	SunEarthVehicleAngle *float64 `json:"sun_earth_vehicle_angle"`
}

// epicArchivePath は"YYYY-MM-DD HH:MM:SS"形式の日時を"YYYY/MM/DD"に変換する。
func epicArchivePath(date string) string {
	day, _, _ := strings.Cut(strings.TrimSpace(date), " ")
	return strings.ReplaceAll(day, "-", "/")
}

// epicImageURL はアーカイブ上のPNG画像URLを組み立てる。
func epicImageURL(archiveBase, date, image string) string {
	return fmt.Sprintf("%s/archive/natural/%s/png/%s.png", archiveBase, epicArchivePath(date), image)
}

// sunEarthVehicleAngle は2つの地心ベクトルのなす角を度で返す。
// いずれかがゼロベクトルの場合はfalseを返す。
func sunEarthVehicleAngle(sun, vehicle Vector3) (float64, bool) {
	ns, nv := sun.norm(), vehicle.norm()
	if ns == 0 || nv == 0 {
		return 0, false
	}
	cos := (sun.X*vehicle.X + sun.Y*vehicle.Y + sun.Z*vehicle.Z) / (ns * nv)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi, true
}

// projectEPICRecords はEPICレコードに画像URLと派生テレメトリを付与する。
func projectEPICRecords(records []epicRecord, archiveBase string) []EPICImage {
	images := make([]EPICImage, 0, len(records))
	for _, r := range records {
		t := r.telemetry()
		img := EPICImage{
			Identifier:          r.Identifier,
			Caption:             r.Caption,
			Image:               r.Image,
			Date:                r.Date,
			ImageURL:            epicImageURL(archiveBase, r.Date, r.Image),
			CentroidCoordinates: t.CentroidCoordinates,
			DscovrJ2000Position: t.DscovrJ2000Position,
			LunarJ2000Position:  t.LunarJ2000Position,
			SunJ2000Position:    t.SunJ2000Position,
			AttitudeQuaternions: t.AttitudeQuaternions,
		}
		if t.DscovrJ2000Position != nil {
			d := t.DscovrJ2000Position.norm()
			img.DscovrDistanceKm = &d
		}
		if t.SunJ2000Position != nil {
			d := t.SunJ2000Position.norm()
			img.SunDistanceKm = &d
		}
		if t.SunJ2000Position != nil && t.DscovrJ2000Position != nil {
			if angle, ok := sunEarthVehicleAngle(*t.SunJ2000Position, *t.DscovrJ2000Position); ok {
				img.SunEarthVehicleAngle = &angle
			}
		}
		images = append(images, img)
	}
	return images
}

// handleEPIC はDSCOVR/EPICの地球全景画像一覧を返すハンドラを返す。
// dateクエリがあればその日の画像、無ければ最新の画像を取得する。
func (s *Server) handleEPIC() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.requireKey(c, s.nasaKey, "NASA") {
			return
		}

		path := "/EPIC/api/natural"
		if date := c.Query("date"); date != "" {
			path += "/date/" + url.PathEscape(date)
		}

		var records []epicRecord
		query := map[string]string{"api_key": s.nasaKey}
		if err := s.getJSON(c, s.nasa, upstreamNASA, path, query, &records); err != nil {
			s.respondUpstreamError(c, "Failed to fetch EPIC data", err)
			return
		}
		if records == nil {
			s.respondUpstreamError(c, "Failed to fetch EPIC data", errNotSequence)
			return
		}

		c.JSON(http.StatusOK, projectEPICRecords(records, s.epicArchiveURL))
	}
}
