package gateway

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

// Config はGatewayサービスの設定。起動時に一度だけ読み込み、以後変更しない。
type Config struct {
	// Port はサーバーのリッスンポート。
	Port string
	// NASAAPIKey はapi.nasa.govのAPIキー。空の場合APOD/EPICは500を返す。
	NASAAPIKey string
	// OpenAIAPIKey はOpenAIのAPIキー。空の場合ロケット比較は500を返す。
	OpenAIAPIKey string
	// OpenAIModel はロケット比較に使用するチャットモデル名。
	OpenAIModel string
	// AllowedOrigins はCORSで許可するオリジン。"*"は全オリジン。
	AllowedOrigins []string
	// UpstreamURLs は上流APIのベースURL。
	UpstreamURLs UpstreamURLConfig
}

// UpstreamURLConfig は上流APIのベースURL設定。
type UpstreamURLConfig struct {
	// NASAAPI はAPOD/EPICを提供するNASA APIのベースURL。
	NASAAPI string
	// NASAImages はNASA画像検索APIのベースURL。
	NASAImages string
	// EPICArchive はEPIC画像アーカイブのベースURL。
	EPICArchive string
	// SpaceX はSpaceX APIのベースURL。
	SpaceX string
	// OpenAI はOpenAI APIのベースURL。
	OpenAI string
}

// デフォルト値。
const (
	defaultPort           = "5000"
	defaultOpenAIModel    = "gpt-3.5-turbo"
	defaultNASAAPIURL     = "https://api.nasa.gov"
	defaultNASAImagesURL  = "https://images-api.nasa.gov"
	defaultEPICArchiveURL = "https://epic.gsfc.nasa.gov"
	defaultSpaceXURL      = "https://api.spacexdata.com"
	defaultOpenAIURL      = "https://api.openai.com"
)

// LoadConfig は環境変数から設定を読み込む。
// APIキーが無くても起動は失敗させず、該当ルートのリクエストごとにエラーを返す。
func LoadConfig() Config {
	return Config{
		Port:           getEnvOr("PORT", defaultPort),
		NASAAPIKey:     os.Getenv("NASA_API_KEY"),
		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:    getEnvOr("OPENAI_MODEL", defaultOpenAIModel),
		AllowedOrigins: splitList(getEnvOr("CORS_ALLOWED_ORIGINS", "*")),
		UpstreamURLs: UpstreamURLConfig{
			NASAAPI:     getEnvOr("NASA_API_URL", defaultNASAAPIURL),
			NASAImages:  getEnvOr("NASA_IMAGES_URL", defaultNASAImagesURL),
			EPICArchive: getEnvOr("EPIC_ARCHIVE_URL", defaultEPICArchiveURL),
			SpaceX:      getEnvOr("SPACEX_API_URL", defaultSpaceXURL),
			OpenAI:      getEnvOr("OPENAI_API_URL", defaultOpenAIURL),
		},
	}
}

// withDefaults は未設定の項目にデフォルト値を補完した設定を返す。
func (c Config) withDefaults() Config {
	if c.Port == "" {
		c.Port = defaultPort
	}
	if c.OpenAIModel == "" {
		c.OpenAIModel = defaultOpenAIModel
	}
	u := &c.UpstreamURLs
	u.NASAAPI = orDefault(u.NASAAPI, defaultNASAAPIURL)
	u.NASAImages = orDefault(u.NASAImages, defaultNASAImagesURL)
	u.EPICArchive = orDefault(u.EPICArchive, defaultEPICArchiveURL)
	u.SpaceX = orDefault(u.SpaceX, defaultSpaceXURL)
	u.OpenAI = orDefault(u.OpenAI, defaultOpenAIURL)
	return c
}

// validate は上流APIのURLが絶対URLであることを検証する。
func (c Config) validate() error {
	urls := map[string]string{
		"NASA_API_URL":     c.UpstreamURLs.NASAAPI,
		"NASA_IMAGES_URL":  c.UpstreamURLs.NASAImages,
		"EPIC_ARCHIVE_URL": c.UpstreamURLs.EPICArchive,
		"SPACEX_API_URL":   c.UpstreamURLs.SpaceX,
		"OPENAI_API_URL":   c.UpstreamURLs.OpenAI,
	}
	for name, raw := range urls {
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("%sの解析に失敗: %w", name, err)
		}
		if u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%sは絶対URLである必要があります: %q", name, raw)
		}
	}
	return nil
}

// getEnvOr は環境変数を取得し、設定されていない場合はデフォルト値を返す。
func getEnvOr(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func orDefault(v, defaultValue string) string {
	if v == "" {
		return defaultValue
	}
	return strings.TrimRight(v, "/")
}

// splitList はカンマ区切りの文字列を分割する。空要素は除外する。
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
