package gateway

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/cosmos/pkg/httpclient"
	"github.com/nao1215/cosmos/pkg/middleware"
)

// Server はGatewayサービスのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// nasaKey はNASA APIキー。
	nasaKey string
	// openAIKey はOpenAI APIキー。
	openAIKey string
	// openAIModel はロケット比較に使用するモデル名。
	openAIModel string
	// epicArchiveURL はEPIC画像URLの組み立てに使うアーカイブのベースURL。
	epicArchiveURL string
	// nasa はAPOD/EPIC用のクライアント。
	nasa *httpclient.Client
	// nasaImages はNASA画像検索用のクライアント。
	nasaImages *httpclient.Client
	// spacex はSpaceX API用のクライアント。
	spacex *httpclient.Client
	// openAI はOpenAI API用のクライアント。
	openAI *httpclient.Client
	// metrics はPrometheusメトリクス。
	metrics *gatewayMetrics
}

// NewServer は新しいGatewayサーバーを生成する。
func NewServer(cfg Config) (*Server, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("設定の検証に失敗: %w", err)
	}

	m := newGatewayMetrics()

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(gin.Logger())
	// プリフライトはCORSで中断されるため、計測はCORSより前に置く
	router.Use(m.instrument())
	router.Use(middleware.CORS(cfg.AllowedOrigins...))

	s := &Server{
		router:         router,
		port:           cfg.Port,
		nasaKey:        cfg.NASAAPIKey,
		openAIKey:      cfg.OpenAIAPIKey,
		openAIModel:    cfg.OpenAIModel,
		epicArchiveURL: cfg.UpstreamURLs.EPICArchive,
		nasa:           httpclient.New(cfg.UpstreamURLs.NASAAPI),
		nasaImages:     httpclient.New(cfg.UpstreamURLs.NASAImages),
		spacex:         httpclient.New(cfg.UpstreamURLs.SpaceX),
		openAI:         httpclient.New(cfg.UpstreamURLs.OpenAI),
		metrics:        m,
	}
	s.setupRoutes()

	return s, nil
}

// Run はHTTPサーバーを起動する。
func (s *Server) Run() error {
	return s.router.Run(fmt.Sprintf(":%s", s.port))
}

// Port はサーバーのリッスンポートを返す。
func (s *Server) Port() string {
	return s.port
}

// ServeHTTP はhttp.Handlerを実装する。
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupRoutes はAPIルーティングを設定する。
func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	{
		// NASA
		api.GET("/apod", s.handleAPOD())
		api.GET("/epic", s.handleEPIC())
		api.GET("/nasa-images", s.handleNASAImages())

		// SpaceX
		api.GET("/launches", s.handleLaunches())
		api.GET("/rockets", s.handleRockets())

		// OpenAI
		api.POST("/compare-rockets", s.handleCompareRockets())
	}

	// ヘルスチェック
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "gateway"})
	})

	s.router.GET("/metrics", gin.WrapH(s.metrics.handler()))
}
