// Gatewayサービスのエントリポイント。
// NASA、SpaceX、OpenAIの各APIを束ねてWebクライアント向けのHTTP APIとして公開する。
package main

import (
	"errors"
	"io/fs"
	"log"

	"github.com/joho/godotenv"
	"github.com/nao1215/cosmos/internal/gateway"
)

func main() {
	// .envは任意。存在しない場合は環境変数のみを使用する
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf(".envの読み込みに失敗: %v", err)
	}

	cfg := gateway.LoadConfig()
	server, err := gateway.NewServer(cfg)
	if err != nil {
		log.Fatalf("Gatewayサーバーの初期化に失敗: %v", err)
	}

	log.Printf("Gatewayサービスを起動します: :%s", server.Port())
	if err := server.Run(); err != nil {
		log.Fatalf("Gatewayサービスの起動に失敗: %v", err)
	}
}
