// Package gateway はGatewayサービスの内部実装を提供する。
//
// NASA（APOD、EPIC、画像検索）、SpaceX（打ち上げ、ロケット）、
// OpenAI（チャット補完）の各APIを束ね、Webクライアント向けの
// 統一されたHTTPエンドポイントとして公開する。各ルートは1回の上流API呼び出しを行い、
// レスポンスを整形して返す。状態は持たず、失敗は {"error": "..."} 形式で返す。
package gateway
