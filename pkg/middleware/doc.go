// Package middleware はGinベースのHTTP APIで使用する共通ミドルウェアを提供する。
//
// パニックリカバリ、リクエストIDの付与、CORS設定を含む。
// gatewayのフロントエンドは任意のオリジンから配信されるため、
// CORSはデフォルトで全オリジンを許可する。
package middleware
