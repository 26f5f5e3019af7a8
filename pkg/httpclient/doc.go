// Package httpclient は外部APIとのHTTP通信を行うクライアントを提供する。
//
// NASA、SpaceX、OpenAIなどの上流APIを呼び出す際に使用する。
// 1回のリクエストにつき1回だけ送信し、2xx以外のステータスは
// StatusErrorとして呼び出し元に返す。
package httpclient
