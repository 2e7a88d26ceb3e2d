// Package api 處理 HTTP 請求路由和處理。
//
// routes.go 將 handlers 掛上 gin 路由並套用驗證、速率限制、CORS 與安全標頭；
// handlers 子套件負責把 HTTP 請求轉換為服務調用，並以統一的 JSON 格式回應。
package api
