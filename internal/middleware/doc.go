// Package middleware 提供了 HTTP 請求處理的中間件。
//
// 包含 access token 驗證與角色檢查、以來源 IP 為單位的請求速率限制、
// zap 請求日誌，以及 Prometheus 請求指標。
package middleware
