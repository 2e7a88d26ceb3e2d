package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 2 * time.Second

// Pinger 健康檢查時確認資料庫連線
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db      Pinger
	started time.Time
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db, started: time.Now()}
}

// Health 回傳服務狀態與已執行秒數，資料庫無法連線時回 503
func (h *HealthHandler) Health(c *gin.Context) {
	status, code := "OK", http.StatusOK
	body := gin.H{
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		"uptime":    time.Since(h.started).Seconds(),
	}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		defer cancel()

		body["database"] = "OK"
		if err := h.db.Ping(ctx); err != nil {
			_ = c.Error(err)
			status, code = "ERROR", http.StatusServiceUnavailable
			body["database"] = "ERROR"
		}
	}

	body["status"] = status
	c.JSON(code, body)
}
