package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"fleet_tracker/internal/middleware"
	"fleet_tracker/internal/service"
)

// LiveHandler 將請求升級為 WebSocket 並訂閱即時狀態
type LiveHandler struct {
	hub            *service.LiveHub
	vehicleService *service.VehicleService
	upgrader       websocket.Upgrader
}

// NewLiveHandler allowedOrigin 與 CORS 設定相同，"*" 表示不檢查
func NewLiveHandler(hub *service.LiveHub, vehicleService *service.VehicleService, allowedOrigin string) *LiveHandler {
	return &LiveHandler{
		hub:            hub,
		vehicleService: vehicleService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowedOrigin == "*" || origin == allowedOrigin
			},
		},
	}
}

// Subscribe 可用 ?vehicleId= 只訂閱單一車輛
func (h *LiveHandler) Subscribe(c *gin.Context) {
	vehicleID := c.Query("vehicleId")
	if vehicleID != "" {
		if err := h.vehicleService.Exists(c.Request.Context(), vehicleID); err != nil {
			handleError(c, err)
			return
		}
	}

	// 升級失敗時 upgrader 已回覆錯誤
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	h.hub.HandleConnection(conn, middleware.CurrentUser(c).ID, vehicleID)
}
