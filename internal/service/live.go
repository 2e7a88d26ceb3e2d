package service

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"fleet_tracker/internal/metrics"
)

const (
	liveWriteWait  = 10 * time.Second
	livePongWait   = 60 * time.Second
	livePingPeriod = 54 * time.Second
	liveSendBuffer = 64
)

// LiveEvent 推送給即時訂閱者的狀態紀錄
type LiveEvent struct {
	PlateNumber string           `json:"plateNumber"`
	Record      StatusRecordView `json:"record"`
}

// LiveClient 一個即時狀態的 WebSocket 訂閱者
type LiveClient struct {
	conn      *websocket.Conn
	userID    string
	vehicleID string // 空字串表示訂閱所有車輛
	send      chan []byte
	closeOnce sync.Once
}

// LiveHub 管理所有即時狀態訂閱者，新紀錄寫入後由 VehicleService 推送
type LiveHub struct {
	clients    map[*LiveClient]struct{}
	clientsMux sync.RWMutex
	logger     *zap.Logger
}

func NewLiveHub(logger *zap.Logger) *LiveHub {
	return &LiveHub{
		clients: make(map[*LiveClient]struct{}),
		logger:  logger.Named("live"),
	}
}

// HandleConnection 服務一個已升級的連線，直到連線結束才返回
func (h *LiveHub) HandleConnection(conn *websocket.Conn, userID, vehicleID string) {
	client := &LiveClient{
		conn:      conn,
		userID:    userID,
		vehicleID: vehicleID,
		send:      make(chan []byte, liveSendBuffer),
	}

	h.addClient(client)
	defer h.removeClient(client)

	go h.writePump(client)
	h.readPump(client)
}

// Publish 非阻塞地推送事件，佇列已滿的訂閱者會被斷線
func (h *LiveHub) Publish(event LiveEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("encode live event", zap.Error(err))
		return
	}

	h.clientsMux.RLock()
	var slow []*LiveClient
	for client := range h.clients {
		if client.vehicleID != "" && client.vehicleID != event.Record.VehicleID {
			continue
		}
		select {
		case client.send <- payload:
		default:
			slow = append(slow, client)
		}
	}
	h.clientsMux.RUnlock()

	for _, client := range slow {
		h.logger.Warn("dropping slow live client", zap.String("user_id", client.userID))
		h.removeClient(client)
	}
}

// ClientCount 目前連線中的訂閱者數量
func (h *LiveHub) ClientCount() int {
	h.clientsMux.RLock()
	defer h.clientsMux.RUnlock()
	return len(h.clients)
}

// readPump 訂閱者不需要送資料，只負責處理 pong 與偵測斷線
func (h *LiveHub) readPump(client *LiveClient) {
	client.conn.SetReadLimit(512)
	_ = client.conn.SetReadDeadline(time.Now().Add(livePongWait))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(livePongWait))
	})

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Debug("live client closed", zap.String("user_id", client.userID), zap.Error(err))
			}
			return
		}
	}
}

func (h *LiveHub) writePump(client *LiveClient) {
	ticker := time.NewTicker(livePingPeriod)
	defer func() {
		ticker.Stop()
		client.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-client.send:
			_ = client.conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			if !ok {
				_ = client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			_ = client.conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *LiveHub) addClient(client *LiveClient) {
	h.clientsMux.Lock()
	h.clients[client] = struct{}{}
	h.clientsMux.Unlock()

	metrics.LiveSubscribers.Inc()
}

// removeClient 可重複呼叫，只有第一次會關閉 send
func (h *LiveHub) removeClient(client *LiveClient) {
	client.closeOnce.Do(func() {
		h.clientsMux.Lock()
		delete(h.clients, client)
		h.clientsMux.Unlock()

		close(client.send)
		metrics.LiveSubscribers.Dec()
	})
}
