package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fleet_tracker/internal/models"
)

func serveHub(t *testing.T, hub *LiveHub) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.HandleConnection(conn, "tester", r.URL.Query().Get("vehicleId"))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) LiveEvent {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var event LiveEvent
	require.NoError(t, json.Unmarshal(payload, &event))
	return event
}

func TestLiveHubFiltersByVehicle(t *testing.T) {
	hub := NewLiveHub(zap.NewNop())
	srv := serveHub(t, hub)

	all := dial(t, srv, "")
	onlyB := dial(t, srv, "?vehicleId=b")
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, 2*time.Second, 10*time.Millisecond)

	hub.Publish(LiveEvent{PlateNumber: "A1", Record: StatusRecordView{
		VehicleStatusRecord: models.VehicleStatusRecord{VehicleID: "a", Status: models.StatusTrip},
	}})
	hub.Publish(LiveEvent{PlateNumber: "B1", Record: StatusRecordView{
		VehicleStatusRecord: models.VehicleStatusRecord{VehicleID: "b", Status: models.StatusIdle},
		Location:            "Unknown",
	}})

	assert.Equal(t, "A1", readEvent(t, all).PlateNumber)
	assert.Equal(t, "B1", readEvent(t, all).PlateNumber)

	got := readEvent(t, onlyB)
	assert.Equal(t, "B1", got.PlateNumber)
	assert.Equal(t, models.StatusIdle, got.Record.Status)
	assert.Equal(t, "Unknown", got.Record.Location)
}

func TestLiveHubRemovesClosedClients(t *testing.T) {
	hub := NewLiveHub(zap.NewNop())
	srv := serveHub(t, hub)

	conn := dial(t, srv, "")
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestRecordStatusPublishesToSubscribers(t *testing.T) {
	f := newFixture(t)
	v := f.vehicle(t, "L1")
	srv := serveHub(t, f.services.Live)

	conn := dial(t, srv, "?vehicleId="+v.ID)
	require.Eventually(t, func() bool { return f.services.Live.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	f.record(t, v.ID, models.StatusTrip, time.Now())

	got := readEvent(t, conn)
	assert.Equal(t, "L1", got.PlateNumber)
	assert.Equal(t, v.ID, got.Record.VehicleID)
	assert.Equal(t, "-6.2088, 106.8456", got.Record.Location)
}
