package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	ws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/midnightgrind/tiresim/internal/storage"
	"github.com/midnightgrind/tiresim/pkg/streaming"
	"github.com/midnightgrind/tiresim/pkg/telemetry"
)

// Compile-time interface check.
var _ storage.Backend = (*Backend)(nil)

// testServer creates an httptest server that upgrades to WebSocket,
// records received messages, and sends acks for start_session/end_session.
func testServer(t *testing.T) (*httptest.Server, *messageLog) {
	t.Helper()
	ml := &messageLog{}

	upgrader := ws.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Logf("upgrade error: %v", err)
			return
		}
		defer c.Close()

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				return
			}

			var env streaming.Envelope
			if err := json.Unmarshal(msg, &env); err != nil {
				continue
			}
			ml.add(env)

			// Ack start_session and end_session.
			if env.Type == streaming.TypeStartSession || env.Type == streaming.TypeEndSession {
				ack := streaming.AckMessage{Type: "ack", For: env.Type}
				data, _ := json.Marshal(ack)
				if err := c.WriteMessage(ws.TextMessage, data); err != nil {
					return
				}
			}
		}
	}))

	return srv, ml
}

type messageLog struct {
	mu       sync.Mutex
	messages []streaming.Envelope
}

func (m *messageLog) add(env streaming.Envelope) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, env)
}

func (m *messageLog) all() []streaming.Envelope {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]streaming.Envelope, len(m.messages))
	copy(cp, m.messages)
	return cp
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestStartAndEndSession(t *testing.T) {
	srv, ml := testServer(t)
	defer srv.Close()

	b := New(Config{URL: wsURL(srv), Secret: "test"})
	require.NoError(t, b.Init())
	defer b.Close()

	session := &telemetry.Session{SessionName: "Bayshore Night Race", Tag: "league"}
	track := &telemetry.Track{TrackName: "bayshore_route"}
	require.NoError(t, b.StartSession(session, track))

	require.NoError(t, b.EndSession())

	msgs := ml.all()
	require.GreaterOrEqual(t, len(msgs), 2)
	assert.Equal(t, streaming.TypeStartSession, msgs[0].Type)
	assert.Equal(t, streaming.TypeEndSession, msgs[len(msgs)-1].Type)
}

func TestFireAndForgetMessages(t *testing.T) {
	srv, ml := testServer(t)
	defer srv.Close()

	b := New(Config{URL: wsURL(srv), Secret: "s"})
	require.NoError(t, b.Init())
	defer b.Close()

	session := &telemetry.Session{SessionName: "S"}
	track := &telemetry.Track{TrackName: "T"}
	require.NoError(t, b.StartSession(session, track))

	require.NoError(t, b.AddVehicle(&telemetry.Vehicle{ID: 1, DisplayName: "Kaido RX"}))
	require.NoError(t, b.RecordWheelState(&telemetry.WheelState{VehicleID: 1, CaptureFrame: 1}))
	require.NoError(t, b.RecordDamageEvent(&telemetry.DamageEvent{VehicleID: 1, Cause: "SlowLeak"}))
	require.NoError(t, b.RecordBlowoutEvent(&telemetry.BlowoutEvent{VehicleID: 1}))
	require.NoError(t, b.RecordLapTelemetry(&telemetry.LapTelemetry{VehicleID: 1, Lap: 1}))
	require.NoError(t, b.RecordPerformance(&telemetry.PerformanceSample{}))

	require.NoError(t, b.EndSession())

	// Give a moment for all messages to arrive at server.
	time.Sleep(50 * time.Millisecond)

	msgs := ml.all()

	types := make(map[string]int)
	for _, m := range msgs {
		types[m.Type]++
	}

	assert.Equal(t, 1, types[streaming.TypeStartSession])
	assert.Equal(t, 1, types[streaming.TypeEndSession])
	assert.Equal(t, 1, types[streaming.TypeAddVehicle])
	assert.Equal(t, 1, types[streaming.TypeWheelState])
	assert.Equal(t, 1, types[streaming.TypeDamageEvent])
	assert.Equal(t, 1, types[streaming.TypeBlowoutEvent])
	assert.Equal(t, 1, types[streaming.TypeLapTelemetry])
	assert.Equal(t, 1, types[streaming.TypePerformance])
}

func TestEnvelopeSerialization(t *testing.T) {
	payload := streaming.StartSessionPayload{
		Session: &telemetry.Session{SessionName: "Touge Run"},
		Track:   &telemetry.Track{TrackName: "mount_akaishi"},
	}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	env := streaming.Envelope{Type: streaming.TypeStartSession, Payload: raw}
	data, err := json.Marshal(env)
	require.NoError(t, err)

	var decoded streaming.Envelope
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, streaming.TypeStartSession, decoded.Type)

	var sp streaming.StartSessionPayload
	require.NoError(t, json.Unmarshal(decoded.Payload, &sp))
	assert.Equal(t, "Touge Run", sp.Session.SessionName)
	assert.Equal(t, "mount_akaishi", sp.Track.TrackName)
}
