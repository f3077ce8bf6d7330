package channel

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guided-session-agent/internal/infra/logger"
)

func testLogger() *logger.Logger {
	return logger.NewLogger(context.Background(), "fatal", false)
}

// newDevicePair starts a fake client device behind an httptest server
// and returns a channel wrapped around the connection to it. The device
// handler receives the upgraded connection.
func newDevicePair(t *testing.T, voice string, device func(conn *websocket.Conn)) *WebSocketChannel {
	t.Helper()
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		device(conn)
	}))
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return NewWebSocketChannel(conn, voice, testLogger())
}

func TestSessionConfigAnnouncesVoice(t *testing.T) {
	frames := make(chan Frame, 1)
	newDevicePair(t, "nova", func(conn *websocket.Conn) {
		var frame Frame
		if err := conn.ReadJSON(&frame); err != nil {
			return
		}
		frames <- frame
		for {
			if err := conn.ReadJSON(&frame); err != nil {
				return
			}
		}
	})

	select {
	case frame := <-frames:
		assert.Equal(t, FrameSessionConfig, frame.Type)
		assert.Equal(t, "nova", frame.Voice)
	case <-time.After(2 * time.Second):
		t.Fatal("device never received a session_config frame")
	}
}

func TestSpeakWaitsForPlaybackDone(t *testing.T) {
	ch := newDevicePair(t, "alloy", func(conn *websocket.Conn) {
		for {
			var frame Frame
			if err := conn.ReadJSON(&frame); err != nil {
				return
			}
			if frame.Type == FrameSpeak {
				conn.WriteJSON(Frame{Type: FramePlaybackDone, ID: frame.ID})
			}
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := ch.Speak(ctx, "Welcome to your session.", false)
	assert.NoError(t, err)
}

func TestSpeakHonoursInterruption(t *testing.T) {
	ch := newDevicePair(t, "alloy", func(conn *websocket.Conn) {
		for {
			var frame Frame
			if err := conn.ReadJSON(&frame); err != nil {
				return
			}
			if frame.Type == FrameSpeak {
				conn.WriteJSON(Frame{Type: FramePlaybackInterrupted, ID: frame.ID})
				return
			}
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// An interruption still releases the speaker.
	err := ch.Speak(ctx, "A long welcome line.", true)
	assert.NoError(t, err)
}

func TestSpeakTimesOutWithoutPlaybackAck(t *testing.T) {
	ch := newDevicePair(t, "alloy", func(conn *websocket.Conn) {
		// Swallow frames, never acknowledge playback.
		for {
			var frame Frame
			if err := conn.ReadJSON(&frame); err != nil {
				return
			}
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := ch.Speak(ctx, "Anyone listening?", false)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAwaitUtteranceDeliversText(t *testing.T) {
	ch := newDevicePair(t, "alloy", func(conn *websocket.Conn) {
		conn.WriteJSON(Frame{Type: FrameUtterance, Text: "hello there"})
		// Keep the connection open until the device side is torn down.
		for {
			var frame Frame
			if err := conn.ReadJSON(&frame); err != nil {
				return
			}
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	text, err := ch.AwaitUtterance(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hello there", text)
}

func TestAwaitUtterancePreservesOrder(t *testing.T) {
	ch := newDevicePair(t, "alloy", func(conn *websocket.Conn) {
		conn.WriteJSON(Frame{Type: FrameUtterance, Text: "first"})
		conn.WriteJSON(Frame{Type: FrameUtterance, Text: "second"})
		for {
			var frame Frame
			if err := conn.ReadJSON(&frame); err != nil {
				return
			}
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	first, err := ch.AwaitUtterance(ctx)
	require.NoError(t, err)
	second, err := ch.AwaitUtterance(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, []string{first, second})
}

func TestAwaitUtteranceFailsWhenConnectionDrops(t *testing.T) {
	ch := newDevicePair(t, "alloy", func(conn *websocket.Conn) {
		conn.Close()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := ch.AwaitUtterance(ctx)
	assert.Error(t, err)
}
