package channel

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"

	"guided-session-agent/internal/infra/logger"
)

// Frame is the JSON control frame exchanged with the client device.
// The service opens with a session_config frame carrying the persona
// voice the device applies to TTS, then sends speak and session_ended
// frames; the device answers with playback_done / playback_interrupted
// for each speak id and sends utterance frames whenever the speech
// pipeline commits a complete user utterance.
type Frame struct {
	Type          string `json:"type"`
	ID            int64  `json:"id,omitempty"`
	Text          string `json:"text,omitempty"`
	Voice         string `json:"voice,omitempty"`
	Interruptible bool   `json:"interruptible,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

const (
	FrameSessionConfig       = "session_config"
	FrameSpeak               = "speak"
	FramePlaybackDone        = "playback_done"
	FramePlaybackInterrupted = "playback_interrupted"
	FrameUtterance           = "utterance"
	FrameSessionEnded        = "session_ended"
)

// utteranceBuffer bounds how many committed utterances may queue up
// while the driver is busy speaking.
const utteranceBuffer = 8

var errChannelClosed = errors.New("speech channel closed")

// WebSocketChannel adapts one websocket connection to the say/listen
// contract the session driver consumes. A single reader goroutine pumps
// inbound frames into Go channels, so callers simply block on the next
// event instead of juggling handler registration.
type WebSocketChannel struct {
	conn   *websocket.Conn
	logger *logger.Logger

	writeMu sync.Mutex
	nextID  int64

	mu       sync.Mutex
	playback map[int64]chan string

	utterances chan string
	done       chan struct{}
	closeOnce  sync.Once
	err        error
}

// NewWebSocketChannel wraps an upgraded connection and immediately
// announces the session configuration so the device can select the
// persona voice before the first speak frame arrives.
func NewWebSocketChannel(conn *websocket.Conn, voice string, log *logger.Logger) *WebSocketChannel {
	c := &WebSocketChannel{
		conn:       conn,
		logger:     log,
		playback:   make(map[int64]chan string),
		utterances: make(chan string, utteranceBuffer),
		done:       make(chan struct{}),
	}
	if err := conn.WriteJSON(Frame{Type: FrameSessionConfig, Voice: voice}); err != nil {
		log.Warn(fmt.Sprintf("Failed to send session_config frame: %v", err))
	}
	go c.readLoop()
	return c
}

// Speak sends a line to be synthesized and suspends until the device
// reports playback finished or, for interruptible lines, interrupted.
func (c *WebSocketChannel) Speak(ctx context.Context, text string, interruptible bool) error {
	c.writeMu.Lock()
	c.nextID++
	id := c.nextID
	waiter := make(chan string, 1)

	c.mu.Lock()
	c.playback[id] = waiter
	c.mu.Unlock()

	err := c.conn.WriteJSON(Frame{
		Type:          FrameSpeak,
		ID:            id,
		Text:          text,
		Interruptible: interruptible,
	})
	c.writeMu.Unlock()

	if err != nil {
		c.forget(id)
		return fmt.Errorf("failed to send speak frame: %w", err)
	}

	select {
	case <-waiter:
		return nil
	case <-ctx.Done():
		c.forget(id)
		return ctx.Err()
	case <-c.done:
		return c.closeErr()
	}
}

// AwaitUtterance suspends until the next complete user utterance is
// available.
func (c *WebSocketChannel) AwaitUtterance(ctx context.Context) (string, error) {
	select {
	case text := <-c.utterances:
		return text, nil
	case <-ctx.Done():
		return "", ctx.Err()
	case <-c.done:
		return "", c.closeErr()
	}
}

// Close tells the device the session is over and tears the connection
// down.
func (c *WebSocketChannel) Close(reason string) {
	c.writeMu.Lock()
	if err := c.conn.WriteJSON(Frame{Type: FrameSessionEnded, Reason: reason}); err != nil {
		c.logger.Debug(fmt.Sprintf("Failed to send session_ended frame: %v", err))
	}
	c.writeMu.Unlock()
	c.conn.Close()
}

func (c *WebSocketChannel) readLoop() {
	for {
		var frame Frame
		if err := c.conn.ReadJSON(&frame); err != nil {
			c.closeOnce.Do(func() {
				c.err = err
				close(c.done)
			})
			return
		}

		switch frame.Type {
		case FrameUtterance:
			select {
			case c.utterances <- frame.Text:
			default:
				c.logger.Warn("Utterance buffer full, dropping oldest utterance")
				select {
				case <-c.utterances:
				default:
				}
				c.utterances <- frame.Text
			}
		case FramePlaybackDone, FramePlaybackInterrupted:
			c.mu.Lock()
			waiter, ok := c.playback[frame.ID]
			if ok {
				delete(c.playback, frame.ID)
			}
			c.mu.Unlock()
			if ok {
				waiter <- frame.Type
			}
		default:
			c.logger.Debug(fmt.Sprintf("Ignoring unknown frame type %q", frame.Type))
		}
	}
}

func (c *WebSocketChannel) forget(id int64) {
	c.mu.Lock()
	delete(c.playback, id)
	c.mu.Unlock()
}

func (c *WebSocketChannel) closeErr() error {
	if c.err != nil {
		return fmt.Errorf("%w: %v", errChannelClosed, c.err)
	}
	return errChannelClosed
}
