package feed

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/websocket"
)

// MatchChecker reports whether a match is open.
type MatchChecker interface {
	IsOpen(matchID string) bool
}

// MatchCheckerFunc adapts a function to MatchChecker.
type MatchCheckerFunc func(matchID string) bool

// IsOpen calls f.
func (f MatchCheckerFunc) IsOpen(matchID string) bool {
	return f(matchID)
}

// NewHandler serves /up and the /ws feed endpoint. A nil checker accepts
// subscriptions to any match.
func NewHandler(hub *Hub, matches MatchChecker) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/up", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	wsHandler := websocket.Handler(func(conn *websocket.Conn) {
		handleWSConn(conn, hub, matches)
	})
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		wsHandler.ServeHTTP(w, r)
	})
	return mux
}

type wsConn struct {
	conn    *websocket.Conn
	hub     *Hub
	matches MatchChecker
	encoder *json.Encoder
	// control carries replies to client frames; notifications go through
	// the subscriber outbox.
	control chan wsFrame
	sub     *subscriber
	subs    chan *subscriber
	// done closes when the reader exits; stopped closes when the writer exits.
	done    chan struct{}
	stopped chan struct{}
}

func handleWSConn(conn *websocket.Conn, hub *Hub, matches MatchChecker) {
	c := &wsConn{
		conn:    conn,
		hub:     hub,
		matches: matches,
		encoder: json.NewEncoder(conn),
		control: make(chan wsFrame, 8),
		subs:    make(chan *subscriber, 1),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go func() {
		defer close(c.stopped)
		c.writeLoop()
	}()
	defer func() {
		close(c.done)
		<-c.stopped
		if c.sub != nil {
			hub.unsubscribe(c.sub)
			c.sub.close()
		}
		_ = conn.Close()
	}()
	c.readLoop()
}

// writeLoop is the only goroutine writing to the connection.
func (c *wsConn) writeLoop() {
	var outbox chan wsFrame
	for {
		select {
		case <-c.done:
			return
		case sub := <-c.subs:
			outbox = nil
			if sub != nil {
				outbox = sub.outbox
			}
		case frame := <-c.control:
			if err := c.encoder.Encode(frame); err != nil {
				return
			}
		case frame := <-outbox:
			if err := c.encoder.Encode(frame); err != nil {
				return
			}
		}
	}
}

func (c *wsConn) reply(frame wsFrame) {
	select {
	case c.control <- frame:
	case <-c.stopped:
	}
}

func (c *wsConn) follow(sub *subscriber) {
	select {
	case c.subs <- sub:
	case <-c.stopped:
	}
}

func (c *wsConn) replyError(requestID, code, message string) {
	c.reply(wsFrame{
		Type:      "combat.error",
		RequestID: requestID,
		Payload:   mustJSON(wsErrorEnvelope{Error: wsError{Code: code, Message: message}}),
	})
}

func (c *wsConn) readLoop() {
	decoder := json.NewDecoder(c.conn)
	windowStart := time.Now()
	framesInWindow := 0
	decodeErrors := 0

	for {
		var frame wsFrame
		if err := decoder.Decode(&frame); err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			decodeErrors++
			c.replyError("", "INVALID_ARGUMENT", "invalid frame payload")
			if decodeErrors >= maxDecodeErrorsPerConn {
				return
			}
			continue
		}
		decodeErrors = 0

		if len(frame.Payload) > maxFramePayloadBytes {
			c.replyError(frame.RequestID, "INVALID_ARGUMENT", "payload too large")
			continue
		}

		now := time.Now()
		if now.Sub(windowStart) >= time.Second {
			windowStart = now
			framesInWindow = 0
		}
		framesInWindow++
		if framesInWindow > maxFramesPerSecond {
			c.replyError(frame.RequestID, "RESOURCE_EXHAUSTED", "rate limit exceeded")
			return
		}

		switch frame.Type {
		case "combat.subscribe":
			c.handleSubscribe(frame)
		case "combat.unsubscribe":
			c.handleUnsubscribe(frame)
		default:
			c.replyError(frame.RequestID, "INVALID_ARGUMENT", "unsupported frame type")
		}
	}
}

func (c *wsConn) handleSubscribe(frame wsFrame) {
	var payload subscribePayload
	if err := json.Unmarshal(frame.Payload, &payload); err != nil {
		c.replyError(frame.RequestID, "INVALID_ARGUMENT", "invalid subscribe payload")
		return
	}
	matchID := strings.TrimSpace(payload.MatchID)
	playerID := strings.TrimSpace(payload.PlayerID)
	if matchID == "" || playerID == "" {
		c.replyError(frame.RequestID, "INVALID_ARGUMENT", "match_id and player_id are required")
		return
	}
	if c.matches != nil && !c.matches.IsOpen(matchID) {
		c.replyError(frame.RequestID, "NOT_FOUND", "match not found")
		return
	}

	if c.sub != nil {
		c.hub.unsubscribe(c.sub)
		c.sub.close()
	}
	c.sub = newSubscriber(matchID, playerID)
	c.follow(c.sub)
	c.hub.subscribe(c.sub)
	c.reply(wsFrame{
		Type:      "combat.subscribed",
		RequestID: frame.RequestID,
		Payload:   mustJSON(subscribedPayload{MatchID: matchID, PlayerID: playerID}),
	})
}

func (c *wsConn) handleUnsubscribe(frame wsFrame) {
	if c.sub != nil {
		c.hub.unsubscribe(c.sub)
		c.sub.close()
		c.sub = nil
		c.follow(nil)
	}
	c.reply(wsFrame{Type: "combat.unsubscribed", RequestID: frame.RequestID, Payload: mustJSON(struct{}{})})
}
