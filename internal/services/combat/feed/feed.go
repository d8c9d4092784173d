// Package feed streams combat notifications to players over websockets.
//
// A connection subscribes as one player to one match and receives only the
// notifications whose recipient list names that player.
package feed

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/louisbranch/skirmish/internal/services/combat/domain/event"
)

const (
	maxFramePayloadBytes   = 4 * 1024
	maxFramesPerSecond     = 20
	maxDecodeErrorsPerConn = 3
	outboxSize             = 64
)

type wsFrame struct {
	Type      string          `json:"type"`
	RequestID string          `json:"request_id,omitempty"`
	Payload   json.RawMessage `json:"payload"`
}

type wsErrorEnvelope struct {
	Error wsError `json:"error"`
}

type wsError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type subscribePayload struct {
	MatchID  string `json:"match_id"`
	PlayerID string `json:"player_id"`
}

type subscribedPayload struct {
	MatchID  string `json:"match_id"`
	PlayerID string `json:"player_id"`
}

type notificationPayload struct {
	MatchID    string `json:"match_id"`
	Category   string `json:"category"`
	Severity   string `json:"severity"`
	ActorID    string `json:"actor_id,omitempty"`
	TargetID   string `json:"target_id,omitempty"`
	Message    string `json:"message"`
	OccurredAt string `json:"occurred_at"`
}

func toPayload(n event.Notification) notificationPayload {
	return notificationPayload{
		MatchID:    n.MatchID,
		Category:   string(n.Category),
		Severity:   string(n.Severity),
		ActorID:    n.ActorID,
		TargetID:   n.TargetID,
		Message:    n.Message,
		OccurredAt: n.OccurredAt.UTC().Format(time.RFC3339Nano),
	}
}

// subscriber is one connection's outbox. Frames are written by a single
// goroutine so a slow client never blocks a dispatch.
type subscriber struct {
	matchID  string
	playerID string
	outbox   chan wsFrame
	done     chan struct{}
	once     sync.Once
}

func newSubscriber(matchID, playerID string) *subscriber {
	return &subscriber{
		matchID:  matchID,
		playerID: playerID,
		outbox:   make(chan wsFrame, outboxSize),
		done:     make(chan struct{}),
	}
}

// offer queues a frame, dropping it when the outbox is full.
func (s *subscriber) offer(frame wsFrame) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.outbox <- frame:
		return true
	default:
		return false
	}
}

func (s *subscriber) close() {
	s.once.Do(func() { close(s.done) })
}

// Hub fans notifications out to subscribed players. It implements the
// match publisher.
type Hub struct {
	mu      sync.RWMutex
	matches map[string]map[*subscriber]struct{}
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{matches: make(map[string]map[*subscriber]struct{})}
}

func (h *Hub) subscribe(s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.matches[s.matchID]
	if !ok {
		subs = make(map[*subscriber]struct{})
		h.matches[s.matchID] = subs
	}
	subs[s] = struct{}{}
}

func (h *Hub) unsubscribe(s *subscriber) {
	if s == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	subs := h.matches[s.matchID]
	delete(subs, s)
	if len(subs) == 0 {
		delete(h.matches, s.matchID)
	}
}

// Subscribers returns how many connections follow a match.
func (h *Hub) Subscribers(matchID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.matches[matchID])
}

// Publish delivers n to every subscriber of its match that is a recipient.
func (h *Hub) Publish(n event.Notification) {
	h.mu.RLock()
	var targets []*subscriber
	for s := range h.matches[n.MatchID] {
		if n.Includes(s.playerID) {
			targets = append(targets, s)
		}
	}
	h.mu.RUnlock()
	if len(targets) == 0 {
		return
	}

	frame := wsFrame{Type: "combat.notification", Payload: mustJSON(toPayload(n))}
	for _, s := range targets {
		if !s.offer(frame) {
			log.Printf("combat feed: dropped notification for player %s in match %s", s.playerID, s.matchID)
		}
	}
}

func mustJSON(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		log.Printf("combat feed: marshal frame payload: %v", err)
		return nil
	}
	return b
}
