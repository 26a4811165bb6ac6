package services

import (
	"context"
	"sync"

	"directChat/internal/errs"
	"directChat/internal/models"
	"directChat/pkg/logger"

	"go.uber.org/zap"
)

type SessionState int

const (
	SessionDisconnected SessionState = iota
	SessionListening
)

// EventSink receives state pushed out of a session, normally down the
// actor's websocket.
type EventSink func(event string, payload any)

// ChatSession holds one connected actor's two derived projections: the
// conversation summary list and the active thread. Both are caches over the
// message store, refreshed by explicit reloads and by delivery events, and
// never mutated on any other path.
//
// The session starts LISTENING and goes DISCONNECTED exactly once, on
// Close. A closed session drops all events, so tearing it down before
// registering a successor actor guarantees the successor never observes the
// previous actor's stream.
type ChatSession struct {
	mu      sync.Mutex
	actorId uint
	svc     *ChatService
	sink    EventSink
	state   SessionState

	conversations []models.Conversation
	thread        []models.Message
	activePartner uint

	// epoch fences thread loads: it bumps on every OpenThread, and a load
	// result is applied only if its epoch is still current. A slow load for
	// a previous partner can therefore never clobber the current thread.
	epoch uint64
}

func NewChatSession(actorId uint, svc *ChatService, sink EventSink) *ChatSession {
	return &ChatSession{
		actorId: actorId,
		svc:     svc,
		sink:    sink,
		state:   SessionListening,
	}
}

func (s *ChatSession) ActorId() uint {
	return s.actorId
}

func (s *ChatSession) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *ChatSession) ActivePartner() uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activePartner
}

// Conversations returns the cached summary list.
func (s *ChatSession) Conversations() []models.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Conversation, len(s.conversations))
	copy(out, s.conversations)
	return out
}

// Thread returns the cached active transcript.
func (s *ChatSession) Thread() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Message, len(s.thread))
	copy(out, s.thread)
	return out
}

// RefreshConversations re-runs the aggregator. On store failure the prior
// list stays in place: stale beats empty.
func (s *ChatSession) RefreshConversations(ctx context.Context) []models.Conversation {
	conversations, errors := s.svc.GetConversations(ctx, s.actorId)
	if len(errors) > 0 {
		logger.Warn("conversation refresh failed, keeping stale list",
			zap.Uint("actor_id", s.actorId), zap.Errors("errors", errors))
		return s.Conversations()
	}

	s.mu.Lock()
	if s.state == SessionListening {
		s.conversations = conversations
	}
	s.mu.Unlock()

	s.emit("conversations", conversations)
	return conversations
}

// OpenThread switches the active partner and loads its transcript. The
// partner switch is visible immediately; the load result is applied only if
// no later switch happened while it was in flight.
func (s *ChatSession) OpenThread(ctx context.Context, partnerId uint) ([]models.Message, []error) {
	s.mu.Lock()
	if s.state != SessionListening {
		s.mu.Unlock()
		return nil, []error{errs.ErrSessionClosed}
	}
	s.activePartner = partnerId
	s.epoch++
	epoch := s.epoch
	s.mu.Unlock()

	messages, errors := s.svc.GetThread(ctx, s.actorId, partnerId)
	if len(errors) > 0 {
		// Keep whatever thread was on screen before.
		return nil, errors
	}

	if !s.applyThread(epoch, messages) {
		return nil, nil
	}

	s.emit("thread", messages)
	return messages, nil
}

// applyThread installs a load result if its epoch is still the current one.
// Returns false when the result is stale and was discarded.
func (s *ChatSession) applyThread(epoch uint64, messages []models.Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != SessionListening || epoch != s.epoch {
		return false
	}
	s.thread = messages
	return true
}

// HandleIncoming reconciles one pushed insert event. The active-partner
// check happens here, at delivery time, so an event raced against a partner
// switch lands according to the switch, not the subscription.
func (s *ChatSession) HandleIncoming(ctx context.Context, message *models.Message) {
	if message == nil || message.ReceiverID != s.actorId {
		return
	}

	s.mu.Lock()
	if s.state != SessionListening {
		s.mu.Unlock()
		return
	}
	appended := false
	if message.SenderID == s.activePartner && !s.containsLocked(message.ID) {
		// Pushed events carry store order; a new insert is always newest,
		// so tail append preserves the ascending contract.
		s.thread = append(s.thread, *message)
		appended = true
	}
	s.mu.Unlock()

	if appended {
		s.emit("message_created", message)
	}
	s.RefreshConversations(ctx)
}

// AppendSent records the composer's confirmed outbound row when the
// receiver's thread is the active one. Dedup by id keeps the row unique if
// a delivery event for the same insert ever reaches this session.
func (s *ChatSession) AppendSent(message *models.Message) {
	if message == nil || message.SenderID != s.actorId {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != SessionListening {
		return
	}
	if message.ReceiverID == s.activePartner && !s.containsLocked(message.ID) {
		s.thread = append(s.thread, *message)
	}
}

func (s *ChatSession) containsLocked(messageId uint) bool {
	for i := range s.thread {
		if s.thread[i].ID == messageId {
			return true
		}
	}
	return false
}

// Close moves the session to DISCONNECTED. It is synchronous: once it
// returns, no event delivered afterwards can touch the caches.
func (s *ChatSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = SessionDisconnected
	s.thread = nil
	s.conversations = nil
	s.activePartner = 0
}

func (s *ChatSession) emit(event string, payload any) {
	s.mu.Lock()
	sink := s.sink
	closed := s.state != SessionListening
	s.mu.Unlock()
	if sink == nil || closed {
		return
	}
	sink(event, payload)
}
