package services

import (
	"context"
	"strings"

	"directChat/internal/errs"
	"directChat/internal/interfaces"
	"directChat/internal/models"
	"directChat/internal/repositories"
	"directChat/pkg/logger"

	"go.uber.org/zap"
)

type ChatService struct {
	chatRepo *repositories.ChatRepository
	notifier interfaces.MessageNotifier
}

func NewChatService(chatRepo *repositories.ChatRepository, notifier interfaces.MessageNotifier) *ChatService {
	return &ChatService{
		chatRepo: chatRepo,
		notifier: notifier,
	}
}

// GetConversations derives the one-row-per-partner summary list for the
// actor. The message scan is newest first, so the first message seen for a
// partner fixes last_message and last_message_at, and the output keeps that
// recency order. Unread counts are tallied over the whole scan.
func (cs *ChatService) GetConversations(ctx context.Context, actorId uint) ([]models.Conversation, []error) {
	if actorId == 0 {
		return []models.Conversation{}, nil
	}

	messages, err := cs.chatRepo.ListActorMessages(ctx, actorId)
	if err != nil {
		logger.Error("failed to list actor messages",
			zap.Uint("actor_id", actorId), zap.Error(err))
		return nil, []error{errs.ErrStoreUnavailable, err}
	}

	var order []uint
	summaries := make(map[uint]*models.Conversation)

	for i := range messages {
		msg := &messages[i]
		partnerId := msg.PartnerOf(actorId)

		summary, seen := summaries[partnerId]
		if !seen {
			summary = &models.Conversation{
				PartnerID:     partnerId,
				LastMessage:   msg.Content,
				LastMessageAt: msg.CreatedAt,
			}
			summaries[partnerId] = summary
			order = append(order, partnerId)
		}
		if msg.SenderID == partnerId && msg.ReceiverID == actorId && !msg.IsRead {
			summary.UnreadCount++
		}
	}

	// Profiles are decorative; a lookup failure degrades the list instead of
	// failing it.
	profiles, profileErr := cs.chatRepo.GetProfilesByIDs(ctx, order)
	if profileErr != nil {
		logger.Warn("failed to fetch partner profiles",
			zap.Uint("actor_id", actorId), zap.Error(profileErr))
	}

	conversations := make([]models.Conversation, 0, len(order))
	for _, partnerId := range order {
		summary := summaries[partnerId]
		if profile, ok := profiles[partnerId]; ok {
			summary.PartnerProfile = profile
		} else {
			summary.PartnerProfile = &models.UserResponse{ID: partnerId, Username: "unknown"}
		}
		conversations = append(conversations, *summary)
	}

	return conversations, nil
}

// GetThread loads the full transcript with one partner, oldest first, and
// then flips the read flag on the partner's inbound messages. The returned
// transcript never depends on the flip succeeding.
func (cs *ChatService) GetThread(ctx context.Context, actorId, partnerId uint) ([]models.Message, []error) {
	if actorId == 0 {
		return nil, []error{errs.ErrAuthenticationRequired}
	}
	if partnerId == 0 {
		return nil, []error{errs.ErrInvalidPartnerId}
	}

	messages, err := cs.chatRepo.ListThread(ctx, actorId, partnerId)
	if err != nil {
		logger.Error("failed to load thread",
			zap.Uint("actor_id", actorId), zap.Uint("partner_id", partnerId), zap.Error(err))
		return nil, []error{errs.ErrStoreUnavailable, err}
	}

	if _, err := cs.chatRepo.MarkThreadRead(ctx, actorId, partnerId); err != nil {
		logger.Warn("failed to mark thread read",
			zap.Uint("actor_id", actorId), zap.Uint("partner_id", partnerId), zap.Error(err))
	}

	return messages, nil
}

// SendMessage validates and persists one outbound message. There is no
// optimistic row: either the store confirms the insert and the stored row is
// returned, or the caller gets an error.
func (cs *ChatService) SendMessage(ctx context.Context, actorId, receiverId uint, content string) (*models.Message, []error) {
	if actorId == 0 {
		return nil, []error{errs.ErrAuthenticationRequired}
	}
	if receiverId == 0 {
		return nil, []error{errs.ErrInvalidPartnerId}
	}
	if receiverId == actorId {
		return nil, []error{errs.ErrCannotMessageSelf}
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, []error{errs.ErrEmptyMessageContent}
	}

	message := &models.Message{
		SenderID:   actorId,
		ReceiverID: receiverId,
		Content:    content,
		IsRead:     false,
	}
	saved, err := cs.chatRepo.SaveMessage(ctx, message)
	if err != nil {
		logger.Error("failed to save message",
			zap.Uint("actor_id", actorId), zap.Uint("receiver_id", receiverId), zap.Error(err))
		return nil, []error{errs.ErrStoreUnavailable, err}
	}

	// The row is confirmed at this point; a lost notification only delays
	// delivery until the receiver's next reload.
	if cs.notifier != nil {
		if err := cs.notifier.NotifyMessageCreated(ctx, saved); err != nil {
			logger.Warn("failed to publish message notification",
				zap.Uint("message_id", saved.ID), zap.Error(err))
		}
	}

	return saved, nil
}

func (cs *ChatService) CountThreadUnread(ctx context.Context, actorId, partnerId uint) (int, error) {
	return cs.chatRepo.CountThreadUnread(ctx, actorId, partnerId)
}
