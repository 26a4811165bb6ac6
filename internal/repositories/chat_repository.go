package repositories

import (
	"context"

	"directChat/internal/models"

	"gorm.io/gorm"
)

type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{
		db: db,
	}
}

// ListActorMessages returns every message the actor participates in, newest
// first. Ties on created_at are broken by id so the order is total.
func (chr *ChatRepository) ListActorMessages(ctx context.Context, actorId uint) ([]models.Message, error) {
	var messages []models.Message
	if err := chr.db.WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", actorId, actorId).
		Order("created_at DESC, id DESC").
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// ListThread returns both directions of the pair, oldest first, matching a
// chat transcript.
func (chr *ChatRepository) ListThread(ctx context.Context, actorId, partnerId uint) ([]models.Message, error) {
	var messages []models.Message
	if err := chr.db.WithContext(ctx).
		Where(
			"(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			actorId, partnerId, partnerId, actorId,
		).
		Order("created_at ASC, id ASC").
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// SaveMessage inserts the row; gorm fills in the store-assigned id and
// created_at on the passed struct.
func (chr *ChatRepository) SaveMessage(ctx context.Context, message *models.Message) (*models.Message, error) {
	if err := chr.db.WithContext(ctx).Create(message).Error; err != nil {
		return nil, err
	}
	return message, nil
}

// MarkThreadRead flips is_read on every inbound message from the partner.
// The is_read = false predicate keeps the update idempotent: true is a
// terminal value.
func (chr *ChatRepository) MarkThreadRead(ctx context.Context, actorId, partnerId uint) (int64, error) {
	result := chr.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND is_read = ?", partnerId, actorId, false).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

func (chr *ChatRepository) CountThreadUnread(ctx context.Context, actorId, partnerId uint) (int, error) {
	var count int64
	if err := chr.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND is_read = ?", partnerId, actorId, false).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

// GetProfilesByIDs fetches display attributes for a set of users in one
// query and returns them keyed by id.
func (chr *ChatRepository) GetProfilesByIDs(ctx context.Context, ids []uint) (map[uint]*models.UserResponse, error) {
	profiles := make(map[uint]*models.UserResponse, len(ids))
	if len(ids) == 0 {
		return profiles, nil
	}
	var users []models.User
	if err := chr.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&users).Error; err != nil {
		return nil, err
	}
	for i := range users {
		profiles[users[i].ID] = users[i].ToUserResponse()
	}
	return profiles, nil
}
