package services

import (
	"context"
	"encoding/json"

	"directChat/internal/enums"
	"directChat/internal/models"
	redisModels "directChat/internal/models/redis"

	"github.com/redis/go-redis/v9"
)

// RedisMessageNotifier publishes insert events to the shared redis channel.
// Every running instance subscribes to the same channel, so a receiver
// connected to another instance still observes the event.
type RedisMessageNotifier struct {
	redis *redis.Client
}

func NewRedisMessageNotifier(redis *redis.Client) *RedisMessageNotifier {
	return &RedisMessageNotifier{
		redis: redis,
	}
}

func (rn *RedisMessageNotifier) NotifyMessageCreated(ctx context.Context, message *models.Message) error {
	event := redisModels.RedisPublishedMessage{
		Event:      enums.SOCKET_EVENT_MESSAGE_CREATED,
		ReceiverID: message.ReceiverID,
		Payload:    message,
	}
	jsonEvent, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return rn.redis.Publish(ctx, redisModels.REDIS_CHANNEL_MESSAGES, jsonEvent).Err()
}
