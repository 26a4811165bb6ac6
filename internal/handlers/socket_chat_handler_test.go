package handlers

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"directChat/internal/enums"
	"directChat/internal/models"
	redisModels "directChat/internal/models/redis"
	"directChat/internal/services"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The notifier publish and the fan-in subscribe share one channel; an event
// published on a confirmed insert must come out the other end intact.
func TestNotifierToSubscriberRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	ctx := context.Background()

	handler := NewSocketChatHandler(client, ctx, nil)
	ch := handler.SubscribeToChannel(client, redisModels.REDIS_CHANNEL_MESSAGES)

	message := &models.Message{SenderID: 1, ReceiverID: 2, Content: "hola"}
	message.ID = 7
	message.CreatedAt = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	notifier := services.NewRedisMessageNotifier(client)
	require.NoError(t, notifier.NotifyMessageCreated(ctx, message))

	select {
	case raw := <-ch:
		var event redisModels.RedisReceivedMessage
		require.NoError(t, json.Unmarshal([]byte(raw.Payload), &event))
		assert.Equal(t, enums.SOCKET_EVENT_MESSAGE_CREATED, event.Event)
		assert.Equal(t, uint(2), event.ReceiverID)

		var decoded models.Message
		require.NoError(t, json.Unmarshal(event.Payload, &decoded))
		assert.Equal(t, uint(7), decoded.ID)
		assert.Equal(t, uint(1), decoded.SenderID)
		assert.Equal(t, "hola", decoded.Content)
		assert.False(t, decoded.IsRead)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for published event")
	}
}
