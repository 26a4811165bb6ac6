package models

import "encoding/json"

const REDIS_CHANNEL_MESSAGES = "messages_channel"

// RedisPublishedMessage is the change-notification envelope fanned out on
// every confirmed message insert. ReceiverID routes the event to the one
// session allowed to observe it.
type RedisPublishedMessage struct {
	Event      string `json:"event"`
	ReceiverID uint   `json:"receiver_id"`
	Payload    any    `json:"payload"`
}

// RedisReceivedMessage is the subscriber-side view of the same envelope,
// with the payload left raw for per-event decoding.
type RedisReceivedMessage struct {
	Event      string          `json:"event"`
	ReceiverID uint            `json:"receiver_id"`
	Payload    json.RawMessage `json:"payload"`
}
