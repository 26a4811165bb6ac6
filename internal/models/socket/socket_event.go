package models

import (
	"encoding/json"
)

type SocketEvent struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

type SendMessagePayload struct {
	ReceiverID uint   `json:"receiver_id"`
	Content    string `json:"content"`
}

type OpenThreadPayload struct {
	PartnerID uint `json:"partner_id"`
}
