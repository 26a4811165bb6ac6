package models

import "time"

// Conversation is the derived one-row-per-partner summary shown in a
// conversation list. It is never stored; it is a projection over messages.
type Conversation struct {
	PartnerID      uint          `json:"partner_id"`
	PartnerProfile *UserResponse `json:"partner_profile"`
	LastMessage    string        `json:"last_message"`
	LastMessageAt  time.Time     `json:"last_message_at"`
	UnreadCount    int           `json:"unread_count"`
}
