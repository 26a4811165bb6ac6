package models

import (
	"gorm.io/gorm"
)

// Message is a single direct message between two users. Rows are immutable
// after creation except for the one-way IsRead flip performed by the receiver.
type Message struct {
	gorm.Model
	SenderID   uint   `gorm:"not null;index" json:"sender_id"`
	ReceiverID uint   `gorm:"not null;index" json:"receiver_id"`
	Content    string `gorm:"not null" json:"content"`
	IsRead     bool   `gorm:"not null;default:false" json:"is_read"`
}

// PartnerOf returns the other side of the message relative to userId.
func (m *Message) PartnerOf(userId uint) uint {
	if m.SenderID == userId {
		return m.ReceiverID
	}
	return m.SenderID
}
