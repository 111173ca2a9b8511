package models

import "time"

// Conversation groups every message exchanged between a pair of addresses.
// A participant is just an email address or phone number; the pair is
// stored sorted so the row is the same regardless of who sent first.
type Conversation struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"`
	ParticipantA string `gorm:"size:255;not null;uniqueIndex:idx_participant_pair"`
	ParticipantB string `gorm:"size:255;not null;uniqueIndex:idx_participant_pair"`
	CreatedAt    time.Time

	Messages []Message `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE"`
}
