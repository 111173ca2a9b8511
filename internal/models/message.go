package models

import "time"

// Message is a single email, SMS or MMS within a conversation. Rows are
// immutable once created.
type Message struct {
	ID             uint      `gorm:"primaryKey;autoIncrement"`
	ConversationID uint      `gorm:"not null;index"`
	MsgType        string    `gorm:"size:10;not null"`
	FromAddress    string    `gorm:"size:255;not null"`
	ToAddress      string    `gorm:"size:255;not null"`
	Body           string    `gorm:"type:text"`
	Timestamp      time.Time `gorm:"not null;index"`
	CreatedAt      time.Time

	// Attachments holds the raw JSON value from the request ("null" is
	// stored as a NULL column) so null, [] and populated lists all
	// round-trip exactly.
	Attachments *string `gorm:"type:json"`

	// ProviderMessageID is set only for webhook-delivered messages. The
	// email provider calls this xillio_id; sms/mms providers call it
	// messaging_provider_id.
	ProviderMessageID *string `gorm:"size:255"`
}
