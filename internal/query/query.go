// Package query provides read-only access to conversation history.
package query

import (
	"errors"
	"fmt"

	"github.com/zulandar/switchboard/internal/models"
	"gorm.io/gorm"
)

// ErrNotFound reports a lookup of a conversation that does not exist.
var ErrNotFound = errors.New("query: conversation not found")

// ListConversations returns every conversation ordered by id, each with
// its messages ordered ascending by timestamp.
func ListConversations(db *gorm.DB) ([]models.Conversation, error) {
	var convs []models.Conversation
	err := db.
		Preload("Messages", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("timestamp ASC")
		}).
		Order("id ASC").
		Find(&convs).Error
	if err != nil {
		return nil, fmt.Errorf("query: list conversations: %w", err)
	}
	return convs, nil
}

// ConversationMessages returns the messages of one conversation ordered
// ascending by timestamp, or ErrNotFound if the id is unknown.
func ConversationMessages(db *gorm.DB, id uint) ([]models.Message, error) {
	var conv models.Conversation
	if err := db.First(&conv, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query: lookup conversation %d: %w", id, err)
	}

	var msgs []models.Message
	if err := db.Where("conversation_id = ?", id).
		Order("timestamp ASC").
		Find(&msgs).Error; err != nil {
		return nil, fmt.Errorf("query: messages for conversation %d: %w", id, err)
	}
	return msgs, nil
}
