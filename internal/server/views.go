package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/zulandar/switchboard/internal/models"
)

// timestampLayout is ISO-8601 without a timezone offset, matching how
// timestamps are rendered to clients.
const timestampLayout = "2006-01-02T15:04:05"

// timestampParseLayouts are accepted on input, most specific first.
var timestampParseLayouts = []string{
	time.RFC3339,
	timestampLayout,
	"2006-01-02 15:04:05",
}

// MessageView is the client-facing JSON shape of a message.
type MessageView struct {
	ID          uint            `json:"id"`
	MsgType     string          `json:"msg_type"`
	FromAddress string          `json:"from_address"`
	ToAddress   string          `json:"to_address"`
	Body        string          `json:"body"`
	Attachments json.RawMessage `json:"attachments"`
	Timestamp   string          `json:"timestamp"`
}

// ConversationView is the client-facing JSON shape of a conversation with
// its messages.
type ConversationView struct {
	ParticipantA string        `json:"participant_a"`
	ParticipantB string        `json:"participant_b"`
	Messages     []MessageView `json:"messages"`
}

// messageView converts a stored message. A NULL attachments column comes
// back as a nil RawMessage, which marshals to JSON null.
func messageView(m models.Message) MessageView {
	var attachments json.RawMessage
	if m.Attachments != nil {
		attachments = json.RawMessage(*m.Attachments)
	}
	return MessageView{
		ID:          m.ID,
		MsgType:     m.MsgType,
		FromAddress: m.FromAddress,
		ToAddress:   m.ToAddress,
		Body:        m.Body,
		Attachments: attachments,
		Timestamp:   m.Timestamp.Format(timestampLayout),
	}
}

// messageViews converts a message list, always returning a non-nil slice
// so an empty conversation serializes as [].
func messageViews(msgs []models.Message) []MessageView {
	views := make([]MessageView, len(msgs))
	for i, m := range msgs {
		views[i] = messageView(m)
	}
	return views
}

func conversationView(c models.Conversation) ConversationView {
	return ConversationView{
		ParticipantA: c.ParticipantA,
		ParticipantB: c.ParticipantB,
		Messages:     messageViews(c.Messages),
	}
}

// parseTimestamp accepts RFC 3339 or offset-less ISO-8601 timestamps.
func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampParseLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("server: unparseable timestamp %q", s)
}

// attachmentsColumn converts the raw attachments JSON from a request into
// the nullable column value, preserving the null / [] / list distinction.
func attachmentsColumn(raw json.RawMessage) (*string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, fmt.Errorf("server: invalid attachments: %w", err)
	}
	s := buf.String()
	return &s, nil
}
