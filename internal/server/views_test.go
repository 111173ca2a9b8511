package server

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/zulandar/switchboard/internal/models"
)

func TestParseTimestamp_Layouts(t *testing.T) {
	cases := []string{
		"2024-11-01T14:00:00Z",
		"2024-11-01T14:00:00-05:00",
		"2024-11-01T14:00:00",
		"2024-11-01 14:00:00",
	}
	for _, in := range cases {
		if _, err := parseTimestamp(in); err != nil {
			t.Errorf("parseTimestamp(%q): %v", in, err)
		}
	}
}

func TestParseTimestamp_Invalid(t *testing.T) {
	for _, in := range []string{"", "yesterday", "01/11/2024"} {
		if _, err := parseTimestamp(in); err == nil {
			t.Errorf("parseTimestamp(%q): expected error", in)
		}
	}
}

func TestAttachmentsColumn(t *testing.T) {
	cases := []struct {
		raw  string
		want *string // nil means NULL
	}{
		{"", nil},
		{"null", nil},
		{"[]", strPtr("[]")},
		{"[ \"u1\", \"u2\" ]", strPtr(`["u1","u2"]`)},
	}
	for _, tc := range cases {
		got, err := attachmentsColumn(json.RawMessage(tc.raw))
		if err != nil {
			t.Fatalf("attachmentsColumn(%q): %v", tc.raw, err)
		}
		switch {
		case tc.want == nil && got != nil:
			t.Errorf("attachmentsColumn(%q) = %q, want nil", tc.raw, *got)
		case tc.want != nil && (got == nil || *got != *tc.want):
			t.Errorf("attachmentsColumn(%q) = %v, want %q", tc.raw, got, *tc.want)
		}
	}
}

func TestAttachmentsColumn_Invalid(t *testing.T) {
	if _, err := attachmentsColumn(json.RawMessage("[broken")); err == nil {
		t.Error("expected error for invalid attachments JSON")
	}
}

func TestMessageView_Shape(t *testing.T) {
	attachments := `["u1"]`
	pid := "message-1"
	m := models.Message{
		ID:                3,
		MsgType:           "mms",
		FromAddress:       "a",
		ToAddress:         "b",
		Body:              "pic",
		Attachments:       &attachments,
		Timestamp:         time.Date(2024, 11, 1, 14, 0, 0, 0, time.UTC),
		ProviderMessageID: &pid,
	}

	data, err := json.Marshal(messageView(m))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out map[string]json.RawMessage
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	for _, field := range []string{"id", "msg_type", "from_address", "to_address", "body", "attachments", "timestamp"} {
		if _, ok := out[field]; !ok {
			t.Errorf("serialized message missing %q", field)
		}
	}
	// The provider id is internal and never serialized.
	if _, ok := out["provider_message_id"]; ok {
		t.Error("provider_message_id must not be exposed")
	}
	if string(out["timestamp"]) != `"2024-11-01T14:00:00"` {
		t.Errorf("timestamp = %s, want offset-less ISO-8601", out["timestamp"])
	}
	if string(out["attachments"]) != `["u1"]` {
		t.Errorf("attachments = %s", out["attachments"])
	}
}

func TestMessageView_NullAttachments(t *testing.T) {
	m := models.Message{Timestamp: time.Date(2024, 11, 1, 14, 0, 0, 0, time.UTC)}
	data, err := json.Marshal(messageView(m))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out map[string]json.RawMessage
	json.Unmarshal(data, &out)
	if string(out["attachments"]) != "null" {
		t.Errorf("attachments = %s, want null", out["attachments"])
	}
}

func strPtr(s string) *string { return &s }
