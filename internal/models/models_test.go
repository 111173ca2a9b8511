package models

import (
	"reflect"
	"strings"
	"testing"
)

// gormTag extracts the gorm tag from a struct field.
func gormTag(t *testing.T, typ reflect.Type, fieldName string) string {
	t.Helper()
	f, ok := typ.FieldByName(fieldName)
	if !ok {
		t.Fatalf("%s.%s: field not found", typ.Name(), fieldName)
	}
	return f.Tag.Get("gorm")
}

// assertGormTag checks that a struct field's gorm tag contains the expected value.
func assertGormTag(t *testing.T, typ reflect.Type, fieldName, expected string) {
	t.Helper()
	tag := gormTag(t, typ, fieldName)
	if !strings.Contains(tag, expected) {
		t.Errorf("%s.%s gorm tag = %q, want to contain %q", typ.Name(), fieldName, tag, expected)
	}
}

// assertFieldType checks that a struct field has the expected Go type.
func assertFieldType(t *testing.T, typ reflect.Type, fieldName, expectedType string) {
	t.Helper()
	f, ok := typ.FieldByName(fieldName)
	if !ok {
		t.Fatalf("%s.%s: field not found", typ.Name(), fieldName)
	}
	got := f.Type.String()
	if got != expectedType {
		t.Errorf("%s.%s type = %q, want %q", typ.Name(), fieldName, got, expectedType)
	}
}

func TestConversation_Fields(t *testing.T) {
	typ := reflect.TypeOf(Conversation{})

	assertGormTag(t, typ, "ID", "primaryKey")
	assertGormTag(t, typ, "ParticipantA", "not null")
	assertGormTag(t, typ, "ParticipantA", "uniqueIndex:idx_participant_pair")
	assertGormTag(t, typ, "ParticipantB", "not null")
	assertGormTag(t, typ, "ParticipantB", "uniqueIndex:idx_participant_pair")
	assertGormTag(t, typ, "Messages", "OnDelete:CASCADE")
}

func TestMessage_Fields(t *testing.T) {
	typ := reflect.TypeOf(Message{})

	assertGormTag(t, typ, "ID", "primaryKey")
	assertGormTag(t, typ, "ConversationID", "not null")
	assertGormTag(t, typ, "ConversationID", "index")
	assertGormTag(t, typ, "MsgType", "size:10")
	assertGormTag(t, typ, "FromAddress", "not null")
	assertGormTag(t, typ, "ToAddress", "not null")
	assertGormTag(t, typ, "Body", "type:text")
	assertGormTag(t, typ, "Timestamp", "not null")
	assertGormTag(t, typ, "Attachments", "type:json")
}

func TestMessage_OptionalFieldsAreNullable(t *testing.T) {
	typ := reflect.TypeOf(Message{})

	// Nullable columns must be pointers so NULL survives a round-trip.
	assertFieldType(t, typ, "Attachments", "*string")
	assertFieldType(t, typ, "ProviderMessageID", "*string")
}
