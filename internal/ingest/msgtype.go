package ingest

// MsgType is the channel a message travels over.
type MsgType string

// Recognized message channels.
const (
	Email MsgType = "email"
	SMS   MsgType = "sms"
	MMS   MsgType = "mms"
)

// providerIDFields maps each channel to the webhook JSON field carrying
// the provider's message identifier. The email provider uses its own name
// for the same concept.
var providerIDFields = map[MsgType]string{
	Email: "xillio_id",
	SMS:   "messaging_provider_id",
	MMS:   "messaging_provider_id",
}

// Valid reports whether t is a recognized channel.
func (t MsgType) Valid() bool {
	_, ok := providerIDFields[t]
	return ok
}

// ProviderIDField returns the webhook field name holding the provider
// message id for this channel, or "" for an unrecognized channel.
func (t MsgType) ProviderIDField() string {
	return providerIDFields[t]
}
