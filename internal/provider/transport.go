// Package provider models the external delivery provider for outbound
// messages. The core only depends on the status outcome of a delivery.
package provider

import "context"

// Delivery carries the essential fields of a persisted message being
// submitted to the provider.
type Delivery struct {
	MessageID uint
	MsgType   string
	From      string
	To        string
	Body      string
}

// Transport submits a message to the delivery provider and reports the
// provider's HTTP status code. A non-nil error means the provider could
// not be reached at all (network failure, timeout); the status code is
// meaningless in that case.
type Transport interface {
	Deliver(ctx context.Context, d Delivery) (int, error)
}
