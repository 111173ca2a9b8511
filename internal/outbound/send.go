// Package outbound orchestrates provider delivery of caller-initiated
// sends. Messages are stored before the provider is contacted, so a
// provider outage never loses a message.
package outbound

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zulandar/switchboard/internal/ingest"
	"github.com/zulandar/switchboard/internal/models"
	"github.com/zulandar/switchboard/internal/provider"
	"gorm.io/gorm"
)

// Provider outcome error kinds. The message referenced by the send is
// already persisted when any of these is returned.
var (
	ErrRateLimited = errors.New("outbound: rate limited by provider")
	ErrUnavailable = errors.New("outbound: provider service unavailable")
	ErrUnreachable = errors.New("outbound: provider unreachable")
)

// UnknownStatusError reports an unrecognized provider status code, which
// is passed through to the caller.
type UnknownStatusError struct {
	Code int
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("outbound: unknown provider status %d", e.Code)
}

// UnreachableError wraps the transport failure behind ErrUnreachable so
// callers can report the underlying cause on its own.
type UnreachableError struct {
	Cause error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("outbound: provider unreachable: %v", e.Cause)
}

func (e *UnreachableError) Is(target error) bool { return target == ErrUnreachable }

func (e *UnreachableError) Unwrap() error { return e.Cause }

// Opts holds the fields of an outbound send request.
type Opts struct {
	From        string
	To          string
	Type        ingest.MsgType
	Body        string
	Attachments *string
	Timestamp   time.Time
}

// Send ingests the message, then submits it to the provider. Ingestion
// failure returns before the provider is contacted. Once the message is
// stored, provider failures are reported alongside the persisted message
// and never roll it back.
func Send(ctx context.Context, db *gorm.DB, transport provider.Transport, opts Opts) (*models.Message, error) {
	msg, err := ingest.Ingest(db, ingest.Opts{
		From:        opts.From,
		To:          opts.To,
		Type:        opts.Type,
		Body:        opts.Body,
		Attachments: opts.Attachments,
		Timestamp:   opts.Timestamp,
	})
	if err != nil {
		return nil, err
	}

	status, err := transport.Deliver(ctx, provider.Delivery{
		MessageID: msg.ID,
		MsgType:   msg.MsgType,
		From:      msg.FromAddress,
		To:        msg.ToAddress,
		Body:      msg.Body,
	})
	if err != nil {
		return msg, &UnreachableError{Cause: err}
	}

	switch status {
	case 200:
		return msg, nil
	case 429:
		return msg, ErrRateLimited
	case 500:
		return msg, ErrUnavailable
	default:
		return msg, &UnknownStatusError{Code: status}
	}
}
