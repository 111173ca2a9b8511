// Package ingest persists messages and groups them into conversations.
package ingest

import (
	"errors"
	"fmt"
	"time"

	"github.com/zulandar/switchboard/internal/models"
	"gorm.io/gorm"
)

// ErrInvalidMessage reports a validation or constraint failure while
// ingesting a message. Nothing is committed when it is returned.
var ErrInvalidMessage = errors.New("ingest: invalid message")

// Opts holds the fields of a message to ingest. ProviderMessageID is nil
// for outbound sends and set for webhook deliveries.
type Opts struct {
	From              string
	To                string
	Type              MsgType
	Body              string
	Attachments       *string
	Timestamp         time.Time
	ProviderMessageID *string
}

// ResolveConversation finds or creates the conversation for a pair of
// addresses. The pair is sorted first, so (a, b) and (b, a) resolve to the
// same row. A concurrent first contact that loses the race on the unique
// pair index re-reads the winner's row, or reports the conflict when that
// row is not yet visible to the current transaction.
func ResolveConversation(tx *gorm.DB, addrA, addrB string) (*models.Conversation, error) {
	if addrA > addrB {
		addrA, addrB = addrB, addrA
	}

	var conv models.Conversation
	err := tx.Where("participant_a = ? AND participant_b = ?", addrA, addrB).First(&conv).Error
	if err == nil {
		return &conv, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("ingest: lookup conversation: %w", err)
	}

	conv = models.Conversation{ParticipantA: addrA, ParticipantB: addrB}
	if err := tx.Create(&conv).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the race. The winner's row may not be visible in this
			// transaction's read snapshot (InnoDB REPEATABLE READ pins
			// the snapshot before the winner commits), so a miss here is
			// not authoritative: surface the conflict and let Ingest
			// retry on a fresh snapshot.
			var existing models.Conversation
			reread := tx.Where("participant_a = ? AND participant_b = ?", addrA, addrB).
				First(&existing).Error
			if reread == nil {
				return &existing, nil
			}
			if errors.Is(reread, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("ingest: conversation pair conflict: %w", err)
			}
			return nil, fmt.Errorf("ingest: re-read conversation after conflict: %w", reread)
		}
		return nil, fmt.Errorf("ingest: create conversation: %w", err)
	}
	return &conv, nil
}

// Ingest resolves the conversation and inserts the message as one atomic
// unit. If the insert fails after a conversation was created, the whole
// transaction rolls back and no orphaned conversation is left behind.
// Validation and constraint failures come back as ErrInvalidMessage;
// storage faults are returned as-is.
func Ingest(db *gorm.DB, opts Opts) (*models.Message, error) {
	if err := validate(opts); err != nil {
		return nil, err
	}

	msg, err := ingestOnce(db, opts)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// A concurrent first contact won the pair index while our snapshot
		// couldn't see its row. The retry opens a fresh transaction, and
		// with it a fresh snapshot that resolves to the winner.
		msg, err = ingestOnce(db, opts)
	}
	if err != nil {
		if constraintViolation(err) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
		}
		return nil, err
	}
	return msg, nil
}

func ingestOnce(db *gorm.DB, opts Opts) (*models.Message, error) {
	var msg models.Message
	err := db.Transaction(func(tx *gorm.DB) error {
		conv, err := ResolveConversation(tx, opts.From, opts.To)
		if err != nil {
			return err
		}

		msg = models.Message{
			ConversationID:    conv.ID,
			MsgType:           string(opts.Type),
			FromAddress:       opts.From,
			ToAddress:         opts.To,
			Body:              opts.Body,
			Attachments:       opts.Attachments,
			Timestamp:         opts.Timestamp,
			ProviderMessageID: opts.ProviderMessageID,
		}
		if err := tx.Create(&msg).Error; err != nil {
			return fmt.Errorf("ingest: create message: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// constraintViolation reports whether err is a database constraint failure,
// as opposed to a storage-layer fault such as a lost connection.
func constraintViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		errors.Is(err, gorm.ErrForeignKeyViolated) ||
		errors.Is(err, gorm.ErrCheckConstraintViolated)
}

// validate checks the ingestion preconditions.
func validate(opts Opts) error {
	if opts.From == "" {
		return fmt.Errorf("%w: from is required", ErrInvalidMessage)
	}
	if opts.To == "" {
		return fmt.Errorf("%w: to is required", ErrInvalidMessage)
	}
	if !opts.Type.Valid() {
		return fmt.Errorf("%w: unrecognized type %q", ErrInvalidMessage, opts.Type)
	}
	if opts.Timestamp.IsZero() {
		return fmt.Errorf("%w: timestamp is required", ErrInvalidMessage)
	}
	return nil
}
