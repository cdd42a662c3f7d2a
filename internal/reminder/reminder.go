package reminder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/manosbatsis/bw-sometime/internal/directory"
)

// Reminder is a time-bound notification tied to an appointment block
// between a schedule owner and a recipient account. Recipient holds the
// value of the deployment's identifying attribute, not a directory DN.
type Reminder struct {
	ID         int64
	OwnerID    int64
	Recipient  string
	EventStart time.Time
	EventEnd   time.Time
	SendTime   time.Time
	// EventData carries the iCalendar payload for the appointment.
	EventData string
}

// ErrMissingIdentifier reports an account lacking the configured
// identifying attribute. This is a deployment or data problem, not a
// transient condition: the operation halts rather than retries.
var ErrMissingIdentifier = errors.New("identifying attribute not present on account")

// ErrAmbiguousReminder is returned by single-result reminder lookups when
// more than one row matches the block key.
var ErrAmbiguousReminder = errors.New("more than one reminder matched")

// Store persists reminders keyed to (owner, recipient, appointment block).
type Store interface {
	Close()
	Create(ctx context.Context, r *Reminder) (*Reminder, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, ownerID int64, recipient string, start, end time.Time) (*Reminder, error)
	ListForBlock(ctx context.Context, ownerID int64, start, end time.Time) ([]*Reminder, error)
	Pending(ctx context.Context, now time.Time) ([]*Reminder, error)
}

// RecipientIdentifier extracts the identifying attribute from an account
// via the single-value policy. Absence (or multi-valued ambiguity) is
// ErrMissingIdentifier.
func RecipientIdentifier(account directory.Account, identifyingAttr string) (string, error) {
	id := account.AttributeValue(identifyingAttr)
	if id == "" {
		return "", fmt.Errorf("%w: attribute %q, account %q", ErrMissingIdentifier, identifyingAttr, account.UniqueID())
	}
	return id, nil
}
