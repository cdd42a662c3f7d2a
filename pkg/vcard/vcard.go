package vcard

import (
	"bytes"
	"errors"

	"github.com/manosbatsis/bw-sometime/internal/directory"

	govcard "github.com/emersion/go-vcard"
	"github.com/google/uuid"
)

// FromAccount renders a resolved directory account as a version 4.0
// vCard. Delegate accounts contribute their location and contact info;
// rooms and shared calendars get KIND not tied to an individual.
func FromAccount(account directory.Account) ([]byte, error) {
	if account == nil {
		return nil, errors.New("no account")
	}

	card := make(govcard.Card)

	fn := account.DisplayName()
	if fn == "" {
		fn = account.Username()
	}
	if fn == "" {
		return nil, errors.New("account has neither display name nor username")
	}
	card.SetValue(govcard.FieldFormattedName, fn)

	uid := account.UniqueID()
	if uid == "" {
		uid = uuid.NewString()
	}
	card.SetValue(govcard.FieldUID, uid)

	if email := account.Email(); email != "" {
		card.SetValue(govcard.FieldEmail, email)
	}

	if delegate, ok := account.(*directory.DelegateAccount); ok {
		card.SetValue(govcard.FieldKind, "location")
		if loc := delegate.Location(); loc != "" {
			card.SetValue(govcard.FieldAddress, loc)
		}
		if tel := delegate.ContactInfo(); tel != "" {
			card.SetValue(govcard.FieldTelephone, tel)
		}
	} else {
		card.SetValue(govcard.FieldKind, "individual")
	}

	govcard.ToV4(card)

	var buf bytes.Buffer
	if err := govcard.NewEncoder(&buf).Encode(card); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
