package api

import (
	"time"

	"github.com/manosbatsis/bw-sometime/internal/directory"
	"github.com/manosbatsis/bw-sometime/internal/reminder"
)

type personJSON struct {
	UniqueID    string `json:"uniqueId"`
	DisplayName string `json:"displayName"`
	Username    string `json:"username"`
	Email       string `json:"email,omitempty"`
	Eligible    bool   `json:"eligible"`
}

type delegateJSON struct {
	UniqueID    string `json:"uniqueId"`
	DisplayName string `json:"displayName"`
	Username    string `json:"username"`
	Email       string `json:"email,omitempty"`
	Eligible    bool   `json:"eligible"`
	Location    string `json:"location,omitempty"`
	ContactInfo string `json:"contactInfo,omitempty"`
}

type reminderJSON struct {
	ID         int64     `json:"id"`
	OwnerID    int64     `json:"ownerId"`
	Recipient  string    `json:"recipient"`
	EventStart time.Time `json:"eventStart"`
	EventEnd   time.Time `json:"eventEnd"`
	SendTime   time.Time `json:"sendTime"`
}

type scheduleRequest struct {
	OwnerID           int64  `json:"ownerId"`
	RecipientUsername string `json:"recipientUsername"`
	LeadMinutes       int    `json:"leadMinutes"`
	EventData         string `json:"eventData"`
}

type errorJSON struct {
	Error string `json:"error"`
}

func toPersonJSON(p *directory.PersonAccount) personJSON {
	return personJSON{
		UniqueID:    p.UniqueID(),
		DisplayName: p.DisplayName(),
		Username:    p.Username(),
		Email:       p.Email(),
		Eligible:    p.Eligible(),
	}
}

func toDelegateJSON(d *directory.DelegateAccount) delegateJSON {
	return delegateJSON{
		UniqueID:    d.UniqueID(),
		DisplayName: d.DisplayName(),
		Username:    d.Username(),
		Email:       d.Email(),
		Eligible:    d.Eligible(),
		Location:    d.Location(),
		ContactInfo: d.ContactInfo(),
	}
}

func toReminderJSON(r *reminder.Reminder) reminderJSON {
	return reminderJSON{
		ID:         r.ID,
		OwnerID:    r.OwnerID,
		Recipient:  r.Recipient,
		EventStart: r.EventStart,
		EventEnd:   r.EventEnd,
		SendTime:   r.SendTime,
	}
}
