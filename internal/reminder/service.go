package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/manosbatsis/bw-sometime/internal/config"
	"github.com/manosbatsis/bw-sometime/internal/directory"
	"github.com/manosbatsis/bw-sometime/pkg/ical"

	"github.com/rs/zerolog"
)

// Deliverer sends a due reminder to its recipient.
type Deliverer func(ctx context.Context, r *Reminder) error

// Service schedules reminders for appointment blocks and dispatches the
// pending ones.
type Service struct {
	store           Store
	logger          zerolog.Logger
	identifyingAttr string
	cfg             config.ReminderConfig
	expander        *ical.RecurrenceExpander

	now func() time.Time
}

func NewService(store Store, identifyingAttr string, cfg config.ReminderConfig, logger zerolog.Logger) *Service {
	return &Service{
		store:           store,
		logger:          logger,
		identifyingAttr: identifyingAttr,
		cfg:             cfg,
		expander:        ical.NewRecurrenceExpander(time.UTC),
		now:             time.Now,
	}
}

// ScheduleForEvent stores one reminder per occurrence of the appointment
// described by icsData, each due lead before the occurrence start.
// Recurring appointments are expanded inside the configured window.
func (s *Service) ScheduleForEvent(ctx context.Context, ownerID int64, recipient directory.Account, icsData []byte, lead time.Duration) ([]*Reminder, error) {
	recipientID, err := RecipientIdentifier(recipient, s.identifyingAttr)
	if err != nil {
		s.logger.Error().Err(err).
			Str("identifying_attr", s.identifyingAttr).
			Str("unique_id", recipient.UniqueID()).
			Msg("cannot schedule reminder without identifying attribute; check LDAP_IDENTIFYING_ATTR")
		return nil, err
	}

	events, err := ical.ParseEvents(icsData)
	if err != nil {
		return nil, fmt.Errorf("parse event data: %w", err)
	}

	windowStart := s.now()
	windowEnd := windowStart.Add(s.cfg.ExpansionWindow)
	occurrences, err := s.expander.Expand(events, windowStart, windowEnd)
	if err != nil {
		return nil, fmt.Errorf("expand recurrences: %w", err)
	}

	var created []*Reminder
	for _, occ := range occurrences {
		r := &Reminder{
			OwnerID:    ownerID,
			Recipient:  recipientID,
			EventStart: occ.Start,
			EventEnd:   occ.End(),
			SendTime:   occ.Start.Add(-lead),
			EventData:  string(icsData),
		}
		stored, err := s.store.Create(ctx, r)
		if err != nil {
			return created, fmt.Errorf("store reminder: %w", err)
		}
		created = append(created, stored)
	}
	return created, nil
}

// Cancel removes the reminder for a specific appointment block, if any.
func (s *Service) Cancel(ctx context.Context, ownerID int64, recipient directory.Account, start, end time.Time) error {
	recipientID, err := RecipientIdentifier(recipient, s.identifyingAttr)
	if err != nil {
		return err
	}
	r, err := s.store.Get(ctx, ownerID, recipientID, start, end)
	if err != nil {
		return err
	}
	if r == nil {
		return nil
	}
	return s.store.Delete(ctx, r.ID)
}

// DispatchPending delivers every reminder due at now, deleting each on
// success. A failed delivery is logged and the reminder kept for the next
// pass; one bad reminder never blocks the rest of the batch.
func (s *Service) DispatchPending(ctx context.Context, deliver Deliverer) (int, error) {
	pending, err := s.store.Pending(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("load pending reminders: %w", err)
	}

	sent := 0
	for _, r := range pending {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		if err := deliver(ctx, r); err != nil {
			s.logger.Warn().Err(err).
				Int64("reminder_id", r.ID).
				Str("recipient", r.Recipient).
				Msg("reminder delivery failed, will retry next pass")
			continue
		}
		if err := s.store.Delete(ctx, r.ID); err != nil {
			s.logger.Error().Err(err).
				Int64("reminder_id", r.ID).
				Msg("failed to delete delivered reminder")
			continue
		}
		sent++
	}
	return sent, nil
}

// Run polls for pending reminders until the context is canceled.
func (s *Service) Run(ctx context.Context, deliver Deliverer) {
	ticker := time.NewTicker(s.cfg.DispatchInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sent, err := s.DispatchPending(ctx, deliver)
			if err != nil && ctx.Err() == nil {
				s.logger.Error().Err(err).Msg("reminder dispatch pass failed")
			}
			if sent > 0 {
				s.logger.Info().Int("sent", sent).Msg("dispatched reminders")
			}
		}
	}
}
