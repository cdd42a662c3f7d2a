package postgres

import (
	"context"
	"time"

	"github.com/manosbatsis/bw-sometime/internal/reminder"
)

func (s *Store) Create(ctx context.Context, r *reminder.Reminder) (*reminder.Reminder, error) {
	stored := *r
	err := s.pool.QueryRow(ctx, `
        INSERT INTO reminders (owner_id, recipient, event_start, event_end, send_time, event_data)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING reminder_id
    `, r.OwnerID, r.Recipient, r.EventStart, r.EventEnd, r.SendTime, r.EventData).Scan(&stored.ID)
	if err != nil {
		s.logger.Error().Err(err).
			Int64("owner_id", r.OwnerID).
			Str("recipient", r.Recipient).
			Msg("failed to store reminder")
		return nil, err
	}
	return &stored, nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM reminders WHERE reminder_id = $1`, id)
	if err != nil {
		return err
	}
	s.logger.Debug().
		Int64("reminder_id", id).
		Int64("rows", tag.RowsAffected()).
		Msg("deleted reminder")
	return nil
}

func (s *Store) Get(ctx context.Context, ownerID int64, recipient string, start, end time.Time) (*reminder.Reminder, error) {
	rows, err := s.pool.Query(ctx, `
        SELECT reminder_id, owner_id, recipient, event_start, event_end, send_time, event_data
        FROM reminders
        WHERE owner_id = $1 AND recipient = $2 AND event_start = $3 AND event_end = $4
    `, ownerID, recipient, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results, err := scanReminders(rows)
	if err != nil {
		return nil, err
	}
	switch len(results) {
	case 0:
		return nil, nil
	case 1:
		return results[0], nil
	default:
		return nil, reminder.ErrAmbiguousReminder
	}
}

func (s *Store) ListForBlock(ctx context.Context, ownerID int64, start, end time.Time) ([]*reminder.Reminder, error) {
	rows, err := s.pool.Query(ctx, `
        SELECT reminder_id, owner_id, recipient, event_start, event_end, send_time, event_data
        FROM reminders
        WHERE owner_id = $1 AND event_start = $2 AND event_end = $3
        ORDER BY reminder_id ASC
    `, ownerID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReminders(rows)
}

func (s *Store) Pending(ctx context.Context, now time.Time) ([]*reminder.Reminder, error) {
	rows, err := s.pool.Query(ctx, `
        SELECT reminder_id, owner_id, recipient, event_start, event_end, send_time, event_data
        FROM reminders
        WHERE send_time <= $1
        ORDER BY send_time ASC
    `, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReminders(rows)
}

type pgxRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanReminders(rows pgxRows) ([]*reminder.Reminder, error) {
	var out []*reminder.Reminder
	for rows.Next() {
		var r reminder.Reminder
		if err := rows.Scan(&r.ID, &r.OwnerID, &r.Recipient, &r.EventStart, &r.EventEnd, &r.SendTime, &r.EventData); err != nil {
			return nil, err
		}
		out = append(out, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
