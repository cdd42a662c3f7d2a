package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/manosbatsis/bw-sometime/internal/reminder"
)

func (s *Store) Create(ctx context.Context, r *reminder.Reminder) (*reminder.Reminder, error) {
	res, err := s.db.ExecContext(ctx, `
        INSERT INTO reminders (owner_id, recipient, event_start, event_end, send_time, event_data)
        VALUES (?, ?, ?, ?, ?, ?)
    `, r.OwnerID, r.Recipient, r.EventStart.UTC(), r.EventEnd.UTC(), r.SendTime.UTC(), r.EventData)
	if err != nil {
		s.logger.Error().Err(err).
			Int64("owner_id", r.OwnerID).
			Str("recipient", r.Recipient).
			Msg("failed to store reminder")
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	stored := *r
	stored.ID = id
	return &stored, nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reminders WHERE reminder_id = ?`, id)
	if err != nil {
		return err
	}
	rows, _ := res.RowsAffected()
	s.logger.Debug().
		Int64("reminder_id", id).
		Int64("rows", rows).
		Msg("deleted reminder")
	return nil
}

func (s *Store) Get(ctx context.Context, ownerID int64, recipient string, start, end time.Time) (*reminder.Reminder, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT reminder_id, owner_id, recipient, event_start, event_end, send_time, event_data
        FROM reminders
        WHERE owner_id = ? AND recipient = ? AND event_start = ? AND event_end = ?
    `, ownerID, recipient, start.UTC(), end.UTC())
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
	rows, err := s.db.QueryContext(ctx, `
        SELECT reminder_id, owner_id, recipient, event_start, event_end, send_time, event_data
        FROM reminders
        WHERE owner_id = ? AND event_start = ? AND event_end = ?
        ORDER BY reminder_id ASC
    `, ownerID, start.UTC(), end.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReminders(rows)
}

func (s *Store) Pending(ctx context.Context, now time.Time) ([]*reminder.Reminder, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT reminder_id, owner_id, recipient, event_start, event_end, send_time, event_data
        FROM reminders
        WHERE send_time <= ?
        ORDER BY send_time ASC
    `, now.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReminders(rows)
}

func scanReminders(rows *sql.Rows) ([]*reminder.Reminder, error) {
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
