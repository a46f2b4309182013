package statedb

import (
	"context"
	"database/sql"
	"time"
)

// OutboxEntry is one undelivered sync event awaiting dispatch. Entries are
// drained in id order so remote events arrive in transition order.
type OutboxEntry struct {
	ID        int64
	EventID   string
	Action    string
	BedID     int
	Payload   []byte
	Attempts  int
	LastError string
	CreatedAt time.Time
}

// AppendOutbox queues an outbound event durably. The payload is the exact
// body the dispatcher will POST.
func (d *DB) AppendOutbox(ctx context.Context, eventID, action string, bedID int, payload []byte) error {
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO outbox (event_id, action, bed_id, payload, attempts, created_at)
         VALUES (?, ?, ?, ?, 0, ?)`,
		eventID, action, bedID, string(payload), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return persistenceErr("append outbox", err)
	}
	return nil
}

// PendingOutbox returns up to limit undelivered events, oldest first.
func (d *DB) PendingOutbox(ctx context.Context, limit int) ([]OutboxEntry, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT id, event_id, action, bed_id, payload, attempts, last_error, created_at
         FROM outbox ORDER BY id LIMIT ?`, limit)
	if err != nil {
		return nil, persistenceErr("list outbox", err)
	}
	defer rows.Close()

	var entries []OutboxEntry
	for rows.Next() {
		var (
			entry      OutboxEntry
			payload    string
			lastError  sql.NullString
			createdRaw string
		)
		if err := rows.Scan(&entry.ID, &entry.EventID, &entry.Action, &entry.BedID, &payload, &entry.Attempts, &lastError, &createdRaw); err != nil {
			return nil, persistenceErr("scan outbox row", err)
		}
		entry.Payload = []byte(payload)
		entry.LastError = lastError.String
		if created, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
			entry.CreatedAt = created
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// MarkOutboxDelivered removes a delivered event from the queue.
func (d *DB) MarkOutboxDelivered(ctx context.Context, id int64) error {
	if _, err := d.db.ExecContext(ctx, `DELETE FROM outbox WHERE id = ?`, id); err != nil {
		return persistenceErr("delete outbox entry", err)
	}
	return nil
}

// MarkOutboxFailed records a failed delivery attempt, keeping the event
// queued for the next round.
func (d *DB) MarkOutboxFailed(ctx context.Context, id int64, cause string) error {
	if _, err := d.db.ExecContext(ctx,
		`UPDATE outbox SET attempts = attempts + 1, last_error = ? WHERE id = ?`,
		cause, id,
	); err != nil {
		return persistenceErr("record outbox failure", err)
	}
	return nil
}

// OutboxDepth returns the number of undelivered events.
func (d *DB) OutboxDepth(ctx context.Context) (int, error) {
	var depth int
	if err := d.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM outbox`).Scan(&depth); err != nil {
		return 0, persistenceErr("count outbox", err)
	}
	return depth, nil
}
